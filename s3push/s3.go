// Package s3push uploads rotated logs to S3 or any S3-compatible store.
// Uploads are single PutObject calls: no retries beyond the SDK's own
// transport retries, no multipart.
package s3push

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Custom errors returned by this package.
var (
	ErrCredentials = errors.New("missing S3 credentials")
	ErrRemoteAuth  = errors.New("S3 authentication failed")
	ErrUpload      = errors.New("upload failed")
)

// DefaultRegion is used when Options.Region is empty.
const DefaultRegion = "us-east-1"

// API is the part of the S3 client this package uses. *s3.Client satisfies it.
type API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options control how Dial connects.
type Options struct {
	Region   string // AWS region. Default: us-east-1
	Endpoint string // Custom endpoint for S3-compatible stores. Enables path-style addressing.
	Bucket   string // Checked with HeadBucket to verify the credentials. Optional.
}

// Client uploads files to S3.
type Client struct {
	svc API
}

// Dial builds an S3 client from static credentials and verifies the session
// against opts.Bucket. Errors wrap ErrRemoteAuth.
func Dial(ctx context.Context, creds Credentials, opts Options) (*Client, error) {
	if opts.Region == "" {
		opts.Region = DefaultRegion
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(creds.AccessKey, creds.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: loading aws config: %w", ErrRemoteAuth, err)
	}

	svc := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return Connect(ctx, svc, opts.Bucket)
}

// Connect wraps an existing API client. If bucket is not empty, it must be
// reachable with the client's credentials.
func Connect(ctx context.Context, svc API, bucket string) (*Client, error) {
	if bucket != "" {
		_, err := svc.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
		if err != nil {
			return nil, fmt.Errorf("%w: bucket %s: %w", ErrRemoteAuth, bucket, err)
		}
	}

	return &Client{svc: svc}, nil
}

// Put uploads localPath to bucket/key. Errors wrap ErrUpload.
func (c *Client) Put(ctx context.Context, bucket, key, localPath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpload, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpload, err)
	}

	_, err = c.svc.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(stat.Size()),
		ContentType:   aws.String(contentType(key)),
	})
	if err != nil {
		return fmt.Errorf("%w: s3://%s/%s: %w", ErrUpload, bucket, key, err)
	}

	return nil
}

func contentType(key string) string {
	if strings.HasSuffix(key, ".lzo") {
		return "application/x-lzop"
	}

	return "text/plain"
}
