package logdaemon

//go:generate mockgen -destination=mocks/uploader.go -package=mocks golift.io/logdaemon Uploader

import (
	"context"
	"time"

	"golift.io/logdaemon/s3push"
	"golift.io/logdaemon/stamprotator"
)

// Uploader stores a local file in a bucket under key.
// The included s3push.Client is an Uploader.
type Uploader interface {
	Put(ctx context.Context, bucket, key, localPath string) error
}

// Dialer opens a session with the object store. The Engine calls it once per
// run, only if at least one file needs rotation, and before any file is touched.
type Dialer func(ctx context.Context) (Uploader, error)

// Rotator allows passing in your own logic for file rotation.
// The default is a *stamprotator.Layout built from Config.
type Rotator interface {
	// Rotate prunes old copies and turns fileName into a new rotated copy.
	Rotate(fileName string, now time.Time) (*stamprotator.Artifact, error)
}

// S3Dialer returns a Dialer that loads credentials from credsFile
// (see s3push.LoadCredentials) and connects to S3 with opts.
func S3Dialer(credsFile string, opts s3push.Options) Dialer {
	return func(ctx context.Context) (Uploader, error) {
		creds, err := s3push.LoadCredentials(credsFile)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		client, err := s3push.Dial(ctx, creds, opts)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		return client, nil
	}
}

// Our interfaces must be satisfied by the included packages.
var (
	_ Uploader = (*s3push.Client)(nil)
	_ Rotator  = (*stamprotator.Layout)(nil)
)
