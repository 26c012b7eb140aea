package logdaemon_test

import (
	"context"
	"log"
	"os"

	"github.com/rs/zerolog"
	"golift.io/logdaemon"
	"golift.io/logdaemon/compressor"
	"golift.io/logdaemon/s3push"
	"golift.io/logdaemon/threshold"
)

// This example rotates two web server logs once they reach 100 megabytes,
// keeps 5 copies of each and ships every new copy to the "weblogs" bucket.
// Copies are compressed with lzop if it is installed.
func Example_size() {
	limit, err := threshold.Parse("size", "100M")
	if err != nil {
		log.Fatal(err)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	config := &logdaemon.Config{
		Threshold: limit,
		FileCount: 5,
		Bucket:    "weblogs",
		Prefix:    "nginx",
		Files:     []string{"/var/log/nginx/access.log", "/var/log/nginx/error.log"},
		Log:       &logger,
	}

	// Only set the interface when the binary exists.
	if lzop := compressor.Probe(); lzop != nil {
		config.Compressor = lzop
	}

	engine, err := logdaemon.New(config)
	if err != nil {
		log.Fatal(err)
	}

	dial := logdaemon.S3Dialer(s3push.DefaultCredentialsFile(), s3push.Options{
		Region: s3push.DefaultRegion,
		Bucket: config.Bucket,
	})

	report, err := engine.Run(context.Background(), dial)
	if err != nil {
		log.Fatal(err)
	}

	if err := report.Err(); err != nil {
		log.Fatal(err)
	}
}

// This example rotates a log once it is a week old and keeps only the newest
// copy. Copies go to a MinIO server instead of AWS.
func Example_age() {
	limit, err := threshold.Parse("date", "1w")
	if err != nil {
		log.Fatal(err)
	}

	engine, err := logdaemon.New(&logdaemon.Config{
		Threshold: limit,
		FileCount: 1,
		Bucket:    "archive",
		Prefix:    "app",
		Files:     []string{"/var/log/app.log"},
		UseUTC:    true,
	})
	if err != nil {
		log.Fatal(err)
	}

	report, err := engine.Run(context.Background(), logdaemon.S3Dialer("/etc/logdaemon/creds.json", s3push.Options{
		Endpoint: "http://minio.local:9000",
		Bucket:   "archive",
	}))
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("rotated %d files in %v", len(report.Results), report.Elapsed)
}
