package logdaemon

import (
	"errors"

	"golift.io/logdaemon/s3push"
	"golift.io/logdaemon/stamprotator"
	"golift.io/logdaemon/threshold"
)

// Errors returned by this package and its subpackages, collected here so
// callers can check them with errors.Is and a single import.
// ErrInvalidSpec, ErrFileCount, ErrNoBucket, ErrCredentials and ErrRemoteAuth
// end the run. The rest affect a single file or backup.
var (
	ErrNotAFile    = errors.New("not a regular file")
	ErrNoBucket    = errors.New("bucket name is required")
	ErrInvalidSpec = threshold.ErrInvalidSpec
	ErrFileCount   = stamprotator.ErrFileCount
	ErrNaming      = stamprotator.ErrNaming
	ErrLocalIO     = stamprotator.ErrLocalIO
	ErrCredentials = s3push.ErrCredentials
	ErrRemoteAuth  = s3push.ErrRemoteAuth
	ErrUpload      = s3push.ErrUpload
)
