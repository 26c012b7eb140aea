package logdaemon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golift.io/logdaemon/filer"
	"golift.io/logdaemon/stamprotator"
	"golift.io/logdaemon/threshold"
)

// DefaultTimeout bounds each upload when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Minute

// Config is the data needed to create a new Engine.
type Config struct {
	Threshold  threshold.Threshold     // REQUIRED: size or age that triggers rotation.
	FileCount  int                     // REQUIRED: rotated copies kept per log, including the new one.
	Bucket     string                  // REQUIRED: destination bucket.
	Prefix     string                  // Log group name. See stamprotator.FinalName.
	Files      []string                // Candidate log files, processed in order.
	Compressor stamprotator.Compressor // Leave nil when lzop is not available.
	Timeout    time.Duration           // Per-upload timeout. Default: 10 minutes.
	UseUTC     bool                    // Time stamps and keys in UTC.
	Log        *zerolog.Logger         // nil disables logging.
	// Mockable interfaces. Setting these is very optional.
	Rotator Rotator          // Default: *stamprotator.Layout built from this Config.
	Filer   filer.Filer      // Default: filer.Default().
	Now     func() time.Time // Default: time.Now.
}

// Engine runs one rotation pass. Get one from New.
type Engine struct {
	config  *Config
	rotator Rotator
	filer   filer.Filer
	log     *zerolog.Logger
}

// Report is the outcome of one Run.
type Report struct {
	NothingToDo bool          // No candidate qualified for rotation.
	Selected    []string      // Files that qualified, in input order.
	Results     []*Result     // One per selected file that was attempted.
	Elapsed     time.Duration // How long the run took.
}

// Result is the outcome for one file. Err is nil if the file was rotated and uploaded.
// Artifact is set whenever the local rotation succeeded, even if the upload failed.
type Result struct {
	File     string
	Artifact *stamprotator.Artifact
	Key      string
	Err      error
}

// New validates a Config and returns an Engine.
func New(config *Config) (*Engine, error) {
	if config.Threshold.Value <= 0 {
		return nil, fmt.Errorf("%w: threshold must be positive", ErrInvalidSpec)
	}

	if config.FileCount < 1 {
		return nil, fmt.Errorf("%w: %d", ErrFileCount, config.FileCount)
	}

	if config.Bucket == "" {
		return nil, ErrNoBucket
	}

	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	if config.Now == nil {
		config.Now = time.Now
	}

	if config.Filer == nil {
		config.Filer = filer.Default()
	}

	engine := &Engine{config: config, rotator: config.Rotator, filer: config.Filer, log: config.Log}

	if engine.log == nil {
		nop := zerolog.Nop()
		engine.log = &nop
	}

	if engine.rotator == nil {
		engine.rotator = &stamprotator.Layout{
			Filer:      config.Filer,
			Compressor: config.Compressor,
			FileCount:  config.FileCount,
			Prefix:     config.Prefix,
			UseUTC:     config.UseUTC,
			Log:        engine.log,
		}
	}

	return engine, nil
}

// Run selects the files that need rotation, dials the object store, then
// rotates and uploads each file in order. The returned error is only set for
// failures that end the run (dialing, cancellation). Per-file failures are in
// the Report; see Report.Err.
func (e *Engine) Run(ctx context.Context, dial Dialer) (*Report, error) {
	start := time.Now()
	report := &Report{Selected: e.Select()}

	defer func() { report.Elapsed = time.Since(start) }()

	if len(report.Selected) == 0 {
		report.NothingToDo = true
		e.log.Info().Int("candidates", len(e.config.Files)).Msg("no rotation")

		return report, nil
	}

	uploader, err := dial(ctx)
	if err != nil {
		return report, err
	}

	// One time stamp for every file in this run.
	now := e.now()

	for _, fileName := range report.Selected {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("run interrupted: %w", err)
		}

		report.Results = append(report.Results, e.ship(ctx, uploader, fileName, now))
	}

	return report, nil
}

// ship rotates one file and uploads the result.
func (e *Engine) ship(ctx context.Context, uploader Uploader, fileName string, now time.Time) *Result {
	result := &Result{File: fileName}

	result.Artifact, result.Err = e.rotator.Rotate(fileName, now)
	if result.Err != nil {
		e.log.Error().Err(result.Err).Str("file", fileName).Msg("rotation failed")
		return result
	}

	for _, pruned := range result.Artifact.Pruned {
		e.log.Debug().Str("file", fileName).Str("pruned", pruned).Msg("removed old copy")
	}

	result.Key = RemoteKey(e.now(), result.Artifact.FinalName)

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	if result.Err = uploader.Put(ctx, e.config.Bucket, result.Key, result.Artifact.Path); result.Err != nil {
		e.log.Error().Err(result.Err).Str("file", fileName).Str("artifact", result.Artifact.Path).
			Str("key", result.Key).Msg("upload failed, rotated copy kept")

		return result
	}

	e.log.Info().Str("file", fileName).Str("artifact", result.Artifact.Path).
		Str("bucket", e.config.Bucket).Str("key", result.Key).Msg("rotated and uploaded")

	return result
}

func (e *Engine) now() time.Time {
	if e.config.UseUTC {
		return e.config.Now().UTC()
	}

	return e.config.Now()
}

// Failed returns the results that did not fully rotate and upload.
func (r *Report) Failed() []*Result {
	var failed []*Result

	for _, result := range r.Results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}

	return failed
}

// Err joins every per-file error, or returns nil if all files were shipped.
func (r *Report) Err() error {
	errs := []error{}

	for _, result := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", result.File, result.Err))
	}

	return errors.Join(errs...)
}
