// Package compressor wraps the lzop binary used to compress rotated logs.
// Availability is probed once per run; a nil *Lzop means "no compressor"
// and rotated files are simply renamed instead.
package compressor

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golift.io/logdaemon/filer"
)

// SuffixLZO is appended to a fileName to make the new compressed file name.
const SuffixLZO = ".lzo"

// DefaultPaths are probed, in order, when Probe is called without arguments.
// A bare name is looked up in $PATH.
var DefaultPaths = []string{"/usr/bin/lzop", "lzop"} //nolint:gochecknoglobals

// Report contains a report of the compression operation.
// Always check for Error to make sure the New* data is valid.
type Report struct {
	OldFile string
	NewFile string
	OldSize int64
	NewSize int64
	Elapsed time.Duration
	Error   error
}

// Lzop compresses files by running an lzop binary.
type Lzop struct {
	Path  string      // Full path to the lzop binary.
	Filer filer.Filer // Used to stat and clean up files.
}

// Probe returns an Lzop for the first usable binary in paths,
// or nil if none of them exist. Absence is not an error.
func Probe(paths ...string) *Lzop {
	if len(paths) == 0 {
		paths = DefaultPaths
	}

	for _, path := range paths {
		if path == "" {
			continue
		}

		if found, err := exec.LookPath(path); err == nil {
			return &Lzop{Path: found, Filer: filer.Default()}
		}
	}

	return nil
}

// Compress writes an lzop-compressed copy of oldFile to newFile and returns
// a report. Blocks until finished. The original file is left in place; a
// partial newFile is removed on failure.
func (l *Lzop) Compress(oldFile, newFile string) (*Report, error) {
	report := &Report{OldFile: oldFile, NewFile: newFile}

	if l.Filer == nil {
		l.Filer = filer.Default()
	}

	old, err := l.Filer.Stat(oldFile)
	if report.Error = err; report.Error != nil {
		return report, fmt.Errorf("stating old file: %w", report.Error)
	}

	report.OldSize = old.Size()
	start := time.Now()
	report.NewSize, report.Error = l.compress(oldFile, newFile)
	report.Elapsed = time.Since(start)

	if report.Error != nil {
		return report, fmt.Errorf("compressor error: %w", report.Error)
	}

	return report, nil
}

// compress runs the binary: lzop -o newFile oldFile.
func (l *Lzop) compress(oldFile, newFile string) (int64, error) {
	var output bytes.Buffer

	cmd := exec.Command(l.Path, "-o", newFile, oldFile) //nolint:gosec
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		_ = l.Filer.Remove(newFile)

		if msg := strings.TrimSpace(output.String()); msg != "" {
			return 0, fmt.Errorf("%s -> %s: %w: %s", oldFile, newFile, err, msg)
		}

		return 0, fmt.Errorf("%s -> %s: %w", oldFile, newFile, err)
	}

	stat, err := l.Filer.Stat(newFile)
	if err != nil {
		return 0, fmt.Errorf("stating new file: %w", err)
	}

	return stat.Size(), nil
}

// Log writes a report to a zerolog logger. A nil logger is a no-op.
func Log(report *Report, log *zerolog.Logger) {
	if log == nil || report == nil {
		return
	}

	const kilobyte = 1024

	if report.Error != nil {
		log.Error().Err(report.Error).Str("file", report.OldFile).
			Dur("elapsed", report.Elapsed.Round(time.Millisecond)).Msg("compression failed")

		return
	}

	log.Info().Str("file", report.OldFile).Str("artifact", report.NewFile).
		Int64("old_kb", report.OldSize/kilobyte).Int64("new_kb", report.NewSize/kilobyte).
		Dur("elapsed", report.Elapsed.Round(time.Millisecond)).Msg("compression finished")
}
