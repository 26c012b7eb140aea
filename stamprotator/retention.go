package stamprotator

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Backup is a rotated copy found on disk.
type Backup struct {
	Path  string
	Name  string
	Stamp time.Time
}

// Skip is a file that looks like a rotated copy but cannot be ordered.
// Skipped files are never pruned.
type Skip struct {
	Name   string
	Reason error
}

// ParseStamp extracts the time stamp from a rotated copy's file name.
// The name must be {baseName}_{14 digits}.log or .log.lzo.
// Errors wrap ErrNaming.
func ParseStamp(baseName, name string) (time.Time, error) {
	prefix := baseName + Joiner
	if !strings.HasPrefix(name, prefix) {
		return time.Time{}, fmt.Errorf("%w: missing prefix %q", ErrNaming, prefix)
	}

	part := strings.TrimPrefix(name, prefix)

	switch {
	case strings.HasSuffix(part, LzoExt):
		part = strings.TrimSuffix(part, LzoExt)
	case strings.HasSuffix(part, LogExt):
		part = strings.TrimSuffix(part, LogExt)
	default:
		return time.Time{}, fmt.Errorf("%w: unknown extension", ErrNaming)
	}

	if len(part) != len(FormatStamp) || strings.Trim(part, "0123456789") != "" {
		return time.Time{}, fmt.Errorf("%w: %q is not a %d digit time stamp", ErrNaming, part, len(FormatStamp))
	}

	stamp, err := time.Parse(FormatStamp, part)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrNaming, err)
	}

	return stamp, nil
}

// Backups lists the rotated copies of baseName in dir, newest first.
// Ties are broken by file name so the order is always the same.
// Names that match the prefix but fail ParseStamp are returned as skips.
func (l *Layout) Backups(dir, baseName string) ([]Backup, []Skip, error) {
	if l.Filer == nil {
		_ = l.Validate()
	}

	files, err := l.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("listing rotated copies: %w", err)
	}

	var (
		list   = backupFiles{}
		skips  = []Skip{}
		prefix = baseName + Joiner
	)

	for _, file := range files {
		name := file.Name()
		if !strings.HasPrefix(name, prefix) {
			continue // not our file.
		}

		stamp, err := ParseStamp(baseName, name)
		if err != nil {
			skips = append(skips, Skip{Name: name, Reason: err})
			continue
		}

		list = append(list, Backup{Path: filepath.Join(dir, name), Name: name, Stamp: stamp})
	}

	sort.Sort(list)

	return list, skips, nil
}

// Prune deletes the oldest rotated copies of baseName in dir so that only
// FileCount-1 remain, leaving room for the copy about to be created.
// Deletion is best effort: every copy is attempted, and the failures are
// joined into the returned error. Returns the paths that were deleted.
func (l *Layout) Prune(dir, baseName string) ([]string, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	backups, skips, err := l.Backups(dir, baseName)
	if err != nil {
		return nil, err
	}

	for _, skip := range skips {
		l.logger().Debug().Str("file", skip.Name).Err(skip.Reason).Msg("ignoring unordered copy")
	}

	keep := l.FileCount - 1
	if len(backups) <= keep {
		return nil, nil
	}

	var (
		deleted []string
		errs    []error
	)

	for _, backup := range backups[keep:] {
		if err := l.Remove(backup.Path); err != nil {
			l.logger().Warn().Err(err).Str("file", backup.Path).Msg("removing old copy")
			errs = append(errs, fmt.Errorf("%w: removing %s: %w", ErrLocalIO, backup.Name, err))

			continue
		}

		l.logger().Debug().Str("file", backup.Path).Msg("removed old copy")
		deleted = append(deleted, backup.Path)
	}

	return deleted, errors.Join(errs...)
}
