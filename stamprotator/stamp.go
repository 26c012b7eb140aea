// Package stamprotator renames (or compresses) a log file into a time-stamped
// backup and prunes older backups of the same log. Backup files are named
// service_20060102150405.log, or service_20060102150405.log.lzo when a
// compressor is available. The number of backups kept per log is bounded
// by Layout.FileCount, counting the one being created.
//
// The published name of a backup may differ from its local name. Logs that
// are not the primary log of a group get the group prefix prepended, so
// access.log in group "app" is stored locally as access_<stamp>.log and
// published as app_access_<stamp>.log. See FinalName.
package stamprotator

//go:generate mockgen -destination=../mocks/compressor.go -package=mocks golift.io/logdaemon/stamprotator Compressor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golift.io/logdaemon/compressor"
	"golift.io/logdaemon/filer"
)

// Some constants this package uses.
const (
	FormatStamp = "20060102150405" // 14 digits, sortable.
	Joiner      = "_"              // joins the base name and the time stamp.
	LogExt      = ".log"
	LzoExt      = LogExt + compressor.SuffixLZO
)

// Custom errors returned by this package.
var (
	ErrNaming    = errors.New("rotated copy name cannot be ordered")
	ErrLocalIO   = errors.New("local rotation failed")
	ErrFileCount = errors.New("file count must be at least 1")
)

// Compressor is satisfied by *compressor.Lzop. Compress must leave oldFile in place.
type Compressor interface {
	Compress(oldFile, newFile string) (*compressor.Report, error)
}

// Layout defines how time-stamped backup logs are named and how many are kept.
type Layout struct {
	filer.Filer

	Compressor Compressor      // nil means no compressor: rename only.
	FileCount  int             // Maximum number of rotated copies, including the new one.
	Prefix     string          // Log group name used in published names.
	UseUTC     bool            // Write time stamps in UTC instead of local time.
	Log        *zerolog.Logger // nil disables logging.
}

// Artifact is the result of one rotation.
type Artifact struct {
	Source     string   // The file that was rotated.
	Path       string   // Local path of the rotated copy.
	Name       string   // Local file name: {base}_{stamp}{ext}.
	FinalName  string   // Published name, see FinalName().
	BaseName   string   // Source file name without its extension.
	Stamp      string   // 14 digit time stamp.
	Ext        string   // .log or .log.lzo
	Compressed bool     // True if the Compressor produced this artifact.
	Pruned     []string // Older copies deleted to make room.
}

// BaseName returns a file's name without directory and last extension.
func BaseName(fileName string) string {
	name := filepath.Base(fileName)
	if base := strings.TrimSuffix(name, filepath.Ext(name)); base != "" {
		return base
	}

	return name // dot files like .bashrc keep their name.
}

// FinalName returns the published name of a rotated copy. The primary log of
// a group (base name equal to the prefix) keeps its local name; every other
// log gets the prefix prepended.
func FinalName(prefix, baseName, stamp, ext string) string {
	if baseName == prefix {
		return baseName + Joiner + stamp + ext
	}

	return prefix + Joiner + baseName + Joiner + stamp + ext
}

// Validate sets defaults and checks the layout. Rotate calls it.
func (l *Layout) Validate() error {
	if l.Filer == nil {
		l.Filer = filer.Default()
	}

	if l.FileCount < 1 {
		return fmt.Errorf("%w: %d", ErrFileCount, l.FileCount)
	}

	return nil
}

// Rotate prunes old copies of fileName, then renames or compresses fileName
// into a new time-stamped copy in the same directory. On error the source
// file is left where it was (or restored) and no artifact is returned.
func (l *Layout) Rotate(fileName string, now time.Time) (*Artifact, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	if l.UseUTC {
		now = now.UTC()
	}

	art := &Artifact{
		Source:   fileName,
		BaseName: BaseName(fileName),
		Stamp:    now.Format(FormatStamp),
		Ext:      LogExt,
	}

	if l.Compressor != nil {
		art.Ext = LzoExt
		art.Compressed = true
	}

	dir := filepath.Dir(fileName)
	art.Name = art.BaseName + Joiner + art.Stamp + art.Ext
	art.Path = filepath.Join(dir, art.Name)
	art.FinalName = FinalName(l.Prefix, art.BaseName, art.Stamp, art.Ext)

	// A copy with this exact name means another rotation ran this second.
	if _, err := l.Stat(art.Path); err == nil {
		return nil, fmt.Errorf("%w: %s already exists", ErrLocalIO, art.Path)
	}

	pruned, err := l.Prune(dir, art.BaseName)
	if err != nil {
		l.logger().Warn().Err(err).Str("file", fileName).Msg("pruning old copies was incomplete")
	}

	art.Pruned = pruned

	if art.Compressed {
		err = l.compress(fileName, art.Path)
	} else {
		err = l.rename(fileName, art.Path)
	}

	if err != nil {
		return nil, err
	}

	return art, nil
}

func (l *Layout) rename(fileName, newPath string) error {
	if err := l.Rename(fileName, newPath); err != nil {
		return fmt.Errorf("%w: renaming log: %w", ErrLocalIO, err)
	}

	return nil
}

// compress writes the compressed copy, then removes the original.
// If the original cannot be removed the copy is deleted again, so a
// file is never both rotated and left in place.
func (l *Layout) compress(fileName, newPath string) error {
	report, err := l.Compressor.Compress(fileName, newPath)
	compressor.Log(report, l.Log)

	if err != nil {
		return fmt.Errorf("%w: compressing log: %w", ErrLocalIO, err)
	}

	if err := l.Remove(fileName); err != nil {
		_ = l.Remove(newPath)
		return fmt.Errorf("%w: removing compressed log: %w", ErrLocalIO, err)
	}

	return nil
}

func (l *Layout) logger() *zerolog.Logger {
	if l.Log == nil {
		nop := zerolog.Nop()
		return &nop
	}

	return l.Log
}
