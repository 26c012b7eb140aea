package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation settings for the daemon's own log file.
const (
	logFileMegs    = 10
	logFileBackups = 3
	logFileDays    = 30
)

// logConfig selects where and how the daemon writes its own log lines.
type logConfig struct {
	Level  string // trace, debug, info, warn, error.
	Format string // console or json. Applies to stderr only.
	File   string // Optional file, written as json and rotated by lumberjack.
}

// newLogger builds the process logger. The returned closer releases the log
// file, if there is one, and is never nil.
func newLogger(config *logConfig, stderr io.Writer) (*zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", config.Level, err)
	} else if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var console io.Writer = stderr

	switch strings.ToLower(config.Format) {
	case "json":
	case "console", "":
		console = zerolog.ConsoleWriter{Out: stderr, TimeFormat: "15:04:05"}
	default:
		return nil, nil, fmt.Errorf("%w: log format %q", errUsage, config.Format)
	}

	writers := []io.Writer{console}
	closer := io.Closer(nopCloser{})

	if config.File != "" {
		file := &lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    logFileMegs,
			MaxAge:     logFileDays,
			MaxBackups: logFileBackups,
			LocalTime:  true,
		}
		writers = append(writers, file)
		closer = file
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).
		With().Timestamp().Int("pid", os.Getpid()).Logger()

	return &logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
