package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"golift.io/logdaemon"
)

func TestRunUsage(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var stdout, stderr bytes.Buffer

	assert.Equal(1, run([]string{"size", "100M", "5", "bucket", "prefix"}, &stdout, &stderr))
	assert.Contains(stdout.String(), "Usage: logdaemon")
	assert.Contains(stderr.String(), "5 arguments given")
}

func TestParseArgs(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	config, err := parseArgs([]string{"size", "100M", "5", "logs", "app", "a.log", "b.log"})
	assert.NoError(err)
	assert.EqualValues(104857600, config.Threshold.Value)
	assert.Equal(5, config.FileCount)
	assert.Equal("logs", config.Bucket)
	assert.Equal("app", config.Prefix)
	assert.Equal([]string{"a.log", "b.log"}, config.Files)

	for _, copies := range []string{"0", "-1", "five", ""} {
		_, err = parseArgs([]string{"size", "100M", copies, "logs", "app", "a.log"})
		assert.ErrorIs(err, errUsage, copies)
	}

	_, err = parseArgs([]string{"size", "100X", "5", "logs", "app", "a.log"})
	assert.ErrorIs(err, errUsage)
	assert.ErrorIs(err, logdaemon.ErrInvalidSpec)

	_, err = parseArgs([]string{"weekly", "1d", "5", "logs", "app", "a.log"})
	assert.ErrorIs(err, logdaemon.ErrInvalidSpec)
}

func TestRunNothingToDo(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	dir := t.TempDir()
	file := filepath.Join(dir, "app.log")
	assert.NoError(os.WriteFile(file, []byte("small\n"), 0o600))

	var stdout, stderr bytes.Buffer

	// No credentials are needed when nothing qualifies.
	code := run([]string{"size", "1M", "3", "logs", "app", file,
		"--env-file", filepath.Join(dir, "missing.json"), "--no-compress", "--log-format", "json"}, &stdout, &stderr)
	assert.Equal(0, code, stderr.String())
	assert.Contains(stderr.String(), `"message":"no rotation"`)
	assert.FileExists(file)
}

// Not parallel: it clears the credential environment variables.
func TestRunMissingCredentials(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("S3_ACCESS_KEY", "")
	t.Setenv("S3_SECRET_KEY", "")

	dir := t.TempDir()
	file := filepath.Join(dir, "app.log")
	assert.NoError(os.WriteFile(file, []byte("big enough\n"), 0o600))

	var stdout, stderr bytes.Buffer

	code := run([]string{"size", "10", "3", "logs", "app", file,
		"--env-file", filepath.Join(dir, "missing.json"), "--no-compress"}, &stdout, &stderr)
	assert.Equal(1, code)
	assert.Contains(stderr.String(), "S3_ACCESS_KEY")
	assert.Contains(stderr.String(), "S3_SECRET_KEY")
	assert.FileExists(file, "nothing is rotated without credentials")
}

func TestNewLogger(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var buf bytes.Buffer

	logFile := filepath.Join(t.TempDir(), "logdaemon.log")
	log, closer, err := newLogger(&logConfig{Level: "DEBUG", Format: "json", File: logFile}, &buf)
	assert.NoError(err)

	log.Debug().Str("file", "x.log").Msg("hello")
	assert.NoError(closer.Close())
	assert.Contains(buf.String(), `"file":"x.log"`)

	data, err := os.ReadFile(logFile)
	assert.NoError(err)
	assert.Contains(string(data), `"message":"hello"`)

	_, _, err = newLogger(&logConfig{Level: "loud"}, &buf)
	assert.Error(err)

	_, _, err = newLogger(&logConfig{Format: "xml"}, &buf)
	assert.ErrorIs(err, errUsage)

	log, closer, err = newLogger(&logConfig{}, &buf)
	assert.NoError(err)
	assert.NotNil(log)
	assert.NoError(closer.Close())
}
