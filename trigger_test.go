package logdaemon_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golift.io/logdaemon"
	"golift.io/logdaemon/threshold"
)

func TestSelectBySize(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	dir := t.TempDir()
	under := filepath.Join(dir, "under.log")
	exact := filepath.Join(dir, "exact.log")
	over := filepath.Join(dir, "over.log")

	sparseFile(t, under, 1023)
	sparseFile(t, exact, 1024)
	sparseFile(t, over, 4096)

	engine, err := logdaemon.New(&logdaemon.Config{
		Threshold: threshold.Threshold{Mode: threshold.BySize, Value: 1024},
		FileCount: 1,
		Bucket:    "logs",
		Files:     []string{over, under, exact},
	})
	assert.NoError(err)
	// Input order is kept and the boundary is inclusive.
	assert.Equal([]string{over, exact}, engine.Select())
	assert.FileExists(under, "selection never changes anything")
}

func TestSelectByAge(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	dir := t.TempDir()
	file := filepath.Join(dir, "app.log")
	sparseFile(t, file, 1)

	later := time.Now()
	config := &logdaemon.Config{
		Threshold: threshold.Threshold{Mode: threshold.ByAge, Value: 86400},
		FileCount: 1,
		Bucket:    "logs",
		Files:     []string{file},
		Now:       func() time.Time { return later },
	}

	engine, err := logdaemon.New(config)
	assert.NoError(err)
	assert.Empty(engine.Select(), "a new file is not a day old")

	later = time.Now().Add(25 * time.Hour)
	assert.Equal([]string{file}, engine.Select())
}

func TestSelectSkips(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	dir := t.TempDir()
	file := filepath.Join(dir, "app.log")
	sparseFile(t, file, 10)
	assert.NoError(os.Mkdir(filepath.Join(dir, "sub.log"), 0o750))

	engine, err := logdaemon.New(&logdaemon.Config{
		Threshold: threshold.Threshold{Mode: threshold.BySize, Value: 1},
		FileCount: 1,
		Bucket:    "logs",
		Files:     []string{filepath.Join(dir, "missing.log"), filepath.Join(dir, "sub.log"), file},
	})
	assert.NoError(err)
	assert.Equal([]string{file}, engine.Select())

	engine, err = logdaemon.New(&logdaemon.Config{
		Threshold: threshold.Threshold{Mode: threshold.BySize, Value: 1},
		FileCount: 1,
		Bucket:    "logs",
	})
	assert.NoError(err)
	assert.Empty(engine.Select())
}
