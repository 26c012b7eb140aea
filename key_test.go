package logdaemon_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golift.io/logdaemon"
)

func TestRemoteKey(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	date := time.Date(2024, 3, 7, 23, 59, 59, 0, time.UTC)

	assert.Equal("2024/03/07/app_access_20240307235959.log",
		logdaemon.RemoteKey(date, "app_access_20240307235959.log"))
	assert.Equal(logdaemon.RemoteKey(date, "x"), logdaemon.RemoteKey(date, "x"), "same input, same key")
	assert.Equal("2024/03/08/x", logdaemon.RemoteKey(date.Add(time.Second), "x"))
}
