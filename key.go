package logdaemon

import "time"

// KeyFormat partitions remote objects by day.
const KeyFormat = "2006/01/02"

// RemoteKey returns the object key for a published file name: YYYY/MM/DD/finalName.
// The date is whatever the caller passes; the Engine passes upload time.
func RemoteKey(date time.Time, finalName string) string {
	return date.Format(KeyFormat) + "/" + finalName
}
