// Package logdaemon rotates log files and ships the rotated copies to S3.
// It is built to run once per invocation, usually from cron, against an
// explicit list of log files.
//
// A run has four steps. Each candidate file is checked against a size or age
// Threshold. Files that qualify have their oldest backups pruned so at most
// FileCount copies exist after rotation. The file is renamed to a time-stamped
// backup, or compressed with lzop when available. Finally the backup is
// uploaded to a date-partitioned key: 2006/01/02/prefix_service_20060102150405.log.
//
// The included packages do the work and may be used on their own:
//
//	threshold     parses "100M" and "10d" style triggers.
//	stamprotator  names, prunes and rotates time-stamped backups.
//	compressor    wraps the lzop binary.
//	s3push        loads credentials and uploads to S3.
//	filer         is the file system seam used by all of them.
//
// Backups are named after the log file (access.log -> access_<stamp>.log), while
// published objects carry the log group prefix (app_access_<stamp>.log) unless
// the log is the group's primary log, named exactly like the prefix.
package logdaemon
