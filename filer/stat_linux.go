package filer

import (
	"fmt"
	"os"
	"syscall"
	"time"
)

// Stat returns a *FileInfo struct w/ attached os.FileInfo interface.
func Stat(filename string) (*FileInfo, error) {
	fileStat, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("stat err: %w", err)
	}

	info := &FileInfo{FileInfo: fileStat, CreateTime: fileStat.ModTime()}

	if sys, ok := fileStat.Sys().(*syscall.Stat_t); ok {
		info.CreateTime = time.Unix(int64(sys.Ctim.Sec), int64(sys.Ctim.Nsec)) //nolint:unconvert
	}

	return info, nil
}
