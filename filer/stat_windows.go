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

	if sys, ok := fileStat.Sys().(*syscall.Win32FileAttributeData); ok {
		info.CreateTime = time.Unix(0, sys.CreationTime.Nanoseconds())
	}

	return info, nil
}
