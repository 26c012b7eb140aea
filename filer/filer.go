// Package filer is the file system seam used by logdaemon and its subpackages.
// Override it to gain more control of operations in your app, or to test
// rotation and retention without touching a disk.
package filer

//go:generate mockgen -destination=../mocks/filer.go -package=mocks golift.io/logdaemon/filer Filer
//go:generate mockgen -destination=../mocks/fileinfo.go -package=mocks os FileInfo

import (
	"fmt"
	"os"
	"time"
)

// Filer is used to override file-managing procedures.
type Filer interface {
	Remove(fileName string) error
	Rename(fileName, newPath string) error
	ReadDir(dirPath string) ([]os.FileInfo, error)
	Stat(fileName string) (*FileInfo, error)
}

// Default returns a Filer interface that works, using default procedures.
func Default() Filer {
	return &File{}
}

// FileInfo contains normal os.FileInfo + file creation time.
// Created by Stat(). On Unix the "creation" time is the inode change time,
// which is the closest thing most file systems expose.
type FileInfo struct {
	os.FileInfo
	CreateTime time.Time
}

// Age returns how long ago the file was created, relative to now.
func (f *FileInfo) Age(now time.Time) time.Duration {
	return now.Sub(f.CreateTime)
}

// File can be embedded in a custom type to provide the missing methods for the Filer interface.
type File struct{}

// Remove provides os.Remove.
func (f *File) Remove(fileName string) error {
	return os.Remove(fileName)
}

// Rename provides os.Rename.
func (f *File) Rename(fileName, newPath string) error {
	return os.Rename(fileName, newPath)
}

// ReadDir returns os.FileInfo for every entry in a directory.
// Entries that vanish between listing and stat are dropped.
func (f *File) ReadDir(dirPath string) ([]os.FileInfo, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("reading dir: %w", err)
	}

	infos := make([]os.FileInfo, 0, len(entries))

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}

		infos = append(infos, info)
	}

	return infos, nil
}

// Stat provides custom file stats that wrap os.Stat output.
func (f *File) Stat(fileName string) (*FileInfo, error) {
	return Stat(fileName)
}
