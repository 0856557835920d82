package installer

import (
	"io/fs"
	"os"
)

// System abstracts OS operations needed by package installation.
type System interface {
	Getenv(key string) string
	Stat(name string) (fs.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	MkdirTemp(dir string, pattern string) (string, error)
	CreateTemp(dir string, pattern string) (*os.File, error)
	Rename(oldpath string, newpath string) error
}

// RealSystem implements System using the OS.
type RealSystem struct{}

// Getenv returns the value of the environment variable named by key.
func (RealSystem) Getenv(key string) string {
	return os.Getenv(key)
}

// Stat returns file info for the named file.
func (RealSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// MkdirAll creates a directory and all parent directories.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// MkdirTemp creates a new temporary directory in dir.
func (RealSystem) MkdirTemp(dir string, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

// CreateTemp creates a new temporary file in dir.
func (RealSystem) CreateTemp(dir string, pattern string) (*os.File, error) {
	return os.CreateTemp(dir, pattern)
}

// Rename renames oldpath to newpath.
func (RealSystem) Rename(oldpath string, newpath string) error {
	return os.Rename(oldpath, newpath)
}
