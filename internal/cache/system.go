package cache

import (
	"os"

	homedir "github.com/mitchellh/go-homedir"
)

// System abstracts OS operations needed by cache resolution. It is
// package-local so unit tests can run in parallel without shared global
// state; other packages define their own System interfaces.
type System interface {
	Getenv(key string) string
	ReadFile(name string) ([]byte, error)
	UserConfigDir() (string, error)
	HomeDir() (string, error)
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
	RemoveAll(path string) error
}

// RealSystem implements System using the OS.
type RealSystem struct{}

// Getenv returns the value of the environment variable named by key.
func (RealSystem) Getenv(key string) string {
	return os.Getenv(key)
}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// UserConfigDir returns the default per-user config directory.
func (RealSystem) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

// HomeDir returns the user profile directory.
func (RealSystem) HomeDir() (string, error) {
	return homedir.Dir()
}

// MkdirAll creates a directory and all parent directories.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// WriteFile writes data to the named file.
func (RealSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// RemoveAll removes path and any children it contains.
func (RealSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}
