package packages

import "os"

// System abstracts the directory scan so index tests can inject failures.
type System interface {
	ReadDir(name string) ([]os.DirEntry, error)
}

// RealSystem implements System using the OS.
type RealSystem struct{}

// ReadDir reads the named directory and returns its entries.
func (RealSystem) ReadDir(name string) ([]os.DirEntry, error) {
	return os.ReadDir(name)
}
