package locate

import (
	"io/fs"
	"os"
)

// System abstracts filesystem reads needed by tool location.
type System interface {
	ReadDir(name string) ([]os.DirEntry, error)
	Stat(name string) (fs.FileInfo, error)
}

// RealSystem implements System using the OS.
type RealSystem struct{}

// ReadDir reads the named directory and returns its entries.
func (RealSystem) ReadDir(name string) ([]os.DirEntry, error) {
	return os.ReadDir(name)
}

// Stat returns file info for the named file.
func (RealSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}
