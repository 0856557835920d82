package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/winappkit/winapp/internal/messages"
)

// FindProjectRoot searches upward from start for a directory containing
// winapp.yaml. It returns the directory, whether one was found, and any
// filesystem error other than plain absence.
func FindProjectRoot(start string) (string, bool, error) {
	if start == "" {
		return "", false, errors.New(messages.RootStartPathRequired)
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, fmt.Errorf(messages.RootResolvePathFmt, start, err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return dir, true, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", false, fmt.Errorf(messages.RootCheckPathFmt, candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
