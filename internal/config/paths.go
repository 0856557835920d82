package config

import "path/filepath"

// Paths holds resolved paths for project config files.
type Paths struct {
	Root       string
	ConfigPath string
	EnvPath    string
}

// DefaultPaths returns the config paths for a project root.
func DefaultPaths(root string) Paths {
	return Paths{
		Root:       root,
		ConfigPath: filepath.Join(root, ConfigFileName),
		EnvPath:    filepath.Join(root, EnvFileName),
	}
}
