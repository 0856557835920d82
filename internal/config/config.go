// Package config loads the project-local winapp.yaml and its optional
// .winapp.env sibling.
package config

import (
	"github.com/winappkit/winapp/internal/version"
)

// ConfigFileName is the project configuration file searched for upward from
// the working directory.
const ConfigFileName = "winapp.yaml"

// EnvFileName is the optional dotenv sibling whose WINAPP_-prefixed entries
// are passed to tool subprocesses.
const EnvFileName = ".winapp.env"

// Config models winapp.yaml.
type Config struct {
	App      AppConfig         `yaml:"app"`
	Packages []PackagePin      `yaml:"packages,omitempty"`
	Tools    map[string]string `yaml:"tools,omitempty"`
}

// AppConfig identifies the application being packaged.
type AppConfig struct {
	Name      string `yaml:"name"`
	Publisher string `yaml:"publisher"`
}

// PackagePin requests an exact package version, overriding latest selection.
type PackagePin struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// Pins returns the parsed pinned versions keyed by package name. Entries
// that fail to parse are skipped; Validate reports them.
func (c *Config) Pins() map[string]version.Dotted {
	pins := make(map[string]version.Dotted, len(c.Packages))
	for _, pin := range c.Packages {
		v, err := version.Parse(pin.Version)
		if err != nil {
			continue
		}
		pins[pin.Name] = v
	}
	return pins
}

// Pin returns the pinned version for name, or nil when no pin exists.
func (c *Config) Pin(name string) *version.Dotted {
	if c == nil {
		return nil
	}
	for _, pin := range c.Packages {
		if pin.Name != name {
			continue
		}
		v, err := version.Parse(pin.Version)
		if err != nil {
			return nil
		}
		return &v
	}
	return nil
}
