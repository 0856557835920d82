package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/winappkit/winapp/internal/messages"
)

// Write marshals cfg and writes it to path. Used by `winapp init`.
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf(messages.ConfigMarshalFmt, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf(messages.ConfigWriteFmt, path, err)
	}
	return nil
}
