package config

import (
	"fmt"
	"strings"

	"github.com/winappkit/winapp/internal/messages"
	"github.com/winappkit/winapp/internal/version"
)

// Validate checks cfg for problems a strict load should reject.
// source is used in error messages.
func (c *Config) Validate(source string) error {
	if strings.TrimSpace(c.App.Name) == "" {
		return fmt.Errorf(messages.ConfigAppNameRequiredFmt, source)
	}
	seen := make(map[string]bool, len(c.Packages))
	for i, pin := range c.Packages {
		name := strings.TrimSpace(pin.Name)
		if name == "" {
			return fmt.Errorf(messages.ConfigPinNameRequiredFmt, source, i)
		}
		if seen[name] {
			return fmt.Errorf(messages.ConfigPinDuplicateFmt, source, name)
		}
		seen[name] = true
		if strings.TrimSpace(pin.Version) == "" {
			return fmt.Errorf(messages.ConfigPinVersionRequiredFmt, source, i, name)
		}
		if _, err := version.Parse(pin.Version); err != nil {
			return fmt.Errorf(messages.ConfigPinVersionInvalidFmt, source, i, name, err)
		}
	}
	for tool, pkg := range c.Tools {
		if strings.TrimSpace(pkg) == "" {
			return fmt.Errorf(messages.ConfigToolPackageRequiredFmt, source, tool)
		}
	}
	return nil
}
