package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/winappkit/winapp/internal/envfile"
	"github.com/winappkit/winapp/internal/messages"
)

// ErrConfigValidation is a sentinel that wraps config validation failures
// (as opposed to YAML syntax, filesystem, or other loading errors).
// Callers can use errors.Is(err, ErrConfigValidation) to distinguish
// validation problems from other Load failure modes.
var ErrConfigValidation = errors.New("config validation failed")

// Load reads winapp.yaml from path and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, path, err)
	}
	return Parse(data, path)
}

// Parse parses and validates config YAML from a source identifier.
// data is the YAML content; source is used in error messages.
func Parse(data []byte, source string) (*Config, error) {
	cfg, err := decode(data, source, true)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w %s", ErrConfigValidation, err, messages.ConfigValidationGuidance)
	}
	return cfg, nil
}

// LoadLenient reads winapp.yaml without validation. Returns an error only on
// filesystem or YAML syntax errors, making it suitable for read-only paths
// that must tolerate a partially valid config.
func LoadLenient(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, path, err)
	}
	return decode(data, path, false)
}

// decode unmarshals YAML, optionally rejecting unknown fields.
func decode(data []byte, source string, strict bool) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(strict)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf(messages.ConfigInvalidYAMLFmt, source, err)
	}
	return &cfg, nil
}

// LoadProjectEnv reads the .winapp.env file at path into a key-value map,
// restricted to the WINAPP_ namespace. A missing file yields an empty map.
func LoadProjectEnv(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, path, err)
	}
	env, err := envfile.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigEnvInvalidFmt, path, err)
	}
	filtered := make(map[string]string, len(env))
	for key, value := range env {
		if strings.HasPrefix(key, "WINAPP_") {
			filtered[key] = value
		}
	}
	return filtered, nil
}
