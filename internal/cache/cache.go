// Package cache resolves the root directory that installed tool packages
// live under. Resolution never fails: every unusable source degrades to the
// next one in precedence order.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/winappkit/winapp/internal/messages"
)

// EnvCacheDir overrides the cache root for a single environment.
const EnvCacheDir = "WINAPP_CLI_CACHE_DIRECTORY"

const (
	pointerTextName = "cache_location.txt"
	pointerJSONName = "cache-config.json"
	configDirName   = "winapp"
	defaultDirName  = ".winapp"
	packagesDirName = "packages"
)

// Resolver determines the cache root directory.
//
// Precedence, highest first: the Override field, the WINAPP_CLI_CACHE_DIRECTORY
// environment variable, a pointer persisted in the global config directory,
// and finally <home>/.winapp. Override exists so callers needing isolation
// (test harnesses) can redirect the cache without touching process state.
type Resolver struct {
	// Override redirects the cache root when non-empty. It outranks every
	// other source.
	Override string

	sys System
}

// NewResolver returns a Resolver backed by the real OS.
func NewResolver() *Resolver {
	return NewResolverWithSystem(RealSystem{})
}

// NewResolverWithSystem returns a Resolver backed by sys.
func NewResolverWithSystem(sys System) *Resolver {
	if sys == nil {
		sys = RealSystem{}
	}
	return &Resolver{sys: sys}
}

// Resolve returns the cache root directory. It has no side effects and is
// safe to call repeatedly and concurrently.
func (r *Resolver) Resolve() string {
	if dir := strings.TrimSpace(r.Override); dir != "" {
		return dir
	}
	if dir := strings.TrimSpace(r.sys.Getenv(EnvCacheDir)); dir != "" {
		return dir
	}
	if dir := r.pointerDir(); dir != "" {
		return dir
	}
	return r.defaultDir()
}

// PackagesDir returns the packages subtree under cacheRoot.
func PackagesDir(cacheRoot string) string {
	return filepath.Join(cacheRoot, packagesDirName)
}

// pointerDir reads the persisted cache pointer from the global config
// directory. Empty, whitespace-only, or unreadable pointers are treated as
// absent.
func (r *Resolver) pointerDir() string {
	configDir, err := r.configDir()
	if err != nil {
		return ""
	}
	if dir := readTextPointer(r.sys, filepath.Join(configDir, pointerTextName)); dir != "" {
		return dir
	}
	return readJSONPointer(r.sys, filepath.Join(configDir, pointerJSONName))
}

func (r *Resolver) configDir() (string, error) {
	base, err := r.sys.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, configDirName), nil
}

// defaultDir returns <home>/.winapp, degrading to a working-directory-relative
// path when no home directory can be determined.
func (r *Resolver) defaultDir() string {
	home, err := r.sys.HomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return defaultDirName
	}
	return filepath.Join(home, defaultDirName)
}

// readTextPointer returns the first non-blank line of the pointer file.
func readTextPointer(sys System, path string) string {
	data, err := sys.ReadFile(path)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

type pointerConfig struct {
	CacheDirectory string `json:"cacheDirectory"`
}

// readJSONPointer returns the cacheDirectory value from cache-config.json.
// Malparsed content is treated the same as a missing file.
func readJSONPointer(sys System, path string) string {
	data, err := sys.ReadFile(path)
	if err != nil {
		return ""
	}
	var cfg pointerConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ""
	}
	return strings.TrimSpace(cfg.CacheDirectory)
}

// WriteLocationPointer persists dir as the cache root for future processes.
func (r *Resolver) WriteLocationPointer(dir string) error {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return errors.New(messages.CacheDirRequired)
	}
	configDir, err := r.configDir()
	if err != nil {
		return fmt.Errorf(messages.CacheCreateConfigDirFmt, configDirName, err)
	}
	if err := r.sys.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf(messages.CacheCreateConfigDirFmt, configDir, err)
	}
	path := filepath.Join(configDir, pointerTextName)
	if err := r.sys.WriteFile(path, []byte(trimmed+"\n"), 0o644); err != nil {
		return fmt.Errorf(messages.CacheWritePointerFmt, path, err)
	}
	return nil
}

// ClearPackages removes the packages subtree under cacheRoot. The cache root
// itself and any pointer files are left alone.
func (r *Resolver) ClearPackages(cacheRoot string) error {
	dir := PackagesDir(cacheRoot)
	if err := r.sys.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf(messages.CacheClearFmt, dir, err)
	}
	return nil
}
