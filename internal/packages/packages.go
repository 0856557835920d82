// Package packages discovers installed tool package versions on disk and
// selects the one a caller should use.
package packages

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/winappkit/winapp/internal/cache"
	"github.com/winappkit/winapp/internal/messages"
	"github.com/winappkit/winapp/internal/version"
)

// InstalledVersion is one installed package version discovered under the
// cache's packages subtree.
type InstalledVersion struct {
	Name    string
	Version version.Dotted
	Root    string
}

// ListVersions scans <cacheRoot>/packages for directories named
// <name>.<dotted-version> and returns one entry per parseable version.
//
// The result is a snapshot: directory contents can change between calls and
// nothing is cached. A missing packages root yields an empty slice, not an
// error. Directory names that do not parse as <name>.<version> are skipped.
func ListVersions(sys System, cacheRoot string, name string) ([]InstalledVersion, error) {
	if sys == nil {
		sys = RealSystem{}
	}
	root := cache.PackagesDir(cacheRoot)
	entries, err := sys.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf(messages.PackagesReadRootFmt, root, err)
	}

	var installed []InstalledVersion
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		v, ok := parseVersionSuffix(entry.Name(), name)
		if !ok {
			continue
		}
		installed = append(installed, InstalledVersion{
			Name:    name,
			Version: v,
			Root:    filepath.Join(root, entry.Name()),
		})
	}
	return installed, nil
}

// ScanPackageNames returns the distinct package names present under
// <cacheRoot>/packages, derived by stripping the dotted-version suffix from
// each directory name. Directories without a parseable suffix are skipped.
// A missing packages root yields an empty slice, not an error.
func ScanPackageNames(sys System, cacheRoot string) ([]string, error) {
	if sys == nil {
		sys = RealSystem{}
	}
	root := cache.PackagesDir(cacheRoot)
	entries, err := sys.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf(messages.PackagesReadRootFmt, root, err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name, ok := splitPackageName(entry.Name())
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

// splitPackageName strips the longest trailing dotted-version suffix from a
// directory name, returning the package name in front of it.
func splitPackageName(dirName string) (string, bool) {
	for idx := strings.Index(dirName, "."); idx > 0; idx = nextDot(dirName, idx) {
		if _, err := version.Parse(dirName[idx+1:]); err == nil {
			return dirName[:idx], true
		}
	}
	return "", false
}

func nextDot(s string, after int) int {
	rel := strings.Index(s[after+1:], ".")
	if rel < 0 {
		return -1
	}
	return after + 1 + rel
}

// parseVersionSuffix splits the trailing dotted-version suffix from a
// directory name of the form <name>.<version>. The match on name is exact:
// a directory for a different package never parses, even when name is a
// prefix of it.
func parseVersionSuffix(dirName string, name string) (version.Dotted, bool) {
	prefix := name + "."
	if len(dirName) <= len(prefix) || !strings.EqualFold(dirName[:len(prefix)], prefix) {
		return version.Dotted{}, false
	}
	v, err := version.Parse(dirName[len(prefix):])
	if err != nil {
		return version.Dotted{}, false
	}
	return v, true
}

// Select picks exactly one installed version, or reports none usable.
//
// With a pin, only an exact version match qualifies. Without one, the
// maximum version by dotted ordering wins. Select is a pure function of its
// inputs: no I/O, no hidden state.
func Select(versions []InstalledVersion, pin *version.Dotted) (InstalledVersion, bool) {
	if pin != nil {
		for _, candidate := range versions {
			if candidate.Version.Equal(*pin) {
				return candidate, true
			}
		}
		return InstalledVersion{}, false
	}

	var best InstalledVersion
	found := false
	for _, candidate := range versions {
		if !found || best.Version.Less(candidate.Version) {
			best = candidate
			found = true
		}
	}
	return best, found
}
