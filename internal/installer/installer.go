// Package installer fetches tool packages from the remote registry into the
// local cache. The rest of the system treats installation as a single opaque
// operation: it either succeeds or fails.
package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/winappkit/winapp/internal/cache"
	"github.com/winappkit/winapp/internal/messages"
	"github.com/winappkit/winapp/internal/registry"
	"github.com/winappkit/winapp/internal/version"
)

// EnvNoNetwork disables all registry access when set.
const EnvNoNetwork = "WINAPP_CLI_NO_NETWORK"

// EnvMaxDownloadBytes overrides the package download size cap.
const EnvMaxDownloadBytes = "WINAPP_CLI_MAX_DOWNLOAD_BYTES"

const defaultMaxDownloadBytes = int64(500 * 1024 * 1024) // 500 MiB

// Installer installs a named package at a pinned version, or at the
// registry latest when pin is nil.
type Installer interface {
	Install(ctx context.Context, name string, pin *version.Dotted) error
}

// InstallFailedError reports that the registry fetch itself failed, as
// opposed to a fetched package that still lacks the wanted tool.
type InstallFailedError struct {
	Package string
	Err     error
}

func (e *InstallFailedError) Error() string {
	return fmt.Sprintf(messages.InstallerFailedFmt, e.Package, e.Err)
}

func (e *InstallFailedError) Unwrap() error {
	return e.Err
}

// RegistryInstaller downloads package archives from the registry, verifies
// them against the published checksums, and unpacks them into the cache's
// packages subtree.
type RegistryInstaller struct {
	// Cache resolves the cache root per install; never cached across calls.
	Cache *cache.Resolver
	// Registry serves version indexes; its base URL also serves archives.
	Registry *registry.Client
	// Progress receives human-readable install progress lines. io.Discard
	// when nil.
	Progress io.Writer

	sys System
}

// NewRegistryInstaller returns an installer backed by the real OS.
func NewRegistryInstaller(cacheResolver *cache.Resolver, client *registry.Client, progress io.Writer) *RegistryInstaller {
	return &RegistryInstaller{Cache: cacheResolver, Registry: client, Progress: progress, sys: RealSystem{}}
}

// Install fetches name at pin (or the registry latest) into the cache.
// Already-installed versions are a no-op. Every failure is wrapped in
// *InstallFailedError.
func (r *RegistryInstaller) Install(ctx context.Context, name string, pin *version.Dotted) error {
	if err := r.install(ctx, name, pin); err != nil {
		return &InstallFailedError{Package: name, Err: err}
	}
	return nil
}

func (r *RegistryInstaller) install(ctx context.Context, name string, pin *version.Dotted) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(messages.InstallerPackageRequired)
	}
	sys := r.sys
	if sys == nil {
		sys = RealSystem{}
	}

	target, err := r.targetVersion(ctx, sys, name, pin)
	if err != nil {
		return err
	}

	packagesDir := cache.PackagesDir(r.Cache.Resolve())
	packageDir := filepath.Join(packagesDir, name+"."+target.String())
	if _, err := sys.Stat(packageDir); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf(messages.InstallerReadFmt, packageDir, err)
	}

	if noNetwork(sys) {
		return fmt.Errorf(messages.InstallerNoNetworkFmt, name, EnvNoNetwork)
	}
	if err := sys.MkdirAll(packagesDir, 0o755); err != nil {
		return fmt.Errorf(messages.InstallerCreateDirFmt, err)
	}

	// The lock keeps two winapp processes from unpacking the same package
	// version over each other.
	lockPath := packageDir + ".lock"
	return withFileLock(lockPath, func() error {
		if _, err := sys.Stat(packageDir); err == nil {
			return nil
		} else if !os.IsNotExist(err) {
			return fmt.Errorf(messages.InstallerReadFmt, packageDir, err)
		}
		return r.fetchAndUnpack(ctx, sys, name, target, packagesDir, packageDir)
	})
}

// targetVersion resolves which version to install: the pin when present,
// otherwise the registry's latest.
func (r *RegistryInstaller) targetVersion(ctx context.Context, sys System, name string, pin *version.Dotted) (version.Dotted, error) {
	if pin != nil {
		return *pin, nil
	}
	if noNetwork(sys) {
		return version.Dotted{}, fmt.Errorf(messages.InstallerNoNetworkFmt, name, EnvNoNetwork)
	}
	return r.Registry.Latest(ctx, name)
}

// fetchAndUnpack downloads the archive, verifies its checksum, and commits
// the extracted tree into packageDir with a rename so partially unpacked
// packages are never visible under their final name.
func (r *RegistryInstaller) fetchAndUnpack(ctx context.Context, sys System, name string, target version.Dotted, packagesDir string, packageDir string) error {
	progress := r.Progress
	if progress == nil {
		progress = io.Discard
	}
	asset := fmt.Sprintf("%s.%s.zip", name, target)
	base := r.Registry.BaseOrDefault()

	archive, err := sys.CreateTemp(packagesDir, asset+".tmp-*")
	if err != nil {
		return fmt.Errorf(messages.InstallerCreateTempFmt, err)
	}
	archivePath := archive.Name()
	defer func() {
		_ = os.Remove(archivePath)
	}()

	_, _ = fmt.Fprintf(progress, messages.InstallerDownloadingFmt, name, target)
	url := fmt.Sprintf("%s/%s/%s/%s", base, name, target, asset)
	if err := downloadToFile(ctx, sys, url, archive); err != nil {
		_ = archive.Close()
		return err
	}
	if err := archive.Sync(); err != nil {
		_ = archive.Close()
		return fmt.Errorf(messages.InstallerSyncTempFmt, err)
	}
	if err := archive.Close(); err != nil {
		return fmt.Errorf(messages.InstallerCloseTempFmt, err)
	}

	checksumURL := fmt.Sprintf("%s/%s/%s/checksums.txt", base, name, target)
	expected, err := fetchChecksum(ctx, checksumURL, asset)
	if err != nil {
		return err
	}
	if err := verifyChecksum(archivePath, expected); err != nil {
		return err
	}

	stagingDir, err := sys.MkdirTemp(packagesDir, filepath.Base(packageDir)+".tmp-*")
	if err != nil {
		return fmt.Errorf(messages.InstallerCreateDirFmt, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(stagingDir)
		}
	}()

	if err := extractZip(archivePath, stagingDir); err != nil {
		return err
	}
	if err := sys.Rename(stagingDir, packageDir); err != nil {
		return fmt.Errorf(messages.InstallerCommitFmt, err)
	}
	committed = true
	_, _ = fmt.Fprintf(progress, messages.InstallerDownloadedFmt, name, target)
	return nil
}

// noNetwork reports whether registry access is disabled via WINAPP_CLI_NO_NETWORK.
func noNetwork(sys System) bool {
	return strings.TrimSpace(sys.Getenv(EnvNoNetwork)) != ""
}

func maxDownloadBytes(sys System) int64 {
	raw := strings.TrimSpace(sys.Getenv(EnvMaxDownloadBytes))
	if raw == "" {
		return defaultMaxDownloadBytes
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return defaultMaxDownloadBytes
	}
	return v
}
