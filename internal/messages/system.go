package messages

// System messages for internal operations.
const (
	// VersionEmpty indicates an empty version string.
	VersionEmpty = "version is empty"
	// VersionInvalidFmt formats malformed dotted version errors.
	VersionInvalidFmt        = "invalid dotted version %q"
	VersionInvalidSegmentFmt = "invalid version segment %q in %q"

	// CacheDirRequired indicates a cache directory argument is required.
	CacheDirRequired        = "cache directory is required"
	CacheCreateConfigDirFmt = "create config dir %s: %w"
	CacheWritePointerFmt    = "write cache pointer %s: %w"
	CacheClearFmt           = "clear packages under %s: %w"

	PackagesReadRootFmt = "read packages root %s: %w"

	LocateReadDirFmt = "read %s: %w"

	InstallerPackageRequired = "package name is required"
	InstallerNoNetworkFmt    = "package %s is not cached and network access is disabled via %s"
	InstallerCreateDirFmt    = "create package dir: %w"
	InstallerCreateTempFmt   = "create temp file: %w"
	InstallerSyncTempFmt     = "sync temp file: %w"
	InstallerCloseTempFmt    = "close temp file: %w"
	InstallerTruncateTempFmt = "truncate temp file: %w"
	InstallerSeekTempFmt     = "reset temp file offset: %w"
	InstallerDownloadFmt     = "download %s: %w"
	InstallerStatusFmt       = "download %s: unexpected status %s"
	InstallerTimeoutFmt      = "download %s: request timed out"
	InstallerNotFoundFmt     = "download %s: package version not found in registry (HTTP 404)"
	InstallerTooLargeFmt     = "download %s: response too large (%d bytes > limit %d bytes)"
	InstallerReadFmt         = "read %s: %w"
	InstallerChecksumGoneFmt = "checksum for %s not found in %s"
	InstallerChecksumBadFmt  = "checksum mismatch for %s (expected %s, got %s)"
	InstallerOpenFileFmt     = "open %s: %w"
	InstallerHashFileFmt     = "hash %s: %w"
	InstallerOpenZipFmt      = "open archive %s: %w"
	InstallerZipEscapeFmt    = "archive entry %q escapes the package root"
	InstallerExtractFmt      = "extract %s: %w"
	InstallerCommitFmt       = "move package into place: %w"
	InstallerFailedFmt       = "install %s: %v"

	InstallerOpenLockFmt    = "open lock %s: %w"
	InstallerLockFmt        = "lock %s: %w"
	InstallerLockTimeoutFmt = "timed out waiting for lock after %s"

	InstallerDownloadingFmt = "Installing %s %s...\n"
	InstallerDownloadedFmt  = "Installed %s %s\n"

	RegistryCreateRequestFmt = "create package index request: %w"
	RegistryFetchFmt         = "fetch package index for %s: %w"
	RegistryFetchStatusFmt   = "fetch package index for %s: unexpected status %s"
	RegistryDecodeFmt        = "decode package index for %s: %w"
	RegistryNoVersionsFmt    = "package index for %s lists no versions"
	RegistryBadVersionFmt    = "invalid version %q in package index for %s: %w"

	ToolRunPathRequired = "tool path is required"
	ToolRunStartFmt     = "start %s: %w"
	ToolRunStdoutFmt    = "open stdout pipe for %s: %w"
	ToolRunStderrFmt    = "open stderr pipe for %s: %w"
	ToolRunExitFmt      = "%s exited with code %d"

	BuildToolsCacheRequired     = "cache resolver is required"
	BuildToolsInstallerRequired = "package installer is required"
	BuildToolsRunnerRequired    = "tool runner is required"
	BuildToolsUnknownToolFmt    = "no package is known to provide %s"
	BuildToolsStillMissingFmt   = "%s not found: package %s was installed but does not provide it"
)
