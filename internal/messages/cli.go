package messages

// CLI command metadata and user-facing output.
const (
	RootUse   = "winapp"
	RootShort = "Prepare and run the Windows app packaging toolchain"

	ToolUse       = "tool"
	ToolShort     = "Resolve and run external tool binaries"
	ToolPathUse   = "path <tool>"
	ToolPathShort = "Print the resolved path of a tool binary, installing its package if needed"
	ToolRunUse    = "run <tool> [-- <args>...]"
	ToolRunShort  = "Run a tool binary, installing its package if needed"

	PackagesUse       = "packages"
	PackagesShort     = "Inspect installed tool packages"
	PackagesListUse   = "list [package]"
	PackagesListShort = "List installed package versions"

	CacheUse          = "cache"
	CacheShort        = "Inspect and manage the tool package cache"
	CacheDirUse       = "dir"
	CacheDirShort     = "Print the resolved cache root directory"
	CacheSetDirUse    = "set-dir <path>"
	CacheSetDirShort  = "Persist a cache root override for future invocations"
	CacheClearUse     = "clear"
	CacheClearShort   = "Remove all installed packages from the cache"
	CacheClearConfirm = "Remove all installed packages?"
	CacheClearAborted = "cache clear aborted"
	CacheClearPrompt  = "cache clear requires confirmation; run in an interactive terminal or pass --yes"
	CacheClearedFmt   = "Cleared %s\n"
	CacheSetDirFmt    = "Cache root set to %s\n"

	UpdateUse   = "update [package]"
	UpdateShort = "Install the newest registry version of one or all known packages"

	InitUse   = "init"
	InitShort = "Create winapp.yaml for this project"

	InitAppNameTitle     = "Application name"
	InitPublisherTitle   = "Publisher"
	InitPinTitleFmt      = "Pin %s to an installed version?"
	InitPinNoneOption    = "latest (no pin)"
	InitConfirmTitle     = "Write winapp.yaml?"
	InitAborted          = "init aborted"
	InitRequiresTerminal = "init requires an interactive terminal; pass --app-name to run non-interactively"
	InitWroteFmt         = "Wrote %s\n"

	WarnPinOutdatedFmt = "warning: %s is pinned to %s but %s is installed; run `winapp update %s` or update the pin\n"

	UpdatedToFmt        = "%s is now at %s\n"
	SelectedMarker      = " (selected)"
	NoPackagesFmt       = "no packages installed under %s\n"
	ProjectRootNotFound = "no winapp.yaml found in this directory or any parent; run `winapp init` first"

	VersionTemplate  = "winapp {{.Version}}\n"
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"

	FlagQuietHelp     = "suppress best-effort warnings"
	FlagYesHelp       = "assume yes for confirmation prompts"
	FlagPinHelp       = "install the pinned version from winapp.yaml instead of the registry latest"
	FlagAppNameHelp   = "application name to write without prompting"
	FlagPublisherHelp = "publisher identity to write without prompting"
)
