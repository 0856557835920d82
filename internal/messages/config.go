package messages

// Configuration and project-root messages.
const (
	// ConfigMissingFileFmt formats unreadable config file errors.
	ConfigMissingFileFmt = "read config %s: %w"
	// ConfigInvalidYAMLFmt formats YAML syntax errors.
	ConfigInvalidYAMLFmt = "parse %s: %w"

	ConfigValidationGuidance = "(run `winapp init` to regenerate winapp.yaml)"

	ConfigAppNameRequiredFmt     = "%s: app.name is required"
	ConfigPinNameRequiredFmt     = "%s: packages[%d]: name is required"
	ConfigPinVersionRequiredFmt  = "%s: packages[%d] (%s): version is required"
	ConfigPinVersionInvalidFmt   = "%s: packages[%d] (%s): %v"
	ConfigPinDuplicateFmt        = "%s: packages: duplicate entry for %s"
	ConfigToolPackageRequiredFmt = "%s: tools[%s]: package name is required"
	ConfigEnvInvalidFmt          = "parse %s: %w"
	ConfigWriteFmt               = "write %s: %w"
	ConfigAlreadyInitializedFmt  = "%s already exists; delete it first or edit it directly"
	ConfigMarshalFmt             = "encode config: %w"

	EnvfileLineFmt           = "line %d: %w"
	EnvfileExpectedKeyValue  = "expected KEY=VALUE"
	EnvfileUnterminatedQuote = "unterminated quoted value"
	EnvfileTrailingContent   = "unexpected content after quoted value"

	// RootStartPathRequired indicates a start path is required for root resolution.
	RootStartPathRequired = "start path is required"
	RootResolvePathFmt    = "resolve path %s: %w"
	RootCheckPathFmt      = "check %s: %w"
)
