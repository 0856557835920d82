// Package buildtools ties tool lookup, package installation, and process
// execution together: ask for a tool by name and it comes back runnable,
// installing the owning package on first use.
package buildtools

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/winappkit/winapp/internal/cache"
	"github.com/winappkit/winapp/internal/installer"
	"github.com/winappkit/winapp/internal/locate"
	"github.com/winappkit/winapp/internal/messages"
	"github.com/winappkit/winapp/internal/packages"
	"github.com/winappkit/winapp/internal/toolrun"
	"github.com/winappkit/winapp/internal/version"
)

// ownersByTool maps bare lowercase tool names to the package that ships
// them. Project configuration may override or extend these.
var ownersByTool = map[string]string{
	"makeappx": "Microsoft.Windows.SDK.BuildTools",
	"signtool": "Microsoft.Windows.SDK.BuildTools",
	"mt":       "Microsoft.Windows.SDK.BuildTools",
	"makepri":  "Microsoft.Windows.SDK.BuildTools",
	"makemsix": "Microsoft.MSIX.Packaging",
}

// ErrVersionNotFound reports that no installed version of the owning
// package satisfies the request.
var ErrVersionNotFound = errors.New("no installed package version satisfies the request")

// ErrToolNotFound reports that an installed package version does not
// contain the requested tool.
var ErrToolNotFound = errors.New("tool not present in installed package")

// NotFoundAfterInstallError reports a tool still missing after its owning
// package was installed. Retrying further cannot help.
type NotFoundAfterInstallError struct {
	Tool    string
	Package string
}

func (e *NotFoundAfterInstallError) Error() string {
	return fmt.Sprintf(messages.BuildToolsStillMissingFmt, e.Tool, e.Package)
}

// Orchestrator resolves tools to runnable paths, installing their owning
// packages on demand.
type Orchestrator struct {
	Cache     *cache.Resolver
	Installer installer.Installer
	Runner    *toolrun.Runner
	// Pins maps package name to the version a project has pinned.
	Pins map[string]version.Dotted
	// Tools maps tool file names to owning packages, overriding the
	// built-in ownership table.
	Tools map[string]string
	// ForceLatest ignores pins and resolves against the newest version,
	// installing it first when absent.
	ForceLatest bool

	packagesSys packages.System
	locateSys   locate.System
}

// NewOrchestrator wires an orchestrator over the real filesystem.
func NewOrchestrator(cacheResolver *cache.Resolver, inst installer.Installer, runner *toolrun.Runner) *Orchestrator {
	return &Orchestrator{
		Cache:       cacheResolver,
		Installer:   inst,
		Runner:      runner,
		packagesSys: packages.RealSystem{},
		locateSys:   locate.RealSystem{},
	}
}

// ensureState models the tool acquisition lifecycle. A run starts at
// lookupPending and ends at resolved or failed; installing is entered at
// most once.
type ensureState int

const (
	stateLookupPending ensureState = iota
	stateInstalling
	stateResolved
	stateFailed
)

// EnsureToolAvailable returns an executable path for tool, installing the
// owning package when the first lookup misses. The lookup is always re-run
// exactly once after the install attempt, even a failed one: a partial
// unpack or a concurrent install may have left the tool usable. A second
// miss is terminal, surfacing the install failure when there was one.
func (o *Orchestrator) EnsureToolAvailable(ctx context.Context, tool string) (string, error) {
	if err := o.validate(); err != nil {
		return "", err
	}
	pkg, err := o.packageFor(tool)
	if err != nil {
		return "", err
	}

	state := stateLookupPending
	if o.ForceLatest {
		// Latest mode cannot trust what is already on disk; install
		// resolves the newest version and no-ops when it is present.
		state = stateInstalling
	}
	installedOnce := false
	var path string
	var terminal error
	var installErr error
	for state != stateResolved && state != stateFailed {
		switch state {
		case stateLookupPending:
			resolved, lookupErr := o.lookup(tool, pkg)
			switch {
			case lookupErr == nil:
				path = resolved
				state = stateResolved
			case !isMissing(lookupErr):
				terminal = lookupErr
				state = stateFailed
			case installedOnce && installErr != nil:
				terminal = installErr
				state = stateFailed
			case installedOnce:
				terminal = &NotFoundAfterInstallError{Tool: tool, Package: pkg}
				state = stateFailed
			default:
				state = stateInstalling
			}
		case stateInstalling:
			installErr = o.Installer.Install(ctx, pkg, o.pinFor(pkg))
			installedOnce = true
			state = stateLookupPending
		}
	}
	if state == stateFailed {
		return "", terminal
	}
	return path, nil
}

// Run resolves tool and executes it with args.
func (o *Orchestrator) Run(ctx context.Context, tool string, args []string, printErrors bool) (toolrun.Result, error) {
	path, err := o.EnsureToolAvailable(ctx, tool)
	if err != nil {
		return toolrun.Result{}, err
	}
	return o.Runner.Run(ctx, path, args, printErrors)
}

// lookup scans installed package versions for tool. Misses come back as
// ErrVersionNotFound or ErrToolNotFound; other errors mean unreadable
// cache state and are not retried.
func (o *Orchestrator) lookup(tool string, pkg string) (string, error) {
	cacheRoot := o.Cache.Resolve()
	versions, err := packages.ListVersions(o.sysForPackages(), cacheRoot, pkg)
	if err != nil {
		return "", err
	}
	inst, ok := packages.Select(versions, o.pinFor(pkg))
	if !ok {
		return "", ErrVersionNotFound
	}
	toolPath, found, err := locate.Locate(o.sysForLocate(), inst, tool)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrToolNotFound
	}
	return toolPath, nil
}

// isMissing reports whether err is one of the two recoverable lookup
// misses that an install may fix.
func isMissing(err error) bool {
	return errors.Is(err, ErrVersionNotFound) || errors.Is(err, ErrToolNotFound)
}

// packageFor resolves the package owning tool. Project overrides win over
// the built-in table, and both are consulted with and without the
// executable extension.
func (o *Orchestrator) packageFor(tool string) (string, error) {
	key := normalizeToolName(tool)
	if key == "" {
		return "", fmt.Errorf(messages.BuildToolsUnknownToolFmt, tool)
	}
	for configured, pkg := range o.Tools {
		if normalizeToolName(configured) == key && pkg != "" {
			return pkg, nil
		}
	}
	if pkg, ok := ownersByTool[key]; ok {
		return pkg, nil
	}
	return "", fmt.Errorf(messages.BuildToolsUnknownToolFmt, tool)
}

func (o *Orchestrator) pinFor(pkg string) *version.Dotted {
	if o.ForceLatest {
		return nil
	}
	if pin, ok := o.Pins[pkg]; ok {
		return &pin
	}
	return nil
}

func (o *Orchestrator) validate() error {
	if o.Cache == nil {
		return errors.New(messages.BuildToolsCacheRequired)
	}
	if o.Installer == nil {
		return errors.New(messages.BuildToolsInstallerRequired)
	}
	if o.Runner == nil {
		return errors.New(messages.BuildToolsRunnerRequired)
	}
	return nil
}

func (o *Orchestrator) sysForPackages() packages.System {
	if o.packagesSys != nil {
		return o.packagesSys
	}
	return packages.RealSystem{}
}

func (o *Orchestrator) sysForLocate() locate.System {
	if o.locateSys != nil {
		return o.locateSys
	}
	return locate.RealSystem{}
}

// normalizeToolName lowercases and strips a recognized executable
// extension so "MakeAppx.exe" and "makeappx" resolve identically.
func normalizeToolName(tool string) string {
	name := strings.ToLower(strings.TrimSpace(tool))
	switch filepath.Ext(name) {
	case ".exe", ".bat", ".cmd":
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
