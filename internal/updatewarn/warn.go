// Package updatewarn emits advisory warnings when project pins lag behind
// what is already installed in the cache.
package updatewarn

import (
	"io"

	"github.com/fatih/color"

	"github.com/winappkit/winapp/internal/cache"
	"github.com/winappkit/winapp/internal/messages"
	"github.com/winappkit/winapp/internal/packages"
	"github.com/winappkit/winapp/internal/version"
)

// listVersions is a seam for tests.
var listVersions = func(cacheRoot string, name string) ([]packages.InstalledVersion, error) {
	return packages.ListVersions(packages.RealSystem{}, cacheRoot, name)
}

// WarnIfPinsOutdated writes a yellow warning per pinned package whose cache
// holds a newer installed version than the pin. It is best-effort and never
// returns an error: unreadable cache state stays silent.
func WarnIfPinsOutdated(resolver *cache.Resolver, pins map[string]version.Dotted, stderr io.Writer) {
	if resolver == nil || len(pins) == 0 {
		return
	}
	if stderr == nil {
		stderr = io.Discard
	}

	warnColor := color.New(color.FgYellow)
	cacheRoot := resolver.Resolve()
	for name, pin := range pins {
		installed, err := listVersions(cacheRoot, name)
		if err != nil {
			continue
		}
		newest, ok := packages.Select(installed, nil)
		if !ok {
			continue
		}
		if pin.Less(newest.Version) {
			_, _ = warnColor.Fprintf(stderr, messages.WarnPinOutdatedFmt, name, pin.String(), newest.Version.String(), name)
		}
	}
}
