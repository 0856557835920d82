// Package locate finds the architecture-appropriate tool binary inside an
// installed package's bin layout.
package locate

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/winappkit/winapp/internal/messages"
	"github.com/winappkit/winapp/internal/packages"
	"github.com/winappkit/winapp/internal/version"
)

// Arch identifies a tool binary architecture directory.
type Arch string

// Supported architecture directory names.
const (
	ArchX64   Arch = "x64"
	ArchArm64 Arch = "arm64"
	ArchX86   Arch = "x86"
)

// executableExtensions are tried, in order, when the tool name carries no
// known executable extension.
var executableExtensions = []string{".exe", ".bat", ".cmd"}

// hostArchFunc is a seam so tests can pin the architecture.
var hostArchFunc = hostArch

// hostArch maps the running process architecture onto a bin subdirectory.
func hostArch() Arch {
	switch runtime.GOARCH {
	case "arm64":
		return ArchArm64
	case "386":
		return ArchX86
	default:
		return ArchX64
	}
}

// Locate finds toolFileName inside installed's bin layout
// (root/bin/<sdkVersion>/<arch>/<tool>) for the host architecture.
//
// When several sdkVersion segments are present, the dotted-version maximum is
// chosen and only that segment is searched. Names without a known executable
// extension are retried with each default extension. A missing tool is
// reported via the bool, never as an error; the caller decides policy.
//
// Results are never cached: installed packages can change between calls.
func Locate(sys System, installed packages.InstalledVersion, toolFileName string) (string, bool, error) {
	if sys == nil {
		sys = RealSystem{}
	}
	binDir := filepath.Join(installed.Root, "bin")
	sdkDir, ok, err := latestSDKDir(sys, binDir)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}

	archDir := filepath.Join(sdkDir, string(hostArchFunc()))
	for _, candidate := range nameCandidates(toolFileName) {
		path := filepath.Join(archDir, candidate)
		info, err := sys.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", false, fmt.Errorf(messages.LocateReadDirFmt, path, err)
		}
		if info.IsDir() {
			continue
		}
		return path, true, nil
	}
	return "", false, nil
}

// latestSDKDir picks the highest dotted-version subdirectory of binDir.
// Segments that do not parse as dotted versions are ignored.
func latestSDKDir(sys System, binDir string) (string, bool, error) {
	entries, err := sys.ReadDir(binDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf(messages.LocateReadDirFmt, binDir, err)
	}

	var best version.Dotted
	bestName := ""
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		v, err := version.Parse(entry.Name())
		if err != nil {
			continue
		}
		if bestName == "" || best.Less(v) {
			best = v
			bestName = entry.Name()
		}
	}
	if bestName == "" {
		return "", false, nil
	}
	return filepath.Join(binDir, bestName), true, nil
}

// nameCandidates returns the file names to try for toolFileName. A name that
// already carries a known executable extension is tried as-is; otherwise the
// bare name is tried first, then each default extension appended.
func nameCandidates(toolFileName string) []string {
	ext := strings.ToLower(filepath.Ext(toolFileName))
	for _, known := range executableExtensions {
		if ext == known {
			return []string{toolFileName}
		}
	}
	candidates := make([]string, 0, len(executableExtensions)+1)
	candidates = append(candidates, toolFileName)
	for _, known := range executableExtensions {
		candidates = append(candidates, toolFileName+known)
	}
	return candidates
}
