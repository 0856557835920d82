// Package wizard drives the interactive `winapp init` flow that creates a
// project's winapp.yaml.
package wizard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/winappkit/winapp/internal/cache"
	"github.com/winappkit/winapp/internal/config"
	"github.com/winappkit/winapp/internal/messages"
	"github.com/winappkit/winapp/internal/packages"
	"github.com/winappkit/winapp/internal/version"
)

// sdkPackage is the package the wizard offers to pin. Other packages can be
// pinned by editing winapp.yaml directly.
const sdkPackage = "Microsoft.Windows.SDK.BuildTools"

// errCancelled reports a user abort; main maps it to a silent non-zero exit.
var errCancelled = errors.New(messages.InitAborted)

// IsCancelled reports whether err is the user aborting the wizard.
func IsCancelled(err error) bool {
	return errors.Is(err, errCancelled)
}

// Options configures a wizard run.
type Options struct {
	UI     UI
	Cache  *cache.Resolver
	Out    io.Writer
	Dir    string
	// AppName set non-empty skips prompting entirely; used by
	// `winapp init --app-name` for non-interactive setups.
	AppName   string
	Publisher string
}

// Run prompts for the minimal project settings and writes winapp.yaml into
// opts.Dir. An existing winapp.yaml is never overwritten.
func Run(opts Options) error {
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir = wd
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	configPath := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf(messages.ConfigAlreadyInitializedFmt, configPath)
	}

	cfg := &config.Config{
		App: config.AppConfig{Name: strings.TrimSpace(opts.AppName), Publisher: strings.TrimSpace(opts.Publisher)},
	}
	if cfg.App.Name == "" {
		if err := promptSettings(opts, cfg); err != nil {
			return err
		}
	}
	if err := cfg.Validate(configPath); err != nil {
		return err
	}

	if err := config.Write(configPath, cfg); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, messages.InitWroteFmt, configPath)
	return nil
}

// promptSettings fills cfg interactively.
func promptSettings(opts Options, cfg *config.Config) error {
	ui := opts.UI
	if ui == nil {
		ui = NewHuhUI()
	}

	if err := ui.Input(messages.InitAppNameTitle, &cfg.App.Name); err != nil {
		return err
	}
	cfg.App.Name = strings.TrimSpace(cfg.App.Name)
	if err := ui.Input(messages.InitPublisherTitle, &cfg.App.Publisher); err != nil {
		return err
	}
	cfg.App.Publisher = strings.TrimSpace(cfg.App.Publisher)

	if pin, ok, err := promptPin(opts, ui); err != nil {
		return err
	} else if ok {
		cfg.Packages = append(cfg.Packages, config.PackagePin{Name: sdkPackage, Version: pin.String()})
	}

	confirmed := true
	if err := ui.Confirm(messages.InitConfirmTitle, &confirmed); err != nil {
		return err
	}
	if !confirmed {
		return errCancelled
	}
	return nil
}

// promptPin offers the installed SDK build tools versions as pin choices.
// With nothing installed there is nothing to pin and no prompt is shown.
func promptPin(opts Options, ui UI) (version.Dotted, bool, error) {
	if opts.Cache == nil {
		return version.Dotted{}, false, nil
	}
	installed, err := packages.ListVersions(packages.RealSystem{}, opts.Cache.Resolve(), sdkPackage)
	if err != nil || len(installed) == 0 {
		return version.Dotted{}, false, nil
	}

	options := make([]string, 0, len(installed)+1)
	options = append(options, messages.InitPinNoneOption)
	for _, inst := range installed {
		options = append(options, inst.Version.String())
	}
	sort.Strings(options[1:])

	choice := options[0]
	title := fmt.Sprintf(messages.InitPinTitleFmt, sdkPackage)
	if err := ui.Select(title, options, &choice); err != nil {
		return version.Dotted{}, false, err
	}
	if choice == messages.InitPinNoneOption {
		return version.Dotted{}, false, nil
	}
	pin, err := version.Parse(choice)
	if err != nil {
		return version.Dotted{}, false, err
	}
	return pin, true, nil
}
