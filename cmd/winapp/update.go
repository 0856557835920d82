package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/winappkit/winapp/internal/installer"
	"github.com/winappkit/winapp/internal/messages"
	"github.com/winappkit/winapp/internal/packages"
	"github.com/winappkit/winapp/internal/registry"
	"github.com/winappkit/winapp/internal/version"
)

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.UpdateUse,
		Short: messages.UpdateShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}
			usePin, err := cmd.Flags().GetBool("pin")
			if err != nil {
				return err
			}

			resolver := newCacheResolver()
			targets, err := updateTargets(args, proj, resolver.Resolve())
			if err != nil {
				return err
			}

			client := &registry.Client{BaseURL: os.Getenv(registry.EnvRegistry)}
			inst := installer.NewRegistryInstaller(resolver, client, cmd.ErrOrStderr())
			for _, name := range targets {
				var pin *version.Dotted
				if usePin {
					pin = proj.Config.Pin(name)
				}
				if err := updateOne(cmd.Context(), cmd, inst, resolver.Resolve(), name, pin); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("pin", false, messages.FlagPinHelp)
	return cmd
}

// updateTargets resolves which packages to update: the named one, or the
// union of project-pinned and already-installed packages. Updating
// everything requires a project so the package set is explicit.
func updateTargets(args []string, proj project, cacheRoot string) ([]string, error) {
	if len(args) == 1 {
		return []string{args[0]}, nil
	}
	if !proj.Found {
		return nil, errors.New(messages.ProjectRootNotFound)
	}

	seen := make(map[string]bool)
	var targets []string
	for name := range proj.Config.Pins() {
		if !seen[name] {
			seen[name] = true
			targets = append(targets, name)
		}
	}
	installed, err := packages.ScanPackageNames(packages.RealSystem{}, cacheRoot)
	if err != nil {
		return nil, err
	}
	for _, name := range installed {
		if !seen[name] {
			seen[name] = true
			targets = append(targets, name)
		}
	}
	sort.Strings(targets)
	return targets, nil
}

func updateOne(ctx context.Context, cmd *cobra.Command, inst installer.Installer, cacheRoot string, name string, pin *version.Dotted) error {
	if err := inst.Install(ctx, name, pin); err != nil {
		return err
	}
	installed, err := packages.ListVersions(packages.RealSystem{}, cacheRoot, name)
	if err != nil {
		return err
	}
	if current, ok := packages.Select(installed, pin); ok {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.UpdatedToFmt, name, current.Version.String())
	}
	return nil
}
