package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/winappkit/winapp/internal/messages"
	"github.com/winappkit/winapp/internal/packages"
)

func newPackagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.PackagesUse,
		Short: messages.PackagesShort,
	}
	cmd.AddCommand(newPackagesListCmd())
	return cmd
}

func newPackagesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.PackagesListUse,
		Short: messages.PackagesListShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProjectLenient()
			if err != nil {
				return err
			}
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}

			cacheRoot := newCacheResolver().Resolve()
			names, err := installedPackageNames(cacheRoot, filter)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.NoPackagesFmt, packagesRootDisplay(cacheRoot))
				return nil
			}

			out := cmd.OutOrStdout()
			for _, name := range names {
				installed, err := packages.ListVersions(packages.RealSystem{}, cacheRoot, name)
				if err != nil {
					return err
				}
				selected, hasSelected := packages.Select(installed, proj.Config.Pin(name))

				_, _ = fmt.Fprintf(out, "%s\n", name)
				sort.Slice(installed, func(i, j int) bool {
					return installed[i].Version.Less(installed[j].Version)
				})
				for _, inst := range installed {
					marker := ""
					if hasSelected && inst.Version.Equal(selected.Version) {
						marker = messages.SelectedMarker
					}
					_, _ = fmt.Fprintf(out, "  %s%s\n", inst.Version.String(), marker)
				}
			}
			return nil
		},
	}
}

// installedPackageNames scans the cache for distinct package names,
// optionally keeping only a case-insensitive match.
func installedPackageNames(cacheRoot string, filter string) ([]string, error) {
	entries, err := packages.ScanPackageNames(packages.RealSystem{}, cacheRoot)
	if err != nil {
		return nil, err
	}
	if filter != "" {
		kept := entries[:0]
		for _, name := range entries {
			if strings.EqualFold(name, filter) {
				kept = append(kept, name)
			}
		}
		entries = kept
	}
	sort.Strings(entries)
	return entries, nil
}
