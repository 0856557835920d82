package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/winappkit/winapp/internal/buildtools"
	"github.com/winappkit/winapp/internal/installer"
	"github.com/winappkit/winapp/internal/messages"
	"github.com/winappkit/winapp/internal/registry"
	"github.com/winappkit/winapp/internal/toolrun"
	"github.com/winappkit/winapp/internal/updatewarn"
)

func newToolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.ToolUse,
		Short: messages.ToolShort,
	}
	cmd.AddCommand(newToolPathCmd())
	cmd.AddCommand(newToolRunCmd())
	return cmd
}

func newToolPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.ToolPathUse,
		Short: messages.ToolPathShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}
			orchestrator := newOrchestrator(cmd, proj)
			path, err := orchestrator.EnsureToolAvailable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newToolRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.ToolRunUse,
		Short: messages.ToolRunShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}
			if !quietFlag(cmd) {
				updatewarn.WarnIfPinsOutdated(newCacheResolver(), proj.Config.Pins(), cmd.ErrOrStderr())
			}
			orchestrator := newOrchestrator(cmd, proj)
			result, err := orchestrator.Run(cmd.Context(), args[0], args[1:], true)
			if result.Stdout != "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), result.Stdout)
			}
			return err
		},
	}
}

// newOrchestrator wires the full resolution stack for one command: cache
// resolver, registry-backed installer, and process runner carrying the
// project's WINAPP_ environment.
func newOrchestrator(cmd *cobra.Command, proj project) *buildtools.Orchestrator {
	resolver := newCacheResolver()
	client := &registry.Client{BaseURL: os.Getenv(registry.EnvRegistry)}
	progress := cmd.ErrOrStderr()
	runner := &toolrun.Runner{Diag: cmd.ErrOrStderr(), Env: proj.Env}

	orchestrator := buildtools.NewOrchestrator(resolver, installer.NewRegistryInstaller(resolver, client, progress), runner)
	orchestrator.Pins = proj.Config.Pins()
	orchestrator.Tools = proj.Config.Tools
	return orchestrator
}
