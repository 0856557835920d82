package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/winappkit/winapp/internal/messages"
	"github.com/winappkit/winapp/internal/terminal"
	"github.com/winappkit/winapp/internal/wizard"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.CacheUse,
		Short: messages.CacheShort,
	}
	cmd.AddCommand(newCacheDirCmd())
	cmd.AddCommand(newCacheSetDirCmd())
	cmd.AddCommand(newCacheClearCmd())
	return cmd
}

func newCacheDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.CacheDirUse,
		Short: messages.CacheDirShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), newCacheResolver().Resolve())
			return nil
		},
	}
}

func newCacheSetDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.CacheSetDirUse,
		Short: messages.CacheSetDirShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := newCacheResolver()
			if err := resolver.WriteLocationPointer(args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.CacheSetDirFmt, args[0])
			return nil
		},
	}
}

// confirmFunc is a seam for tests; the default prompts via huh.
var confirmFunc = func(title string, value *bool) error {
	return wizard.NewHuhUI().Confirm(title, value)
}

func newCacheClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.CacheClearUse,
		Short: messages.CacheClearShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			yes, err := cmd.Flags().GetBool("yes")
			if err != nil {
				return err
			}
			if !yes {
				if !terminal.IsInteractive() {
					return errors.New(messages.CacheClearPrompt)
				}
				confirmed := false
				if err := confirmFunc(messages.CacheClearConfirm, &confirmed); err != nil {
					return err
				}
				if !confirmed {
					return errors.New(messages.CacheClearAborted)
				}
			}

			resolver := newCacheResolver()
			cacheRoot := resolver.Resolve()
			if err := resolver.ClearPackages(cacheRoot); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.CacheClearedFmt, cacheRoot)
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, messages.FlagYesHelp)
	return cmd
}
