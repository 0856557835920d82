package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/winappkit/winapp/internal/messages"
	"github.com/winappkit/winapp/internal/terminal"
	"github.com/winappkit/winapp/internal/wizard"
)

var runWizardFunc = wizard.Run

func newInitCmd() *cobra.Command {
	var appName string
	var publisher string

	cmd := &cobra.Command{
		Use:   messages.InitUse,
		Short: messages.InitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if appName == "" && !terminal.IsInteractive() {
				return errors.New(messages.InitRequiresTerminal)
			}
			cwd, err := getwd()
			if err != nil {
				return err
			}
			err = runWizardFunc(wizard.Options{
				Cache:     newCacheResolver(),
				Out:       cmd.OutOrStdout(),
				Dir:       cwd,
				AppName:   appName,
				Publisher: publisher,
			})
			if wizard.IsCancelled(err) {
				return &SilentExitError{Code: 1}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&appName, "app-name", "", messages.FlagAppNameHelp)
	cmd.Flags().StringVar(&publisher, "publisher", "", messages.FlagPublisherHelp)
	return cmd
}
