package wizard

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/winappkit/winapp/internal/messages"
	"github.com/winappkit/winapp/internal/terminal"
)

// UI defines the interaction methods the init flow needs.
type UI interface {
	Input(title string, value *string) error
	Select(title string, options []string, current *string) error
	Confirm(title string, value *bool) error
}

// HuhUI implements UI using charmbracelet/huh.
type HuhUI struct {
	interactive func() bool
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuhUI creates a HuhUI using the default terminal check.
func NewHuhUI() *HuhUI {
	return &HuhUI{interactive: terminal.IsInteractive}
}

// requireTerminal fails when the UI is invoked without an interactive terminal.
func (ui *HuhUI) requireTerminal() error {
	probe := ui.interactive
	if probe == nil {
		probe = terminal.IsInteractive
	}
	if !probe() {
		return errors.New(messages.InitRequiresTerminal)
	}
	return nil
}

// runField validates terminal availability and runs a single-field form.
// An abort from the user surfaces as errCancelled.
func (ui *HuhUI) runField(field huh.Field) error {
	if err := ui.requireTerminal(); err != nil {
		return err
	}
	err := runFormFunc(huh.NewForm(huh.NewGroup(field)))
	if errors.Is(err, huh.ErrUserAborted) {
		return errCancelled
	}
	return err
}

// Input renders a plain text input prompt.
func (ui *HuhUI) Input(title string, value *string) error {
	return ui.runField(huh.NewInput().Title(title).Value(value))
}

// Select renders a single-choice prompt.
func (ui *HuhUI) Select(title string, options []string, current *string) error {
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, o)
	}
	return ui.runField(huh.NewSelect[string]().Title(title).Options(opts...).Value(current))
}

// Confirm renders a yes/no prompt.
func (ui *HuhUI) Confirm(title string, value *bool) error {
	return ui.runField(huh.NewConfirm().Title(title).Value(value))
}
