package settings

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/expogen/expogen/internal/branding"
)

// Expo brand colors.
const (
	colorPrimary = "#4630EB"
	colorMuted   = "#9CA3AF"
	colorError   = "#DC2626"
)

// FormPrompter asks for open values with a huh form.
type FormPrompter struct {
	In  io.Reader
	Out io.Writer
}

// NewFormPrompter returns a FormPrompter bound to the process terminal.
func NewFormPrompter() *FormPrompter {
	return &FormPrompter{In: os.Stdin, Out: os.Stderr}
}

// Prompt implements Prompter.
func (f *FormPrompter) Prompt(d *Draft) error {
	fields := []huh.Field{
		huh.NewNote().
			Title(branding.DisplayName()).
			Description(branding.Description()),
	}

	if d.AskName {
		fields = append(fields, huh.NewInput().
			Title("Project name").
			Placeholder("my-app").
			Value(&d.ProjectName).
			Validate(ValidateProjectName))
	}
	if d.AskTemplate {
		fields = append(fields, huh.NewSelect[string]().
			Title("Template").
			Options(huh.NewOptions(Templates...)...).
			Value(&d.Template))
	}
	if d.AskTypeScript {
		fields = append(fields, huh.NewConfirm().
			Title("Create TypeScript project").
			Affirmative("Yes").
			Negative("No").
			Value(&d.UseTypeScript))
	}

	form := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(newTheme()).
		WithInput(f.In).
		WithOutput(f.Out)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return fmt.Errorf("settings form: %w", err)
	}
	return nil
}

func newTheme() *huh.Theme {
	t := huh.ThemeBase()

	primary := lipgloss.AdaptiveColor{Light: colorPrimary, Dark: "#8B7CF6"}
	muted := lipgloss.AdaptiveColor{Light: colorMuted, Dark: colorMuted}
	red := lipgloss.AdaptiveColor{Light: colorError, Dark: "#F87171"}

	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.NoteTitle = t.Focused.NoteTitle.Foreground(primary).Bold(true).MarginBottom(1)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(red)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(red)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(primary).SetString("▸ ")
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(primary)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(muted)
	t.Focused.FocusedButton = t.Focused.FocusedButton.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(primary)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	return t
}

// IsHeadless reports whether stdin is not a terminal.
func IsHeadless() bool {
	fd := os.Stdin.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// DefaultPrompter picks the form on a terminal and HeadlessPrompter otherwise.
func DefaultPrompter(nonInteractive bool) Prompter {
	if nonInteractive || IsHeadless() {
		return HeadlessPrompter{}
	}
	return NewFormPrompter()
}
