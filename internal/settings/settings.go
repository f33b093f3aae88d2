package settings

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/expogen/expogen/internal/scaffold"
)

// Templates lists the selectable templates. Only one exists today.
var Templates = []string{scaffold.DefaultTemplate}

// ErrCancelled is returned when the user aborts the interactive form.
var ErrCancelled = errors.New("project setup cancelled")

// maxNameLength matches the npm package name limit.
const maxNameLength = 214

var namePattern = regexp.MustCompile(`^[A-Za-z0-9~-][A-Za-z0-9._~-]*$`)

// Input is what the caller already knows, typically from flags.
type Input struct {
	ProjectName     string
	TargetDirectory string
	// TypeScript is nil when the caller did not decide.
	TypeScript *bool
	Template   string
}

// Draft is the working set a Prompter fills in.
type Draft struct {
	ProjectName   string
	UseTypeScript bool
	Template      string

	AskName       bool
	AskTypeScript bool
	AskTemplate   bool
}

// NeedsInput reports whether any field is still open.
func (d *Draft) NeedsInput() bool {
	return d.AskName || d.AskTypeScript || d.AskTemplate
}

// Prompter completes a Draft.
type Prompter interface {
	Prompt(d *Draft) error
}

// Collect merges in with defaults and the prompter's answers into a request.
// Values set in Input win over defaults; the prompter is only consulted for
// values the input left open.
func Collect(in Input, defaults scaffold.Options, p Prompter) (scaffold.Request, error) {
	d := Draft{
		ProjectName:   strings.TrimSpace(in.ProjectName),
		UseTypeScript: defaults.UseTypeScript,
		Template:      in.Template,
	}
	if in.TypeScript != nil {
		d.UseTypeScript = *in.TypeScript
	}
	if d.Template == "" {
		d.Template = defaults.Template
	}
	if d.Template == "" {
		d.Template = scaffold.DefaultTemplate
	}

	d.AskName = d.ProjectName == ""
	d.AskTypeScript = in.TypeScript == nil
	d.AskTemplate = in.Template == "" && len(Templates) > 1

	if d.NeedsInput() && p != nil {
		if err := p.Prompt(&d); err != nil {
			return scaffold.Request{}, err
		}
	}

	if err := ValidateProjectName(d.ProjectName); err != nil {
		return scaffold.Request{}, err
	}
	if err := ValidateTemplate(d.Template); err != nil {
		return scaffold.Request{}, err
	}

	dir := in.TargetDirectory
	if dir == "" {
		dir = "."
	}

	return scaffold.Request{
		TargetDirectory: dir,
		ProjectName:     d.ProjectName,
		Options: scaffold.Options{
			UseTypeScript: d.UseTypeScript,
			Template:      d.Template,
		},
	}, nil
}

// ValidateProjectName applies npm's package naming rules, allowing upper
// case as create-expo-app does.
func ValidateProjectName(name string) error {
	switch {
	case name == "":
		return errors.New("project name is required")
	case len(name) > maxNameLength:
		return fmt.Errorf("project name is longer than %d characters", maxNameLength)
	case strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_"):
		return fmt.Errorf("invalid project name %q: must not start with '.' or '_'", name)
	case !namePattern.MatchString(name):
		return fmt.Errorf("invalid project name %q: use letters, digits, '-', '.', '_' or '~'", name)
	}
	return nil
}

// ValidateTemplate rejects templates the generator does not know.
func ValidateTemplate(template string) error {
	for _, t := range Templates {
		if t == template {
			return nil
		}
	}
	return fmt.Errorf("unknown template %q (available: %s)", template, strings.Join(Templates, ", "))
}

// HeadlessPrompter answers without user interaction: defaults stand, and a
// missing project name is an error.
type HeadlessPrompter struct{}

// Prompt implements Prompter.
func (HeadlessPrompter) Prompt(d *Draft) error {
	if d.AskName {
		return errors.New("project name is required when not running interactively")
	}
	return nil
}
