package scaffold

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// DefaultTemplate is the only template the generator knows about.
const DefaultTemplate = "expo-template-blank-typescript"

// DefaultPackage is the npm package that provides the scaffolding tool.
const DefaultPackage = "create-expo-app"

// Options holds the per-session generator choices.
type Options struct {
	UseTypeScript bool
	// Template is carried for display. The argument vector does not read it.
	Template string
}

// DefaultOptions returns a JavaScript project with the default template.
func DefaultOptions() Options {
	return Options{Template: DefaultTemplate}
}

// Request describes one scaffold invocation.
type Request struct {
	TargetDirectory string
	ProjectName     string
	Options         Options
}

// Result carries the tool's exit status. Succeeded is true iff ExitCode is 0.
type Result struct {
	ExitCode  int
	Succeeded bool
}

// NewResult builds a Result from an exit code.
func NewResult(exitCode int) Result {
	return Result{ExitCode: exitCode, Succeeded: exitCode == 0}
}

// Validate checks that the request names a project and that the target
// directory either exists as a directory or can be created.
func (r Request) Validate() error {
	if strings.TrimSpace(r.ProjectName) == "" {
		return errors.New("project name is required")
	}
	if r.TargetDirectory == "" {
		return errors.New("target directory is required")
	}
	info, err := os.Stat(r.TargetDirectory)
	if err == nil && !info.IsDir() {
		return fmt.Errorf("target %s exists and is not a directory", r.TargetDirectory)
	}
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("checking target directory: %w", err)
	}
	return nil
}

// BuildArguments returns the create-expo-app arguments for projectName.
// The result depends only on its inputs.
func BuildArguments(projectName string, opts Options) []string {
	if opts.UseTypeScript {
		return []string{"-t", DefaultTemplate, projectName}
	}
	return []string{projectName}
}
