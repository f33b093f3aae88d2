package runtime

import (
	"fmt"
)

// Runner builds the command line that executes a package without a separate
// installation step.
type Runner interface {
	// Name returns the runner identifier (e.g., "npx").
	Name() string
	// Command returns the argv that runs pkg with args. argv[0] is the
	// executable to resolve on PATH.
	Command(pkg string, args []string) ([]string, error)
}

// Supported runner identifiers.
const (
	RunnerNpx  = "npx"
	RunnerBunx = "bunx"
	RunnerPnpm = "pnpm"
	RunnerYarn = "yarn"
)

// Names lists the supported runner identifiers.
var Names = []string{RunnerNpx, RunnerBunx, RunnerPnpm, RunnerYarn}

// DispatchRunner returns the Runner for the given identifier. Unknown
// identifiers yield a runner whose Command always fails.
func DispatchRunner(name string) Runner {
	switch name {
	case RunnerNpx, "":
		return &execRunner{name: RunnerNpx, bin: "npx"}
	case RunnerBunx:
		return &execRunner{name: RunnerBunx, bin: "bunx"}
	case RunnerPnpm:
		return &execRunner{name: RunnerPnpm, bin: "pnpm", sub: "dlx"}
	case RunnerYarn:
		return &execRunner{name: RunnerYarn, bin: "yarn", sub: "dlx"}
	default:
		return &unknownRunner{name: name}
	}
}

// execRunner covers every runner of the form "<bin> [sub] <pkg> <args...>".
type execRunner struct {
	name string
	bin  string
	sub  string
}

func (r *execRunner) Name() string { return r.name }

func (r *execRunner) Command(pkg string, args []string) ([]string, error) {
	if pkg == "" {
		return nil, fmt.Errorf("%s: package name is empty", r.name)
	}
	argv := make([]string, 0, len(args)+3)
	argv = append(argv, r.bin)
	if r.sub != "" {
		argv = append(argv, r.sub)
	}
	argv = append(argv, pkg)
	return append(argv, args...), nil
}

// unknownRunner is returned when the runner identifier is not recognized.
type unknownRunner struct {
	name string
}

func (u *unknownRunner) Name() string { return u.name }

func (u *unknownRunner) Command(_ string, _ []string) ([]string, error) {
	return nil, fmt.Errorf("unknown runner %q: supported runners are %q", u.name, Names)
}
