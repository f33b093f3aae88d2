package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/expogen/expogen/internal/runtime"
)

// waitDelay bounds how long Wait blocks on output pipes after the tool exits
// or is killed. Grandchildren that inherit the pipes would otherwise keep
// Wait open.
const waitDelay = 5 * time.Second

// Invoker runs the scaffolding tool through a package runner.
type Invoker struct {
	Runner  runtime.Runner
	Package string

	// Stdout and Stderr receive the tool's output as it is produced;
	// default to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer

	// Env is appended to the inherited environment.
	Env []string

	// LookPath resolves the runner executable; defaults to exec.LookPath.
	LookPath func(file string) (string, error)

	Logger *slog.Logger
}

// NewInvoker returns an Invoker for runner and pkg with default I/O.
func NewInvoker(runner runtime.Runner, pkg string) *Invoker {
	if pkg == "" {
		pkg = DefaultPackage
	}
	return &Invoker{Runner: runner, Package: pkg}
}

// CommandLine returns the full argv the invoker would run for req.
func (inv *Invoker) CommandLine(req Request) ([]string, error) {
	runner := inv.Runner
	if runner == nil {
		runner = runtime.DispatchRunner(runtime.RunnerNpx)
	}
	pkg := inv.Package
	if pkg == "" {
		pkg = DefaultPackage
	}
	argv, err := runner.Command(pkg, BuildArguments(req.ProjectName, req.Options))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrToolNotFound, err)
	}
	return argv, nil
}

// Scaffold runs the tool with its working directory set to
// req.TargetDirectory and blocks until it exits. A non-zero exit is reported
// through Result, not as an error. Cancelling ctx kills the tool's process
// group.
func (inv *Invoker) Scaffold(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	argv, err := inv.CommandLine(req)
	if err != nil {
		return Result{}, err
	}

	lookPath := inv.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	bin, err := lookPath(argv[0])
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrToolNotFound, argv[0], err)
	}

	if err := os.MkdirAll(req.TargetDirectory, 0755); err != nil {
		return Result{}, fmt.Errorf("creating target directory: %w", err)
	}

	logger := inv.logger()
	cmdline := strings.Join(argv, " ")
	logger.Debug("running scaffolding tool", "cmd", cmdline, "dir", req.TargetDirectory)

	cmd := exec.CommandContext(ctx, bin, argv[1:]...)
	cmd.Dir = req.TargetDirectory
	cmd.Env = append(os.Environ(), inv.Env...)
	cmd.Stdout = writerOr(inv.Stdout, os.Stdout)
	cmd.Stderr = writerOr(inv.Stderr, os.Stderr)
	cmd.WaitDelay = waitDelay
	configureProcess(cmd)

	err = cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, fmt.Errorf("scaffold %s cancelled: %w", req.ProjectName, ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Debug("scaffolding tool exited", "code", exitErr.ExitCode())
			return NewResult(exitErr.ExitCode()), nil
		}
		return Result{}, &SpawnError{Command: cmdline, Err: err}
	}

	logger.Debug("scaffolding tool exited", "code", 0)
	return NewResult(0), nil
}

func (inv *Invoker) logger() *slog.Logger {
	if inv.Logger != nil {
		return inv.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
