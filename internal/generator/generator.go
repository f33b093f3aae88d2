package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/expogen/expogen/internal/scaffold"
	"github.com/expogen/expogen/internal/tasks"
)

// Mode selects where the scaffolding tool runs.
type Mode int

const (
	// ModeStaging runs the tool in a temporary directory and moves
	// <temp>/<name> to <target>/<name> after success.
	ModeStaging Mode = iota
	// ModeDirect runs the tool in <target>, producing <target>/<name>.
	ModeDirect
	// ModeInPlace runs the tool in <target> with "." as the project name;
	// target itself becomes the project root.
	ModeInPlace
)

func (m Mode) String() string {
	switch m {
	case ModeStaging:
		return "staging"
	case ModeDirect:
		return "direct"
	case ModeInPlace:
		return "in-place"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Scaffolder runs the scaffolding tool for one request.
type Scaffolder interface {
	Scaffold(ctx context.Context, req scaffold.Request) (scaffold.Result, error)
}

// ErrNotEmpty is returned when the project root already has content.
var ErrNotEmpty = errors.New("project directory is not empty")

// Generator produces a project and registers its default tasks.
type Generator struct {
	Scaffolder Scaffolder
	// Registry receives the default tasks after success; nil skips
	// registration.
	Registry       tasks.Registry
	Mode           Mode
	PackageManager string
	Lock           DirLock
	// TempDir is the parent of staging directories; empty means os.TempDir.
	TempDir string
	Logger  *slog.Logger
}

// Outcome describes a finished generation attempt.
type Outcome struct {
	ProjectRoot string
	Result      scaffold.Result
	Tasks       []tasks.Descriptor
	Warnings    []string
}

// New returns a Generator in staging mode with the default lock.
func New(s Scaffolder, reg tasks.Registry) *Generator {
	return &Generator{
		Scaffolder: s,
		Registry:   reg,
		Mode:       ModeStaging,
		Lock:       NewDirLock(),
	}
}

// ProjectRoot returns the directory the project ends up in for req.
func (g *Generator) ProjectRoot(req scaffold.Request) (string, error) {
	target, err := filepath.Abs(req.TargetDirectory)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", req.TargetDirectory, err)
	}
	if g.Mode == ModeInPlace {
		return target, nil
	}
	return filepath.Join(target, req.ProjectName), nil
}

// Generate runs one scaffold for req. A tool failure is reported through
// Outcome.Result with no tasks registered; it is not retried.
func (g *Generator) Generate(ctx context.Context, req scaffold.Request) (*Outcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	root, err := g.ProjectRoot(req)
	if err != nil {
		return nil, err
	}
	logger := g.logger().With("project", root, "mode", g.Mode.String())

	lock := g.Lock
	if lock.Now == nil {
		lock = NewDirLock()
	}
	unlock, err := lock.Lock(root)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := unlock(); err != nil {
			logger.Warn("releasing lock", "err", err)
		}
	}()

	empty, err := isEmptyDir(root)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", root, err)
	}
	if !empty {
		return nil, fmt.Errorf("%w: %s", ErrNotEmpty, root)
	}

	var result scaffold.Result
	switch g.Mode {
	case ModeStaging:
		result, err = g.runStaged(ctx, req, root, logger)
	case ModeDirect:
		result, err = g.Scaffolder.Scaffold(ctx, req)
	case ModeInPlace:
		inPlace := req
		inPlace.TargetDirectory = root
		inPlace.ProjectName = "."
		result, err = g.Scaffolder.Scaffold(ctx, inPlace)
	default:
		return nil, fmt.Errorf("unknown generator mode %v", g.Mode)
	}
	if err != nil {
		return nil, err
	}

	out := &Outcome{ProjectRoot: root, Result: result}
	if !result.Succeeded {
		logger.Debug("scaffolding tool failed", "code", result.ExitCode)
		return out, nil
	}

	out.Tasks = tasks.DefaultTasksFor(root, g.PackageManager)
	if missing, err := tasks.MissingScripts(root, out.Tasks); err != nil {
		out.Warnings = append(out.Warnings, fmt.Sprintf("could not check package.json scripts: %v", err))
	} else {
		for _, d := range missing {
			out.Warnings = append(out.Warnings, fmt.Sprintf("package.json has no %q script; task %s will fail", d.Script, d.Name))
		}
	}

	if g.Registry != nil {
		if err := g.Registry.Register(ctx, out.Tasks); err != nil {
			return out, fmt.Errorf("registering tasks: %w", err)
		}
		logger.Debug("registered tasks", "count", len(out.Tasks))
	}
	return out, nil
}

// runStaged scaffolds into a fresh temporary directory and moves the project
// to root on success. The staging directory is removed on every path.
func (g *Generator) runStaged(ctx context.Context, req scaffold.Request, root string, logger *slog.Logger) (scaffold.Result, error) {
	staging, err := os.MkdirTemp(g.TempDir, "expogen-*")
	if err != nil {
		return scaffold.Result{}, fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	staged := req
	staged.TargetDirectory = staging
	logger.Debug("scaffolding in staging directory", "staging", staging)

	result, err := g.Scaffolder.Scaffold(ctx, staged)
	if err != nil || !result.Succeeded {
		return result, err
	}

	produced := filepath.Join(staging, req.ProjectName)
	if info, err := os.Stat(produced); err != nil || !info.IsDir() {
		return result, fmt.Errorf("scaffolding tool exited successfully but did not create %s", produced)
	}
	if err := moveTree(produced, root); err != nil {
		return result, fmt.Errorf("moving project into place: %w", err)
	}
	return result, nil
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
