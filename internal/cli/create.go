package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/expogen/expogen/internal/config"
	"github.com/expogen/expogen/internal/generator"
	"github.com/expogen/expogen/internal/runtime"
	"github.com/expogen/expogen/internal/scaffold"
	"github.com/expogen/expogen/internal/settings"
	"github.com/expogen/expogen/internal/tasks"
	"github.com/spf13/cobra"
)

var (
	createTypeScript     bool
	createTemplate       string
	createDir            string
	createInPlace        bool
	createDirect         bool
	createRunner         string
	createNoTasks        bool
	createDryRun         bool
	createNonInteractive bool
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new Expo project",
	Long: `Create a new Expo project with create-expo-app.

The tool runs in a temporary staging directory and the finished project is
moved to <dir>/<name>. On success the start, android, ios and web tasks are
recorded in <project>/.expogen/tasks.yaml.

Examples:
  expogen create my-app
  expogen create MyApp --typescript --dir ~/src
  expogen create my-app --runner bunx
  expogen create my-app --dir ./my-app --in-place`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().BoolVar(&createTypeScript, "typescript", false, "Create a TypeScript project")
	createCmd.Flags().StringVar(&createTemplate, "template", "", "Project template (default from config)")
	createCmd.Flags().StringVarP(&createDir, "dir", "d", ".", "Directory to create the project in")
	createCmd.Flags().BoolVar(&createInPlace, "in-place", false, "Scaffold directly into --dir instead of <dir>/<name>")
	createCmd.Flags().BoolVar(&createDirect, "no-staging", false, "Run the tool in --dir instead of a staging directory")
	createCmd.Flags().StringVar(&createRunner, "runner", "", "Package runner: npx, bunx, pnpm or yarn (default from config)")
	createCmd.Flags().BoolVar(&createNoTasks, "no-tasks", false, "Do not record run tasks")
	createCmd.Flags().BoolVar(&createDryRun, "dry-run", false, "Print the command without running it")
	createCmd.Flags().BoolVar(&createNonInteractive, "non-interactive", false, "Never prompt; fail if the name is missing")
	createCmd.MarkFlagsMutuallyExclusive("in-place", "no-staging")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg := config.Current()
	out := cmd.OutOrStdout()

	in := settings.Input{
		TargetDirectory: createDir,
		Template:        createTemplate,
	}
	if len(args) == 1 {
		in.ProjectName = args[0]
	}
	if cmd.Flags().Changed("typescript") {
		ts := createTypeScript
		in.TypeScript = &ts
	}
	defaults := scaffold.Options{UseTypeScript: cfg.TypeScript, Template: cfg.Template}

	req, err := settings.Collect(in, defaults, settings.DefaultPrompter(createNonInteractive))
	if err != nil {
		if errors.Is(err, settings.ErrCancelled) {
			return &ExitError{Code: ExitFailure, Err: err}
		}
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	runnerName := createRunner
	if runnerName == "" {
		runnerName = cfg.Runner
	}
	inv := scaffold.NewInvoker(runtime.DispatchRunner(runnerName), cfg.Package)
	inv.Stdout = out
	inv.Stderr = cmd.ErrOrStderr()
	inv.Logger = logger

	var registry tasks.Registry
	if !createNoTasks {
		registry = tasks.NewFileRegistry()
	}
	gen := generator.New(inv, registry)
	gen.Mode = resolveMode(createInPlace, createDirect, cfg.Staging)
	gen.PackageManager = cfg.PackageManager
	gen.Logger = logger

	if createDryRun {
		return printDryRun(out, inv, gen, req)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lang := "JavaScript"
	if req.Options.UseTypeScript {
		lang = "TypeScript"
	}
	fmt.Fprintf(out, "Creating %s project %s with %s...\n", lang, req.ProjectName, inv.Runner.Name())

	outcome, err := gen.Generate(ctx, req)
	if err != nil {
		return classifyGenerateError(err)
	}
	if !outcome.Result.Succeeded {
		code := outcome.Result.ExitCode
		if code <= 0 {
			code = ExitFailure
		}
		return &ExitError{
			Code: code,
			Err:  fmt.Errorf("%s exited with code %d", inv.Package, outcome.Result.ExitCode),
		}
	}

	printOutcome(out, outcome)
	return nil
}

// resolveMode maps flags and the staging setting to a generator mode.
func resolveMode(inPlace, direct, staging bool) generator.Mode {
	switch {
	case inPlace:
		return generator.ModeInPlace
	case direct || !staging:
		return generator.ModeDirect
	default:
		return generator.ModeStaging
	}
}

func classifyGenerateError(err error) error {
	var locked *generator.ErrLocked
	switch {
	case errors.Is(err, scaffold.ErrToolNotFound):
		return &ExitError{Code: ExitEnvError, Err: fmt.Errorf("%w (run `expogen doctor`)", err)}
	case errors.As(err, &locked), errors.Is(err, generator.ErrNotEmpty):
		return &ExitError{Code: ExitFailure, Err: err}
	default:
		return err
	}
}

func printDryRun(w io.Writer, inv *scaffold.Invoker, gen *generator.Generator, req scaffold.Request) error {
	root, err := gen.ProjectRoot(req)
	if err != nil {
		return err
	}

	runReq := req
	runDir := req.TargetDirectory
	switch gen.Mode {
	case generator.ModeStaging:
		runDir = "<staging directory>"
	case generator.ModeInPlace:
		runReq.ProjectName = "."
		runDir = root
	}

	argv, err := inv.CommandLine(runReq)
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}
	fmt.Fprintf(w, "Would run: %s\n", strings.Join(argv, " "))
	fmt.Fprintf(w, "  in:      %s\n", runDir)
	fmt.Fprintf(w, "  project: %s\n", root)
	fmt.Fprintf(w, "  mode:    %s\n", gen.Mode)
	return nil
}

func printOutcome(w io.Writer, outcome *generator.Outcome) {
	fmt.Fprintf(w, "\nCreated project at %s\n", outcome.ProjectRoot)

	if len(outcome.Tasks) > 0 {
		fmt.Fprintln(w, "\nTasks:")
		for _, d := range outcome.Tasks {
			fmt.Fprintf(w, "  %-8s %s\n", d.Name, strings.Join(d.Command, " "))
		}
	}
	if len(outcome.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, msg := range outcome.Warnings {
			fmt.Fprintf(w, "  - %s\n", msg)
		}
	}

	rel := outcome.ProjectRoot
	if wd, err := os.Getwd(); err == nil {
		if r, err := filepath.Rel(wd, outcome.ProjectRoot); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintf(w, "  cd %s\n", rel)
	if len(outcome.Tasks) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(outcome.Tasks[0].Command, " "))
	}
}
