package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/expogen/expogen/internal/config"
	"github.com/expogen/expogen/internal/runtime"
	"github.com/spf13/cobra"
)

var doctorRunner string

// statusTags renders the check tags for w; colors are dropped when w is not
// a terminal.
type statusTags struct {
	ok, miss, warn string
}

func newStatusTags(w io.Writer) statusTags {
	r := lipgloss.NewRenderer(w)
	return statusTags{
		ok:   r.NewStyle().Foreground(lipgloss.Color("2")).Render("[ OK ]"),
		miss: r.NewStyle().Foreground(lipgloss.Color("1")).Render("[MISS]"),
		warn: r.NewStyle().Foreground(lipgloss.Color("3")).Render("[WARN]"),
	}
}

func init() {
	doctorCmd.Flags().StringVar(&doctorRunner, "runner", "", "Package runner to check (default from config)")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that create-expo-app can run",
	Long: `Run diagnostic checks on the environment: the package runner binary,
the Node.js version and the configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cfg := config.Current()

		name := doctorRunner
		if name == "" {
			name = cfg.Runner
		}

		tags := newStatusTags(out)
		ok := checkRunner(out, tags, runtime.DispatchRunner(name), cfg.Package)
		ok = checkNode(cmd.Context(), out, tags) && ok
		checkConfigFile(out, tags)

		if !ok {
			return &ExitError{Code: ExitEnvError, Err: errors.New("environment check failed")}
		}
		return nil
	},
}

func checkRunner(w io.Writer, tags statusTags, r runtime.Runner, pkg string) bool {
	fmt.Fprintln(w, "Runner check:")
	argv, err := r.Command(pkg, nil)
	if err != nil {
		fmt.Fprintf(w, "  %s %v\n", tags.miss, err)
		return false
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		fmt.Fprintf(w, "  %s %s not found\n", tags.miss, argv[0])
		return false
	}
	fmt.Fprintf(w, "  %s %s found at %s\n", tags.ok, argv[0], path)
	return true
}

func checkNode(ctx context.Context, w io.Writer, tags statusTags) bool {
	fmt.Fprintln(w, "Node check:")
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	version, err := runtime.NodeVersion(ctx)
	if err != nil {
		fmt.Fprintf(w, "  %s node: %v\n", tags.miss, err)
		return false
	}
	satisfied, err := runtime.CheckNodeVersion(version, runtime.MinNodeVersion)
	if err != nil {
		fmt.Fprintf(w, "  %s node %s: %v\n", tags.warn, version, err)
		return true
	}
	if !satisfied {
		fmt.Fprintf(w, "  %s node %s does not satisfy %s\n", tags.miss, version, runtime.MinNodeVersion)
		return false
	}
	fmt.Fprintf(w, "  %s node %s\n", tags.ok, version)
	return true
}

func checkConfigFile(w io.Writer, tags statusTags) {
	fmt.Fprintln(w, "Config check:")
	path := config.FilePath()
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(w, "  %s %s not found, using defaults\n", tags.warn, path)
		return
	}
	fmt.Fprintf(w, "  %s %s\n", tags.ok, path)
}
