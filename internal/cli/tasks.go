package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/expogen/expogen/internal/config"
	"github.com/expogen/expogen/internal/tasks"
	"github.com/spf13/cobra"
)

var (
	tasksJSON           bool
	tasksPackageManager string
	tasksRegister       bool
)

func init() {
	tasksCmd.Flags().BoolVar(&tasksJSON, "json", false, "Print tasks as JSON")
	tasksCmd.Flags().StringVar(&tasksPackageManager, "package-manager", "", "Package manager for task commands (default from config)")
	tasksCmd.Flags().BoolVar(&tasksRegister, "register", false, "Record the default tasks in the project")
	rootCmd.AddCommand(tasksCmd)
}

var tasksCmd = &cobra.Command{
	Use:   "tasks [dir]",
	Short: "Show the run tasks of an Expo project",
	Long: `Show the default start, android, ios and web tasks for a project
directory, and the tasks recorded in <dir>/.expogen/tasks.yaml if present.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		root, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", dir, err)
		}

		pm := tasksPackageManager
		if pm == "" {
			pm = config.Current().PackageManager
		}
		defaults := tasks.DefaultTasksFor(root, pm)

		if tasksRegister {
			if err := tasks.NewFileRegistry().Register(cmd.Context(), defaults); err != nil {
				return err
			}
			logger.Debug("registered tasks", "path", tasks.RegistryPath(root))
		}

		var registered []tasks.Descriptor
		file, err := tasks.Load(root)
		switch {
		case err == nil:
			registered = file.Tasks
		case errors.Is(err, os.ErrNotExist):
		default:
			return err
		}

		out := cmd.OutOrStdout()
		if tasksJSON {
			data, err := json.MarshalIndent(map[string][]tasks.Descriptor{
				"default":    defaults,
				"registered": registered,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling tasks: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "Default tasks for %s:\n", root)
		printTasks(out, defaults)
		if registered != nil {
			fmt.Fprintf(out, "\nRegistered in %s:\n", tasks.RegistryPath(root))
			printTasks(out, registered)
		}

		if missing, err := tasks.MissingScripts(root, defaults); err == nil && len(missing) > 0 {
			fmt.Fprintln(out, "\nScripts missing from package.json:")
			for _, d := range missing {
				fmt.Fprintf(out, "  - %s\n", d.Script)
			}
		}
		return nil
	},
}

func printTasks(w io.Writer, descs []tasks.Descriptor) {
	for _, d := range descs {
		fmt.Fprintf(w, "  %-8s %s\n", d.Name, strings.Join(d.Command, " "))
	}
}
