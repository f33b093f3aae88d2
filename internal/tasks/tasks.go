package tasks

import "fmt"

// DefaultScripts are the package.json scripts create-expo-app generates.
var DefaultScripts = []string{"start", "android", "ios", "web"}

// DefaultPackageManager runs the scripts when none is configured.
const DefaultPackageManager = "npm"

// Descriptor describes "run the package script Script in ProjectRoot".
type Descriptor struct {
	Name        string   `yaml:"name" json:"name"`
	Script      string   `yaml:"script" json:"script"`
	ProjectRoot string   `yaml:"project_root" json:"project_root"`
	Command     []string `yaml:"command" json:"command"`
}

// String renders the descriptor as a shell-like command line.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s: %v (in %s)", d.Name, d.Command, d.ProjectRoot)
}

// DefaultTasks returns the start, android, ios and web descriptors for
// projectRoot, run through npm.
func DefaultTasks(projectRoot string) []Descriptor {
	return DefaultTasksFor(projectRoot, DefaultPackageManager)
}

// DefaultTasksFor is DefaultTasks with an explicit package manager.
func DefaultTasksFor(projectRoot, packageManager string) []Descriptor {
	if packageManager == "" {
		packageManager = DefaultPackageManager
	}
	descs := make([]Descriptor, 0, len(DefaultScripts))
	for _, script := range DefaultScripts {
		descs = append(descs, Descriptor{
			Name:        script,
			Script:      script,
			ProjectRoot: projectRoot,
			Command:     []string{packageManager, "run", script},
		})
	}
	return descs
}
