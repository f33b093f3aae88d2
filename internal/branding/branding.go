// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName            string `yaml:"cli_name"`
	DisplayName        string `yaml:"display_name"`
	Description        string `yaml:"description"`
	HomeDir            string `yaml:"home_dir"`
	EnvPrefix          string `yaml:"env_prefix"`
	GoModule           string `yaml:"go_module"`
	PresentablePackage string `yaml:"presentable_package"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:            "expogen",
			DisplayName:        "Expo",
			Description:        "Create a new Expo (React Native) project with create-expo-app",
			HomeDir:            ".expogen",
			EnvPrefix:          "EXPOGEN",
			GoModule:           "github.com/expogen/expogen",
			PresentablePackage: "create-expo-app",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "expogen").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the generator name shown in prompts (e.g., "Expo").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short generator description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".expogen").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "EXPOGEN").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// PresentablePackage returns the scaffolding package name as shown to users.
func PresentablePackage() string { load(); return defaults.PresentablePackage }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "EXPOGEN_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
