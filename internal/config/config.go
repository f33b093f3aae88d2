package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/expogen/expogen/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized configuration keys.
const (
	KeyRunner         = "runner"
	KeyPackage        = "package"
	KeyTypeScript     = "typescript"
	KeyTemplate       = "template"
	KeyStaging        = "staging"
	KeyPackageManager = "package_manager"
)

// Defaults mirror the behavior of the stock generator: npx create-expo-app,
// JavaScript project, generated in a staging directory, npm scripts.
var defaultValues = map[string]any{
	KeyRunner:         "npx",
	KeyPackage:        "create-expo-app",
	KeyTypeScript:     false,
	KeyTemplate:       "expo-template-blank-typescript",
	KeyStaging:        true,
	KeyPackageManager: "npm",
}

// Settings is a typed snapshot of the loaded configuration.
type Settings struct {
	Runner         string
	Package        string
	TypeScript     bool
	Template       string
	Staging        bool
	PackageManager string
}

// Dir returns the path to the config directory. EXPOGEN_HOME takes precedence
// over ~/.expogen/.
func Dir() string {
	if dir := os.Getenv(branding.EnvVar("HOME")); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	for k, v := range defaultValues {
		viper.SetDefault(k, v)
	}
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current returns the effective settings. Load must be called first.
func Current() Settings {
	return Settings{
		Runner:         viper.GetString(KeyRunner),
		Package:        viper.GetString(KeyPackage),
		TypeScript:     viper.GetBool(KeyTypeScript),
		Template:       viper.GetString(KeyTemplate),
		Staging:        viper.GetBool(KeyStaging),
		PackageManager: viper.GetString(KeyPackageManager),
	}
}

// Keys returns the recognized configuration keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaultValues))
	for k := range defaultValues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKnownKey reports whether key is a recognized configuration key.
func IsKnownKey(key string) bool {
	_, ok := defaultValues[key]
	return ok
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q (known keys: %v)", key, Keys())
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
