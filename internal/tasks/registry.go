package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Registry accepts task descriptors once a project has been generated.
type Registry interface {
	Register(ctx context.Context, descs []Descriptor) error
}

// Registry file location, relative to the project root.
const (
	RegistryDir  = ".expogen"
	RegistryFile = "tasks.yaml"
)

const fileVersion = 1

// File is the on-disk registry document.
type File struct {
	Version int          `yaml:"version"`
	Tasks   []Descriptor `yaml:"tasks"`
}

// FileRegistry stores descriptors in <project root>/.expogen/tasks.yaml.
type FileRegistry struct{}

// NewFileRegistry returns a FileRegistry.
func NewFileRegistry() *FileRegistry {
	return &FileRegistry{}
}

// RegistryPath returns the registry file path for projectRoot.
func RegistryPath(projectRoot string) string {
	return filepath.Join(projectRoot, RegistryDir, RegistryFile)
}

// Register merges descs into the registry of their project root. Existing
// tasks with the same name are replaced; others are kept. All descriptors
// must share one project root.
func (r *FileRegistry) Register(ctx context.Context, descs []Descriptor) error {
	if len(descs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	root := descs[0].ProjectRoot
	for _, d := range descs[1:] {
		if d.ProjectRoot != root {
			return fmt.Errorf("descriptors span multiple project roots (%s, %s)", root, d.ProjectRoot)
		}
	}

	file, err := Load(root)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if file == nil {
		file = &File{Version: fileVersion}
	}
	file.Tasks = merge(file.Tasks, descs)

	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshaling task registry: %w", err)
	}

	result, err := Validate(data)
	if err != nil {
		return fmt.Errorf("validating task registry: %w", err)
	}
	if !result.Valid {
		return invalidError(RegistryPath(root), result)
	}

	path := RegistryPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load reads and validates the registry of projectRoot. A missing file yields
// an error wrapping os.ErrNotExist.
func Load(projectRoot string) (*File, error) {
	path := RegistryPath(projectRoot)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	if !result.Valid {
		return nil, invalidError(path, result)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &file, nil
}

func merge(existing, incoming []Descriptor) []Descriptor {
	replaced := make(map[string]Descriptor, len(incoming))
	for _, d := range incoming {
		replaced[d.Name] = d
	}

	out := make([]Descriptor, 0, len(existing)+len(incoming))
	for _, d := range existing {
		if nd, ok := replaced[d.Name]; ok {
			out = append(out, nd)
			delete(replaced, d.Name)
			continue
		}
		out = append(out, d)
	}
	for _, d := range incoming {
		if _, ok := replaced[d.Name]; ok {
			out = append(out, d)
			delete(replaced, d.Name)
		}
	}
	return out
}

func invalidError(path string, result *ValidationResult) error {
	msgs := make([]string, 0, len(result.Issues))
	for _, issue := range result.Issues {
		msgs = append(msgs, issue.String())
	}
	return fmt.Errorf("%s has %d validation issue(s): %s", path, len(result.Issues), strings.Join(msgs, "; "))
}
