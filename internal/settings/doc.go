// Package settings collects the values a scaffold needs (project name,
// target directory, TypeScript flag, template) from command-line input,
// configured defaults and, on a terminal, an interactive form.
package settings
