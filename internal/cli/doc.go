// Package cli defines the Cobra command tree for the expogen CLI. Each file
// registers one top-level command with the root command. Commands delegate to
// internal packages for the work and only handle flag parsing, output
// formatting and exit codes.
package cli
