// Package scaffold invokes the create-expo-app scaffolding tool. It computes
// the tool's argument vector from a project name and a small options struct,
// runs the tool through a package runner in the target directory, streams its
// output, and reports the exit status as data.
package scaffold
