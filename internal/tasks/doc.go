// Package tasks describes the run tasks a freshly generated Expo project
// offers (start, android, ios, web) and records them in a per-project
// registry file, .expogen/tasks.yaml, validated against an embedded JSON
// Schema.
package tasks
