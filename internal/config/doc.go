// Package config manages user-level settings stored at ~/.expogen/config.yaml.
// Values can be overridden with EXPOGEN_* environment variables and supply the
// defaults for the create command (runner, tool package, TypeScript flag,
// staging mode).
package config
