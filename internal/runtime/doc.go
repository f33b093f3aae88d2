// Package runtime defines the package runners used to execute a scaffolding
// tool without installing it (npx, bunx, pnpm dlx, yarn dlx) and probes the
// Node.js installation those runners depend on. DispatchRunner selects a
// runner by its configured name.
package runtime
