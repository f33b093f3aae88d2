//go:build windows

package scaffold

import "os/exec"

// configureProcess keeps the exec.CommandContext default, which kills the
// tool process on cancellation.
func configureProcess(_ *exec.Cmd) {}
