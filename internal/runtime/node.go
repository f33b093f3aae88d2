package runtime

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MinNodeVersion is the Node.js constraint create-expo-app supports.
const MinNodeVersion = ">= 18.0.0"

// NodeVersion returns the output of `node --version` (e.g., "v20.11.1").
func NodeVersion(ctx context.Context) (string, error) {
	nodeBin, err := exec.LookPath("node")
	if err != nil {
		return "", fmt.Errorf("node not found: %w", err)
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, nodeBin, "--version")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running node --version: %w", err)
	}
	return strings.TrimSpace(out.String()), nil
}

// CheckNodeVersion reports whether version satisfies constraint. A leading
// "v" is tolerated.
func CheckNodeVersion(version, constraint string) (bool, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(version), "v"))
	if err != nil {
		return false, fmt.Errorf("parsing node version %q: %w", version, err)
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("parsing constraint %q: %w", constraint, err)
	}
	return c.Check(v), nil
}
