//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir   string // EXPOGEN_HOME
	BinDir    string // holds the fake package runners, first on PATH
	TargetDir string // parent directory of generated projects
	CallLog   string // written by the fake runners
}

// fakeRunner stands in for npx/bunx/pnpm/yarn. It logs its working directory
// and arguments, then creates the project named by its last argument the way
// create-expo-app does.
const fakeRunner = `#!/bin/sh
pwd -P > "$EXPOGEN_TEST_LOG"
printf '%s\n' "$(basename "$0")" >> "$EXPOGEN_TEST_LOG"
for a in "$@"; do printf '%s\n' "$a" >> "$EXPOGEN_TEST_LOG"; done
for last in "$@"; do :; done
mkdir -p "$last"
cat > "$last/package.json" <<JSON
{"name":"app","scripts":{"start":"expo start","android":"expo start --android","ios":"expo start --ios"}}
JSON
echo "Your project is ready!"
exit ${EXPOGEN_TEST_EXIT:-0}
`

// setupTestEnv creates isolated temp directories, installs the fake runners
// and sets environment variables so every operation is sandboxed.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if goruntime.GOOS == "windows" {
		t.Skip("fake runners are POSIX shell scripts")
	}

	env := &testEnv{
		HomeDir:   t.TempDir(),
		BinDir:    t.TempDir(),
		TargetDir: t.TempDir(),
	}
	env.CallLog = filepath.Join(t.TempDir(), "calls.log")

	for _, name := range []string{"npx", "bunx", "pnpm", "yarn"} {
		path := filepath.Join(env.BinDir, name)
		if err := os.WriteFile(path, []byte(fakeRunner), 0755); err != nil {
			t.Fatalf("writing fake %s: %v", name, err)
		}
	}

	t.Setenv("EXPOGEN_HOME", env.HomeDir)
	t.Setenv("EXPOGEN_TEST_LOG", env.CallLog)
	t.Setenv("PATH", env.BinDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return env
}

// readCall returns the working directory and argv recorded by the last fake
// runner invocation.
func readCall(t *testing.T, env *testEnv) (string, []string) {
	t.Helper()
	data, err := os.ReadFile(env.CallLog)
	if err != nil {
		t.Fatalf("reading call log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	return lines[0], lines[1:]
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
