package scaffold

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	goruntime "runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/expogen/expogen/internal/runtime"
)

// fakeTool records its working directory and arguments to $FAKE_LOG, writes
// to both streams and exits with $FAKE_EXIT.
const fakeTool = `#!/bin/sh
pwd -P > "$FAKE_LOG"
for a in "$@"; do printf '%s\n' "$a" >> "$FAKE_LOG"; done
echo "creating expo app"
echo "npm warn something" 1>&2
if [ -n "$FAKE_SLEEP" ]; then sleep "$FAKE_SLEEP"; fi
exit ${FAKE_EXIT:-0}
`

type fakeSetup struct {
	inv    *Invoker
	log    string
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newFakeInvoker(t *testing.T, env ...string) *fakeSetup {
	t.Helper()
	if goruntime.GOOS == "windows" {
		t.Skip("fake tool is a POSIX shell script")
	}

	binDir := t.TempDir()
	script := filepath.Join(binDir, "npx")
	if err := os.WriteFile(script, []byte(fakeTool), 0755); err != nil {
		t.Fatal(err)
	}
	logPath := filepath.Join(t.TempDir(), "calls.log")

	var stdout, stderr bytes.Buffer
	inv := NewInvoker(runtime.DispatchRunner("npx"), "")
	inv.Stdout = &stdout
	inv.Stderr = &stderr
	inv.Env = append([]string{"FAKE_LOG=" + logPath}, env...)
	inv.LookPath = func(file string) (string, error) {
		if file != "npx" {
			return "", exec.ErrNotFound
		}
		return script, nil
	}
	return &fakeSetup{inv: inv, log: logPath, stdout: &stdout, stderr: &stderr}
}

// readCall returns the recorded working directory and arguments.
func readCall(t *testing.T, logPath string) (string, []string) {
	t.Helper()
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading fake tool log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	return lines[0], lines[1:]
}

func TestScaffold_TypeScript(t *testing.T) {
	f := newFakeInvoker(t)
	target := t.TempDir()

	res, err := f.inv.Scaffold(context.Background(), Request{
		TargetDirectory: target,
		ProjectName:     "MyApp",
		Options:         Options{UseTypeScript: true},
	})
	if err != nil {
		t.Fatalf("Scaffold() error: %v", err)
	}
	if res != (Result{ExitCode: 0, Succeeded: true}) {
		t.Errorf("Scaffold() = %+v, want success", res)
	}

	dir, args := readCall(t, f.log)
	wantDir, _ := filepath.EvalSymlinks(target)
	if dir != wantDir {
		t.Errorf("tool ran in %q, want %q", dir, wantDir)
	}
	wantArgs := []string{"create-expo-app", "-t", "expo-template-blank-typescript", "MyApp"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("tool args = %v, want %v", args, wantArgs)
	}

	if !strings.Contains(f.stdout.String(), "creating expo app") {
		t.Errorf("stdout not relayed: %q", f.stdout.String())
	}
	if !strings.Contains(f.stderr.String(), "npm warn something") {
		t.Errorf("stderr not relayed: %q", f.stderr.String())
	}
}

func TestScaffold_CreatesTargetDirectory(t *testing.T) {
	f := newFakeInvoker(t)
	target := filepath.Join(t.TempDir(), "does", "not", "exist")

	if _, err := f.inv.Scaffold(context.Background(), Request{TargetDirectory: target, ProjectName: "app"}); err != nil {
		t.Fatalf("Scaffold() error: %v", err)
	}
	if info, err := os.Stat(target); err != nil || !info.IsDir() {
		t.Errorf("target directory not created: %v", err)
	}
}

func TestScaffold_ExitCodes(t *testing.T) {
	for _, code := range []int{0, 1, 2, 42, 255} {
		t.Run(strconv.Itoa(code), func(t *testing.T) {
			f := newFakeInvoker(t, "FAKE_EXIT="+strconv.Itoa(code))
			res, err := f.inv.Scaffold(context.Background(), Request{
				TargetDirectory: t.TempDir(),
				ProjectName:     "app",
			})
			if err != nil {
				t.Fatalf("non-zero exit should not be an error: %v", err)
			}
			if res.ExitCode != code {
				t.Errorf("ExitCode = %d, want %d", res.ExitCode, code)
			}
			if res.Succeeded != (code == 0) {
				t.Errorf("Succeeded = %v for code %d", res.Succeeded, code)
			}
		})
	}
}

func TestScaffold_ToolNotFound(t *testing.T) {
	inv := NewInvoker(runtime.DispatchRunner("npx"), "")
	inv.LookPath = func(string) (string, error) { return "", exec.ErrNotFound }

	done := make(chan error, 1)
	go func() {
		_, err := inv.Scaffold(context.Background(), Request{TargetDirectory: t.TempDir(), ProjectName: "app"})
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrToolNotFound) {
			t.Errorf("error = %v, want ErrToolNotFound", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Scaffold hung on a missing runner")
	}
}

func TestScaffold_UnknownRunner(t *testing.T) {
	inv := NewInvoker(runtime.DispatchRunner("deno"), "")
	_, err := inv.Scaffold(context.Background(), Request{TargetDirectory: t.TempDir(), ProjectName: "app"})
	if !errors.Is(err, ErrToolNotFound) {
		t.Errorf("error = %v, want ErrToolNotFound", err)
	}
}

func TestScaffold_SpawnError(t *testing.T) {
	if goruntime.GOOS == "windows" {
		t.Skip("relies on POSIX exec permissions")
	}
	notExecutable := filepath.Join(t.TempDir(), "npx")
	if err := os.WriteFile(notExecutable, []byte("not a program"), 0644); err != nil {
		t.Fatal(err)
	}

	inv := NewInvoker(runtime.DispatchRunner("npx"), "")
	inv.LookPath = func(string) (string, error) { return notExecutable, nil }

	_, err := inv.Scaffold(context.Background(), Request{TargetDirectory: t.TempDir(), ProjectName: "app"})
	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("error = %v (%T), want *SpawnError", err, err)
	}
}

func TestScaffold_InvalidRequest(t *testing.T) {
	inv := NewInvoker(runtime.DispatchRunner("npx"), "")
	if _, err := inv.Scaffold(context.Background(), Request{TargetDirectory: t.TempDir()}); err == nil {
		t.Error("expected error for empty project name")
	}
}

func TestScaffold_CancelKillsTool(t *testing.T) {
	f := newFakeInvoker(t, "FAKE_SLEEP=30")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := f.inv.Scaffold(ctx, Request{TargetDirectory: t.TempDir(), ProjectName: "app"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("Scaffold returned after %v; the tool was not terminated", elapsed)
	}
}

func TestCommandLine(t *testing.T) {
	inv := NewInvoker(runtime.DispatchRunner("npx"), "")
	got, err := inv.CommandLine(Request{
		TargetDirectory: "/tmp/app",
		ProjectName:     "MyApp",
		Options:         Options{UseTypeScript: true},
	})
	if err != nil {
		t.Fatalf("CommandLine() error: %v", err)
	}
	want := "npx create-expo-app -t expo-template-blank-typescript MyApp"
	if strings.Join(got, " ") != want {
		t.Errorf("CommandLine() = %q, want %q", strings.Join(got, " "), want)
	}
}
