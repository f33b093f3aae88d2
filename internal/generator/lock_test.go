package generator

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLockPath(t *testing.T) {
	got := LockPath("/work/projects/my-app/")
	want := filepath.Join("/work/projects", ".my-app.expogen.lock")
	if got != want {
		t.Errorf("LockPath() = %q, want %q", got, want)
	}
}

func TestDirLock_AcquireRelease(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "app")
	l := NewDirLock()

	unlock, err := l.Lock(dir)
	if err != nil {
		t.Fatalf("Lock() error: %v", err)
	}
	if _, err := os.Stat(LockPath(dir)); err != nil {
		t.Fatalf("lock file missing: %v", err)
	}

	_, err = l.Lock(dir)
	var locked *ErrLocked
	if !errors.As(err, &locked) {
		t.Fatalf("second Lock() error = %v, want *ErrLocked", err)
	}
	if locked.Info == nil || locked.Info.PID != os.Getpid() {
		t.Errorf("ErrLocked.Info = %+v, want our pid", locked.Info)
	}

	if err := unlock(); err != nil {
		t.Fatalf("unlock() error: %v", err)
	}
	if _, err := os.Stat(LockPath(dir)); !os.IsNotExist(err) {
		t.Error("lock file not removed")
	}

	unlock, err = l.Lock(dir)
	if err != nil {
		t.Fatalf("re-Lock() error: %v", err)
	}
	unlock()
}

func TestDirLock_StaleDeadPID(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "app")
	writeLock(t, dir, LockInfo{PID: 999999, CreatedAt: time.Now()})

	l := NewDirLock()
	l.IsPIDAlive = func(int) bool { return false }

	unlock, err := l.Lock(dir)
	if err != nil {
		t.Fatalf("Lock() over stale lock error: %v", err)
	}
	unlock()
}

func TestDirLock_StaleByAge(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "app")
	writeLock(t, dir, LockInfo{PID: 1, CreatedAt: time.Now().Add(-2 * time.Hour)})

	l := NewDirLock()
	l.IsPIDAlive = func(int) bool { return true }

	unlock, err := l.Lock(dir)
	if err != nil {
		t.Fatalf("Lock() over aged lock error: %v", err)
	}
	unlock()
}

func TestDirLock_UnreadableFresh(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "app")
	if err := os.WriteFile(LockPath(dir), []byte("garbage"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := NewDirLock().Lock(dir)
	var locked *ErrLocked
	if !errors.As(err, &locked) {
		t.Fatalf("Lock() error = %v, want *ErrLocked", err)
	}
	if locked.Info != nil {
		t.Error("unreadable lock should have nil Info")
	}
}

func writeLock(t *testing.T, dir string, info LockInfo) {
	t.Helper()
	data, err := json.Marshal(info)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(LockPath(dir), data, 0600); err != nil {
		t.Fatal(err)
	}
}
