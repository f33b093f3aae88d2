package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// LockInfo is the metadata stored in a lock file.
type LockInfo struct {
	PID       int       `json:"pid"`
	CreatedAt time.Time `json:"created_at"`
	Project   string    `json:"project"`
}

// ErrLocked indicates another live scaffold holds the destination.
type ErrLocked struct {
	Dir  string
	Info *LockInfo // nil if lock file is unreadable
	Path string
}

func (e *ErrLocked) Error() string {
	if e.Info != nil {
		return fmt.Sprintf("%s is being scaffolded by pid %d since %s (lock file: %s)",
			e.Dir, e.Info.PID, e.Info.CreatedAt.Format(time.RFC3339), e.Path)
	}
	return fmt.Sprintf("%s is being scaffolded (lock file: %s)", e.Dir, e.Path)
}

// DirLock serializes scaffolds into the same destination directory across
// processes.
type DirLock struct {
	StaleAfter time.Duration
	Now        func() time.Time
	IsPIDAlive func(pid int) bool
}

// NewDirLock returns a DirLock that treats locks as stale after one hour or
// when the owning process is gone.
func NewDirLock() DirLock {
	return DirLock{
		StaleAfter: time.Hour,
		Now:        time.Now,
		IsPIDAlive: isPIDAlive,
	}
}

// LockPath returns the lock file for dir. It lives beside dir so the
// destination itself stays empty for the tool.
func LockPath(dir string) string {
	clean := filepath.Clean(dir)
	return filepath.Join(filepath.Dir(clean), "."+filepath.Base(clean)+".expogen.lock")
}

// Lock acquires the lock for dir and returns an unlock function. If another
// live process holds it, Lock returns *ErrLocked.
func (l DirLock) Lock(dir string) (unlock func() error, err error) {
	lockPath := LockPath(dir)
	const maxRetries = 3

	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
			return nil, fmt.Errorf("creating lock directory: %w", err)
		}

		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			info := LockInfo{PID: os.Getpid(), CreatedAt: l.Now(), Project: dir}
			data, _ := json.Marshal(info)
			if _, writeErr := f.Write(data); writeErr != nil {
				f.Close()
				os.Remove(lockPath)
				return nil, fmt.Errorf("writing lock file: %w", writeErr)
			}
			if closeErr := f.Close(); closeErr != nil {
				os.Remove(lockPath)
				return nil, fmt.Errorf("closing lock file: %w", closeErr)
			}
			return func() error {
				if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
					return err
				}
				return nil
			}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("creating lock file: %w", err)
		}

		info, readErr := readLockInfo(lockPath)
		if readErr != nil {
			// Unreadable lock: fall back to its age.
			stat, statErr := os.Stat(lockPath)
			if statErr != nil || l.Now().Sub(stat.ModTime()) <= l.StaleAfter {
				return nil, &ErrLocked{Dir: dir, Path: lockPath}
			}
		} else if !l.isStale(info) {
			return nil, &ErrLocked{Dir: dir, Info: info, Path: lockPath}
		}

		if removeErr := os.Remove(lockPath); removeErr != nil && !os.IsNotExist(removeErr) {
			return nil, &ErrLocked{Dir: dir, Info: info, Path: lockPath}
		}
	}

	return nil, &ErrLocked{Dir: dir, Path: lockPath}
}

func readLockInfo(path string) (*LockInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (l DirLock) isStale(info *LockInfo) bool {
	if !l.IsPIDAlive(info.PID) {
		return true
	}
	return l.Now().Sub(info.CreatedAt) > l.StaleAfter
}

// isPIDAlive uses signal 0, which fails with ESRCH once the process is gone.
func isPIDAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return errors.Is(err, syscall.EPERM)
}
