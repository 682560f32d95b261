package filelock

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAtomicWriteCreatesParents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "report.csv")

	if err := AtomicWrite(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not written: %v", err)
	}
	if string(data) != "data" {
		t.Errorf("content = %q, want data", data)
	}
}

func TestAtomicWriteReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")

	if err := AtomicWrite(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := AtomicWrite(path, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("content = %q, want new", data)
	}
}

func TestAtomicWriteSetsPermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "delete.sh")

	if err := AtomicWrite(path, []byte("#!/bin/bash\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("permissions = %o, want 755", info.Mode().Perm())
	}
}

func TestLockAndUnlock(t *testing.T) {
	dir := t.TempDir()
	lock := New(filepath.Join(dir, "report.csv.lock"))

	if err := lock.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	// A second lock on the same file cannot be acquired while held.
	other := New(filepath.Join(dir, "report.csv.lock"))
	acquired, err := other.TryLock()
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if acquired {
		t.Error("second lock acquired while first is held")
		other.Unlock()
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	acquired, err = other.TryLock()
	if err != nil {
		t.Fatalf("TryLock after release failed: %v", err)
	}
	if !acquired {
		t.Error("lock not acquirable after release")
	}
	other.Unlock()
}

func TestLockAndWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.json")

	if err := LockAndWrite(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("LockAndWrite failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Errorf("content = %q", data)
	}
}

func TestLockAndWriteCreatesParents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit", "nested", "audit.csv")

	// The lock file sits next to the target, so the write must succeed even
	// when no part of the directory chain exists yet.
	if err := LockAndWrite(path, []byte("App Name\n"), 0o644); err != nil {
		t.Fatalf("LockAndWrite into missing directory failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "App Name\n" {
		t.Errorf("content = %q", data)
	}
}
