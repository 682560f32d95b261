// Package testutil provides test helpers and fixtures for apphound tests.
// All file operations use t.TempDir() for safe, isolated testing.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// HomeFixture builds a fake macOS home directory inside t.TempDir() so
// scanner tests can exercise the real location table without touching the
// actual filesystem layout.
type HomeFixture struct {
	T    *testing.T
	Home string

	// Standard Library subdirectories
	AppSupport   string
	Preferences  string
	Caches       string
	Logs         string
	LaunchAgents string
	Containers   string
}

// NewHomeFixture creates the standard ~/Library tree under a temp dir.
func NewHomeFixture(t *testing.T) *HomeFixture {
	t.Helper()

	home := t.TempDir()
	library := filepath.Join(home, "Library")

	f := &HomeFixture{
		T:            t,
		Home:         home,
		AppSupport:   filepath.Join(library, "Application Support"),
		Preferences:  filepath.Join(library, "Preferences"),
		Caches:       filepath.Join(library, "Caches"),
		Logs:         filepath.Join(library, "Logs"),
		LaunchAgents: filepath.Join(library, "LaunchAgents"),
		Containers:   filepath.Join(library, "Containers"),
	}

	for _, dir := range []string{
		f.AppSupport, f.Preferences, f.Caches, f.Logs, f.LaunchAgents, f.Containers,
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	return f
}

// CreateFile creates a file relative to the fixture home and returns its
// absolute path.
func (f *HomeFixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	fullPath := filepath.Join(f.Home, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}
	return fullPath
}

// CreateFileWithAge creates a file and backdates its modification time.
func (f *HomeFixture) CreateFileWithAge(relPath string, content []byte, age time.Duration) string {
	f.T.Helper()

	fullPath := f.CreateFile(relPath, content)
	oldTime := time.Now().Add(-age)
	if err := os.Chtimes(fullPath, oldTime, oldTime); err != nil {
		f.T.Fatalf("failed to set file time for %s: %v", fullPath, err)
	}
	return fullPath
}

// CreateDir creates a directory relative to the fixture home.
func (f *HomeFixture) CreateDir(relPath string) string {
	f.T.Helper()

	fullPath := filepath.Join(f.Home, relPath)
	if err := os.MkdirAll(fullPath, 0o755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", fullPath, err)
	}
	return fullPath
}

// CreateSymlink creates a symlink relative to the fixture home pointing at
// target.
func (f *HomeFixture) CreateSymlink(relPath, target string) string {
	f.T.Helper()

	fullPath := filepath.Join(f.Home, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.Symlink(target, fullPath); err != nil {
		f.T.Fatalf("failed to create symlink %s -> %s: %v", fullPath, target, err)
	}
	return fullPath
}

// CreateBrokenSymlink creates a symlink whose target does not exist.
func (f *HomeFixture) CreateBrokenSymlink(relPath string) string {
	f.T.Helper()
	return f.CreateSymlink(relPath, filepath.Join(f.Home, "does-not-exist"))
}

// InstallApp lays down the typical traces of an installed application:
// support dir, preferences plist, cache dir, and log file.
func (f *HomeFixture) InstallApp(appName, bundleID string) {
	f.T.Helper()

	f.CreateDir(filepath.Join("Library", "Application Support", appName))
	f.CreateFile(filepath.Join("Library", "Preferences", bundleID+".plist"), []byte("plist"))
	f.CreateDir(filepath.Join("Library", "Caches", bundleID))
	f.CreateFile(filepath.Join("Library", "Logs", appName, "main.log"), []byte("log"))
}

// AssertExists fails the test when the path is missing.
func AssertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

// AssertNotExists fails the test when the path is still present.
func AssertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s to be gone, got err=%v", path, err)
	}
}
