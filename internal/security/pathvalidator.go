// Package security guards deletion operations against paths that should
// never be removed, regardless of what a scan or a config file claims.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator vets paths before they are passed to a removal operation.
// Application artifacts legitimately live inside /Applications and
// ~/Library, so those roots are protected as exact paths while their
// children stay deletable. Core system trees are refused wholesale.
type PathValidator struct {
	// protectedRoots may never be deleted themselves, but their children may.
	protectedRoots []string
	// forbiddenTrees may never be deleted, nor anything inside them.
	forbiddenTrees []string
}

// NewPathValidator creates a validator with the default protection set for
// the given home directory.
func NewPathValidator(home string) *PathValidator {
	pv := &PathValidator{
		protectedRoots: []string{
			"/",
			"/Applications",
			"/Library",
			"/Users",
			"/Users/Shared",
			"/opt",
			"/var",
			"/tmp",
		},
		forbiddenTrees: []string{
			"/System",
			"/bin",
			"/sbin",
			"/usr",
			"/etc",
			"/dev",
			"/proc",
		},
	}
	if home != "" {
		home = filepath.Clean(home)
		// Store the resolved form so comparisons line up with the resolved
		// deletion paths (e.g. /tmp vs /private/tmp on macOS).
		if resolved, err := filepath.EvalSymlinks(home); err == nil {
			home = resolved
		}
		pv.protectedRoots = append(pv.protectedRoots,
			home,
			filepath.Join(home, "Library"),
			filepath.Join(home, "Library", "Application Support"),
			filepath.Join(home, "Library", "Preferences"),
			filepath.Join(home, "Library", "Caches"),
			filepath.Join(home, "Library", "Logs"),
			filepath.Join(home, "Library", "LaunchAgents"),
			filepath.Join(home, "Library", "Containers"),
		)
	}
	return pv
}

// ValidateForDeletion rejects relative paths, traversal tricks, and
// protected locations. It is the single gate every removal goes through.
func (pv *PathValidator) ValidateForDeletion(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}
	if filepath.Clean(path) != path {
		return fmt.Errorf("path contains traversal elements: %s", path)
	}

	// Resolve the parent so a symlinked directory cannot smuggle a delete
	// into a protected tree. The leaf itself may be a symlink we intend to
	// unlink, so only the parent is resolved.
	resolved := path
	if parent, err := filepath.EvalSymlinks(filepath.Dir(path)); err == nil {
		resolved = filepath.Join(parent, filepath.Base(path))
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	for _, root := range pv.protectedRoots {
		if resolved == root {
			return fmt.Errorf("refusing to delete protected path: %s", resolved)
		}
	}
	for _, tree := range pv.forbiddenTrees {
		if resolved == tree || strings.HasPrefix(resolved, tree+"/") {
			return fmt.Errorf("refusing to delete system path: %s", resolved)
		}
	}
	return nil
}

// IsProtected reports whether a path would be rejected by
// ValidateForDeletion.
func (pv *PathValidator) IsProtected(path string) bool {
	return pv.ValidateForDeletion(path) != nil
}

// AddProtectedRoot registers an additional exact path that may never be
// deleted.
func (pv *PathValidator) AddProtectedRoot(path string) {
	pv.protectedRoots = append(pv.protectedRoots, filepath.Clean(path))
}
