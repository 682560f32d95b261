package scanner

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/grahamcooke/apphound/internal/artifact"
)

// Probe stats a single candidate and fills in the filesystem metadata of the
// resulting artifact. Probing failures are never fatal; partial results
// carry a note instead.
func Probe(appName string, c Candidate) artifact.Artifact {
	a := artifact.Artifact{
		AppName: appName,
		Path:    c.Path,
		Kind:    artifact.KindUnknown,
		Scope:   c.Scope,
		Notes:   append([]string(nil), c.Notes...),
	}

	info, err := os.Lstat(c.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			a.AddNote(fmt.Sprintf("failed to read metadata: %v", err))
		}
		return a
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		a.Kind = artifact.KindSymlink
		// The link itself exists; Exists tracks the target so broken links
		// are reported but never enabled for deletion by default.
		if _, err := os.Stat(c.Path); err == nil {
			a.Exists = true
		} else {
			a.AddNote("symlink target does not exist")
		}
	case info.IsDir():
		a.Kind = artifact.KindDirectory
		a.Exists = true
	case info.Mode().IsRegular():
		a.Kind = artifact.KindFile
		a.Exists = true
		size := info.Size()
		a.Size = &size
	default:
		a.Exists = true
	}

	mod := info.ModTime().UTC()
	a.LastModified = &mod

	if a.Exists {
		if writable, err := isWritable(c.Path); err != nil {
			a.AddNote(fmt.Sprintf("permission check failed: %v", err))
		} else {
			a.Writable = &writable
		}
	}

	return a
}

// isWritable reports whether the current user may write to the path.
func isWritable(path string) (bool, error) {
	err := unix.Access(path, unix.W_OK)
	switch err {
	case nil:
		return true, nil
	case unix.EACCES, unix.EPERM, unix.EROFS:
		return false, nil
	default:
		return false, err
	}
}

// probeAll probes every candidate in order, reporting progress after each.
func probeAll(appName string, candidates []Candidate, onProbe func(path string, done int)) []artifact.Artifact {
	artifacts := make([]artifact.Artifact, 0, len(candidates))
	for i, c := range candidates {
		artifacts = append(artifacts, Probe(appName, c))
		if onProbe != nil {
			onProbe(c.Path, i+1)
		}
	}
	return artifacts
}
