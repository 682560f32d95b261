package plan

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/grahamcooke/apphound/internal/artifact"
	"github.com/grahamcooke/apphound/internal/output"
	"github.com/grahamcooke/apphound/internal/security"
)

// RemoveOptions controls how a removal run behaves. The zero value is the
// safest configuration: dry-run, no prompting, keep going on errors.
type RemoveOptions struct {
	DryRun      bool
	Prompt      bool
	Force       bool // attempt existing entries even when not enabled
	StopOnError bool
}

// RemovalReport summarizes a removal run.
type RemovalReport struct {
	Succeeded []Entry
	Failed    []FailedEntry
	Skipped   []Entry
}

// FailedEntry pairs an entry with the error that prevented its removal.
type FailedEntry struct {
	Entry Entry
	Err   error
}

// Remover executes deletion plans against the filesystem. Every path passes
// through the security validator before anything is touched.
type Remover struct {
	sink      output.Sink
	validator *security.PathValidator
	stdin     io.Reader
	log       *logrus.Logger
}

// NewRemover creates a remover reporting through the given sink. A nil sink
// silences user-facing messages.
func NewRemover(sink output.Sink, validator *security.PathValidator) *Remover {
	if sink == nil {
		sink = output.NopSink{}
	}
	return &Remover{
		sink:      sink,
		validator: validator,
		stdin:     os.Stdin,
		log:       logrus.StandardLogger(),
	}
}

// SetInput overrides the prompt input stream, mainly for tests.
func (r *Remover) SetInput(in io.Reader) { r.stdin = in }

// Remove executes the given entries per opts and reports what happened.
// Entries that are not enabled (unless forced) or no longer exist are
// skipped rather than failed.
func (r *Remover) Remove(entries []Entry, opts RemoveOptions) RemovalReport {
	var report RemovalReport
	reader := bufio.NewReader(r.stdin)

	for _, entry := range entries {
		if !(entry.Enabled || opts.Force) || !entry.Exists {
			report.Skipped = append(report.Skipped, entry)
			continue
		}

		if err := r.validator.ValidateForDeletion(entry.Path); err != nil {
			r.sink.Error("Refusing %s: %v", entry.Path, err)
			report.Failed = append(report.Failed, FailedEntry{Entry: entry, Err: err})
			if opts.StopOnError {
				break
			}
			continue
		}

		if opts.Prompt {
			fmt.Fprintf(os.Stderr, "Delete %s? [y/N] ", entry.Path)
			answer, _ := reader.ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				r.sink.Info("Skipped (user choice): %s", entry.Path)
				report.Skipped = append(report.Skipped, entry)
				continue
			}
		}

		if opts.DryRun {
			r.sink.Highlight("DRY-RUN: %s", entry.SuggestedCommand)
			report.Succeeded = append(report.Succeeded, entry)
			continue
		}

		if err := r.removeEntry(entry); err != nil {
			r.sink.Error("Failed to remove %s: %v", entry.Path, err)
			r.log.WithField("path", entry.Path).WithError(err).Error("removal failed")
			report.Failed = append(report.Failed, FailedEntry{Entry: entry, Err: err})
			if opts.StopOnError {
				break
			}
			continue
		}
		r.sink.Success("Removed: %s", entry.Path)
		report.Succeeded = append(report.Succeeded, entry)
	}

	return report
}

// removeEntry deletes a single path, re-checking its state just in time so a
// stale plan cannot delete something that changed since the scan.
func (r *Remover) removeEntry(entry Entry) error {
	info, err := os.Lstat(entry.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no longer exists: %s", entry.Path)
		}
		return fmt.Errorf("checking %s: %w", entry.Path, err)
	}

	// Broken symlinks can still be unlinked, so check the link itself.
	if info.Mode()&os.ModeSymlink != 0 || entry.Kind == artifact.KindSymlink {
		return os.Remove(entry.Path)
	}

	makeWritableBestEffort(entry.Path, info.Mode())

	if info.IsDir() {
		return os.RemoveAll(entry.Path)
	}
	return os.Remove(entry.Path)
}

// makeWritableBestEffort adds the user write bit when it is missing. The
// deletion is attempted either way.
func makeWritableBestEffort(path string, mode os.FileMode) {
	if mode&0o200 == 0 {
		_ = os.Chmod(path, mode|0o200)
	}
}
