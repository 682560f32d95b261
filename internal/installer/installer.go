// Package installer launches macOS application installers. It handles the
// common installer shapes (.pkg, .dmg, .app bundle, plain executable) and
// reports when the user has to finish the job manually.
package installer

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/grahamcooke/apphound/internal/output"
)

// Status summarizes an installer execution attempt.
type Status string

const (
	StatusSuccess              Status = "success"
	StatusNotFound             Status = "not_found"
	StatusManualActionRequired Status = "manual_action_required"
	StatusError                Status = "error"
)

// Outcome describes what happened when an installer was run. ExitCode is nil
// when no process was launched.
type Outcome struct {
	Status   Status `json:"status"`
	Path     string `json:"path"`
	ExitCode *int   `json:"exit_code"`
	Message  string `json:"message,omitempty"`
}

// CommandRunner executes a command and returns its exit code. Injected so
// tests never launch real installers.
type CommandRunner func(name string, args ...string) (int, error)

func defaultCommandRunner(name string, args ...string) (int, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// Runner executes installers.
type Runner struct {
	run  CommandRunner
	sink output.Sink
}

// NewRunner creates a Runner reporting through the given sink. A nil sink
// silences user-facing messages; a nil runner uses the real exec path.
func NewRunner(sink output.Sink, run CommandRunner) *Runner {
	if sink == nil {
		sink = output.NopSink{}
	}
	if run == nil {
		run = defaultCommandRunner
	}
	return &Runner{run: run, sink: sink}
}

// Run executes the installer at the given path. Tilde and environment
// variables in the path are expanded first.
func (r *Runner) Run(installerPath string) Outcome {
	path, err := preparePath(installerPath)
	if err != nil {
		return Outcome{Status: StatusError, Path: installerPath, Message: err.Error()}
	}

	info, statErr := os.Stat(path)
	if statErr != nil {
		message := fmt.Sprintf("Installer not found at %s", path)
		r.sink.Error("%s", message)
		return Outcome{Status: StatusNotFound, Path: path, Message: message}
	}

	r.sink.Highlight("Launching installer at %s", path)

	switch {
	case strings.EqualFold(filepath.Ext(path), ".pkg"):
		code, err := r.run("sudo", "installer", "-pkg", path, "-target", "/")
		return r.outcome(path, code, err, "Package installed successfully.")

	case strings.EqualFold(filepath.Ext(path), ".dmg"):
		message := fmt.Sprintf(
			"Manual action required: mount the DMG at %s and complete the installation from the mounted volume.",
			path)
		r.sink.Warning("%s", message)
		return Outcome{Status: StatusManualActionRequired, Path: path, Message: message}

	case info.IsDir() && strings.HasSuffix(path, ".app"):
		code, err := r.run("open", path)
		return r.outcome(path, code, err, "Application bundle opened.")

	default:
		code, err := r.run(path)
		return r.outcome(path, code, err, "Installer executed.")
	}
}

func (r *Runner) outcome(path string, code int, err error, successMessage string) Outcome {
	if err != nil {
		message := fmt.Sprintf("Failed to launch installer at %s: %v", path, err)
		r.sink.Error("%s", message)
		return Outcome{Status: StatusError, Path: path, Message: message}
	}
	if code == 0 {
		r.sink.Info("%s", successMessage)
		return Outcome{Status: StatusSuccess, Path: path, ExitCode: &code, Message: successMessage}
	}
	message := fmt.Sprintf(
		"Installer at %s exited with a non-zero status (%d). Review the installer logs for more details.",
		path, code)
	r.sink.Error("%s", message)
	return Outcome{Status: StatusError, Path: path, ExitCode: &code, Message: message}
}

func preparePath(installerPath string) (string, error) {
	expanded, err := homedir.Expand(os.ExpandEnv(installerPath))
	if err != nil {
		return "", fmt.Errorf("expanding installer path %s: %w", installerPath, err)
	}
	return filepath.Clean(expanded), nil
}
