// Package plan turns scan results into an actionable deletion plan: one
// entry per artifact, a default-enabled flag driven by removal safety, and
// renderers for JSON and a reviewable shell script.
package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/grahamcooke/apphound/internal/artifact"
	"github.com/grahamcooke/apphound/internal/filelock"
)

// Entry is a single deletion target derived from an artifact.
type Entry struct {
	AppName             string            `json:"app_name"`
	Path                string            `json:"path"`
	Kind                artifact.Kind     `json:"kind"`
	Category            artifact.Category `json:"category"`
	Scope               artifact.Scope    `json:"scope"`
	Exists              bool              `json:"exists"`
	Writable            *bool             `json:"writable"`
	Size                *int64            `json:"size_bytes"`
	RemovalSafety       artifact.Safety   `json:"removal_safety"`
	Notes               []string          `json:"notes"`
	RemovalInstructions string            `json:"removal_instructions,omitempty"`
	Enabled             bool              `json:"enabled"`
	SuggestedCommand    string            `json:"suggested_command"`
}

// Plan groups deletion entries for one or more applications.
type Plan struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Entries     []Entry   `json:"entries"`
}

// EnablePolicy decides whether an artifact's deletion should be enabled by
// default.
type EnablePolicy func(artifact.Artifact) bool

// DefaultEnablePolicy enables only artifacts that are present on disk and
// rated safe. Everything else requires explicit opt-in.
func DefaultEnablePolicy(a artifact.Artifact) bool {
	return a.Exists && a.RemovalSafety == artifact.SafetySafe
}

// FromResults builds a plan from scan results. A nil policy uses
// DefaultEnablePolicy.
func FromResults(results []artifact.ScanResult, policy EnablePolicy) Plan {
	if policy == nil {
		policy = DefaultEnablePolicy
	}

	p := Plan{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}
	for i := range results {
		for _, a := range results[i].Artifacts {
			p.Entries = append(p.Entries, Entry{
				AppName:             a.AppName,
				Path:                a.Path,
				Kind:                a.Kind,
				Category:            a.Category,
				Scope:               a.Scope,
				Exists:              a.Exists,
				Writable:            a.Writable,
				Size:                a.Size,
				RemovalSafety:       a.RemovalSafety,
				Notes:               append([]string(nil), a.Notes...),
				RemovalInstructions: a.RemovalInstructions,
				Enabled:             policy(a),
				SuggestedCommand:    SuggestedCommand(a.Path, a.Kind),
			})
		}
	}
	return p
}

// SuggestedCommand returns the shell command that would remove the path.
// Directories get rm -rf; files, symlinks, and unknowns get the more
// conservative rm -f.
func SuggestedCommand(path string, kind artifact.Kind) string {
	if kind == artifact.KindDirectory {
		return "rm -rf " + ShellQuote(path)
	}
	return "rm -f " + ShellQuote(path)
}

// ShellQuote single-quotes a value for safe use in a shell command.
func ShellQuote(value string) string {
	if value == "" {
		return "''"
	}
	if !strings.ContainsAny(value, " \t\n'\"\\$`!&|;()<>*?[]{}~#") {
		return value
	}
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

// Enabled returns the entries currently marked for deletion.
func (p *Plan) Enabled() []Entry {
	var out []Entry
	for _, e := range p.Entries {
		if e.Enabled {
			out = append(out, e)
		}
	}
	return out
}

// ForApp returns the entries belonging to one application.
func (p *Plan) ForApp(appName string) []Entry {
	var out []Entry
	for _, e := range p.Entries {
		if e.AppName == appName {
			out = append(out, e)
		}
	}
	return out
}

// MarshalIndent renders the plan as indented JSON.
func (p *Plan) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// SaveJSON writes the plan to path with locking and an atomic rename.
func (p *Plan) SaveJSON(path string) error {
	data, err := p.MarshalIndent()
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	return filelock.LockAndWrite(path, append(data, '\n'), 0o644)
}

// ScriptOptions controls shell script rendering.
type ScriptOptions struct {
	OnlyEnabled bool // include only enabled entries
	PromptEach  bool // wrap each command in a confirm prompt
}

// RenderScript produces a bash script that performs the plan's deletions.
// The script prompts before each removal unless PromptEach is disabled.
func (p *Plan) RenderScript(opts ScriptOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString("#!/usr/bin/env bash\n")
	buf.WriteString("set -euo pipefail\n\n")
	fmt.Fprintf(&buf, "# apphound deletion plan %s\n", p.ID)
	fmt.Fprintf(&buf, "# generated_at: %s\n\n", p.GeneratedAt.Format(time.RFC3339))
	buf.WriteString("confirm() {\n")
	buf.WriteString("  read -r -p \"$1 [y/N] \" response\n")
	buf.WriteString("  case \"$response\" in\n")
	buf.WriteString("    [yY][eE][sS]|[yY]) true ;;\n")
	buf.WriteString("    *) false ;;\n")
	buf.WriteString("  esac\n")
	buf.WriteString("}\n\n")

	entries := p.Entries
	if opts.OnlyEnabled {
		entries = p.Enabled()
	}
	for _, e := range entries {
		fmt.Fprintf(&buf, "# %s: %s (%s)\n", e.AppName, e.Category, e.RemovalSafety)
		for _, note := range e.Notes {
			fmt.Fprintf(&buf, "# note: %s\n", note)
		}
		if e.RemovalInstructions != "" {
			fmt.Fprintf(&buf, "# instruction: %s\n", e.RemovalInstructions)
		}
		if opts.PromptEach {
			fmt.Fprintf(&buf, "if confirm \"Delete %s?\"; then\n", ShellQuote(e.Path))
			fmt.Fprintf(&buf, "  %s\n", e.SuggestedCommand)
			buf.WriteString("fi\n")
		} else {
			fmt.Fprintf(&buf, "%s\n", e.SuggestedCommand)
		}
		buf.WriteString("\n")
	}

	buf.WriteString("# End of deletion plan\n")
	return buf.Bytes()
}

// SaveScript writes the deletion script to path and marks it executable.
func (p *Plan) SaveScript(path string, opts ScriptOptions) error {
	return filelock.LockAndWrite(path, p.RenderScript(opts), 0o755)
}

// LoadJSON reads a previously saved plan.
func LoadJSON(data []byte) (Plan, error) {
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return Plan{}, fmt.Errorf("decoding plan: %w", err)
	}
	return p, nil
}
