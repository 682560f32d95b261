package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	homedir "github.com/mitchellh/go-homedir"

	"github.com/grahamcooke/apphound/internal/artifact"
)

// Expander turns location templates and glob patterns into concrete absolute
// path candidates. Expansion is best-effort: a template that references an
// unset environment variable is skipped with a note, and a glob that matches
// nothing simply contributes zero candidates.
type Expander struct {
	home   string
	lookup func(string) (string, bool)
	glob   func(string) ([]string, error)
}

// NewExpander creates an Expander rooted at the invoking user's home
// directory. The home lookup failure is deferred to expansion time so a
// missing HOME degrades to notes instead of a construction error.
func NewExpander() *Expander {
	home, err := homedir.Dir()
	if err != nil {
		home = ""
	}
	return &Expander{
		home:   home,
		lookup: os.LookupEnv,
		glob:   func(pattern string) ([]string, error) { return doublestar.FilepathGlob(pattern) },
	}
}

// NewExpanderWithHome creates an Expander with an explicit home directory.
// Tests use this to keep expansion hermetic.
func NewExpanderWithHome(home string) *Expander {
	e := NewExpander()
	e.home = home
	return e
}

// SetEnvLookup overrides the environment lookup. Tests only.
func (e *Expander) SetEnvLookup(lookup func(string) (string, bool)) {
	e.lookup = lookup
}

// Home returns the home directory the expander resolves "~" against.
func (e *Expander) Home() string { return e.home }

// ExpandLocation expands a single location template into zero or more
// absolute paths. The returned notes describe skips (unset variables) but
// never a zero-match glob, which is normal for deterministic templates.
func (e *Expander) ExpandLocation(template string) (paths []string, notes []string) {
	expanded, note := e.expandString(template)
	if note != "" {
		return nil, []string{note}
	}

	if !isGlob(expanded) {
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return nil, []string{fmt.Sprintf("could not resolve %q: %v", template, err)}
		}
		return []string{filepath.Clean(abs)}, nil
	}

	matches, err := e.glob(expanded)
	if err != nil {
		return nil, []string{fmt.Sprintf("invalid pattern %q: %v", template, err)}
	}
	for _, m := range matches {
		abs, err := filepath.Abs(m)
		if err != nil {
			continue
		}
		paths = append(paths, filepath.Clean(abs))
	}
	return paths, nil
}

// ExpandPattern expands a user-configured glob pattern. Unlike deterministic
// templates, a configured pattern that matches nothing records a note so the
// user learns their pattern was inert.
func (e *Expander) ExpandPattern(pattern string) (paths []string, notes []string) {
	paths, notes = e.ExpandLocation(pattern)
	if len(paths) == 0 && len(notes) == 0 {
		notes = []string{fmt.Sprintf("pattern %q did not match any paths", pattern)}
	}
	return paths, notes
}

// expandString resolves "~" and $VAR references. A reference to an unset
// variable yields a skip note and an empty result.
func (e *Expander) expandString(value string) (string, string) {
	out := value
	switch {
	case out == "~" || strings.HasPrefix(out, "~/"):
		if e.home == "" {
			return "", fmt.Sprintf("skipped %q: home directory unavailable", value)
		}
		out = filepath.Join(e.home, strings.TrimPrefix(strings.TrimPrefix(out, "~"), "/"))
	case strings.HasPrefix(out, "~"):
		// "~user" would need another account's home; emitting it verbatim
		// would leak a literal "~" into a candidate path.
		return "", fmt.Sprintf("skipped %q: cannot expand another user's home directory", value)
	}

	if !strings.ContainsRune(out, '$') {
		return out, ""
	}

	missing := ""
	expanded := os.Expand(out, func(name string) string {
		v, ok := e.lookup(name)
		if !ok && missing == "" {
			missing = name
		}
		return v
	})
	if missing != "" {
		return "", fmt.Sprintf("skipped %q: environment variable %s is not set", value, missing)
	}
	return expanded, ""
}

// isGlob reports whether the path contains glob metacharacters and therefore
// needs wildcard resolution.
func isGlob(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// ConfiguredCandidates expands user-supplied additional locations and glob
// patterns into candidates with scope=configured. Locations that do not
// exist are still emitted so the scan records them as missing artifacts.
func (e *Expander) ConfiguredCandidates(locations, patterns []string) ([]Candidate, []string) {
	var candidates []Candidate
	var errs []string

	for _, loc := range locations {
		paths, notes := e.ExpandLocation(loc)
		errs = append(errs, notes...)
		for _, p := range paths {
			candidates = append(candidates, Candidate{
				Path:  p,
				Scope: artifact.ScopeConfigured,
				Notes: []string{"Configured additional location"},
			})
		}
	}

	for _, pattern := range patterns {
		paths, notes := e.ExpandPattern(pattern)
		errs = append(errs, notes...)
		for _, p := range paths {
			candidates = append(candidates, Candidate{
				Path:  p,
				Scope: artifact.ScopeConfigured,
				Notes: []string{fmt.Sprintf("Matched configured pattern %q", pattern)},
			})
		}
	}

	return candidates, errs
}
