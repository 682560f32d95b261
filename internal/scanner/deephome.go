package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/grahamcooke/apphound/internal/artifact"
)

// DefaultDeepHomeCap bounds the number of deep-home matches. Unranked
// substring matching across a whole home directory can return unbounded
// noise; the cap bounds worst-case latency and output size, and a truncation
// note signals incompleteness instead of silently dropping matches.
const DefaultDeepHomeCap = 500

// DeepHomeScanner walks the entire home directory tree and emits every entry
// whose base name contains the application name, case-insensitively. It is
// an opt-in fallback for traces the deterministic templates miss.
type DeepHomeScanner struct {
	Home string
	Cap  int
}

// NewDeepHomeScanner creates a scanner over the given home directory with
// the default match cap.
func NewDeepHomeScanner(home string) *DeepHomeScanner {
	return &DeepHomeScanner{Home: home, Cap: DefaultDeepHomeCap}
}

// Scan returns candidates with scope=discovered plus any traversal notes.
// Unreadable subdirectories are skipped with a note and the walk continues;
// hitting the cap stops the walk and records a truncation note.
func (s *DeepHomeScanner) Scan(appName string) ([]Candidate, []string) {
	cap := s.Cap
	if cap <= 0 {
		cap = DefaultDeepHomeCap
	}
	needle := strings.ToLower(appName)

	var candidates []Candidate
	var notes []string

	err := filepath.WalkDir(s.Home, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			notes = append(notes, fmt.Sprintf("deep home search error at %s: %v", path, err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == s.Home {
			return nil
		}
		if strings.Contains(strings.ToLower(d.Name()), needle) {
			candidates = append(candidates, Candidate{
				Path:  path,
				Scope: artifact.ScopeDiscovered,
				Notes: []string{"Deep home search match"},
			})
			if len(candidates) >= cap {
				notes = append(notes, fmt.Sprintf("deep home search truncated after %d matches", cap))
				return fs.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		notes = append(notes, fmt.Sprintf("deep home search aborted: %v", err))
	}

	return candidates, notes
}
