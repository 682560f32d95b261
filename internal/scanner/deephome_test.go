package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grahamcooke/apphound/internal/artifact"
)

func TestDeepHomeScanCaseInsensitiveMatch(t *testing.T) {
	home := t.TempDir()
	hits := []string{
		filepath.Join(home, "Downloads", "Slack-4.0.dmg"),
		filepath.Join(home, "notes", "slack-tips.txt"),
		filepath.Join(home, "SLACK backups"),
	}
	misses := []string{
		filepath.Join(home, "Downloads", "other.dmg"),
	}
	files := []string{hits[0], hits[1]}
	files = append(files, misses...)
	for _, p := range files {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(hits[2], 0o755); err != nil {
		t.Fatal(err)
	}

	candidates, notes := NewDeepHomeScanner(home).Scan("Slack")
	if len(notes) != 0 {
		t.Fatalf("unexpected notes: %v", notes)
	}

	found := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		found[c.Path] = true
		if c.Scope != artifact.ScopeDiscovered {
			t.Errorf("candidate %s scope = %s, want %s", c.Path, c.Scope, artifact.ScopeDiscovered)
		}
	}
	for _, want := range hits {
		if !found[want] {
			t.Errorf("deep scan missed %s", want)
		}
	}
	for _, miss := range misses {
		if found[miss] {
			t.Errorf("deep scan wrongly matched %s", miss)
		}
	}
}

func TestDeepHomeScanCapTruncates(t *testing.T) {
	home := t.TempDir()
	for i := 0; i < 20; i++ {
		name := filepath.Join(home, fmt.Sprintf("slack-file-%02d", i))
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	s := NewDeepHomeScanner(home)
	s.Cap = 5
	candidates, notes := s.Scan("slack")

	if len(candidates) != 5 {
		t.Errorf("got %d candidates, want cap of 5", len(candidates))
	}
	truncated := false
	for _, n := range notes {
		if strings.Contains(n, "truncated") {
			truncated = true
		}
	}
	if !truncated {
		t.Errorf("expected a truncation note, got %v", notes)
	}
}

func TestDeepHomeScanDefaultCap(t *testing.T) {
	s := NewDeepHomeScanner(t.TempDir())
	if s.Cap != DefaultDeepHomeCap {
		t.Errorf("default cap = %d, want %d", s.Cap, DefaultDeepHomeCap)
	}
	if DefaultDeepHomeCap != 500 {
		t.Errorf("DefaultDeepHomeCap = %d, want 500", DefaultDeepHomeCap)
	}
}

func TestDeepHomeScanEmptyHome(t *testing.T) {
	candidates, notes := NewDeepHomeScanner(t.TempDir()).Scan("slack")
	if len(candidates) != 0 {
		t.Errorf("empty home produced %d candidates", len(candidates))
	}
	if len(notes) != 0 {
		t.Errorf("empty home produced notes: %v", notes)
	}
}
