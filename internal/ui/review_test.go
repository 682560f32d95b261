package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grahamcooke/apphound/internal/artifact"
	"github.com/grahamcooke/apphound/internal/plan"
)

var prefsSize = int64(2048)

func testPlan() plan.Plan {
	return plan.Plan{
		ID: "test-plan",
		Entries: []plan.Entry{
			{AppName: "Slack", Path: "/caches/com.slack", Kind: artifact.KindDirectory,
				Category: artifact.CategoryCache, RemovalSafety: artifact.SafetySafe,
				Exists: true, Enabled: true},
			{AppName: "Slack", Path: "/prefs/com.slack.plist", Kind: artifact.KindFile,
				Category: artifact.CategoryPreferences, RemovalSafety: artifact.SafetyCaution,
				Exists: true, Enabled: false, Size: &prefsSize},
			{AppName: "Slack", Path: "/gone", Kind: artifact.KindUnknown,
				Category: artifact.CategoryOther, RemovalSafety: artifact.SafetyReview,
				Exists: false, Enabled: false},
		},
	}
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestReviewInitialSelectionMirrorsEnabled(t *testing.T) {
	m := NewReviewModel(testPlan(), nil)
	view := m.View()

	if !strings.Contains(view, "[x]") {
		t.Error("enabled entry not checked in initial view")
	}
	if !strings.Contains(view, "[ ]") {
		t.Error("disabled entry not unchecked in initial view")
	}
	if !strings.Contains(view, "/caches/com.slack") {
		t.Error("entry path missing from view")
	}
	if !strings.Contains(view, "2.00 KB") {
		t.Error("entry size missing from view")
	}
	if !strings.Contains(view, ", -)") {
		t.Error("unknown size not rendered as -")
	}
}

func TestReviewToggle(t *testing.T) {
	m := NewReviewModel(testPlan(), nil)

	// Move to the second entry and toggle it on.
	updated, _ := m.Update(key("j"))
	m = updated.(ReviewModel)
	updated, _ = m.Update(key(" "))
	m = updated.(ReviewModel)

	if !m.selected[1] {
		t.Error("space did not toggle the entry under the cursor")
	}
}

func TestReviewSelectAllAndNone(t *testing.T) {
	m := NewReviewModel(testPlan(), nil)

	updated, _ := m.Update(key("a"))
	m = updated.(ReviewModel)
	for i := range m.entries {
		if !m.selected[i] {
			t.Errorf("entry %d not selected after 'a'", i)
		}
	}

	updated, _ = m.Update(key("n"))
	m = updated.(ReviewModel)
	for i := range m.entries {
		if m.selected[i] {
			t.Errorf("entry %d still selected after 'n'", i)
		}
	}
}

func TestReviewEnterRunsRemovalsForSelectedExisting(t *testing.T) {
	var removed []string
	m := NewReviewModel(testPlan(), func(e plan.Entry) error {
		removed = append(removed, e.Path)
		return nil
	})

	// Select everything; only existing entries may reach the remove func.
	updated, _ := m.Update(key("a"))
	m = updated.(ReviewModel)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(ReviewModel)

	if !m.Confirmed {
		t.Fatal("enter did not confirm the plan")
	}
	if len(m.queue) != 2 {
		t.Fatalf("queue has %d entries, want 2 (missing entry excluded)", len(m.queue))
	}

	// Drive the removal loop to completion.
	for cmd != nil {
		msg := cmd()
		updated, cmd = m.Update(msg)
		m = updated.(ReviewModel)
	}

	if m.Removed != 2 {
		t.Errorf("Removed = %d, want 2", m.Removed)
	}
	for _, path := range []string{"/caches/com.slack", "/prefs/com.slack.plist"} {
		found := false
		for _, r := range removed {
			if r == path {
				found = true
			}
		}
		if !found {
			t.Errorf("remove func never saw %s", path)
		}
	}
}

func TestReviewEnterWithNothingSelectedQuits(t *testing.T) {
	m := NewReviewModel(testPlan(), nil)

	updated, _ := m.Update(key("n"))
	m = updated.(ReviewModel)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(ReviewModel)

	if m.Confirmed {
		t.Error("empty selection must not confirm")
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
}
