package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/grahamcooke/apphound/internal/artifact"
)

func sampleResults() []artifact.ScanResult {
	size := int64(2048)
	writable := true
	modified := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return []artifact.ScanResult{
		{
			AppName:     "Slack",
			GeneratedAt: modified,
			Artifacts: []artifact.Artifact{
				{
					AppName:       "Slack",
					Path:          "/Users/dev/Library/Caches/com.slack",
					Kind:          artifact.KindDirectory,
					Scope:         artifact.ScopeDefault,
					Category:      artifact.CategoryCache,
					RemovalSafety: artifact.SafetySafe,
					Exists:        true,
					Writable:      &writable,
					LastModified:  &modified,
					Notes:         []string{"User caches", "second note"},
				},
				{
					AppName:       "Slack",
					Path:          "/Applications/Slack.app",
					Kind:          artifact.KindFile,
					Scope:         artifact.ScopeSystem,
					Category:      artifact.CategoryApplication,
					RemovalSafety: artifact.SafetyReview,
					Exists:        true,
					Size:          &size,
				},
				{
					AppName:       "Slack",
					Path:          "/opt/slack",
					Kind:          artifact.KindUnknown,
					Scope:         artifact.ScopeConfigured,
					Category:      artifact.CategoryOther,
					RemovalSafety: artifact.SafetyReview,
					Exists:        false,
				},
			},
		},
	}
}

func TestWriteCSVHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResults()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV back failed: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want header + 3 rows", len(records))
	}

	wantHeader := []string{
		"App Name", "Artifact Path", "Kind", "Scope", "Category",
		"Exists", "Writable", "Size (bytes)", "Last Modified",
		"Removal Safety", "Notes", "Removal Instructions",
	}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("header column %d = %q, want %q", i, records[0][i], col)
		}
	}

	cache := records[1]
	if cache[0] != "Slack" || cache[1] != "/Users/dev/Library/Caches/com.slack" {
		t.Errorf("unexpected cache row: %v", cache)
	}
	if cache[6] != "true" {
		t.Errorf("writable column = %q, want true", cache[6])
	}
	if cache[7] != "" {
		t.Errorf("directory size column = %q, want empty", cache[7])
	}
	if cache[8] != "2026-03-14T09:30:00Z" {
		t.Errorf("last modified column = %q", cache[8])
	}
	if cache[10] != "User caches | second note" {
		t.Errorf("notes column = %q", cache[10])
	}

	app := records[2]
	if app[7] != "2048" {
		t.Errorf("file size column = %q, want 2048", app[7])
	}

	missing := records[3]
	if missing[5] != "false" || missing[6] != "" || missing[8] != "" {
		t.Errorf("missing artifact row leaked optional values: %v", missing)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResults()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded []artifact.ScanResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding JSON report failed: %v", err)
	}
	if len(decoded) != 1 || decoded[0].AppName != "Slack" {
		t.Fatalf("unexpected decoded report: %+v", decoded)
	}
	if len(decoded[0].Artifacts) != 3 {
		t.Errorf("got %d artifacts, want 3", len(decoded[0].Artifacts))
	}

	// Optional fields must be null, not zero, for absent values.
	raw := buf.String()
	if !strings.Contains(raw, `"size_bytes": null`) {
		t.Error("missing size not encoded as null")
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty report = %q, want []", buf.String())
	}
}

func TestSaveJSONLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "artifacts.json")

	want := sampleResults()
	if err := SaveJSON(path, want); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}
	got, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if len(got) != len(want) || got[0].AppName != want[0].AppName {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if len(got[0].Artifacts) != len(want[0].Artifacts) {
		t.Errorf("got %d artifacts, want %d", len(got[0].Artifacts), len(want[0].Artifacts))
	}
}

func TestLoadJSONMissing(t *testing.T) {
	if _, err := LoadJSON(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing report file")
	}
}

func TestSaveCSVAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit", "audit.csv")

	if err := SaveCSV(path, sampleResults()); err != nil {
		t.Fatalf("SaveCSV failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "App Name,") {
		t.Errorf("unexpected file contents: %.60s", data)
	}

	// No temp files may survive the write.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestFilterMinSize(t *testing.T) {
	results := FilterMinSize(sampleResults(), 1024)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	// Only the sized file survives; the directory and missing path carry no
	// size and drop out.
	if len(results[0].Artifacts) != 1 {
		t.Fatalf("got %d artifacts, want 1: %+v", len(results[0].Artifacts), results[0].Artifacts)
	}
	if results[0].Artifacts[0].Path != "/Applications/Slack.app" {
		t.Errorf("kept %q, want /Applications/Slack.app", results[0].Artifacts[0].Path)
	}

	if filtered := FilterMinSize(sampleResults(), 4096); len(filtered[0].Artifacts) != 0 {
		t.Errorf("threshold above all sizes kept %d artifacts", len(filtered[0].Artifacts))
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, sampleResults())

	out := buf.String()
	for _, want := range []string{
		"=== Slack ===",
		"Artifacts: 3 (2 present, 1 missing)",
		"2.00 KB",
		"cache",
		"application",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
