// Package report renders scan results as CSV and JSON files and as console
// summaries. File writes go through the filelock package so a report is
// never observed half-written.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/grahamcooke/apphound/internal/artifact"
	"github.com/grahamcooke/apphound/internal/filelock"
	"github.com/grahamcooke/apphound/pkg/utils"
)

// csvHeaders is the fixed column set of the audit CSV. Order is part of the
// file format; downstream spreadsheets depend on it.
var csvHeaders = []string{
	"App Name",
	"Artifact Path",
	"Kind",
	"Scope",
	"Category",
	"Exists",
	"Writable",
	"Size (bytes)",
	"Last Modified",
	"Removal Safety",
	"Notes",
	"Removal Instructions",
}

// WriteCSV renders all results as CSV rows, one row per artifact.
func WriteCSV(w io.Writer, results []artifact.ScanResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeaders); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i := range results {
		for _, a := range results[i].Artifacts {
			if err := writer.Write(csvRow(results[i].AppName, a)); err != nil {
				return fmt.Errorf("writing CSV row for %s: %w", a.Path, err)
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

func csvRow(appName string, a artifact.Artifact) []string {
	writable := ""
	if a.Writable != nil {
		writable = strconv.FormatBool(*a.Writable)
	}
	size := ""
	if a.Size != nil {
		size = strconv.FormatInt(*a.Size, 10)
	}
	modified := ""
	if a.LastModified != nil {
		modified = a.LastModified.Format(time.RFC3339)
	}
	return []string{
		appName,
		a.Path,
		string(a.Kind),
		string(a.Scope),
		string(a.Category),
		strconv.FormatBool(a.Exists),
		writable,
		size,
		modified,
		string(a.RemovalSafety),
		strings.Join(a.Notes, " | "),
		a.RemovalInstructions,
	}
}

// WriteJSON renders all results as an indented JSON array of scan results.
func WriteJSON(w io.Writer, results []artifact.ScanResult) error {
	if results == nil {
		results = []artifact.ScanResult{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

// SaveCSV writes the CSV report to path with locking and an atomic rename.
func SaveCSV(path string, results []artifact.ScanResult) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, results); err != nil {
		return err
	}
	return filelock.LockAndWrite(path, buf.Bytes(), 0o644)
}

// SaveJSON writes the JSON report to path with locking and an atomic rename.
func SaveJSON(path string, results []artifact.ScanResult) error {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, results); err != nil {
		return err
	}
	return filelock.LockAndWrite(path, buf.Bytes(), 0o644)
}

// LoadJSON reads back a JSON report written by SaveJSON.
func LoadJSON(path string) ([]artifact.ScanResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var results []artifact.ScanResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return results, nil
}

// FilterMinSize keeps only artifacts with a known size of at least min
// bytes. Directories and missing paths carry no size and are dropped, so
// this is a "show me the big files" view, not a complete audit.
func FilterMinSize(results []artifact.ScanResult, min int64) []artifact.ScanResult {
	out := make([]artifact.ScanResult, 0, len(results))
	for i := range results {
		filtered := results[i]
		filtered.Artifacts = nil
		for _, a := range results[i].Artifacts {
			if a.Size != nil && *a.Size >= min {
				filtered.Artifacts = append(filtered.Artifacts, a)
			}
		}
		out = append(out, filtered)
	}
	return out
}

// WriteSummary renders a per-app roll-up followed by overall totals.
func WriteSummary(w io.Writer, results []artifact.ScanResult) {
	var totalArtifacts, totalExisting int
	var totalSize int64

	for _, s := range artifact.SummarizeAll(results) {
		fmt.Fprintf(w, "=== %s ===\n", s.AppName)
		fmt.Fprintf(w, "Artifacts: %d (%d present, %d missing)\n", s.Total, s.Existing, s.Missing)
		fmt.Fprintf(w, "Size on disk: %s\n", utils.FormatBytes(s.TotalSize))
		for _, category := range []artifact.Category{
			artifact.CategoryApplication,
			artifact.CategorySupport,
			artifact.CategoryCache,
			artifact.CategoryPreferences,
			artifact.CategoryLogs,
			artifact.CategoryLaunchAgent,
			artifact.CategoryOther,
		} {
			if n := s.ByCategory[category]; n > 0 {
				fmt.Fprintf(w, "  %-12s %d\n", category, n)
			}
		}
		fmt.Fprintln(w)

		totalArtifacts += s.Total
		totalExisting += s.Existing
		totalSize += s.TotalSize
	}

	fmt.Fprintf(w, "Total: %d artifacts across %d apps, %d present, %s\n",
		totalArtifacts, len(results), totalExisting, utils.FormatBytes(totalSize))
}
