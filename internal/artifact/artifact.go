// Package artifact defines the domain model for application traces discovered
// on the filesystem. Values are built once by the scanner pipeline and are
// treated as read-only by reporting and planning code.
package artifact

import "time"

// Kind represents the filesystem nature of an artifact.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
	KindSymlink   Kind = "symlink"
	KindUnknown   Kind = "unknown"
)

// Scope describes how a candidate path was selected for inspection.
type Scope string

const (
	ScopeDefault    Scope = "default"    // deterministic per-user location template
	ScopeSystem     Scope = "system"     // deterministic system-wide location template
	ScopeConfigured Scope = "configured" // user-supplied location or glob pattern
	ScopeDiscovered Scope = "discovered" // deep home search match
	ScopeUnknown    Scope = "unknown"
)

// Category is the high-level classification of an installation trace.
type Category string

const (
	CategoryApplication Category = "application"
	CategorySupport     Category = "support"
	CategoryCache       Category = "cache"
	CategoryPreferences Category = "preferences"
	CategoryLogs        Category = "logs"
	CategoryLaunchAgent Category = "launch-agent"
	CategoryOther       Category = "other"
)

// Safety is the removal-safety tier guiding deletion plan defaults.
type Safety string

const (
	SafetySafe    Safety = "safe"
	SafetyCaution Safety = "caution"
	SafetyReview  Safety = "review"
)

// Artifact is a single filesystem trace tied to an application. Path is
// always absolute and fully expanded. Size is only populated for regular
// files; Writable is nil when the permission check could not run.
type Artifact struct {
	AppName             string     `json:"app_name"`
	Path                string     `json:"path"`
	Kind                Kind       `json:"kind"`
	Scope               Scope      `json:"scope"`
	Category            Category   `json:"category"`
	RemovalSafety       Safety     `json:"removal_safety"`
	Exists              bool       `json:"exists"`
	Writable            *bool      `json:"writable"`
	Size                *int64     `json:"size_bytes"`
	LastModified        *time.Time `json:"last_modified"`
	Notes               []string   `json:"notes"`
	RemovalInstructions string     `json:"removal_instructions,omitempty"`
}

// AddNote appends a non-fatal observation to the artifact.
func (a *Artifact) AddNote(note string) {
	if note == "" {
		return
	}
	a.Notes = append(a.Notes, note)
}

// ScanResult aggregates the artifacts discovered for a single application.
// Errors captures non-fatal issues so callers can surface them without
// halting execution. Instances are immutable once returned by the scanner.
type ScanResult struct {
	AppName     string     `json:"app_name"`
	RunID       string     `json:"run_id,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
	Artifacts   []Artifact `json:"artifacts"`
	Errors      []string   `json:"errors"`
}

// Existing returns only the artifacts still present on disk.
func (r *ScanResult) Existing() []Artifact {
	var out []Artifact
	for _, a := range r.Artifacts {
		if a.Exists {
			out = append(out, a)
		}
	}
	return out
}

// Missing returns artifacts that are no longer present on disk.
func (r *ScanResult) Missing() []Artifact {
	var out []Artifact
	for _, a := range r.Artifacts {
		if !a.Exists {
			out = append(out, a)
		}
	}
	return out
}

// ByCategory returns all artifacts matching the given category.
func (r *ScanResult) ByCategory(c Category) []Artifact {
	var out []Artifact
	for _, a := range r.Artifacts {
		if a.Category == c {
			out = append(out, a)
		}
	}
	return out
}

// Summary holds roll-up metrics for one application's scan.
type Summary struct {
	AppName    string
	Total      int
	Existing   int
	Missing    int
	Removable  int // SAFE or CAUTION tier
	ByCategory map[Category]int
	BySafety   map[Safety]int
	TotalSize  int64
}

// Summarize computes the roll-up for a single scan result.
func Summarize(r *ScanResult) Summary {
	s := Summary{
		AppName:    r.AppName,
		Total:      len(r.Artifacts),
		ByCategory: make(map[Category]int),
		BySafety:   make(map[Safety]int),
	}
	for _, a := range r.Artifacts {
		s.ByCategory[a.Category]++
		s.BySafety[a.RemovalSafety]++
		if a.Exists {
			s.Existing++
		}
		if a.RemovalSafety == SafetySafe || a.RemovalSafety == SafetyCaution {
			s.Removable++
		}
		if a.Size != nil {
			s.TotalSize += *a.Size
		}
	}
	s.Missing = s.Total - s.Existing
	return s
}

// SummarizeAll produces summaries for each result in order.
func SummarizeAll(results []ScanResult) []Summary {
	out := make([]Summary, 0, len(results))
	for i := range results {
		out = append(out, Summarize(&results[i]))
	}
	return out
}

// Flatten collects artifacts from multiple scan results into a single slice,
// preserving result order.
func Flatten(results []ScanResult) []Artifact {
	var out []Artifact
	for i := range results {
		out = append(out, results[i].Artifacts...)
	}
	return out
}
