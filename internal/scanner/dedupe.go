package scanner

import "path/filepath"

// Dedupe removes duplicate candidate paths, keeping the first occurrence.
// Candidate order encodes priority (deterministic templates, then configured
// locations, then patterns, then deep-home matches), so first-wins preserves
// the highest-priority scope for a path reachable from multiple origins.
// The operation is idempotent.
func Dedupe(candidates []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		key := filepath.Clean(c.Path)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
