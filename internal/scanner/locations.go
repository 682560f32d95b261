package scanner

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grahamcooke/apphound/internal/artifact"
)

// Candidate is a path to be probed, tagged with how it was selected. Notes
// travel with the candidate so the resulting artifact can explain its origin.
type Candidate struct {
	Path  string
	Scope artifact.Scope
	Notes []string
}

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)
var nonAlnumLower = regexp.MustCompile(`[^a-z0-9]+`)

// NameVariants returns the spellings under which an application's traces may
// be filed: the raw name, lowercase, space-stripped, dash and underscore
// slugs. Order is deterministic and duplicates are removed.
func NameVariants(appName string) []string {
	spaced := strings.ToLower(appName)
	slug := strings.Trim(nonAlnumLower.ReplaceAllString(spaced, "-"), "-")
	compact := strings.ToLower(nonAlnum.ReplaceAllString(appName, ""))
	if compact == "" {
		compact = strings.ReplaceAll(spaced, " ", "")
	}

	variants := []string{
		appName,
		stripAppSuffix(appName),
		spaced,
		stripAppSuffix(spaced),
		strings.ReplaceAll(appName, " ", ""),
		strings.ReplaceAll(spaced, " ", ""),
		strings.ReplaceAll(appName, " ", "-"),
		strings.ReplaceAll(spaced, " ", "-"),
		strings.ReplaceAll(appName, " ", "_"),
		strings.ReplaceAll(spaced, " ", "_"),
		strings.ReplaceAll(slug, "-", ""),
		slug,
		compact,
	}
	return uniqueNonEmpty(variants)
}

// BundleVariants returns plausible bundle identifiers for the app, e.g.
// "com.slack" for "Slack". Names that already look like bundle identifiers
// pass through unchanged.
func BundleVariants(appName string, nameVariants []string) []string {
	spaced := strings.ToLower(appName)
	slug := strings.Trim(nonAlnumLower.ReplaceAllString(spaced, "-"), "-")
	compact := strings.ToLower(nonAlnum.ReplaceAllString(appName, ""))
	if compact == "" {
		compact = strings.ReplaceAll(spaced, " ", "")
	}

	raw := []string{
		compact,
		strings.ReplaceAll(slug, "-", "."),
	}
	if compact != "" {
		raw = append(raw, "com."+compact)
	}
	for _, v := range nameVariants {
		if strings.HasPrefix(v, "com.") {
			raw = append(raw, v)
		}
	}
	for _, v := range nameVariants {
		if v != "" && !strings.HasPrefix(v, "com.") {
			raw = append(raw, "com."+v)
		}
	}

	out := uniqueNonEmpty(raw)
	if len(out) == 0 {
		if compact != "" {
			return []string{compact}
		}
		return uniqueNonEmpty(nameVariants)
	}
	return out
}

type locationRoot struct {
	path  string
	scope artifact.Scope
	note  string
}

// DefaultCandidates expands the deterministic location template table for an
// application. The table mirrors the standard macOS layout: application
// bundles, Application Support, Preferences, LaunchAgents/Daemons, Caches,
// Logs, saved state and containers. Candidates carry only their scope and an
// origin note; category assignment happens later in the classifier.
func DefaultCandidates(appName, home string) []Candidate {
	names := NameVariants(appName)
	bundles := BundleVariants(appName, names)

	titles := uniqueNonEmpty(mapStrings(names, stripAppSuffix))
	bundleDirs := make([]string, 0, len(titles))
	for _, t := range titles {
		bundleDirs = append(bundleDirs, t+".app")
	}
	bundleDirs = uniqueNonEmpty(bundleDirs)

	combined := uniqueNonEmpty(append(append([]string{}, names...), bundles...))

	var out []Candidate
	add := func(root locationRoot, entry string) {
		out = append(out, Candidate{
			Path:  filepath.Join(root.path, entry),
			Scope: root.scope,
			Notes: []string{root.note},
		})
	}

	applicationRoots := []locationRoot{
		{"/Applications", artifact.ScopeSystem, "System Applications directory"},
		{"/Applications/Utilities", artifact.ScopeSystem, "System Utilities directory"},
		{"/System/Applications", artifact.ScopeSystem, "System managed Applications directory"},
		{"/System/Applications/Utilities", artifact.ScopeSystem, "System managed Utilities directory"},
		{"/Applications/Setapp", artifact.ScopeSystem, "Setapp directory"},
		{filepath.Join(home, "Applications"), artifact.ScopeDefault, "User Applications directory"},
	}
	for _, root := range applicationRoots {
		for _, b := range bundleDirs {
			add(root, b)
		}
		for _, t := range titles {
			add(root, t)
		}
	}

	sharedRoot := locationRoot{"/Users/Shared", artifact.ScopeSystem, "Shared user directory"}
	for _, t := range titles {
		add(sharedRoot, t)
	}

	supportRoots := []locationRoot{
		{filepath.Join(home, "Library", "Application Support"), artifact.ScopeDefault, "User Application Support location"},
		{"/Library/Application Support", artifact.ScopeSystem, "System Application Support location"},
	}
	for _, root := range supportRoots {
		for _, name := range combined {
			add(root, name)
		}
	}

	preferenceRoots := []locationRoot{
		{filepath.Join(home, "Library", "Preferences"), artifact.ScopeDefault, "User preferences plist"},
		{"/Library/Preferences", artifact.ScopeSystem, "System preferences plist"},
	}
	prefTargets := uniqueNonEmpty(append(append([]string{}, names...), mapStrings(bundles, func(b string) string { return b + ".plist" })...))
	for _, root := range preferenceRoots {
		for _, target := range prefTargets {
			if !strings.HasSuffix(target, ".plist") {
				target += ".plist"
			}
			add(root, target)
		}
	}

	launchRoots := []locationRoot{
		{filepath.Join(home, "Library", "LaunchAgents"), artifact.ScopeDefault, "User LaunchAgents plist"},
		{"/Library/LaunchAgents", artifact.ScopeSystem, "System LaunchAgents plist"},
		{"/Library/LaunchDaemons", artifact.ScopeSystem, "System LaunchDaemons plist"},
	}
	for _, root := range launchRoots {
		for _, name := range combined {
			add(root, name+".plist")
		}
	}

	cacheRoots := []locationRoot{
		{filepath.Join(home, "Library", "Caches"), artifact.ScopeDefault, "User caches"},
		{"/Library/Caches", artifact.ScopeSystem, "System caches"},
	}
	for _, root := range cacheRoots {
		for _, name := range combined {
			add(root, name)
		}
	}

	logRoots := []locationRoot{
		{filepath.Join(home, "Library", "Logs"), artifact.ScopeDefault, "User logs"},
		{"/Library/Logs", artifact.ScopeSystem, "System logs"},
	}
	for _, root := range logRoots {
		for _, name := range combined {
			add(root, name)
		}
	}

	savedStateRoots := []locationRoot{
		{filepath.Join(home, "Library", "Saved Application State"), artifact.ScopeDefault, "User saved application state"},
		{"/Library/Saved Application State", artifact.ScopeSystem, "System saved application state"},
	}
	for _, root := range savedStateRoots {
		for _, b := range bundles {
			add(root, b+".savedState")
		}
	}

	containerRoots := []locationRoot{
		{filepath.Join(home, "Library", "Containers"), artifact.ScopeDefault, "User application containers"},
		{filepath.Join(home, "Library", "Group Containers"), artifact.ScopeDefault, "User group containers"},
		{filepath.Join(home, "Library", "Application Scripts"), artifact.ScopeDefault, "User application scripts"},
	}
	for _, root := range containerRoots {
		for _, b := range bundles {
			add(root, b)
		}
	}

	return out
}

func stripAppSuffix(value string) string {
	if strings.HasSuffix(strings.ToLower(value), ".app") {
		return value[:len(value)-len(".app")]
	}
	return value
}

func mapStrings(values []string, fn func(string) string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fn(v))
	}
	return out
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, raw := range values {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
