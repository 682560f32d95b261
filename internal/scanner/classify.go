package scanner

import (
	"path/filepath"
	"strings"

	"github.com/grahamcooke/apphound/internal/artifact"
)

// Classification is driven by an ordered list of path-shape predicates; the
// first match wins. The order is part of the classifier's contract:
//
//  1. LaunchAgents / LaunchDaemons component  -> launch-agent
//  2. Caches component                        -> cache
//  3. Logs component                          -> logs
//  4. Preferences component                   -> preferences
//  5. .app entry under an applications root   -> application
//  6. support-style roots (Application Support,
//     Containers, Saved Application State, …) -> support
//  7. anything else                           -> other
//
// The specific categories come before the generic support fallback, so a
// cache directory nested under an application bundle classifies as cache.
// The same path and scope always produce the same category and safety.

type predicate struct {
	category artifact.Category
	match    func(path, base string) bool
}

var predicates = []predicate{
	{artifact.CategoryLaunchAgent, func(path, _ string) bool {
		return hasComponent(path, "LaunchAgents") || hasComponent(path, "LaunchDaemons")
	}},
	{artifact.CategoryCache, func(path, _ string) bool {
		return hasComponent(path, "Caches")
	}},
	{artifact.CategoryLogs, func(path, _ string) bool {
		return hasComponent(path, "Logs")
	}},
	{artifact.CategoryPreferences, func(path, _ string) bool {
		return hasComponent(path, "Preferences")
	}},
	{artifact.CategoryApplication, func(path, base string) bool {
		return strings.HasSuffix(strings.ToLower(base), ".app") && underApplicationsRoot(path)
	}},
	{artifact.CategorySupport, func(path, _ string) bool {
		return hasComponent(path, "Application Support") ||
			hasComponent(path, "Containers") ||
			hasComponent(path, "Group Containers") ||
			hasComponent(path, "Application Scripts") ||
			hasComponent(path, "Saved Application State") ||
			strings.HasPrefix(path, "/Users/Shared/")
	}},
}

// Classify assigns a category and removal-safety tier to a probed candidate.
// Safety is a pure function of (category, scope, exists) and is never set
// anywhere else.
func Classify(path string, scope artifact.Scope, exists bool) (artifact.Category, artifact.Safety) {
	base := filepath.Base(path)
	category := artifact.CategoryOther
	for _, p := range predicates {
		if p.match(path, base) {
			category = p.category
			break
		}
	}
	return category, safetyFor(category, scope, exists)
}

// safetyFor maps a classification to its removal tier. Caches and logs are
// routinely regenerated (SAFE); application bundles and launch agents can
// break the app or system integration (REVIEW); preferences and support
// data sit in between (CAUTION). Deep-home matches and missing paths are
// always REVIEW so they can never be enabled in a plan by default.
func safetyFor(category artifact.Category, scope artifact.Scope, exists bool) artifact.Safety {
	if !exists {
		return artifact.SafetyReview
	}
	if scope == artifact.ScopeDiscovered {
		return artifact.SafetyReview
	}

	switch category {
	case artifact.CategoryCache, artifact.CategoryLogs:
		return artifact.SafetySafe
	case artifact.CategoryApplication, artifact.CategoryLaunchAgent:
		return artifact.SafetyReview
	case artifact.CategoryPreferences, artifact.CategorySupport:
		return artifact.SafetyCaution
	default:
		return artifact.SafetyReview
	}
}

// hasComponent reports whether name appears as a full path component.
func hasComponent(path, name string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == name {
			return true
		}
	}
	return false
}

var applicationsRoots = []string{
	"/Applications/",
	"/System/Applications/",
}

func underApplicationsRoot(path string) bool {
	for _, root := range applicationsRoots {
		if strings.HasPrefix(path, root) {
			return true
		}
	}
	// Per-user bundle directory: ~/Applications.
	return strings.Contains(path, "/Applications/")
}
