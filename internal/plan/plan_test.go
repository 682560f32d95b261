package plan

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grahamcooke/apphound/internal/artifact"
)

func sampleResults() []artifact.ScanResult {
	size := int64(1024)
	return []artifact.ScanResult{
		{
			AppName:     "Slack",
			GeneratedAt: time.Now().UTC(),
			Artifacts: []artifact.Artifact{
				{
					AppName:       "Slack",
					Path:          "/Users/dev/Library/Caches/com.slack",
					Kind:          artifact.KindDirectory,
					Scope:         artifact.ScopeDefault,
					Category:      artifact.CategoryCache,
					RemovalSafety: artifact.SafetySafe,
					Exists:        true,
				},
				{
					AppName:       "Slack",
					Path:          "/Users/dev/Library/Preferences/com.slack.plist",
					Kind:          artifact.KindFile,
					Scope:         artifact.ScopeDefault,
					Category:      artifact.CategoryPreferences,
					RemovalSafety: artifact.SafetyCaution,
					Exists:        true,
					Size:          &size,
				},
				{
					AppName:       "Slack",
					Path:          "/Applications/Slack Old.app",
					Kind:          artifact.KindUnknown,
					Scope:         artifact.ScopeSystem,
					Category:      artifact.CategoryApplication,
					RemovalSafety: artifact.SafetyReview,
					Exists:        false,
				},
			},
		},
	}
}

func TestFromResultsDefaultEnablePolicy(t *testing.T) {
	p := FromResults(sampleResults(), nil)

	require.Len(t, p.Entries, 3)
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.GeneratedAt.IsZero())

	// Only the existing SAFE artifact is enabled.
	assert.True(t, p.Entries[0].Enabled, "safe existing cache should be enabled")
	assert.False(t, p.Entries[1].Enabled, "caution preferences must stay disabled")
	assert.False(t, p.Entries[2].Enabled, "missing artifact must stay disabled")
	assert.Len(t, p.Enabled(), 1)

	// Sizes ride along so review surfaces can show them.
	require.NotNil(t, p.Entries[1].Size)
	assert.EqualValues(t, 1024, *p.Entries[1].Size)
	assert.Nil(t, p.Entries[0].Size, "directories carry no size")
}

func TestFromResultsMissingNeverEnabled(t *testing.T) {
	// Even a policy that enables everything cannot matter for planning
	// semantics checked here; the default policy itself must reject missing
	// artifacts regardless of safety tier.
	a := artifact.Artifact{
		Path:          "/Users/dev/Library/Caches/gone",
		Kind:          artifact.KindDirectory,
		Category:      artifact.CategoryCache,
		RemovalSafety: artifact.SafetySafe,
		Exists:        false,
	}
	assert.False(t, DefaultEnablePolicy(a))
}

func TestSuggestedCommand(t *testing.T) {
	tests := []struct {
		name string
		path string
		kind artifact.Kind
		want string
	}{
		{"directory", "/Users/dev/Library/Caches/com.slack", artifact.KindDirectory, "rm -rf /Users/dev/Library/Caches/com.slack"},
		{"file", "/tmp/a.plist", artifact.KindFile, "rm -f /tmp/a.plist"},
		{"symlink", "/tmp/link", artifact.KindSymlink, "rm -f /tmp/link"},
		{"unknown treated as file", "/tmp/x", artifact.KindUnknown, "rm -f /tmp/x"},
		{"space quoted", "/Applications/PDF Expert.app", artifact.KindDirectory, "rm -rf '/Applications/PDF Expert.app'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestedCommand(tt.path, tt.kind))
		})
	}
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "''", ShellQuote(""))
	assert.Equal(t, "/plain/path", ShellQuote("/plain/path"))
	assert.Equal(t, "'/with space'", ShellQuote("/with space"))
	assert.Equal(t, `'/it'\''s'`, ShellQuote("/it's"))
}

func TestRenderScript(t *testing.T) {
	p := FromResults(sampleResults(), nil)
	script := string(p.RenderScript(ScriptOptions{OnlyEnabled: true, PromptEach: true}))

	assert.True(t, strings.HasPrefix(script, "#!/usr/bin/env bash\n"))
	assert.Contains(t, script, "set -euo pipefail")
	assert.Contains(t, script, "confirm() {")
	assert.Contains(t, script, "rm -rf /Users/dev/Library/Caches/com.slack")
	// Disabled entries stay out of the script.
	assert.NotContains(t, script, "com.slack.plist")
	assert.NotContains(t, script, "Slack Old.app")
}

func TestRenderScriptWithoutPrompts(t *testing.T) {
	p := FromResults(sampleResults(), nil)
	script := string(p.RenderScript(ScriptOptions{OnlyEnabled: true}))

	assert.NotContains(t, script, "if confirm")
	assert.Contains(t, script, "rm -rf /Users/dev/Library/Caches/com.slack")
}

func TestPlanJSONRoundTrip(t *testing.T) {
	p := FromResults(sampleResults(), nil)
	data, err := p.MarshalIndent()
	require.NoError(t, err)

	loaded, err := LoadJSON(data)
	require.NoError(t, err)
	assert.Equal(t, p.ID, loaded.ID)
	require.Len(t, loaded.Entries, len(p.Entries))
	assert.Equal(t, p.Entries[0].SuggestedCommand, loaded.Entries[0].SuggestedCommand)
}

func TestForApp(t *testing.T) {
	p := FromResults(sampleResults(), nil)
	assert.Len(t, p.ForApp("Slack"), 3)
	assert.Empty(t, p.ForApp("Zoom"))
}
