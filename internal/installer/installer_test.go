package installer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	name string
	args []string
}

func fakeRunner(exitCode int, calls *[]recordedCall) CommandRunner {
	return func(name string, args ...string) (int, error) {
		*calls = append(*calls, recordedCall{name: name, args: args})
		return exitCode, nil
	}
}

func TestRunPkgUsesSystemInstaller(t *testing.T) {
	dir := t.TempDir()
	pkg := filepath.Join(dir, "PDFExpert.pkg")
	require.NoError(t, os.WriteFile(pkg, []byte("pkg"), 0o644))

	var calls []recordedCall
	outcome := NewRunner(nil, fakeRunner(0, &calls)).Run(pkg)

	assert.Equal(t, StatusSuccess, outcome.Status)
	require.NotNil(t, outcome.ExitCode)
	assert.Equal(t, 0, *outcome.ExitCode)
	require.Len(t, calls, 1)
	assert.Equal(t, "sudo", calls[0].name)
	assert.Equal(t, []string{"installer", "-pkg", pkg, "-target", "/"}, calls[0].args)
}

func TestRunDmgRequiresManualAction(t *testing.T) {
	dir := t.TempDir()
	dmg := filepath.Join(dir, "Slack.dmg")
	require.NoError(t, os.WriteFile(dmg, []byte("dmg"), 0o644))

	var calls []recordedCall
	outcome := NewRunner(nil, fakeRunner(0, &calls)).Run(dmg)

	assert.Equal(t, StatusManualActionRequired, outcome.Status)
	assert.Empty(t, calls, "a DMG must never be executed")
	assert.Contains(t, outcome.Message, "Manual action required")
}

func TestRunAppBundleOpens(t *testing.T) {
	dir := t.TempDir()
	app := filepath.Join(dir, "Slack.app")
	require.NoError(t, os.MkdirAll(app, 0o755))

	var calls []recordedCall
	outcome := NewRunner(nil, fakeRunner(0, &calls)).Run(app)

	assert.Equal(t, StatusSuccess, outcome.Status)
	require.Len(t, calls, 1)
	assert.Equal(t, "open", calls[0].name)
	assert.Equal(t, []string{app}, calls[0].args)
}

func TestRunPlainExecutable(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "install.sh")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755))

	var calls []recordedCall
	outcome := NewRunner(nil, fakeRunner(0, &calls)).Run(bin)

	assert.Equal(t, StatusSuccess, outcome.Status)
	require.Len(t, calls, 1)
	assert.Equal(t, bin, calls[0].name)
	assert.Empty(t, calls[0].args)
}

func TestRunMissingInstaller(t *testing.T) {
	var calls []recordedCall
	outcome := NewRunner(nil, fakeRunner(0, &calls)).Run(filepath.Join(t.TempDir(), "nope.pkg"))

	assert.Equal(t, StatusNotFound, outcome.Status)
	assert.Nil(t, outcome.ExitCode)
	assert.Empty(t, calls)
}

func TestRunNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	pkg := filepath.Join(dir, "broken.pkg")
	require.NoError(t, os.WriteFile(pkg, []byte("pkg"), 0o644))

	var calls []recordedCall
	outcome := NewRunner(nil, fakeRunner(70, &calls)).Run(pkg)

	assert.Equal(t, StatusError, outcome.Status)
	require.NotNil(t, outcome.ExitCode)
	assert.Equal(t, 70, *outcome.ExitCode)
	assert.Contains(t, outcome.Message, "non-zero status (70)")
}

func TestRunExpandsEnvironment(t *testing.T) {
	dir := t.TempDir()
	pkg := filepath.Join(dir, "tool.pkg")
	require.NoError(t, os.WriteFile(pkg, []byte("pkg"), 0o644))
	t.Setenv("APPHOUND_TEST_INSTALLER_DIR", dir)

	var calls []recordedCall
	outcome := NewRunner(nil, fakeRunner(0, &calls)).Run("$APPHOUND_TEST_INSTALLER_DIR/tool.pkg")

	assert.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, pkg, outcome.Path)
}
