package bdd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-bdd/logging"
)

func writeSettingsFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte(content), 0644))
}

func TestLoadSettingsMissingFile(t *testing.T) {
	settings, err := LoadSettings(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultRunDir, settings.RunDir)
	assert.Equal(t, []string{"xml", "html", "text"}, settings.Formats)
	assert.True(t, settings.ShowSteps)
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	writeSettingsFile(t, dir, `
runDir: web/reports
formats:
  - xml
  - html
serveAddr: "127.0.0.1:9090"
showSteps: false
`)

	settings, err := LoadSettings(dir)
	require.NoError(t, err)

	assert.Equal(t, "web/reports", settings.RunDir)
	assert.Equal(t, []string{"xml", "html"}, settings.Formats)
	assert.Equal(t, "127.0.0.1:9090", settings.ServeAddr)
	assert.False(t, settings.ShowSteps)
}

func TestLoadSettingsPartialFile(t *testing.T) {
	// Omitted keys keep their defaults
	dir := t.TempDir()
	writeSettingsFile(t, dir, "runDir: build/bdd\n")

	settings, err := LoadSettings(dir)
	require.NoError(t, err)

	assert.Equal(t, "build/bdd", settings.RunDir)
	assert.Equal(t, []string{"xml", "html", "text"}, settings.Formats)
	assert.True(t, settings.ShowSteps)
}

func TestLoadSettingsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	writeSettingsFile(t, dir, "formats:\n  - pdf\n")

	_, err := LoadSettings(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown report format "pdf"`)
}

func TestLoadSettingsInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeSettingsFile(t, dir, "runDir: [\n")

	_, err := LoadSettings(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse")
}

func TestSettingsCoordinator(t *testing.T) {
	settings := DefaultSettings()
	settings.RunDir = t.TempDir()

	coordinator, err := settings.Coordinator(log.New())
	require.NoError(t, err)
	require.NotNil(t, coordinator)

	// Building the coordinator already claims a run directory
	entries, err := os.ReadDir(settings.RunDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), logging.RunDirectoryPrefix))
}
