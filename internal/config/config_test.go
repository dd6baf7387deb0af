package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedsFullCascade(t *testing.T) {
	dir := t.TempDir()
	dataDir := t.TempDir()

	cfg, err := Load(Options{Dir: dir, DataDir: dataDir})
	require.NoError(t, err)

	for _, name := range []string{"settings.json", "weights.txt", "themes.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	assert.Equal(t, filepath.Join(dataDir, "data", "items.csv"), cfg.Settings.Paths.ItemsCSV)
	assert.Equal(t, "light", cfg.Settings.Themes.Default)
	assert.Equal(t, DefaultWeights(), cfg.Weights)
	assert.Equal(t, "#2563eb", cfg.ActiveTheme().Accent)
}

func TestLoadWeightsProblemsAreWarningsNotErrors(t *testing.T) {
	dir := t.TempDir()
	weightsPath := filepath.Join(dir, "weights.txt")
	require.NoError(t, os.WriteFile(weightsPath, []byte("weight_date=2.0\nmystery_knob=9\n"), 0o600))

	cfg, err := Load(Options{Dir: dir, DataDir: t.TempDir()})
	require.NoError(t, err)

	assert.InEpsilon(t, 2.0, cfg.Weights.Components.Date, 1e-9)
	assert.NotEmpty(t, cfg.Warnings)
}

func TestLoadMalformedSettingsIsFatal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{bad"), 0o600))

	_, err := Load(Options{Dir: dir, DataDir: t.TempDir()})
	require.Error(t, err)
}

func TestActiveThemeFollowsSettings(t *testing.T) {
	dir := t.TempDir()
	themes := `{
  "light": {"background": "#ffffff", "foreground": "#000000", "accent": "#0000ff", "muted": "#888888"},
  "dark": {"background": "#000000", "foreground": "#ffffff", "accent": "#00ffcc", "muted": "#444444"}
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "themes.json"), []byte(themes), 0o600))

	cfg, err := Load(Options{Dir: dir, DataDir: t.TempDir()})
	require.NoError(t, err)

	cfg.Settings.Themes.Default = "dark"
	assert.Equal(t, "#00ffcc", cfg.ActiveTheme().Accent)
}
