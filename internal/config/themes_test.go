package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeResolution(t *testing.T) {
	themes := ThemeSet{
		"light": DefaultThemes()["light"],
		"dark": {
			Background: "#0b1220",
			Foreground: "#e2e8f0",
			// accent/muted left empty: fall back to light
		},
	}

	tests := []struct {
		name       string
		theme      string
		background string
		accent     string
	}{
		{name: "known theme", theme: "dark", background: "#0b1220", accent: "#2563eb"},
		{name: "unknown theme falls back to light", theme: "solarized", background: "#f7f9fb", accent: "#2563eb"},
		{name: "light itself", theme: "light", background: "#f7f9fb", accent: "#2563eb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme := themes.Theme(tt.theme)
			assert.Equal(t, tt.background, theme.Background)
			assert.Equal(t, tt.accent, theme.Accent)
			assert.NotEmpty(t, theme.Table.HeaderBG)
			assert.NotEmpty(t, theme.Table.AltRowBG)
		})
	}
}

func TestThemeTableFallsBackToOwnPalette(t *testing.T) {
	themes := ThemeSet{
		"light": {
			Background: "#ffffff",
			Foreground: "#000000",
		},
	}

	theme := themes.Theme("light")
	assert.Equal(t, "#ffffff", theme.Table.RowBG)
	assert.Equal(t, "#000000", theme.Table.HeaderFG)
}

func TestLoadThemesSeedsAndDefaultsTables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "themes.json")

	themes, err := loadThemes(path, "")
	require.NoError(t, err)
	require.Contains(t, themes, "light")

	_, err = os.Stat(path)
	require.NoError(t, err)

	// A sparse hand-written theme gets table colors from its own palette.
	sparse := `{"mono": {"background": "#111111", "foreground": "#eeeeee"}}`
	require.NoError(t, os.WriteFile(path, []byte(sparse), 0o600))

	themes, err = loadThemes(path, "")
	require.NoError(t, err)
	assert.Equal(t, "#111111", themes["mono"].Table.RowBG)
	assert.Equal(t, "#eeeeee", themes["mono"].Table.HeaderFG)
}

func TestLoadThemesMalformedIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "themes.json")
	require.NoError(t, os.WriteFile(path, []byte("[not a map"), 0o600))

	_, err := loadThemes(path, "")
	require.Error(t, err)
}
