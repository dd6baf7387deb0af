package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Theme is one named color palette.
type Theme struct {
	Background string     `json:"background"`
	Foreground string     `json:"foreground"`
	Accent     string     `json:"accent"`
	Muted      string     `json:"muted"`
	Table      TableTheme `json:"table"`
}

// TableTheme colors tabular output.
type TableTheme struct {
	HeaderBG string `json:"header_bg"`
	HeaderFG string `json:"header_fg"`
	RowBG    string `json:"row_bg"`
	AltRowBG string `json:"alt_row_bg"`
}

// ThemeSet maps theme names to palettes.
type ThemeSet map[string]Theme

// DefaultThemes returns the minimal fallback palette set.
func DefaultThemes() ThemeSet {
	return ThemeSet{
		"light": {
			Background: "#f7f9fb",
			Foreground: "#0f172a",
			Accent:     "#2563eb",
			Muted:      "#94a3b8",
			Table: TableTheme{
				HeaderBG: "#e2e8f0",
				HeaderFG: "#0f172a",
				RowBG:    "#ffffff",
				AltRowBG: "#f1f5f9",
			},
		},
	}
}

// Theme resolves a palette by name with per-field fallback to the light
// palette, so a sparse hand-edited theme still renders.
func (ts ThemeSet) Theme(name string) Theme {
	base := ts["light"]
	if base.Background == "" {
		base = DefaultThemes()["light"]
	}

	selected, ok := ts[name]
	if !ok {
		selected = base
	}

	pick := func(value, fallback string) string {
		if value != "" {
			return value
		}
		return fallback
	}

	theme := Theme{
		Background: pick(selected.Background, base.Background),
		Foreground: pick(selected.Foreground, base.Foreground),
		Accent:     pick(selected.Accent, base.Accent),
		Muted:      pick(selected.Muted, base.Muted),
	}
	theme.Table = TableTheme{
		HeaderBG: pick(selected.Table.HeaderBG, pick(base.Table.HeaderBG, theme.Background)),
		HeaderFG: pick(selected.Table.HeaderFG, pick(base.Table.HeaderFG, theme.Foreground)),
		RowBG:    pick(selected.Table.RowBG, pick(base.Table.RowBG, theme.Background)),
		AltRowBG: pick(selected.Table.AltRowBG, pick(base.Table.AltRowBG, theme.Background)),
	}
	return theme
}

// SaveThemes persists the theme document.
func SaveThemes(path string, themes ThemeSet) error {
	payload, err := json.MarshalIndent(themes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal themes: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("failed to write themes %s: %w", path, err)
	}
	return nil
}

// loadThemes reads the theme document, seeding it when absent. Every loaded
// theme gets table colors defaulted from its own palette.
func loadThemes(path, defaultsDir string) (ThemeSet, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if !seedFromPackaged(path, defaultsDir) {
			if err := SaveThemes(path, DefaultThemes()); err != nil {
				return nil, err
			}
		}
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read themes %s: %w", path, err)
	}

	var themes ThemeSet
	if err := json.Unmarshal(payload, &themes); err != nil {
		return nil, fmt.Errorf("failed to parse themes %s: %w", path, err)
	}

	for name, theme := range themes {
		if theme.Table.HeaderBG == "" {
			theme.Table.HeaderBG = theme.Background
		}
		if theme.Table.HeaderFG == "" {
			theme.Table.HeaderFG = theme.Foreground
		}
		if theme.Table.RowBG == "" {
			theme.Table.RowBG = theme.Background
		}
		if theme.Table.AltRowBG == "" {
			theme.Table.AltRowBG = theme.Background
		}
		themes[name] = theme
	}

	return themes, nil
}
