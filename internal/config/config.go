package config

import (
	"path/filepath"
)

// Config is the full configuration cascade, loaded once at startup and passed
// into the storage, backup, and scoring layers. It is not mutated afterwards;
// changing a document means saving it and reloading.
type Config struct {
	Settings Settings
	Themes   ThemeSet
	Weights  Weights

	// Warnings collects non-fatal load problems (unknown weight keys,
	// malformed values, seeded documents). Informational only.
	Warnings []string

	SettingsPath string
	WeightsPath  string
	ThemesPath   string
}

// Options controls where the cascade loads from. Zero values pick the
// platform defaults.
type Options struct {
	// Dir holds the three config documents.
	Dir string
	// DataDir roots default data and backup paths.
	DataDir string
	// DefaultsDir optionally holds packaged default documents used to seed
	// absent ones.
	DefaultsDir string
}

// Load reads the cascade: settings.json, weights.txt, themes.json. Absent
// documents are seeded (packaged copy first, serialized defaults otherwise);
// missing fields are defaulted without overwriting present ones. A malformed
// settings or themes document is a fatal load error; weights problems degrade
// to defaults with warnings.
func Load(opts Options) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}

	cfg := &Config{
		SettingsPath: filepath.Join(dir, "settings.json"),
		WeightsPath:  filepath.Join(dir, "weights.txt"),
		ThemesPath:   filepath.Join(dir, "themes.json"),
	}

	settings, err := loadSettings(cfg.SettingsPath, opts.DefaultsDir, dataDir)
	if err != nil {
		return nil, err
	}
	cfg.Settings = settings

	weights, warnings := loadWeights(cfg.WeightsPath, opts.DefaultsDir)
	cfg.Weights = weights
	cfg.Warnings = append(cfg.Warnings, warnings...)

	themes, err := loadThemes(cfg.ThemesPath, opts.DefaultsDir)
	if err != nil {
		return nil, err
	}
	cfg.Themes = themes

	return cfg, nil
}

// ActiveTheme resolves the palette selected by the settings document.
func (c *Config) ActiveTheme() Theme {
	return c.Themes.Theme(c.Settings.Themes.Default)
}
