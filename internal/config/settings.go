package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings is the application settings document, fully populated after load.
type Settings struct {
	Paths  PathSettings   `json:"paths"  mapstructure:"paths"`
	Backup BackupSettings `json:"backup" mapstructure:"backup"`
	Themes ThemeSettings  `json:"themes" mapstructure:"themes"`
	UI     UISettings     `json:"ui"     mapstructure:"ui"`
}

// PathSettings locates the data files and the backup directory.
type PathSettings struct {
	ItemsCSV  string `json:"items_csv"  mapstructure:"items_csv"`
	MoneyCSV  string `json:"money_csv"  mapstructure:"money_csv"`
	BackupDir string `json:"backup_dir" mapstructure:"backup_dir"`
}

// BackupSettings is the snapshot retention policy.
type BackupSettings struct {
	KeepRecent     int `json:"keep_recent"     mapstructure:"keep_recent"`
	KeepHistorical int `json:"keep_historical" mapstructure:"keep_historical"`
}

// ThemeSettings selects the active theme.
type ThemeSettings struct {
	Default string `json:"default" mapstructure:"default"`
}

// UISettings holds presentation preferences.
type UISettings struct {
	DateFormat     string `json:"date_format"     mapstructure:"date_format"`
	CurrencySymbol string `json:"currency_symbol" mapstructure:"currency_symbol"`
	Autosave       bool   `json:"autosave"        mapstructure:"autosave"`
}

// DefaultSettings returns the fully-populated fallback settings, with data
// files rooted under dataDir.
func DefaultSettings(dataDir string) Settings {
	return Settings{
		Paths: PathSettings{
			ItemsCSV:  filepath.Join(dataDir, "data", "items.csv"),
			MoneyCSV:  filepath.Join(dataDir, "data", "money.csv"),
			BackupDir: filepath.Join(dataDir, "backups"),
		},
		Backup: BackupSettings{
			KeepRecent:     3,
			KeepHistorical: 3,
		},
		Themes: ThemeSettings{Default: "light"},
		UI: UISettings{
			DateFormat:     "2006-01-02 15:04",
			CurrencySymbol: "$",
			Autosave:       true,
		},
	}
}

// settingsDefaults flattens DefaultSettings into viper default keys.
func settingsDefaults(dataDir string) map[string]any {
	d := DefaultSettings(dataDir)
	return map[string]any{
		"paths.items_csv":        d.Paths.ItemsCSV,
		"paths.money_csv":        d.Paths.MoneyCSV,
		"paths.backup_dir":       d.Paths.BackupDir,
		"backup.keep_recent":     d.Backup.KeepRecent,
		"backup.keep_historical": d.Backup.KeepHistorical,
		"themes.default":         d.Themes.Default,
		"ui.date_format":         d.UI.DateFormat,
		"ui.currency_symbol":     d.UI.CurrencySymbol,
		"ui.autosave":            d.UI.Autosave,
	}
}

// loadSettings reads the settings document, seeding it when absent and
// filling missing keys with defaults. Filled defaults are persisted back so
// older or hand-edited files converge on the full schema.
func loadSettings(path, defaultsDir, dataDir string) (Settings, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return Settings{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if !seedFromPackaged(path, defaultsDir) {
			if err := SaveSettings(path, DefaultSettings(dataDir)); err != nil {
				return Settings{}, err
			}
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	defaults := settingsDefaults(dataDir)
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return Settings{}, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings %s: %w", path, err)
	}

	changed, err := missingSettingsKeys(path, defaults)
	if err != nil {
		return Settings{}, err
	}
	if fillEmptySettings(&settings, dataDir) {
		changed = true
	}
	if changed {
		if err := SaveSettings(path, settings); err != nil {
			return Settings{}, err
		}
	}

	return settings, nil
}

// SaveSettings persists the settings document.
func SaveSettings(path string, settings Settings) error {
	payload, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", path, err)
	}
	return nil
}

// missingSettingsKeys reports whether the on-disk document lacks any known key.
func missingSettingsKeys(path string, defaults map[string]any) (bool, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return false, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}

	flat := map[string]bool{}
	flattenKeys("", raw, flat)
	for key := range defaults {
		if !flat[key] {
			return true, nil
		}
	}
	return false, nil
}

func flattenKeys(prefix string, value map[string]any, out map[string]bool) {
	for key, child := range value {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		out[full] = true
		if nested, ok := child.(map[string]any); ok {
			flattenKeys(full, nested, out)
		}
	}
}

// fillEmptySettings replaces empty string values with their defaults, the
// same way missing keys are defaulted.
func fillEmptySettings(settings *Settings, dataDir string) bool {
	d := DefaultSettings(dataDir)
	changed := false

	fill := func(dst *string, fallback string) {
		if *dst == "" {
			*dst = fallback
			changed = true
		}
	}
	fill(&settings.Paths.ItemsCSV, d.Paths.ItemsCSV)
	fill(&settings.Paths.MoneyCSV, d.Paths.MoneyCSV)
	fill(&settings.Paths.BackupDir, d.Paths.BackupDir)
	fill(&settings.Themes.Default, d.Themes.Default)
	fill(&settings.UI.DateFormat, d.UI.DateFormat)
	fill(&settings.UI.CurrencySymbol, d.UI.CurrencySymbol)

	return changed
}

// seedFromPackaged copies a bundled default document into place when one
// ships alongside the binary. Returns true when dst now exists.
func seedFromPackaged(dst, defaultsDir string) bool {
	if defaultsDir == "" {
		return false
	}
	src := filepath.Join(defaultsDir, filepath.Base(dst))
	payload, err := os.ReadFile(src)
	if err != nil {
		return false
	}
	return os.WriteFile(dst, payload, 0o600) == nil
}
