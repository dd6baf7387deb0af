package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsSeedsDefaults(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "share")
	path := filepath.Join(dir, "settings.json")

	settings, err := loadSettings(path, "", dataDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dataDir, "data", "items.csv"), settings.Paths.ItemsCSV)
	assert.Equal(t, 3, settings.Backup.KeepRecent)
	assert.Equal(t, "light", settings.Themes.Default)
	assert.True(t, settings.UI.Autosave)

	_, err = os.Stat(path)
	require.NoError(t, err, "the seeded document is persisted")
}

func TestLoadSettingsFillsMissingKeyAndPersists(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "share")
	path := filepath.Join(dir, "settings.json")

	partial := `{
  "paths": {"items_csv": "/tmp/my-items.csv"},
  "backup": {"keep_recent": 5}
}`
	require.NoError(t, os.WriteFile(path, []byte(partial), 0o600))

	settings, err := loadSettings(path, "", dataDir)
	require.NoError(t, err)

	// Present keys survive untouched.
	assert.Equal(t, "/tmp/my-items.csv", settings.Paths.ItemsCSV)
	assert.Equal(t, 5, settings.Backup.KeepRecent)
	// Missing keys get the documented defaults.
	assert.Equal(t, 3, settings.Backup.KeepHistorical)
	assert.Equal(t, filepath.Join(dataDir, "backups"), settings.Paths.BackupDir)

	// And the filled document is written back.
	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]any
	require.NoError(t, json.Unmarshal(payload, &onDisk))
	backupDoc, ok := onDisk["backup"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 3, backupDoc["keep_historical"])
	assert.EqualValues(t, 5, backupDoc["keep_recent"])
}

func TestLoadSettingsCompleteFileNotRewritten(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "share")
	path := filepath.Join(dir, "settings.json")

	settings, err := loadSettings(path, "", dataDir)
	require.NoError(t, err)

	before, err := os.Stat(path)
	require.NoError(t, err)

	again, err := loadSettings(path, "", dataDir)
	require.NoError(t, err)
	assert.Equal(t, settings, again)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime(), "a complete document is left alone")
}

func TestLoadSettingsEmptyPathFilled(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "share")
	path := filepath.Join(dir, "settings.json")

	partial := `{
  "paths": {"items_csv": "", "money_csv": "", "backup_dir": ""},
  "backup": {"keep_recent": 3, "keep_historical": 3},
  "themes": {"default": "light"},
  "ui": {"date_format": "2006-01-02 15:04", "currency_symbol": "$", "autosave": true}
}`
	require.NoError(t, os.WriteFile(path, []byte(partial), 0o600))

	settings, err := loadSettings(path, "", dataDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "data", "money.csv"), settings.Paths.MoneyCSV)
}

func TestLoadSettingsMalformedIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	_, err := loadSettings(path, "", dir)
	require.Error(t, err)
}

func TestLoadSettingsSeedsFromPackaged(t *testing.T) {
	dir := t.TempDir()
	defaultsDir := filepath.Join(dir, "packaged")
	require.NoError(t, os.MkdirAll(defaultsDir, 0o700))

	packaged := DefaultSettings(filepath.Join(dir, "share"))
	packaged.UI.CurrencySymbol = "€"
	require.NoError(t, SaveSettings(filepath.Join(defaultsDir, "settings.json"), packaged))

	settings, err := loadSettings(filepath.Join(dir, "settings.json"), defaultsDir, filepath.Join(dir, "share"))
	require.NoError(t, err)
	assert.Equal(t, "€", settings.UI.CurrencySymbol)
}
