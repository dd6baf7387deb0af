package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"planner/internal/backup"
	"planner/internal/common"
	"planner/internal/config"
	"planner/internal/model"
	"planner/internal/storage"
)

func itemsPath() string {
	return config.ExpandPath(cfg.Settings.Paths.ItemsCSV)
}

func moneyPath() string {
	return config.ExpandPath(cfg.Settings.Paths.MoneyCSV)
}

func backupDir() string {
	return config.ExpandPath(cfg.Settings.Paths.BackupDir)
}

func retentionPolicy() backup.Policy {
	return backup.Policy{
		KeepRecent:     cfg.Settings.Backup.KeepRecent,
		KeepHistorical: cfg.Settings.Backup.KeepHistorical,
	}
}

// saveItems replaces the item collection on disk and snapshots it when
// autosave is enabled.
func saveItems(items []model.ItemRecord) error {
	path := itemsPath()
	if err := storage.WriteItems(path, items); err != nil {
		return common.NewUserError("could not write your items file", err)
	}
	autoBackup(path)
	return nil
}

// saveMoney replaces the money collection on disk and snapshots it when
// autosave is enabled.
func saveMoney(entries []model.MoneyRecord) error {
	path := moneyPath()
	if err := storage.WriteMoney(path, entries); err != nil {
		return common.NewUserError("could not write your money file", err)
	}
	autoBackup(path)
	return nil
}

// autoBackup snapshots path after a successful save. A failed snapshot is
// informational: the save already succeeded and must not be reported as lost.
func autoBackup(path string) {
	if !cfg.Settings.UI.Autosave {
		return
	}
	if _, err := backup.Create(path, backupDir(), retentionPolicy()); err != nil {
		slog.Warn("automatic backup failed", "path", path, "error", err)
	}
}

func readItems() ([]model.ItemRecord, error) {
	items, err := storage.ReadItems(itemsPath())
	if err != nil {
		return nil, common.NewUserError("could not read your items file", err)
	}
	return items, nil
}

func readMoney() ([]model.MoneyRecord, error) {
	entries, err := storage.ReadMoney(moneyPath())
	if err != nil {
		return nil, common.NewUserError("could not read your money file", err)
	}
	return entries, nil
}

func validateRating(name string, value int) error {
	if value < 1 || value > 5 {
		return common.NewUserError(fmt.Sprintf("%s must be between 1 and 5", name), nil)
	}
	return nil
}

func parseAmount(name, raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, common.NewUserError(fmt.Sprintf("invalid %s %q", name, raw), err)
	}
	if value.IsNegative() {
		return decimal.Zero, common.NewUserError(fmt.Sprintf("%s cannot be negative", name), nil)
	}
	return value, nil
}

// findItemIndex matches a full id or an unambiguous prefix, so the shortened
// ids shown by list output are accepted back.
func findItemIndex(items []model.ItemRecord, id string) (int, error) {
	for i, item := range items {
		if item.ID == id {
			return i, nil
		}
	}

	match := -1
	for i, item := range items {
		if strings.HasPrefix(item.ID, id) {
			if match >= 0 {
				return 0, common.NewUserError(fmt.Sprintf("id %s matches more than one item", id), nil)
			}
			match = i
		}
	}
	if match >= 0 {
		return match, nil
	}
	return 0, common.NewUserError(fmt.Sprintf("no item with id %s", id), common.ErrNotFound)
}

func findMoneyIndex(entries []model.MoneyRecord, id string) (int, error) {
	for i, entry := range entries {
		if entry.ID == id {
			return i, nil
		}
	}

	match := -1
	for i, entry := range entries {
		if strings.HasPrefix(entry.ID, id) {
			if match >= 0 {
				return 0, common.NewUserError(fmt.Sprintf("id %s matches more than one entry", id), nil)
			}
			match = i
		}
	}
	if match >= 0 {
		return match, nil
	}
	return 0, common.NewUserError(fmt.Sprintf("no money entry with id %s", id), common.ErrNotFound)
}

// snapshotIfPresent backs up path before a destructive operation, tolerating
// a file that does not exist yet.
func snapshotIfPresent(path string) error {
	_, err := backup.Create(path, backupDir(), retentionPolicy())
	if errors.Is(err, backup.ErrSourceMissing) {
		return nil
	}
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
