// Package storage persists record collections as locked CSV files and whole
// datasets as JSON bundles.
//
// Reads are strict: a header missing required columns fails with SchemaError,
// and a single malformed row fails the whole read with RecordParseError.
// Partial collections are never returned. Writes are order-preserving; callers
// own the sort order.
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"planner/internal/model"
)

// ReadItems reads the item collection at path. A missing file is an empty
// collection, not an error.
func ReadItems(path string) ([]model.ItemRecord, error) {
	return readCollection(path, model.ItemRequiredHeaders(), model.ItemFromRow)
}

// WriteItems replaces the item collection at path, preserving caller order.
func WriteItems(path string, items []model.ItemRecord) error {
	rows := make([]map[string]string, len(items))
	for i, item := range items {
		rows[i] = item.Row()
	}
	return writeCollection(path, model.ItemHeaders(), rows)
}

// ReadMoney reads the money collection at path. A missing file is an empty
// collection, not an error.
func ReadMoney(path string) ([]model.MoneyRecord, error) {
	return readCollection(path, model.MoneyRequiredHeaders(), model.MoneyFromRow)
}

// WriteMoney replaces the money collection at path, preserving caller order.
func WriteMoney(path string, entries []model.MoneyRecord) error {
	rows := make([]map[string]string, len(entries))
	for i, entry := range entries {
		rows[i] = entry.Row()
	}
	return writeCollection(path, model.MoneyHeaders(), rows)
}

func readCollection[T any](path string, required []string, parse func(map[string]string) (T, error)) ([]T, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	release := acquireLock(path, false)
	defer release()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Path: path, Missing: required}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	if missing := missingColumns(header, required); len(missing) > 0 {
		return nil, &SchemaError{Path: path, Missing: missing}
	}

	var records []T
	for line := 2; ; line++ {
		raw, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, &RecordParseError{Path: path, Line: line, Err: readErr}
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(raw) {
				row[name] = raw[i]
			}
		}

		record, parseErr := parse(row)
		if parseErr != nil {
			return nil, &RecordParseError{Path: path, Line: line, Err: parseErr}
		}
		records = append(records, record)
	}

	return records, nil
}

func writeCollection(path string, headers []string, rows []map[string]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	release := acquireLock(path, true)
	defer release()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", path, err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(headers); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	record := make([]string, len(headers))
	for _, row := range rows {
		for i, name := range headers {
			record[i] = row[name]
		}
		if err := writer.Write(record); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func missingColumns(header, required []string) []string {
	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}

	var missing []string
	for _, name := range required {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing
}
