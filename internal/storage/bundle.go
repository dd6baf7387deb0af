package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"planner/internal/model"
)

// BundleVersion is the current bundle document schema version.
const BundleVersion = 1

// BundleMetadata describes when and under which schema a bundle was generated.
type BundleMetadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	Version     int       `json:"version"`
}

// Bundle is a whole-dataset export: both collections plus metadata.
type Bundle struct {
	Metadata BundleMetadata
	Items    []model.ItemRecord
	Money    []model.MoneyRecord
}

type bundleDoc struct {
	Metadata BundleMetadata      `json:"metadata"`
	Items    []map[string]string `json:"items"`
	Money    []map[string]string `json:"money"`
}

// WriteBundle exports both collections to a single JSON document at path.
func WriteBundle(path string, items []model.ItemRecord, money []model.MoneyRecord) error {
	doc := bundleDoc{
		Metadata: BundleMetadata{
			Version:     BundleVersion,
			GeneratedAt: time.Now().UTC(),
		},
		Items: make([]map[string]string, len(items)),
		Money: make([]map[string]string, len(money)),
	}
	for i, item := range items {
		doc.Items[i] = item.Row()
	}
	for i, entry := range money {
		doc.Money[i] = entry.Row()
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal bundle: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create bundle directory: %w", err)
		}
	}

	release := acquireLock(path, true)
	defer release()

	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("failed to write bundle %s: %w", path, err)
	}
	return nil
}

// ReadBundle imports a bundle document. A missing path yields an empty bundle.
// Any malformed record fails the whole read; partial bundles are never
// returned.
func ReadBundle(path string) (Bundle, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Bundle{}, nil
	}

	release := acquireLock(path, false)
	defer release()

	payload, err := os.ReadFile(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("failed to read bundle %s: %w", path, err)
	}

	var doc bundleDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return Bundle{}, fmt.Errorf("failed to parse bundle %s: %w", path, err)
	}

	bundle := Bundle{
		Metadata: doc.Metadata,
		Items:    make([]model.ItemRecord, len(doc.Items)),
		Money:    make([]model.MoneyRecord, len(doc.Money)),
	}
	for i, row := range doc.Items {
		item, parseErr := model.ItemFromRow(row)
		if parseErr != nil {
			return Bundle{}, &RecordParseError{Path: path, Line: i + 1, Err: parseErr}
		}
		bundle.Items[i] = item
	}
	for i, row := range doc.Money {
		entry, parseErr := model.MoneyFromRow(row)
		if parseErr != nil {
			return Bundle{}, &RecordParseError{Path: path, Line: i + 1, Err: parseErr}
		}
		bundle.Money[i] = entry
	}

	return bundle, nil
}
