package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/model"
)

func TestBundleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")

	items := testItems()
	money := []model.MoneyRecord{
		{
			ID:                  "m1",
			Date:                time.Date(2024, 6, 3, 14, 30, 0, 0, time.Local),
			EntryType:           model.EntryIncome,
			SourceOrDestination: "salary",
			Amount:              decimal.RequireFromString("1800.00"),
		},
	}

	before := time.Now().UTC()
	require.NoError(t, WriteBundle(path, items, money))

	bundle, err := ReadBundle(path)
	require.NoError(t, err)

	assert.Equal(t, BundleVersion, bundle.Metadata.Version)
	assert.False(t, bundle.Metadata.GeneratedAt.Before(before.Truncate(time.Second)))
	assert.Equal(t, time.UTC, bundle.Metadata.GeneratedAt.Location())

	require.Len(t, bundle.Items, len(items))
	require.Len(t, bundle.Money, len(money))
	for i := range items {
		assert.Equal(t, items[i].ID, bundle.Items[i].ID)
		assert.True(t, items[i].Cost.Equal(bundle.Items[i].Cost))
	}
	assert.Equal(t, money[0].ID, bundle.Money[0].ID)
	assert.True(t, money[0].Amount.Equal(bundle.Money[0].Amount))
}

func TestReadBundleMissingPathIsEmpty(t *testing.T) {
	bundle, err := ReadBundle(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Empty(t, bundle.Items)
	assert.Empty(t, bundle.Money)
	assert.Zero(t, bundle.Metadata.Version)
}

func TestReadBundleBadRecordFailsAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")

	doc := map[string]any{
		"metadata": map[string]any{"version": 1, "generated_at": "2024-06-01T00:00:00Z"},
		"items": []map[string]string{
			{"id": "ok", "date": "2024-06-01 10:15"},
			{"id": "broken", "date": "yesterday"},
		},
		"money": []map[string]string{},
	}
	payload, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, payload, 0o600))

	bundle, err := ReadBundle(path)
	var parseErr *RecordParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, path, parseErr.Path)
	assert.Equal(t, 2, parseErr.Line)
	assert.Empty(t, bundle.Items, "no partial bundle on failure")
}

func TestReadBundleMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := ReadBundle(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse bundle")
}
