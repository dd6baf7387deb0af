package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemFromRow(t *testing.T) {
	score := 3.40
	tests := []struct {
		name    string
		row     map[string]string
		want    ItemRecord
		wantErr string
	}{
		{
			name: "complete row",
			row: map[string]string{
				"id":            "a1",
				"date":          "2024-03-01 09:30",
				"product":       "standing desk",
				"description":   "sit-stand frame",
				"location":      "office shop",
				"reference":     "https://example.com/desk",
				"cost":          "429.99",
				"urgency":       "2",
				"value":         "4",
				"want":          "5",
				"price_comp":    "3",
				"effect":        "4",
				"justification": "back pain",
				"recurrence":    "",
				"overall_score": "3.40",
			},
			want: ItemRecord{
				ID:            "a1",
				Date:          time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local),
				Product:       "standing desk",
				Description:   "sit-stand frame",
				Location:      "office shop",
				Reference:     "https://example.com/desk",
				Cost:          decimal.RequireFromString("429.99"),
				Urgency:       2,
				Value:         4,
				Want:          5,
				PriceComp:     3,
				Effect:        4,
				Justification: "back pain",
				OverallScore:  &score,
			},
		},
		{
			name: "want column absent defaults to mid rating",
			row: map[string]string{
				"id":      "a2",
				"date":    "2024-03-01 09:30",
				"product": "kettle",
				"cost":    "25.00",
				"urgency": "1",
				"value":   "2",
			},
			want: ItemRecord{
				ID:      "a2",
				Date:    time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local),
				Product: "kettle",
				Cost:    decimal.RequireFromString("25.00"),
				Urgency: 1,
				Value:   2,
				Want:    DefaultWant,
				// Unset ratings fall back to the minimum.
				PriceComp: 1,
				Effect:    1,
			},
		},
		{
			name: "empty cost is zero",
			row: map[string]string{
				"id":   "a3",
				"date": "2024-03-01 09:30",
			},
			want: ItemRecord{
				ID:        "a3",
				Date:      time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local),
				Cost:      decimal.Zero,
				Urgency:   1,
				Value:     1,
				Want:      DefaultWant,
				PriceComp: 1,
				Effect:    1,
			},
		},
		{
			name:    "bad date",
			row:     map[string]string{"id": "a4", "date": "03/01/2024"},
			wantErr: "invalid date",
		},
		{
			name:    "non-numeric cost",
			row:     map[string]string{"id": "a5", "date": "2024-03-01 09:30", "cost": "lots"},
			wantErr: "invalid cost",
		},
		{
			name:    "non-numeric rating",
			row:     map[string]string{"id": "a6", "date": "2024-03-01 09:30", "urgency": "high"},
			wantErr: "invalid urgency",
		},
		{
			name:    "non-numeric overall score",
			row:     map[string]string{"id": "a7", "date": "2024-03-01 09:30", "overall_score": "n/a"},
			wantErr: "invalid overall_score",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ItemFromRow(tt.row)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assertItemEqual(t, tt.want, got)
		})
	}
}

func TestItemRowRoundTrip(t *testing.T) {
	score := 4.20
	item := ItemRecord{
		ID:            NewID(),
		Date:          time.Date(2023, 11, 12, 18, 5, 0, 0, time.Local),
		Product:       "winter tyres",
		Description:   "studded, 4x",
		Location:      "tyre depot",
		Reference:     "quote #9912",
		Cost:          decimal.RequireFromString("612.50"),
		Urgency:       4,
		Value:         5,
		Want:          2,
		PriceComp:     4,
		Effect:        5,
		Justification: "safety",
		Recurrence:    "yearly",
		OverallScore:  &score,
	}

	got, err := ItemFromRow(item.Row())
	require.NoError(t, err)
	assertItemEqual(t, item, got)
}

func TestItemRowUnscored(t *testing.T) {
	item := ItemRecord{
		ID:        "x",
		Date:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
		Cost:      decimal.Zero,
		Urgency:   1,
		Value:     1,
		Want:      1,
		PriceComp: 1,
		Effect:    1,
	}

	row := item.Row()
	assert.Equal(t, "", row["overall_score"])

	got, err := ItemFromRow(row)
	require.NoError(t, err)
	assert.Nil(t, got.OverallScore)
}

func TestItemHeadersContainWant(t *testing.T) {
	assert.Contains(t, ItemHeaders(), "want")
	assert.NotContains(t, ItemRequiredHeaders(), "want")
}

func assertItemEqual(t *testing.T, want, got ItemRecord) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.True(t, want.Date.Equal(got.Date), "date %v != %v", want.Date, got.Date)
	assert.Equal(t, want.Product, got.Product)
	assert.Equal(t, want.Description, got.Description)
	assert.Equal(t, want.Location, got.Location)
	assert.Equal(t, want.Reference, got.Reference)
	assert.True(t, want.Cost.Equal(got.Cost), "cost %v != %v", want.Cost, got.Cost)
	assert.Equal(t, want.Urgency, got.Urgency)
	assert.Equal(t, want.Value, got.Value)
	assert.Equal(t, want.Want, got.Want)
	assert.Equal(t, want.PriceComp, got.PriceComp)
	assert.Equal(t, want.Effect, got.Effect)
	assert.Equal(t, want.Justification, got.Justification)
	assert.Equal(t, want.Recurrence, got.Recurrence)
	if want.OverallScore == nil {
		assert.Nil(t, got.OverallScore)
	} else {
		require.NotNil(t, got.OverallScore)
		assert.InDelta(t, *want.OverallScore, *got.OverallScore, 0.001)
	}
}
