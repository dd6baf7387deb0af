// Package model defines the persisted record types and their row codecs.
package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateFormat is the timestamp layout used in every data file.
const DateFormat = "2006-01-02 15:04"

// DefaultWant fills the want rating for files written before the column existed.
const DefaultWant = 3

// ItemRecord is a single planned purchase.
type ItemRecord struct {
	Date          time.Time
	ID            string
	Product       string
	Description   string
	Location      string
	Reference     string
	Justification string
	Recurrence    string
	Cost          decimal.Decimal
	Urgency       int
	Value         int
	Want          int
	PriceComp     int
	Effect        int
	OverallScore  *float64 // nil until scored
}

// NewID returns a fresh record identity.
func NewID() string {
	return uuid.New().String()
}

// ItemHeaders is the canonical column order for the items file.
func ItemHeaders() []string {
	return []string{
		"id",
		"date",
		"product",
		"description",
		"location",
		"reference",
		"cost",
		"urgency",
		"value",
		"want",
		"price_comp",
		"effect",
		"justification",
		"recurrence",
		"overall_score",
	}
}

// ItemRequiredHeaders lists the columns a readable items file must carry.
// want is absent from older files and defaults at parse time.
func ItemRequiredHeaders() []string {
	return []string{
		"id",
		"date",
		"product",
		"description",
		"location",
		"reference",
		"cost",
		"urgency",
		"value",
		"price_comp",
		"effect",
		"justification",
		"recurrence",
		"overall_score",
	}
}

// ItemFromRow parses one row into an ItemRecord. Descriptive fields tolerate
// absence; dates and numbers are parsed strictly.
func ItemFromRow(row map[string]string) (ItemRecord, error) {
	date, err := time.ParseInLocation(DateFormat, row["date"], time.Local)
	if err != nil {
		return ItemRecord{}, fmt.Errorf("invalid date %q: %w", row["date"], err)
	}

	cost, err := parseDecimal(row["cost"])
	if err != nil {
		return ItemRecord{}, fmt.Errorf("invalid cost %q: %w", row["cost"], err)
	}

	item := ItemRecord{
		ID:            row["id"],
		Date:          date,
		Product:       row["product"],
		Description:   row["description"],
		Location:      row["location"],
		Reference:     row["reference"],
		Cost:          cost,
		Justification: row["justification"],
		Recurrence:    row["recurrence"],
	}

	ratings := []struct {
		dst      *int
		key      string
		fallback int
	}{
		{&item.Urgency, "urgency", 1},
		{&item.Value, "value", 1},
		{&item.Want, "want", DefaultWant},
		{&item.PriceComp, "price_comp", 1},
		{&item.Effect, "effect", 1},
	}
	for _, r := range ratings {
		n, err := parseRating(row[r.key], r.fallback)
		if err != nil {
			return ItemRecord{}, fmt.Errorf("invalid %s %q: %w", r.key, row[r.key], err)
		}
		*r.dst = n
	}

	if raw := row["overall_score"]; raw != "" {
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ItemRecord{}, fmt.Errorf("invalid overall_score %q: %w", raw, err)
		}
		item.OverallScore = &score
	}

	return item, nil
}

// Row serializes the record in the canonical column formats.
func (r ItemRecord) Row() map[string]string {
	score := ""
	if r.OverallScore != nil {
		score = strconv.FormatFloat(*r.OverallScore, 'f', 2, 64)
	}
	return map[string]string{
		"id":            r.ID,
		"date":          r.Date.Format(DateFormat),
		"product":       r.Product,
		"description":   r.Description,
		"location":      r.Location,
		"reference":     r.Reference,
		"cost":          r.Cost.StringFixed(2),
		"urgency":       strconv.Itoa(r.Urgency),
		"value":         strconv.Itoa(r.Value),
		"want":          strconv.Itoa(r.Want),
		"price_comp":    strconv.Itoa(r.PriceComp),
		"effect":        strconv.Itoa(r.Effect),
		"justification": r.Justification,
		"recurrence":    r.Recurrence,
		"overall_score": score,
	}
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func parseRating(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
