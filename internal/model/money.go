package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates the direction of a money movement. Persisted files may
// carry other values; readers must tolerate them.
type EntryType string

const (
	// EntryIncome represents money coming in.
	EntryIncome EntryType = "income"
	// EntryExpense represents money going out.
	EntryExpense EntryType = "expense"
)

// MoneyRecord is a single income or expense entry. LinkedItemID may reference
// an ItemRecord that no longer exists; dangling links are resolved lazily when
// displayed, never enforced.
type MoneyRecord struct {
	Date                time.Time
	ID                  string
	EntryType           EntryType
	SourceOrDestination string
	Notes               string
	LinkedItemID        string
	Amount              decimal.Decimal
}

// MoneyHeaders is the canonical column order for the money file.
func MoneyHeaders() []string {
	return []string{
		"id",
		"date",
		"entry_type",
		"source_or_destination",
		"amount",
		"notes",
		"linked_item_id",
	}
}

// MoneyRequiredHeaders lists the columns a readable money file must carry.
func MoneyRequiredHeaders() []string {
	return MoneyHeaders()
}

// MoneyFromRow parses one row into a MoneyRecord.
func MoneyFromRow(row map[string]string) (MoneyRecord, error) {
	date, err := time.ParseInLocation(DateFormat, row["date"], time.Local)
	if err != nil {
		return MoneyRecord{}, fmt.Errorf("invalid date %q: %w", row["date"], err)
	}

	amount, err := parseDecimal(row["amount"])
	if err != nil {
		return MoneyRecord{}, fmt.Errorf("invalid amount %q: %w", row["amount"], err)
	}

	entryType := EntryType(row["entry_type"])
	if entryType == "" {
		entryType = EntryIncome
	}

	return MoneyRecord{
		ID:                  row["id"],
		Date:                date,
		EntryType:           entryType,
		SourceOrDestination: row["source_or_destination"],
		Amount:              amount,
		Notes:               row["notes"],
		LinkedItemID:        row["linked_item_id"],
	}, nil
}

// Row serializes the record in the canonical column formats.
func (r MoneyRecord) Row() map[string]string {
	return map[string]string{
		"id":                    r.ID,
		"date":                  r.Date.Format(DateFormat),
		"entry_type":            string(r.EntryType),
		"source_or_destination": r.SourceOrDestination,
		"amount":                r.Amount.StringFixed(2),
		"notes":                 r.Notes,
		"linked_item_id":        r.LinkedItemID,
	}
}
