package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Weights is the scoring configuration loaded from the weights document.
type Weights struct {
	CostBands       []CostBand
	Components      ComponentWeights
	DateScoring     DateScoring
	UrgencyOverride int
}

// ComponentWeights are the per-component multipliers of the overall score.
type ComponentWeights struct {
	Date      float64
	Cost      float64
	Urgency   float64
	Value     float64
	Want      float64
	PriceComp float64
	Effect    float64
}

// DateScoring holds the age thresholds for the date component.
type DateScoring struct {
	RecentDays int
	MidDays    int
}

// CostBand maps costs up to Max onto a score. A nil Max is unbounded. Bands
// are ordered ascending; the first match wins.
type CostBand struct {
	Max   *decimal.Decimal
	Score float64
}

// DefaultWeights returns the fallback scoring configuration.
func DefaultWeights() Weights {
	return Weights{
		Components: ComponentWeights{
			Date:      1.0,
			Cost:      1.0,
			Urgency:   1.0,
			Value:     1.0,
			Want:      1.0,
			PriceComp: 1.0,
			Effect:    1.0,
		},
		DateScoring: DateScoring{RecentDays: 7, MidDays: 30},
		CostBands: []CostBand{
			{Max: decimalPtr("50"), Score: 5},
			{Max: decimalPtr("150"), Score: 4},
			{Max: decimalPtr("400"), Score: 3},
			{Max: decimalPtr("800"), Score: 2},
			{Max: nil, Score: 1},
		},
		UrgencyOverride: 5,
	}
}

func decimalPtr(raw string) *decimal.Decimal {
	d := decimal.RequireFromString(raw)
	return &d
}

var costBandKey = regexp.MustCompile(`^cost_band(\d+)_(max|score)$`)

// ParseWeights parses the line-oriented weights format against the given
// defaults. Unknown keys and malformed values are collected as warnings and
// leave the default in place; the parse itself never fails.
func ParseWeights(lines []string, defaults Weights) (Weights, []string) {
	w := cloneWeights(defaults)
	var warnings []string

	weightFields := map[string]*float64{
		"weight_date":       &w.Components.Date,
		"weight_cost":       &w.Components.Cost,
		"weight_urgency":    &w.Components.Urgency,
		"weight_value":      &w.Components.Value,
		"weight_want":       &w.Components.Want,
		"weight_price_comp": &w.Components.PriceComp,
		"weight_effect":     &w.Components.Effect,
	}

	for idx, raw := range lines {
		lineNo := idx + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			warnings = append(warnings, fmt.Sprintf("line %d: missing '=' separator; ignored", lineNo))
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if dst, ok := weightFields[key]; ok {
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("line %d: invalid weight for %s; using default", lineNo, key))
				continue
			}
			*dst = f
			continue
		}

		switch key {
		case "date_recent_days":
			if n, err := strconv.Atoi(value); err == nil {
				w.DateScoring.RecentDays = n
			} else {
				warnings = append(warnings, fmt.Sprintf("line %d: invalid integer for date_recent_days; using default", lineNo))
			}
			continue
		case "date_mid_days":
			if n, err := strconv.Atoi(value); err == nil {
				w.DateScoring.MidDays = n
			} else {
				warnings = append(warnings, fmt.Sprintf("line %d: invalid integer for date_mid_days; using default", lineNo))
			}
			continue
		case "urgency_override":
			if n, err := strconv.Atoi(value); err == nil {
				w.UrgencyOverride = n
			} else {
				warnings = append(warnings, fmt.Sprintf("line %d: invalid integer for urgency_override; using default", lineNo))
			}
			continue
		}

		if m := costBandKey.FindStringSubmatch(key); m != nil {
			bandNum, _ := strconv.Atoi(m[1])
			if bandNum < 1 {
				warnings = append(warnings, fmt.Sprintf("line %d: invalid band index in %s; ignored", lineNo, key))
				continue
			}
			for len(w.CostBands) < bandNum {
				w.CostBands = append(w.CostBands, CostBand{Score: 1})
			}
			band := &w.CostBands[bandNum-1]
			switch m[2] {
			case "max":
				if value == "" || strings.EqualFold(value, "none") {
					band.Max = nil
				} else if d, err := decimal.NewFromString(value); err == nil {
					band.Max = &d
				} else {
					warnings = append(warnings, fmt.Sprintf("line %d: invalid max for %s; using default", lineNo, key))
				}
			case "score":
				if f, err := strconv.ParseFloat(value, 64); err == nil {
					band.Score = f
				} else {
					warnings = append(warnings, fmt.Sprintf("line %d: invalid score for %s; using default", lineNo, key))
				}
			}
			continue
		}
		if strings.HasPrefix(key, "cost_band") {
			warnings = append(warnings, fmt.Sprintf("line %d: invalid band index in %s; ignored", lineNo, key))
			continue
		}

		warnings = append(warnings, fmt.Sprintf("line %d: unknown key %q; ignored", lineNo, key))
	}

	return w, warnings
}

// WeightsTemplate renders a weights configuration as an editable document.
func WeightsTemplate(w Weights) string {
	var b strings.Builder
	b.WriteString("# Purchase scoring weights\n")
	b.WriteString("# Edit values and rerun to apply changes.\n\n")

	fmt.Fprintf(&b, "weight_date=%g\n", w.Components.Date)
	fmt.Fprintf(&b, "weight_cost=%g\n", w.Components.Cost)
	fmt.Fprintf(&b, "weight_urgency=%g\n", w.Components.Urgency)
	fmt.Fprintf(&b, "weight_value=%g\n", w.Components.Value)
	fmt.Fprintf(&b, "weight_want=%g\n", w.Components.Want)
	fmt.Fprintf(&b, "weight_price_comp=%g\n", w.Components.PriceComp)
	fmt.Fprintf(&b, "weight_effect=%g\n\n", w.Components.Effect)

	fmt.Fprintf(&b, "date_recent_days=%d\n", w.DateScoring.RecentDays)
	fmt.Fprintf(&b, "date_mid_days=%d\n\n", w.DateScoring.MidDays)

	b.WriteString("# Cost bands: ascending maximum (use 'none' for no upper bound)\n")
	for i, band := range w.CostBands {
		maxValue := "none"
		if band.Max != nil {
			maxValue = band.Max.String()
		}
		fmt.Fprintf(&b, "cost_band%d_max=%s\n", i+1, maxValue)
		fmt.Fprintf(&b, "cost_band%d_score=%g\n", i+1, band.Score)
	}

	fmt.Fprintf(&b, "\nurgency_override=%d\n", w.UrgencyOverride)
	return b.String()
}

// SaveWeights persists a weights configuration in the editable line format.
func SaveWeights(path string, w Weights) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(WeightsTemplate(w)), 0o600); err != nil {
		return fmt.Errorf("failed to write weights %s: %w", path, err)
	}
	return nil
}

// loadWeights reads the weights document, seeding a default template when it
// is absent. Load failures degrade to defaults with a warning; the cascade
// never fails on a weights problem.
func loadWeights(path, defaultsDir string) (Weights, []string) {
	defaults := DefaultWeights()
	var warnings []string

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		warnings = append(warnings, fmt.Sprintf("failed to create config directory for %s: %v; using defaults", path, err))
		return defaults, warnings
	}

	created := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if !seedFromPackaged(path, defaultsDir) {
			if err := SaveWeights(path, defaults); err != nil {
				warnings = append(warnings, fmt.Sprintf("failed to seed weights at %s: %v; using defaults", path, err))
				return defaults, warnings
			}
			created = true
		}
	}

	lines, err := readLines(path)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("failed to load weights from %s: %v; using defaults", path, err))
		return defaults, warnings
	}

	weights, parseWarnings := ParseWeights(lines, defaults)
	warnings = append(warnings, parseWarnings...)
	if created {
		warnings = append(warnings, fmt.Sprintf("weights file not found; a default template was created at %s", path))
	}
	return weights, warnings
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func cloneWeights(w Weights) Weights {
	clone := w
	clone.CostBands = make([]CostBand, len(w.CostBands))
	for i, band := range w.CostBands {
		clone.CostBands[i] = band
		if band.Max != nil {
			m := *band.Max
			clone.CostBands[i].Max = &m
		}
	}
	return clone
}
