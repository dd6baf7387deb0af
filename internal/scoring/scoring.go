// Package scoring converts a purchase record plus a weights configuration
// into a normalized priority score. Higher means "needs more attention", not
// "better purchase": stale items climb, fresh ones sink.
package scoring

import (
	"time"

	"github.com/shopspring/decimal"

	"planner/internal/config"
	"planner/internal/model"
)

// Result holds the per-component scores and their weighted mean.
type Result struct {
	FieldScores map[string]float64
	Overall     float64
}

// Score computes the priority score of item against the current time.
func Score(item model.ItemRecord, weights config.Weights) Result {
	return ScoreAt(item, weights, time.Now())
}

// ScoreAt computes the priority score of item as of now. It is pure: callers
// store Overall back on the record and persist it themselves.
func ScoreAt(item model.ItemRecord, weights config.Weights, now time.Time) Result {
	scores := map[string]float64{
		"date":       scoreDate(item, weights, now),
		"cost":       scoreCost(item.Cost, weights.CostBands),
		"urgency":    float64(item.Urgency),
		"value":      float64(item.Value),
		"want":       float64(item.Want),
		"price_comp": float64(item.PriceComp),
		"effect":     float64(item.Effect),
	}

	pairs := []weighted{
		{scores["date"], weights.Components.Date},
		{scores["cost"], weights.Components.Cost},
		{scores["urgency"], weights.Components.Urgency},
		{scores["value"], weights.Components.Value},
		{scores["want"], weights.Components.Want},
		{scores["price_comp"], weights.Components.PriceComp},
		{scores["effect"], weights.Components.Effect},
	}

	return Result{
		FieldScores: scores,
		Overall:     weightedMean(pairs),
	}
}

type weighted struct {
	score  float64
	weight float64
}

// scoreDate buckets the record's age. Records at the override urgency always
// score maximum regardless of age.
func scoreDate(item model.ItemRecord, weights config.Weights, now time.Time) float64 {
	if item.Urgency == weights.UrgencyOverride {
		return 5.0
	}

	daysOld := int(now.Sub(item.Date).Hours() / 24)
	switch {
	case daysOld <= weights.DateScoring.RecentDays:
		return 1.0
	case daysOld <= weights.DateScoring.MidDays:
		return 3.0
	default:
		return 5.0
	}
}

// scoreCost finds the first band whose maximum covers the cost. An unbounded
// band always matches; a cost beyond every band scores the minimum.
func scoreCost(cost decimal.Decimal, bands []config.CostBand) float64 {
	for _, band := range bands {
		if band.Max == nil || cost.LessThanOrEqual(*band.Max) {
			return band.Score
		}
	}
	return 1.0
}

func weightedMean(pairs []weighted) float64 {
	var numerator, denominator float64
	for _, p := range pairs {
		numerator += p.score * p.weight
		denominator += p.weight
	}
	if denominator == 0 {
		return 0.0
	}
	return numerator / denominator
}
