// Package heatmap folds audit records into a decayed, confidence-weighted
// spatial-temporal grid. ComputeAggregates is a pure function over its
// inputs: the audit slice and aggregate maps are read-only, nothing here
// touches shared state, and concurrent calls over independent requests are
// safe.
package heatmap

import (
	"math"
	"time"

	"github.com/safewalk/safewalk-backend-go/internal/models"
	"github.com/safewalk/safewalk-backend-go/internal/scoring"
	"github.com/safewalk/safewalk-backend-go/internal/spatial"
)

// Params are the tunable aggregation constants.
type Params struct {
	GridResDegrees float64
	HalfLifeHours  float64
	KConf          float64
	Heuristic      scoring.Weights
}

// DefaultKConf scales sqrt(total weight) into the [0,1] confidence range.
const DefaultKConf = 5.0

// DefaultParams returns the stock aggregation constants.
func DefaultParams() Params {
	return Params{
		GridResDegrees: spatial.DefaultGridResDegrees,
		HalfLifeHours:  spatial.DefaultHalfLifeHours,
		KConf:          DefaultKConf,
		Heuristic:      scoring.DefaultWeights(),
	}
}

// bucket accumulates the running sums for one (cell, band) pair.
type bucket struct {
	weight        float64
	weightedScore float64
	samples       int
	lastTS        int64
	latSum        float64
	lngSum        float64
}

// ComputeAggregates folds audits into per-(cell, band) aggregates.
//
// bandFilter is matched case-insensitively; "", "all" and "overall" mean no
// filter. Records without coordinates are skipped entirely. Records without
// an explicit score fall back to the weighted heuristic. Buckets with fewer
// than minSamples raw samples are dropped from the output.
func ComputeAggregates(audits []models.AuditRecord, bandFilter string, minSamples int, now time.Time, params Params) models.AggregateMap {
	if minSamples < 1 {
		minSamples = 1
	}
	filter := spatial.NormalizeBand(bandFilter)
	heuristic := scoring.NewHeuristicScorer(params.Heuristic)
	refTS := now.Unix()

	buckets := make(map[string]map[string]*bucket)

	for i := range audits {
		a := &audits[i]
		if !a.HasCoordinates() {
			continue
		}

		ts := a.Timestamp
		if ts == 0 {
			ts = refTS
		}

		band := spatial.NormalizeBand(a.TimeBand)
		if band == "" {
			band = spatial.TimeBandForTimestamp(ts)
		}
		if filter != "" && band != filter {
			continue
		}

		var score float64
		if a.SafetyScore != nil {
			score = *a.SafetyScore
		} else {
			score = heuristic.Score(a)
		}

		// Reuse the precomputed cell id when present so reader and writer
		// stay consistent across grid-resolution changes.
		cell := a.CellID
		if cell == "" {
			key, ok := spatial.CellKey(a.Lat, a.Lng, params.GridResDegrees)
			if !ok {
				continue
			}
			cell = key
		}

		w := spatial.DecayWeight(ts, refTS, params.HalfLifeHours)

		bands, ok := buckets[cell]
		if !ok {
			bands = make(map[string]*bucket)
			buckets[cell] = bands
		}
		b, ok := bands[band]
		if !ok {
			b = &bucket{lastTS: ts}
			bands[band] = b
		}

		b.weight += w
		b.weightedScore += w * score
		b.samples++
		if ts > b.lastTS {
			b.lastTS = ts
		}
		b.latSum += *a.Lat
		b.lngSum += *a.Lng
	}

	out := make(models.AggregateMap)
	for cell, bands := range buckets {
		for band, b := range bands {
			if b.samples < minSamples {
				continue
			}
			agg := &models.Aggregate{
				CellID:        cell,
				Band:          band,
				Weight:        b.weight,
				WeightedScore: b.weightedScore,
				Samples:       b.samples,
				LastTimestamp: b.lastTS,
				Confidence:    Confidence(b.weight, params.KConf),
				CentroidLat:   b.latSum / float64(b.samples),
				CentroidLng:   b.lngSum / float64(b.samples),
			}
			if b.weight > 0 {
				score := b.weightedScore / b.weight
				agg.Score = &score
			}
			if _, ok := out[cell]; !ok {
				out[cell] = make(map[string]*models.Aggregate)
			}
			out[cell][band] = agg
		}
	}

	return out
}

// Confidence maps total decayed weight to [0,1]: min(1, sqrt(W)/kConf).
func Confidence(weight, kConf float64) float64 {
	return math.Min(1.0, math.Sqrt(weight)/kConf)
}
