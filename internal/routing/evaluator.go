package routing

import (
	"fmt"

	"github.com/safewalk/safewalk-backend-go/internal/models"
	"github.com/safewalk/safewalk-backend-go/internal/spatial"
	"github.com/safewalk/safewalk-backend-go/internal/stats"
)

// minPointWeight floors a known point's weight in the score average so a
// zero-confidence point is not silently excluded.
const minPointWeight = 0.01

// EvaluateRoute samples a polyline, looks every sample up in the aggregate
// grid, and produces the route-level summary. Returns (nil, nil) when the
// polyline has fewer than two points; returns an error only for an invalid
// step size, which would corrupt the sampling semantics if silently
// defaulted.
func EvaluateRoute(coords []models.LatLng, aggs models.AggregateMap, stepMeters, gridResDegrees float64) (*models.RouteEvaluation, error) {
	if stepMeters <= 0 {
		return nil, fmt.Errorf("step size must be positive, got %v", stepMeters)
	}
	if gridResDegrees <= 0 {
		return nil, fmt.Errorf("grid resolution must be positive, got %v", gridResDegrees)
	}

	sampled := SamplePolyline(coords, stepMeters)
	if len(sampled) == 0 {
		return nil, nil
	}

	// Callers pre-filter aggregates by band, so one representative band per
	// cell is authoritative here. Picking the strongest entry keeps the
	// unfiltered case deterministic.
	lookup := make(map[string]*models.Aggregate, len(aggs))
	for cell, bands := range aggs {
		lookup[cell] = representativeBand(bands, "")
	}

	points := make([]models.RoutePoint, 0, len(sampled))
	var totalLength float64
	for i, p := range sampled {
		pt := models.RoutePoint{Lat: p.Lat, Lng: p.Lng}
		if key, ok := spatial.CellKey(&p.Lat, &p.Lng, gridResDegrees); ok {
			pt.Cell = key
		}
		if agg := lookup[pt.Cell]; agg != nil {
			pt.Score = agg.Score
			pt.Confidence = agg.Confidence
			pt.Samples = agg.Samples
		}
		points = append(points, pt)
		if i+1 < len(sampled) {
			next := sampled[i+1]
			totalLength += spatial.HaversineMeters(p.Lat, p.Lng, next.Lat, next.Lng)
		}
	}

	eval := &models.RouteEvaluation{
		SampledPoints:     len(points),
		TotalLengthMeters: totalLength,
		Points:            points,
	}
	summarize(eval)
	return eval, nil
}

// summarize recomputes the route-level fields from the per-point data. Called
// both after the initial evaluation and again after nearest-neighbor
// backfill.
func summarize(eval *models.RouteEvaluation) {
	confs := make([]float64, 0, len(eval.Points))
	var knownScores, knownWeights []float64
	known := 0

	for i := range eval.Points {
		p := &eval.Points[i]
		confs = append(confs, p.Confidence)
		if !p.Known() {
			continue
		}
		known++
		w := p.Confidence
		if w < minPointWeight {
			w = minPointWeight
		}
		knownScores = append(knownScores, *p.Score)
		knownWeights = append(knownWeights, w)
	}

	eval.KnownPoints = known
	eval.AvgScore = nil
	if known > 0 {
		avg := stats.WeightedMean(knownScores, knownWeights)
		eval.AvgScore = &avg
	}

	if len(eval.Points) > 0 {
		eval.Coverage = float64(known) / float64(len(eval.Points))
	} else {
		eval.Coverage = 0
	}
	// Unknown points contribute zero confidence, pulling the average down;
	// sparse coverage is penalized even though unknowns don't enter the
	// score average.
	eval.AvgConfidence = stats.Mean(confs)
	eval.OverallConfidence = eval.AvgConfidence * (0.5 + 0.5*eval.Coverage)
}

// representativeBand selects which band entry speaks for a cell: the
// preferred band when present, otherwise the entry with the highest
// (confidence, sample count) tuple, with band name as a deterministic
// tiebreaker.
func representativeBand(bands map[string]*models.Aggregate, preferred string) *models.Aggregate {
	if preferred != "" {
		if agg, ok := bands[preferred]; ok {
			return agg
		}
	}
	var best *models.Aggregate
	for _, agg := range bands {
		if best == nil {
			best = agg
			continue
		}
		switch {
		case agg.Confidence > best.Confidence:
			best = agg
		case agg.Confidence == best.Confidence && agg.Samples > best.Samples:
			best = agg
		case agg.Confidence == best.Confidence && agg.Samples == best.Samples && agg.Band < best.Band:
			best = agg
		}
	}
	return best
}
