package routing

import (
	"sort"

	"github.com/safewalk/safewalk-backend-go/internal/models"
	"github.com/safewalk/safewalk-backend-go/internal/spatial"
)

const (
	// DefaultMaxNearestMeters bounds the nearest-centroid backfill search.
	DefaultMaxNearestMeters = 300.0
	// DefaultDetourMeters is the lateral offset of the synthesized detour
	// candidates.
	DefaultDetourMeters = 200.0
)

// missingEvalKey sorts routes with no evaluation below every real score.
const missingEvalKey = -1.0

// SynthesizeCandidates builds the fallback candidate set when no external
// route geometry is available: the direct line plus one detour to each side,
// offset perpendicular to the route at its midpoint.
func SynthesizeCandidates(start, end models.LatLng, detourMeters float64) [][]models.LatLng {
	straight := []models.LatLng{start, end}

	heading := spatial.Bearing(start.Lat, start.Lng, end.Lat, end.Lng)
	midLat, midLng := spatial.Midpoint(start.Lat, start.Lng, end.Lat, end.Lng)

	leftLat, leftLng := spatial.DestinationPoint(midLat, midLng, norm360(heading-90), detourMeters)
	rightLat, rightLng := spatial.DestinationPoint(midLat, midLng, norm360(heading+90), detourMeters)

	left := []models.LatLng{start, {Lat: leftLat, Lng: leftLng}, end}
	right := []models.LatLng{start, {Lat: rightLat, Lng: rightLng}, end}

	return [][]models.LatLng{straight, left, right}
}

func norm360(deg float64) float64 {
	for deg < 0 {
		deg += 360
	}
	for deg >= 360 {
		deg -= 360
	}
	return deg
}

// centroidEntry is one aggregate cell in the flat nearest-neighbor index.
type centroidEntry struct {
	lat   float64
	lng   float64
	cell  string
	bands map[string]*models.Aggregate
}

// buildCentroidIndex flattens the aggregate map into a linear scan index of
// cell centroids.
func buildCentroidIndex(aggs models.AggregateMap) []centroidEntry {
	index := make([]centroidEntry, 0, len(aggs))
	for cell, bands := range aggs {
		rep := representativeBand(bands, "")
		if rep == nil {
			continue
		}
		index = append(index, centroidEntry{
			lat:   rep.CentroidLat,
			lng:   rep.CentroidLng,
			cell:  cell,
			bands: bands,
		})
	}
	return index
}

// nearestCentroid scans the index for the closest cell within maxMeters.
func nearestCentroid(lat, lng float64, index []centroidEntry, maxMeters float64) (*centroidEntry, float64) {
	var best *centroidEntry
	bestDist := 0.0
	for i := range index {
		d := spatial.HaversineMeters(lat, lng, index[i].lat, index[i].lng)
		if d <= maxMeters && (best == nil || d < bestDist) {
			best = &index[i]
			bestDist = d
		}
	}
	return best, bestDist
}

// BackfillNearest fills unknown sample points from the nearest aggregate
// centroid within maxMeters, preferring an exact cell-id match, then
// recomputes the route summary. The preferred band wins at a matched cell;
// otherwise the strongest (confidence, sample count) band entry is used.
func BackfillNearest(eval *models.RouteEvaluation, aggs models.AggregateMap, index []centroidEntry, band string, maxMeters float64) {
	if eval == nil {
		return
	}
	preferred := spatial.NormalizeBand(band)

	for i := range eval.Points {
		p := &eval.Points[i]
		if p.Known() && p.Samples > 0 {
			continue
		}

		var bands map[string]*models.Aggregate
		matched := p.Cell
		if b, ok := aggs[p.Cell]; ok {
			bands = b
		} else if entry, _ := nearestCentroid(p.Lat, p.Lng, index, maxMeters); entry != nil {
			bands = entry.bands
			matched = entry.cell
		}
		if bands == nil {
			continue
		}

		agg := representativeBand(bands, preferred)
		if agg == nil {
			continue
		}
		p.Score = agg.Score
		p.Confidence = agg.Confidence
		p.Samples = agg.Samples
		p.MatchedCell = matched
	}

	summarize(eval)
}

// rankKey orders candidates by how confidently good they are. A nil
// evaluation sorts below everything.
func rankKey(eval *models.RouteEvaluation) float64 {
	if eval == nil {
		return missingEvalKey
	}
	score := 0.0
	if eval.AvgScore != nil {
		score = *eval.AvgScore
	}
	return eval.OverallConfidence * score
}

// RankOptions carries the tunables for a ranking pass.
type RankOptions struct {
	StepMeters       float64
	GridResDegrees   float64
	Band             string
	MaxNearestMeters float64
}

// RankCandidates evaluates every candidate polyline, backfills unknown
// points from nearby cells, and returns the candidates ordered by descending
// rank key. The sort is stable, so ties keep their input order.
func RankCandidates(candidates [][]models.LatLng, aggs models.AggregateMap, opts RankOptions) ([]models.RankedRoute, error) {
	if opts.MaxNearestMeters <= 0 {
		opts.MaxNearestMeters = DefaultMaxNearestMeters
	}

	index := buildCentroidIndex(aggs)

	ranked := make([]models.RankedRoute, 0, len(candidates))
	for _, route := range candidates {
		eval, err := EvaluateRoute(route, aggs, opts.StepMeters, opts.GridResDegrees)
		if err != nil {
			return nil, err
		}
		if eval != nil {
			BackfillNearest(eval, aggs, index, opts.Band, opts.MaxNearestMeters)
		}
		ranked = append(ranked, models.RankedRoute{Route: route, Evaluation: eval})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return rankKey(ranked[i].Evaluation) > rankKey(ranked[j].Evaluation)
	})

	return ranked, nil
}
