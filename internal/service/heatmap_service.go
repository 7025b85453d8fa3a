package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/safewalk/safewalk-backend-go/internal/heatmap"
	"github.com/safewalk/safewalk-backend-go/internal/models"
	"github.com/safewalk/safewalk-backend-go/internal/repository"
	"github.com/safewalk/safewalk-backend-go/internal/spatial"
	"github.com/safewalk/safewalk-backend-go/internal/stats"
)

// metersPerDegree approximates one degree of latitude, used only to size the
// bounding-box prefilter for nearby lookups.
const metersPerDegree = 111000.0

// HeatmapService recomputes aggregates from the audit repository per
// request. There is no cross-request cache; aggregation is a pure pass over
// the full audit set.
type HeatmapService struct {
	repo   repository.AuditRepository
	params heatmap.Params
}

// NewHeatmapService creates a new heatmap service.
func NewHeatmapService(repo repository.AuditRepository, params heatmap.Params) *HeatmapService {
	return &HeatmapService{repo: repo, params: params}
}

// Aggregates loads every audit and folds them into the grid.
func (s *HeatmapService) Aggregates(band string, minSamples int) (models.AggregateMap, error) {
	audits, err := s.repo.QueryAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load audits: %w", err)
	}
	return heatmap.ComputeAggregates(audits, band, minSamples, time.Now(), s.params), nil
}

// HeatmapPoints flattens the aggregates for map display, with scores rounded
// and min-max normalized into a display intensity.
func (s *HeatmapService) HeatmapPoints(filter models.HeatmapFilter) (*models.HeatmapResponse, error) {
	aggs, err := s.Aggregates(filter.Band, filter.MinSamples)
	if err != nil {
		return nil, err
	}

	buckets := aggs.Buckets()
	var scores []float64
	for _, agg := range buckets {
		if agg.Score != nil {
			scores = append(scores, *agg.Score)
		}
	}
	minScore, maxScore := stats.Min(scores), stats.Max(scores)

	points := make([]models.HeatmapPoint, 0, len(buckets))
	for _, agg := range buckets {
		p := models.HeatmapPoint{
			CellID:            agg.CellID,
			Band:              agg.Band,
			Lat:               agg.CentroidLat,
			Lng:               agg.CentroidLng,
			Samples:           agg.Samples,
			EffectiveWeight:   agg.Weight,
			ConfidenceNumeric: math.Round(agg.Confidence*1000) / 1000,
			Confidence:        agg.ConfidenceBand(),
			LastUpdated:       agg.LastTimestamp,
		}
		if agg.Score != nil {
			rounded := math.Round(*agg.Score*10000) / 10000
			p.Score = &rounded
			if maxScore > minScore {
				p.Intensity = (*agg.Score - minScore) / (maxScore - minScore)
			} else {
				p.Intensity = 1
			}
		}
		points = append(points, p)
	}

	// Stable output order for clients and tests.
	sort.Slice(points, func(i, j int) bool {
		if points[i].CellID != points[j].CellID {
			return points[i].CellID < points[j].CellID
		}
		return points[i].Band < points[j].Band
	})

	return &models.HeatmapResponse{
		Points:     points,
		Count:      len(points),
		Band:       spatial.NormalizeBand(filter.Band),
		MinSamples: filter.MinSamples,
	}, nil
}

// Near returns aggregates within radiusMeters of a query point, nearest
// first.
func (s *HeatmapService) Near(lat, lng, radiusMeters float64, band string) ([]models.NearbyAggregate, error) {
	if radiusMeters <= 0 {
		radiusMeters = 500
	}
	aggs, err := s.Aggregates(band, 1)
	if err != nil {
		return nil, err
	}

	degRadius := radiusMeters / metersPerDegree
	minLat, maxLat := lat-degRadius, lat+degRadius
	minLng, maxLng := lng-degRadius, lng+degRadius

	var results []models.NearbyAggregate
	for _, agg := range aggs.Buckets() {
		if agg.CentroidLat < minLat || agg.CentroidLat > maxLat ||
			agg.CentroidLng < minLng || agg.CentroidLng > maxLng {
			continue
		}
		dist := spatial.HaversineMeters(lat, lng, agg.CentroidLat, agg.CentroidLng)
		if dist > radiusMeters {
			continue
		}
		results = append(results, models.NearbyAggregate{
			CellID:         agg.CellID,
			Band:           agg.Band,
			Lat:            agg.CentroidLat,
			Lng:            agg.CentroidLng,
			Score:          agg.Score,
			Confidence:     agg.Confidence,
			SampleCount:    agg.Samples,
			DistanceMeters: math.Round(dist*10) / 10,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceMeters < results[j].DistanceMeters
	})
	return results, nil
}
