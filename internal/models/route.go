package models

import (
	"encoding/json"
	"fmt"
)

// LatLng is a coordinate pair. On the wire it is a two-element [lat, lng]
// array, matching the polyline format the frontend and external routing
// providers emit.
type LatLng struct {
	Lat float64
	Lng float64
}

// UnmarshalJSON decodes a [lat, lng] array.
func (p *LatLng) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("coordinate must be a [lat, lng] array: %w", err)
	}
	if len(arr) != 2 {
		return fmt.Errorf("coordinate must have exactly 2 elements, got %d", len(arr))
	}
	p.Lat, p.Lng = arr[0], arr[1]
	return nil
}

// MarshalJSON encodes a [lat, lng] array.
func (p LatLng) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lat, p.Lng})
}

// RoutePoint is one sampled point along a route with its cell lookup result.
// Unknown points carry a nil score, zero confidence and zero samples.
type RoutePoint struct {
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Cell        string   `json:"cell"`
	Score       *float64 `json:"score"`
	Confidence  float64  `json:"conf"`
	Samples     int      `json:"samples"`
	MatchedCell string   `json:"matched_cell,omitempty"` // set when backfilled from a neighboring cell
}

// Known reports whether the point matched an aggregate.
func (p *RoutePoint) Known() bool {
	return p.Score != nil
}

// RouteEvaluation is the per-request scoring of a single polyline.
type RouteEvaluation struct {
	AvgScore          *float64     `json:"avg_score"`
	AvgConfidence     float64      `json:"avg_conf"`
	OverallConfidence float64      `json:"overall_conf"`
	Coverage          float64      `json:"coverage"`
	SampledPoints     int          `json:"sampled_points"`
	KnownPoints       int          `json:"known_points"`
	TotalLengthMeters float64      `json:"total_length_m"`
	Points            []RoutePoint `json:"per_point"`
}

// RankedRoute pairs a candidate polyline with its evaluation.
type RankedRoute struct {
	Route      []LatLng         `json:"route"`
	Evaluation *RouteEvaluation `json:"eval"`
}

// SafeRouteRequest is the safe-route endpoint payload.
type SafeRouteRequest struct {
	Start       *LatLng    `json:"start"`
	End         *LatLng    `json:"end"`
	Band        string     `json:"band"`
	StepMeters  float64    `json:"step_m"`
	MaxNearestM float64    `json:"max_nearest_m"`
	Candidates  [][]LatLng `json:"candidates"`
}

// SafeRouteResponse is the ranked result for a safe-route request.
type SafeRouteResponse struct {
	CandidatesEvaluated int              `json:"candidates_evaluated"`
	BestRoute           []LatLng         `json:"best_route"`
	BestEval            *RouteEvaluation `json:"best_eval"`
	AllEvaluations      []RankedRoute    `json:"all_evaluations"`
	AggregateCells      int              `json:"aggs_count"`
}
