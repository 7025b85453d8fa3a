package service

import (
	"fmt"

	"github.com/safewalk/safewalk-backend-go/internal/models"
	"github.com/safewalk/safewalk-backend-go/internal/routing"
)

// RouteService orchestrates safe-route requests: aggregate recomputation,
// candidate synthesis, evaluation and ranking.
type RouteService struct {
	heatmap      *HeatmapService
	stepMeters   float64
	detourMeters float64
	maxNearestM  float64
	gridRes      float64
}

// NewRouteService creates a new route service.
func NewRouteService(heatmapSvc *HeatmapService, stepMeters, detourMeters, maxNearestMeters, gridResDegrees float64) *RouteService {
	return &RouteService{
		heatmap:      heatmapSvc,
		stepMeters:   stepMeters,
		detourMeters: detourMeters,
		maxNearestM:  maxNearestMeters,
		gridRes:      gridResDegrees,
	}
}

// SafeRoute evaluates and ranks candidate routes between start and end.
// Externally supplied candidates win over synthesis; otherwise a straight
// line plus two lateral detours are generated so there is something
// non-trivial to compare.
func (s *RouteService) SafeRoute(req *models.SafeRouteRequest) (*models.SafeRouteResponse, error) {
	candidates := req.Candidates
	if len(candidates) == 0 {
		if req.Start == nil || req.End == nil {
			return nil, fmt.Errorf("provide start and end coordinates or candidate routes")
		}
		candidates = routing.SynthesizeCandidates(*req.Start, *req.End, s.detourMeters)
	}

	aggs, err := s.heatmap.Aggregates(req.Band, 1)
	if err != nil {
		return nil, err
	}

	opts := routing.RankOptions{
		StepMeters:       s.stepMeters,
		GridResDegrees:   s.gridRes,
		Band:             req.Band,
		MaxNearestMeters: s.maxNearestM,
	}
	if req.StepMeters > 0 {
		opts.StepMeters = req.StepMeters
	}
	if req.MaxNearestM > 0 {
		opts.MaxNearestMeters = req.MaxNearestM
	}

	ranked, err := routing.RankCandidates(candidates, aggs, opts)
	if err != nil {
		return nil, err
	}

	resp := &models.SafeRouteResponse{
		CandidatesEvaluated: len(ranked),
		AllEvaluations:      ranked,
		AggregateCells:      len(aggs),
	}
	if len(ranked) > 0 {
		resp.BestRoute = ranked[0].Route
		resp.BestEval = ranked[0].Evaluation
	}
	return resp, nil
}
