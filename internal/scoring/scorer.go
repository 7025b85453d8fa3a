// Package scoring defines the collaborator boundary for turning a raw audit
// into a safety probability. The core never implements model inference; it
// calls whatever Scorer it is handed and falls back to the weighted
// heuristic when scoring is unavailable.
package scoring

import (
	"math"

	"github.com/safewalk/safewalk-backend-go/internal/models"
)

// Scorer produces a safety probability in [0,1] for an audit. Implementations
// may fail (model not loaded, inference backend down); callers treat an error
// as "score unavailable" and either store a null score or use the heuristic.
type Scorer interface {
	PredictScore(audit *models.AuditRecord) (float64, error)
}

// Weights are the fallback heuristic's attribute weights. They are tuning
// constants with no stated derivation, kept configurable rather than treated
// as load-bearing business logic. They sum to 1.0.
type Weights struct {
	Lighting   float64 `yaml:"lighting" json:"lighting"`
	Visibility float64 `yaml:"visibility" json:"visibility"`
	Crowd      float64 `yaml:"crowd" json:"crowd"`
	CCTV       float64 `yaml:"cctv" json:"cctv"`
	Crime      float64 `yaml:"crime" json:"crime"`
	Security   float64 `yaml:"security" json:"security"`
}

// DefaultWeights returns the stock heuristic weights.
func DefaultWeights() Weights {
	return Weights{
		Lighting:   0.25,
		Visibility: 0.20,
		Crowd:      0.15,
		CCTV:       0.15,
		Crime:      0.15,
		Security:   0.10,
	}
}

// HeuristicScorer is the model-free scoring path: each raw attribute maps to
// a normalized contribution in [0,1] and the weighted sum is clamped.
type HeuristicScorer struct {
	weights Weights
}

// NewHeuristicScorer creates a heuristic scorer with the given weights.
func NewHeuristicScorer(w Weights) *HeuristicScorer {
	return &HeuristicScorer{weights: w}
}

// PredictScore computes the deterministic fallback score. It never fails;
// missing attributes take their neutral defaults.
func (s *HeuristicScorer) PredictScore(audit *models.AuditRecord) (float64, error) {
	return s.Score(audit), nil
}

// Score computes the heuristic directly, without the error return.
func (s *HeuristicScorer) Score(audit *models.AuditRecord) float64 {
	lighting := attrOr(audit.Lighting, 3) / 5.0
	visibility := attrOr(audit.Visibility, 3) / 5.0

	var crowd float64
	switch models.CoerceCategory(audit.CrowdDensity, models.DefaultCrowdDensity) {
	case "high":
		crowd = 0.2
	case "medium":
		crowd = 0.5
	default:
		crowd = 0.8
	}

	cctv := 0.3
	if models.CoerceCategory(audit.CCTV, models.DefaultCCTV) == "yes" {
		cctv = 0.8
	}

	crime := 1.0 - attrOr(audit.CrimeRate, 1)/5.0

	security := 0.2
	if models.CoerceCategory(audit.SecurityPresent, models.DefaultSecurityPresent) == "yes" {
		security = 0.8
	}

	score := s.weights.Lighting*lighting +
		s.weights.Visibility*visibility +
		s.weights.Crowd*crowd +
		s.weights.CCTV*cctv +
		s.weights.Crime*crime +
		s.weights.Security*security

	return math.Max(0, math.Min(1, score))
}

func attrOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
