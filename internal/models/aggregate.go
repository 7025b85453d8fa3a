package models

// Aggregate holds the decayed, confidence-weighted statistics for one
// (cell, time band) bucket. Built fresh on every aggregation pass; there is
// no incremental mutation across calls.
type Aggregate struct {
	CellID string `json:"cell_id"`
	Band   string `json:"band"`

	// Running sums.
	Weight        float64 `json:"effective_weight"` // total decayed weight W
	WeightedScore float64 `json:"weighted_score"`   // S = sum(w*score)
	Samples       int     `json:"sample_count"`     // N
	LastTimestamp int64   `json:"last_updated"`

	// Derived on finalization.
	Score       *float64 `json:"score"`      // S/W, nil when W == 0
	Confidence  float64  `json:"confidence"` // min(1, sqrt(W)/K_CONF)
	CentroidLat float64  `json:"lat"`
	CentroidLng float64  `json:"lng"`
}

// Confidence band thresholds. The two-factor rule (weight-derived confidence
// AND a raw sample-count floor) keeps a handful of very recent reports from
// looking artificially certain.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// ConfidenceBand returns the categorical confidence for this bucket.
func (a *Aggregate) ConfidenceBand() string {
	switch {
	case a.Confidence >= 0.8 && a.Samples >= 8:
		return ConfidenceHigh
	case a.Confidence >= 0.4 && a.Samples >= 3:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// AggregateMap is the aggregation engine's output: cell id -> band -> bucket.
type AggregateMap map[string]map[string]*Aggregate

// Buckets returns every (cell, band) bucket in the map, in no particular order.
func (m AggregateMap) Buckets() []*Aggregate {
	var out []*Aggregate
	for _, bands := range m {
		for _, agg := range bands {
			out = append(out, agg)
		}
	}
	return out
}
