package models

// HeatmapPoint is one aggregate flattened for map display.
type HeatmapPoint struct {
	CellID            string   `json:"cell_id"`
	Band              string   `json:"band"`
	Lat               float64  `json:"lat"`
	Lng               float64  `json:"lng"`
	Score             *float64 `json:"score"`     // rounded to 4 decimals
	Intensity         float64  `json:"intensity"` // score min-max normalized over the result set
	Samples           int      `json:"samples"`
	EffectiveWeight   float64  `json:"effective_weight"`
	ConfidenceNumeric float64  `json:"confidence_numeric"`
	Confidence        string   `json:"confidence"`
	LastUpdated       int64    `json:"last_updated"`
}

// HeatmapResponse is the heatmap endpoint payload.
type HeatmapResponse struct {
	Points     []HeatmapPoint `json:"points"`
	Count      int            `json:"count"`
	Band       string         `json:"band"`
	MinSamples int            `json:"min_samples"`
}

// NearbyAggregate is an aggregate annotated with its distance from a query
// point.
type NearbyAggregate struct {
	CellID         string   `json:"cell_id"`
	Band           string   `json:"band"`
	Lat            float64  `json:"lat"`
	Lng            float64  `json:"lng"`
	Score          *float64 `json:"score"`
	Confidence     float64  `json:"confidence"`
	SampleCount    int      `json:"sample_count"`
	DistanceMeters float64  `json:"distance_m"`
}
