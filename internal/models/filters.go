package models

// HeatmapFilter represents query parameters for the heatmap endpoints
type HeatmapFilter struct {
	Band       string `form:"band"`        // morning, afternoon, evening, night, midnight, all/overall
	MinSamples int    `form:"min_samples"` // buckets with fewer samples are dropped
}

// NearFilter represents query parameters for the nearby-aggregates endpoint
type NearFilter struct {
	Lat          *float64 `form:"lat"`
	Lng          *float64 `form:"lng"`
	Address      string   `form:"address"`  // geocoded when lat/lng are absent
	RadiusMeters float64  `form:"radius_m"` // default 500
	Band         string   `form:"band"`
}
