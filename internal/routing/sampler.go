// Package routing samples candidate polylines against the aggregate grid and
// ranks them. All functions are pure transformations over their inputs.
package routing

import (
	"math"

	"github.com/safewalk/safewalk-backend-go/internal/models"
	"github.com/safewalk/safewalk-backend-go/internal/spatial"
)

// DefaultStepMeters is the default sampling interval along a route.
const DefaultStepMeters = 50.0

// interpolateSegment samples one polyline segment at stepMeters spacing,
// including both endpoints. A segment shorter than one step still gets a
// single step so its endpoint is never lost; coincident endpoints yield just
// the start point.
func interpolateSegment(a, b models.LatLng, stepMeters float64) []models.LatLng {
	length := spatial.HaversineMeters(a.Lat, a.Lng, b.Lat, b.Lng)
	if length == 0 {
		return []models.LatLng{a}
	}
	steps := int(math.Ceil(length / stepMeters))
	if steps < 1 {
		steps = 1
	}
	points := make([]models.LatLng, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		points = append(points, models.LatLng{
			Lat: a.Lat + (b.Lat-a.Lat)*t,
			Lng: a.Lng + (b.Lng-a.Lng)*t,
		})
	}
	return points
}

// SamplePolyline walks every consecutive vertex pair and concatenates the
// per-segment samples. Returns nil for degenerate polylines (<2 vertices).
func SamplePolyline(coords []models.LatLng, stepMeters float64) []models.LatLng {
	if len(coords) < 2 {
		return nil
	}
	var points []models.LatLng
	for i := 0; i+1 < len(coords); i++ {
		points = append(points, interpolateSegment(coords[i], coords[i+1], stepMeters)...)
	}
	return points
}
