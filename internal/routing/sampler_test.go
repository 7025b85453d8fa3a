package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safewalk/safewalk-backend-go/internal/models"
	"github.com/safewalk/safewalk-backend-go/internal/spatial"
)

func TestSamplePolylineDegenerateInputs(t *testing.T) {
	assert.Nil(t, SamplePolyline(nil, 50))
	assert.Nil(t, SamplePolyline([]models.LatLng{{Lat: 12.97, Lng: 77.59}}, 50))
}

func TestSamplePolylineCoincidentEndpoints(t *testing.T) {
	p := models.LatLng{Lat: 12.97, Lng: 77.59}
	points := SamplePolyline([]models.LatLng{p, p}, 50)
	require.Len(t, points, 1)
	assert.Equal(t, p, points[0])
}

func TestSamplePolylineKilometerSegment(t *testing.T) {
	// ~1,080 m at this latitude; 100 m steps give ceil(len/100)+1 points.
	route := []models.LatLng{{Lat: 12.97, Lng: 77.59}, {Lat: 12.97, Lng: 77.60}}
	points := SamplePolyline(route, 100)

	assert.GreaterOrEqual(t, len(points), 9)
	assert.Equal(t, route[0], points[0])
	assert.Equal(t, route[1], points[len(points)-1])
}

func TestSamplePolylineSubStepSegmentKeepsEndpoint(t *testing.T) {
	// Segment much shorter than the step still yields both endpoints.
	route := []models.LatLng{{Lat: 12.97, Lng: 77.59}, {Lat: 12.97, Lng: 77.5901}}
	points := SamplePolyline(route, 500)
	require.Len(t, points, 2)
	assert.Equal(t, route[1], points[1])
}

func TestSamplePolylineSpacingIsUniform(t *testing.T) {
	route := []models.LatLng{{Lat: 12.97, Lng: 77.59}, {Lat: 12.97, Lng: 77.60}}
	points := SamplePolyline(route, 100)
	require.Greater(t, len(points), 2)

	first := spatial.HaversineMeters(points[0].Lat, points[0].Lng, points[1].Lat, points[1].Lng)
	for i := 1; i+1 < len(points); i++ {
		d := spatial.HaversineMeters(points[i].Lat, points[i].Lng, points[i+1].Lat, points[i+1].Lng)
		assert.InDelta(t, first, d, 0.01)
	}
	assert.LessOrEqual(t, first, 100.0)
}
