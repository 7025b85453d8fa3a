package spatial

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultGridResDegrees is the default cell edge length in degrees.
// Cells are uniform in degrees, not meters, so their real-world width
// shrinks with latitude. Accepted approximation for city-scale grids.
const DefaultGridResDegrees = 0.001

// CellKey maps a coordinate pair onto its grid cell identifier by
// floor-dividing both axes by the grid resolution. Identical inputs always
// produce identical keys. Returns ("", false) when either coordinate is
// missing, since a record without a position cannot be binned.
func CellKey(lat, lng *float64, res float64) (string, bool) {
	if lat == nil || lng == nil {
		return "", false
	}
	latIdx := int64(math.Floor(*lat / res))
	lngIdx := int64(math.Floor(*lng / res))
	return fmt.Sprintf("%d:%d", latIdx, lngIdx), true
}

// ParseCellKey splits a cell identifier back into its grid indices.
func ParseCellKey(key string) (latIdx, lngIdx int64, err error) {
	parts := strings.SplitN(key, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid cell key %q", key)
	}
	latIdx, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cell key %q: %w", key, err)
	}
	lngIdx, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cell key %q: %w", key, err)
	}
	return latIdx, lngIdx, nil
}

// CellCenter returns the center coordinate of a cell at the given resolution.
func CellCenter(key string, res float64) (lat, lng float64, err error) {
	latIdx, lngIdx, err := ParseCellKey(key)
	if err != nil {
		return 0, 0, err
	}
	return (float64(latIdx) + 0.5) * res, (float64(lngIdx) + 0.5) * res, nil
}
