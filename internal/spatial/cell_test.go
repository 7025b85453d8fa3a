package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestCellKeyDeterministic(t *testing.T) {
	a, ok := CellKey(f(12.97), f(77.59), DefaultGridResDegrees)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		b, ok := CellKey(f(12.97), f(77.59), DefaultGridResDegrees)
		require.True(t, ok)
		assert.Equal(t, a, b)
	}
}

func TestCellKeyMissingCoordinates(t *testing.T) {
	tests := []struct {
		name string
		lat  *float64
		lng  *float64
	}{
		{"both missing", nil, nil},
		{"lat missing", nil, f(77.59)},
		{"lng missing", f(12.97), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := CellKey(tt.lat, tt.lng, DefaultGridResDegrees)
			assert.False(t, ok)
		})
	}
}

func TestCellKeySeparatesDistantPoints(t *testing.T) {
	a, ok := CellKey(f(12.97), f(77.59), DefaultGridResDegrees)
	require.True(t, ok)
	b, ok := CellKey(f(12.98), f(77.59), DefaultGridResDegrees)
	require.True(t, ok)
	assert.NotEqual(t, a, b)
}

func TestCellKeyFloorsNegativeCoordinates(t *testing.T) {
	key, ok := CellKey(f(-0.0005), f(-0.0005), DefaultGridResDegrees)
	require.True(t, ok)

	latIdx, lngIdx, err := ParseCellKey(key)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), latIdx)
	assert.Equal(t, int64(-1), lngIdx)
}

func TestParseCellKeyRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "12", "a:b", "1:2:3x"} {
		_, _, err := ParseCellKey(bad)
		if bad == "1:2:3x" {
			// SplitN keeps the tail in the second part, which fails to parse.
			assert.Error(t, err, bad)
			continue
		}
		assert.Error(t, err, bad)
	}
}

func TestCellCenter(t *testing.T) {
	lat, lng, err := CellCenter("12969:77590", DefaultGridResDegrees)
	require.NoError(t, err)
	assert.InDelta(t, 12.9695, lat, 1e-9)
	assert.InDelta(t, 77.5905, lng, 1e-9)
}
