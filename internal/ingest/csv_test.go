package ingest

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safewalk/safewalk-backend-go/internal/models"
	"github.com/safewalk/safewalk-backend-go/internal/spatial"
)

var importNow = time.Date(2024, 6, 1, 18, 0, 0, 0, time.Local)

func readString(t *testing.T, csv string) []models.AuditRecord {
	t.Helper()
	audits, err := Read(strings.NewReader(csv), spatial.DefaultGridResDegrees, importNow)
	require.NoError(t, err)
	return audits
}

func TestReadAliasedColumns(t *testing.T) {
	csv := "Latitude,LON,epoch,light,crowd\n" +
		"12.97,77.59,1717243200,4,High\n"
	audits := readString(t, csv)
	require.Len(t, audits, 1)

	a := audits[0]
	require.NotNil(t, a.Lat)
	require.NotNil(t, a.Lng)
	assert.Equal(t, 12.97, *a.Lat)
	assert.Equal(t, 77.59, *a.Lng)
	assert.Equal(t, int64(1717243200), a.Timestamp)
	require.NotNil(t, a.Lighting)
	assert.Equal(t, 4.0, *a.Lighting)
	assert.Equal(t, "high", a.CrowdDensity)
	assert.NotEmpty(t, a.CellID)
}

func TestReadSkipsRowsWithoutCoordinates(t *testing.T) {
	csv := "lat,lng\n" +
		"12.97,77.59\n" +
		",77.59\n" +
		"notanumber,77.59\n" +
		"12.98,\n"
	audits := readString(t, csv)
	assert.Len(t, audits, 1)
}

func TestReadDefaultsMissingFields(t *testing.T) {
	csv := "lat,lng\n12.97,77.59\n"
	audits := readString(t, csv)
	require.Len(t, audits, 1)

	a := audits[0]
	assert.Equal(t, importNow.Unix(), a.Timestamp)
	assert.Equal(t, models.DefaultCrowdDensity, a.CrowdDensity)
	assert.Equal(t, models.DefaultCCTV, a.CCTV)
	assert.Equal(t, models.DefaultSecurityPresent, a.SecurityPresent)
	assert.Equal(t, models.DefaultPOIType, a.POIType)
	assert.Nil(t, a.Lighting)
	assert.Nil(t, a.CrimeRate)
}

func TestReadBandHandling(t *testing.T) {
	// Explicit band wins; garbage bands fall back to the timestamp.
	ts := time.Date(2024, 6, 1, 22, 30, 0, 0, time.Local).Unix()
	csv := "lat,lng,timestamp,band\n" +
		"12.97,77.59,1717243200,EVENING\n" +
		"12.97,77.59," + strconv.FormatInt(ts, 10) + ",whenever\n"
	audits := readString(t, csv)
	require.Len(t, audits, 2)
	assert.Equal(t, spatial.BandEvening, audits[0].TimeBand)
	assert.Equal(t, spatial.BandNight, audits[1].TimeBand)
}

func TestReadTimestampFormats(t *testing.T) {
	csv := "lat,lng,ts\n" +
		"12.97,77.59,1717243200.5\n" +
		"12.97,77.59,2024-06-01T12:00:00Z\n" +
		"12.97,77.59,2024-06-01T12:00:00\n" +
		"12.97,77.59,yesterday\n"
	audits := readString(t, csv)
	require.Len(t, audits, 4)

	assert.Equal(t, int64(1717243200), audits[0].Timestamp)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC).Unix(), audits[1].Timestamp)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC).Unix(), audits[2].Timestamp)
	assert.Equal(t, importNow.Unix(), audits[3].Timestamp)
}

func TestReadEmptyInput(t *testing.T) {
	audits, err := Read(strings.NewReader(""), spatial.DefaultGridResDegrees, importNow)
	require.NoError(t, err)
	assert.Empty(t, audits)
}

func TestReadFileMissingPathIsNotAnError(t *testing.T) {
	audits, err := ReadFile("/nonexistent/audits.csv", spatial.DefaultGridResDegrees, importNow)
	require.NoError(t, err)
	assert.Empty(t, audits)
}

func TestDedupeKey(t *testing.T) {
	lat, lng := 12.123456789, 77.987654321
	a := &models.AuditRecord{Lat: &lat, Lng: &lng, Timestamp: 100}
	b := &models.AuditRecord{Lat: &lat, Lng: &lng, Timestamp: 100}
	assert.Equal(t, DedupeKey(a), DedupeKey(b))

	c := &models.AuditRecord{Lat: &lat, Lng: &lng, Timestamp: 101}
	assert.NotEqual(t, DedupeKey(a), DedupeKey(c))

	noCoords := &models.AuditRecord{Timestamp: 100}
	assert.Equal(t, "?:?:100", DedupeKey(noCoords))
}
