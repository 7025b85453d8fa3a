// Package ingest normalizes historical audit exports. Column names vary
// between exports, so each field is resolved from a list of aliases and
// malformed values coerce to defaults instead of rejecting the row.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/safewalk/safewalk-backend-go/internal/models"
	"github.com/safewalk/safewalk-backend-go/internal/spatial"
)

var (
	latKeys      = []string{"lat", "latitude", "y"}
	lngKeys      = []string{"lng", "lon", "long", "longitude", "x"}
	tsKeys       = []string{"timestamp", "ts", "time", "epoch"}
	crowdKeys    = []string{"crowd_density", "crowd", "crowd_density_label"}
	cctvKeys     = []string{"cctv", "has_cctv"}
	lightKeys    = []string{"lighting", "light"}
	visKeys      = []string{"visibility", "vis"}
	crimeKeys    = []string{"crime_rate", "crime", "crime_score"}
	poiKeys      = []string{"poi_type", "poi"}
	securityKeys = []string{"security_present", "security", "security_flag"}
	bandKeys     = []string{"band", "time_band"}
)

// ReadFile parses a historical-audit CSV. Rows without usable coordinates
// are dropped; a missing file yields an empty slice, matching the optional
// nature of the import.
func ReadFile(path string, gridResDegrees float64, now time.Time) ([]models.AuditRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit CSV: %w", err)
	}
	defer f.Close()
	return Read(f, gridResDegrees, now)
}

// Read parses CSV rows from r into normalized audit records.
func Read(r io.Reader, gridResDegrees float64, now time.Time) ([]models.AuditRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var audits []models.AuditRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// One malformed row never aborts the batch.
			continue
		}
		record := rowMap(header, row)
		if audit, ok := normalizeRow(record, gridResDegrees, now); ok {
			audits = append(audits, audit)
		}
	}
	return audits, nil
}

// DedupeKey identifies an audit by its rounded position and timestamp, used
// to avoid re-importing rows that are already stored.
func DedupeKey(a *models.AuditRecord) string {
	if !a.HasCoordinates() {
		return fmt.Sprintf("?:?:%d", a.Timestamp)
	}
	return fmt.Sprintf("%.6f:%.6f:%d", *a.Lat, *a.Lng, a.Timestamp)
}

func rowMap(header, row []string) map[string]string {
	m := make(map[string]string, len(header))
	for i, key := range header {
		if i < len(row) {
			m[key] = strings.TrimSpace(row[i])
		}
	}
	return m
}

func firstValue(m map[string]string, keys []string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != "" {
			return v
		}
	}
	return ""
}

func normalizeRow(m map[string]string, gridResDegrees float64, now time.Time) (models.AuditRecord, bool) {
	lat, latOK := parseFloat(firstValue(m, latKeys))
	lng, lngOK := parseFloat(firstValue(m, lngKeys))
	if !latOK || !lngOK {
		return models.AuditRecord{}, false
	}

	ts := parseTimestamp(firstValue(m, tsKeys), now)

	band := strings.ToLower(firstValue(m, bandKeys))
	if !spatial.IsValidBand(band) {
		band = spatial.TimeBandForTimestamp(ts)
	}

	audit := models.AuditRecord{
		Lat:             &lat,
		Lng:             &lng,
		Timestamp:       ts,
		TimeBand:        band,
		CrowdDensity:    models.CoerceCategory(firstValue(m, crowdKeys), models.DefaultCrowdDensity),
		CCTV:            models.CoerceCategory(firstValue(m, cctvKeys), models.DefaultCCTV),
		SecurityPresent: models.CoerceCategory(firstValue(m, securityKeys), models.DefaultSecurityPresent),
		POIType:         models.CoerceCategory(firstValue(m, poiKeys), models.DefaultPOIType),
		CreatedAt:       now,
	}
	if v, ok := parseFloat(firstValue(m, lightKeys)); ok {
		audit.Lighting = &v
	}
	if v, ok := parseFloat(firstValue(m, visKeys)); ok {
		audit.Visibility = &v
	}
	if v, ok := parseFloat(firstValue(m, crimeKeys)); ok {
		audit.CrimeRate = &v
	}
	if key, ok := spatial.CellKey(audit.Lat, audit.Lng, gridResDegrees); ok {
		audit.CellID = key
	}
	return audit, true
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseTimestamp(s string, now time.Time) int64 {
	if s == "" {
		return now.Unix()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Unix()
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.Unix()
	}
	return now.Unix()
}
