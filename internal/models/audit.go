package models

import "time"

// Categorical attribute defaults used when a field is missing or malformed.
// A single bad field degrades that record's contribution, it never rejects
// the record.
const (
	DefaultCrowdDensity    = "medium"
	DefaultCCTV            = "yes"
	DefaultSecurityPresent = "not_sure"
	DefaultPOIType         = "none"
)

// AuditRecord is one safety observation. Records are immutable once stored;
// the ingestion boundary creates them and the aggregation engine only reads
// them. Lat/Lng may be absent, in which case the record is unusable for
// spatial aggregation and is skipped there.
type AuditRecord struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id,omitempty" db:"user_id"`

	Lat *float64 `json:"lat" db:"lat"`
	Lng *float64 `json:"lng" db:"lng"`

	// Timestamp is unix seconds; stamped with ingestion time when absent.
	Timestamp int64 `json:"ts" db:"ts"`

	// TimeBand is inferred from Timestamp when not supplied.
	TimeBand string `json:"band" db:"band"`

	// CellID is derived at ingestion so reader and writer agree even if the
	// grid resolution changes later.
	CellID string `json:"cell_id,omitempty" db:"cell_id"`

	// SafetyScore is the scored probability in [0,1]; nil when the scoring
	// collaborator was unavailable at ingestion time.
	SafetyScore *float64 `json:"safety_score" db:"safety_score"`

	// Raw observation attributes feeding the fallback heuristic.
	Lighting        *float64 `json:"lighting,omitempty" db:"lighting"`
	Visibility      *float64 `json:"visibility,omitempty" db:"visibility"`
	CrowdDensity    string   `json:"crowd_density,omitempty" db:"crowd_density"`
	CCTV            string   `json:"cctv,omitempty" db:"cctv"`
	CrimeRate       *float64 `json:"crime_rate,omitempty" db:"crime_rate"`
	SecurityPresent string   `json:"security_present,omitempty" db:"security_present"`
	POIType         string   `json:"poi_type,omitempty" db:"poi_type"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HasCoordinates reports whether the record can be spatially binned.
func (a *AuditRecord) HasCoordinates() bool {
	return a.Lat != nil && a.Lng != nil
}

// AuditSubmission is the wire shape of a submitted audit. Numeric fields use
// OptionalFloat so malformed values coerce to "absent" instead of failing the
// whole request.
type AuditSubmission struct {
	Lat       OptionalFloat `json:"lat"`
	Lng       OptionalFloat `json:"lng"`
	Timestamp OptionalFloat `json:"timestamp"`
	TimeBand  string        `json:"time_band"`

	// AccuracyMeters degrades stored precision when the reported GPS fix is
	// worse than 200 m.
	AccuracyMeters OptionalFloat `json:"accuracy"`

	Lighting        OptionalFloat `json:"lighting"`
	Visibility      OptionalFloat `json:"visibility"`
	CrowdDensity    string        `json:"crowd_density"`
	CCTV            string        `json:"cctv"`
	CrimeRate       OptionalFloat `json:"crime_rate"`
	SecurityPresent string        `json:"security_present"`
	POIType         string        `json:"poi_type"`
}
