package repository

import (
	"database/sql"
	"fmt"

	"github.com/safewalk/safewalk-backend-go/internal/models"
)

// AuditRepository is the audit source the core consumes: an append-only
// ordered collection. The aggregation and routing engines never touch
// storage directly; they receive slices loaded through this interface.
type AuditRepository interface {
	Append(audit *models.AuditRecord) error
	QueryAll() ([]models.AuditRecord, error)
	QueryByOwner(userID string) ([]models.AuditRecord, error)
	Count() (int64, error)
}

// SQLiteAuditRepository persists audits in the audits table.
type SQLiteAuditRepository struct {
	db *sql.DB
}

// NewSQLiteAuditRepository creates a new sqlite-backed audit repository
func NewSQLiteAuditRepository(db *sql.DB) *SQLiteAuditRepository {
	return &SQLiteAuditRepository{db: db}
}

const auditColumns = `id, user_id, lat, lng, ts, band, cell_id, safety_score,
	lighting, visibility, crowd_density, cctv, crime_rate, security_present, poi_type, created_at`

// Append inserts one audit record.
func (r *SQLiteAuditRepository) Append(audit *models.AuditRecord) error {
	query := `INSERT INTO audits (` + auditColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query,
		audit.ID, audit.UserID,
		nullableFloat(audit.Lat), nullableFloat(audit.Lng),
		audit.Timestamp, audit.TimeBand, audit.CellID,
		nullableFloat(audit.SafetyScore),
		nullableFloat(audit.Lighting), nullableFloat(audit.Visibility),
		audit.CrowdDensity, audit.CCTV,
		nullableFloat(audit.CrimeRate),
		audit.SecurityPresent, audit.POIType,
		audit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit: %w", err)
	}
	return nil
}

// QueryAll retrieves every audit in insertion order.
func (r *SQLiteAuditRepository) QueryAll() ([]models.AuditRecord, error) {
	query := `SELECT ` + auditColumns + ` FROM audits ORDER BY created_at, id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query audits: %w", err)
	}
	defer rows.Close()
	return scanAudits(rows)
}

// QueryByOwner retrieves the audits submitted by one user.
func (r *SQLiteAuditRepository) QueryByOwner(userID string) ([]models.AuditRecord, error) {
	query := `SELECT ` + auditColumns + ` FROM audits WHERE user_id = ? ORDER BY created_at, id`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audits for user: %w", err)
	}
	defer rows.Close()
	return scanAudits(rows)
}

// Count returns the number of stored audits.
func (r *SQLiteAuditRepository) Count() (int64, error) {
	var n int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM audits").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count audits: %w", err)
	}
	return n, nil
}

func scanAudits(rows *sql.Rows) ([]models.AuditRecord, error) {
	var audits []models.AuditRecord
	for rows.Next() {
		var a models.AuditRecord
		var lat, lng, score, lighting, visibility, crime sql.NullFloat64
		err := rows.Scan(
			&a.ID, &a.UserID, &lat, &lng, &a.Timestamp, &a.TimeBand, &a.CellID,
			&score, &lighting, &visibility, &a.CrowdDensity, &a.CCTV,
			&crime, &a.SecurityPresent, &a.POIType, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit: %w", err)
		}
		a.Lat = floatPtr(lat)
		a.Lng = floatPtr(lng)
		a.SafetyScore = floatPtr(score)
		a.Lighting = floatPtr(lighting)
		a.Visibility = floatPtr(visibility)
		a.CrimeRate = floatPtr(crime)
		audits = append(audits, a)
	}
	return audits, rows.Err()
}

func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
