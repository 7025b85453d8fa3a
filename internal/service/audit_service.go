package service

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/safewalk/safewalk-backend-go/internal/ingest"
	"github.com/safewalk/safewalk-backend-go/internal/models"
	"github.com/safewalk/safewalk-backend-go/internal/repository"
	"github.com/safewalk/safewalk-backend-go/internal/scoring"
	"github.com/safewalk/safewalk-backend-go/internal/spatial"
)

// coarseAccuracyMeters is the GPS accuracy beyond which stored coordinates
// are degraded to 3 decimal places.
const coarseAccuracyMeters = 200.0

// AuditService handles audit ingestion: coercion, band/cell stamping,
// scoring and storage.
type AuditService struct {
	repo           repository.AuditRepository
	scorer         scoring.Scorer
	gridResDegrees float64
	now            func() time.Time
}

// NewAuditService creates a new audit service. scorer may fail at runtime;
// the submission is stored with a null score in that case.
func NewAuditService(repo repository.AuditRepository, scorer scoring.Scorer, gridResDegrees float64) *AuditService {
	return &AuditService{
		repo:           repo,
		scorer:         scorer,
		gridResDegrees: gridResDegrees,
		now:            time.Now,
	}
}

// Submit normalizes one submitted audit, scores it, and appends it to the
// repository. The returned record is the canonical stored form.
func (s *AuditService) Submit(userID string, sub *models.AuditSubmission) (*models.AuditRecord, error) {
	now := s.now()

	ts := int64(sub.Timestamp.Or(float64(now.Unix())))

	lat := sub.Lat.Float()
	lng := sub.Lng.Float()
	// A coarse GPS fix gets its precision degraded instead of being dropped.
	if lat != nil && lng != nil && sub.AccuracyMeters.Or(0) > coarseAccuracyMeters {
		*lat = roundTo(*lat, 3)
		*lng = roundTo(*lng, 3)
	}

	band := spatial.NormalizeBand(sub.TimeBand)
	if !spatial.IsValidBand(band) {
		band = spatial.TimeBandForTimestamp(ts)
	}

	audit := &models.AuditRecord{
		ID:              uuid.NewString(),
		UserID:          userID,
		Lat:             lat,
		Lng:             lng,
		Timestamp:       ts,
		TimeBand:        band,
		Lighting:        sub.Lighting.Float(),
		Visibility:      sub.Visibility.Float(),
		CrowdDensity:    models.CoerceCategory(sub.CrowdDensity, models.DefaultCrowdDensity),
		CCTV:            models.CoerceCategory(sub.CCTV, models.DefaultCCTV),
		CrimeRate:       sub.CrimeRate.Float(),
		SecurityPresent: models.CoerceCategory(sub.SecurityPresent, models.DefaultSecurityPresent),
		POIType:         models.CoerceCategory(sub.POIType, models.DefaultPOIType),
		CreatedAt:       now,
	}

	if key, ok := spatial.CellKey(audit.Lat, audit.Lng, s.gridResDegrees); ok {
		audit.CellID = key
	}

	if score, err := s.scorer.PredictScore(audit); err != nil {
		// Scoring unavailable: store a null score, the aggregation engine
		// falls back to the heuristic when it reads this record.
		log.Printf("audit scoring unavailable: %v", err)
	} else {
		rounded := roundTo(score, 3)
		audit.SafetyScore = &rounded
	}

	if err := s.repo.Append(audit); err != nil {
		return nil, fmt.Errorf("failed to store audit: %w", err)
	}
	return audit, nil
}

// ListByOwner returns the audits submitted by one user.
func (s *AuditService) ListByOwner(userID string) ([]models.AuditRecord, error) {
	return s.repo.QueryByOwner(userID)
}

// ImportCSV ingests a historical-audit CSV, skipping rows already present
// (matched on rounded position and timestamp). Returns the number of records
// added.
func (s *AuditService) ImportCSV(path string) (int, error) {
	rows, err := ingest.ReadFile(path, s.gridResDegrees, s.now())
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	existing, err := s.repo.QueryAll()
	if err != nil {
		return 0, fmt.Errorf("failed to load existing audits: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for i := range existing {
		seen[ingest.DedupeKey(&existing[i])] = true
	}

	added := 0
	for i := range rows {
		key := ingest.DedupeKey(&rows[i])
		if seen[key] {
			continue
		}
		rows[i].ID = uuid.NewString()
		if err := s.repo.Append(&rows[i]); err != nil {
			return added, fmt.Errorf("failed to store imported audit: %w", err)
		}
		seen[key] = true
		added++
	}
	log.Printf("Imported %d of %d historical audits from %s", added, len(rows), path)
	return added, nil
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
