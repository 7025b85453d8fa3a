package repository

import (
	"sync"

	"github.com/safewalk/safewalk-backend-go/internal/models"
)

// MemoryAuditRepository is an in-memory, append-only audit store. The lock
// covers appends and snapshot reads; aggregation passes always work on the
// copied snapshot, never on the live slice.
type MemoryAuditRepository struct {
	mu     sync.RWMutex
	audits []models.AuditRecord
}

// NewMemoryAuditRepository creates an empty in-memory repository.
func NewMemoryAuditRepository() *MemoryAuditRepository {
	return &MemoryAuditRepository{}
}

// Append adds one audit record.
func (r *MemoryAuditRepository) Append(audit *models.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audits = append(r.audits, *audit)
	return nil
}

// QueryAll returns a snapshot of every audit in insertion order.
func (r *MemoryAuditRepository) QueryAll() ([]models.AuditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.AuditRecord, len(r.audits))
	copy(out, r.audits)
	return out, nil
}

// QueryByOwner returns a snapshot of one user's audits.
func (r *MemoryAuditRepository) QueryByOwner(userID string) ([]models.AuditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.AuditRecord
	for _, a := range r.audits {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

// Count returns the number of stored audits.
func (r *MemoryAuditRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.audits)), nil
}
