package api

import (
	"sync"

	"github.com/alibeddi/securitycenter/internal/uuid"
)

// MemoryAuditStore is a thread-safe in-memory AuditStore. Records are lost on
// server restart; intended for tests and development.
type MemoryAuditStore struct {
	mu      sync.RWMutex
	records []AuditRecord
}

var _ AuditStore = (*MemoryAuditStore)(nil)

// NewMemoryAuditStore creates an in-memory audit store.
func NewMemoryAuditStore() *MemoryAuditStore {
	return &MemoryAuditStore{}
}

func (s *MemoryAuditStore) Append(record AuditRecord) error {
	if record.ID == "" {
		record.ID = uuid.New()
	}
	s.mu.Lock()
	s.records = append(s.records, record)
	s.mu.Unlock()
	return nil
}

func (s *MemoryAuditStore) List(limit int) ([]AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.records)
	if limit > n {
		limit = n
	}
	out := make([]AuditRecord, 0, limit)
	for i := n - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}
