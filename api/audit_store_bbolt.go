package api

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/alibeddi/securitycenter/internal/uuid"
)

var auditBucket = []byte("audit")

// BoltAuditStore is an AuditStore backed by a BBolt database. Records survive
// server restarts. Keys are a monotonically increasing sequence so iteration
// order is insertion order.
type BoltAuditStore struct {
	db *bbolt.DB
}

var _ AuditStore = (*BoltAuditStore)(nil)

// NewBoltAuditStore opens (or creates) a BBolt database at path and prepares
// the audit bucket.
func NewBoltAuditStore(path string) (*BoltAuditStore, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening audit db: %w", err)
	}
	s := &BoltAuditStore{db: db}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(auditBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing audit bucket: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *BoltAuditStore) Close() error {
	return s.db.Close()
}

func (s *BoltAuditStore) Append(record AuditRecord) error {
	if record.ID == "" {
		record.ID = uuid.New()
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(auditBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return b.Put(key, data)
	})
}

func (s *BoltAuditStore) List(limit int) ([]AuditRecord, error) {
	var records []AuditRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(auditBucket).Cursor()
		for k, v := c.Last(); k != nil && len(records) < limit; k, v = c.Prev() {
			var rec AuditRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				continue
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
