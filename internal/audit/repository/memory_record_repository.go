// Package repository implements the append-only audit record store for
// PostgreSQL, MySQL, MongoDB and process memory.
package repository

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
	"github.com/allisson/phiguard/internal/errors"
)

// MemoryRecordRepository keeps records in process memory. It backs tests and
// the "memory" driver.
type MemoryRecordRepository struct {
	mu      sync.RWMutex
	records []*auditDomain.Record
	ids     map[uuid.UUID]struct{}
}

// NewMemoryRecordRepository creates an empty in-memory record store.
func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{ids: make(map[uuid.UUID]struct{})}
}

// Append stores a copy of record. Appending an id twice fails with ErrConflict.
func (m *MemoryRecordRepository) Append(ctx context.Context, record *auditDomain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.ids[record.ID]; exists {
		return errors.Wrap(errors.ErrConflict, "audit record already exists")
	}
	m.ids[record.ID] = struct{}{}
	m.records = append(m.records, cloneRecord(record))
	return nil
}

// Query returns copies of the matching records in ascending timestamp order.
func (m *MemoryRecordRepository) Query(
	ctx context.Context,
	filter *auditDomain.Filter,
) ([]*auditDomain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*auditDomain.Record, 0)
	for _, record := range m.records {
		if filter.Matches(record) {
			records = append(records, cloneRecord(record))
		}
	}
	sortRecords(records)

	if filter.Limit > 0 && len(records) > filter.Limit {
		records = records[:filter.Limit]
	}
	return records, nil
}

// Count returns the number of matching records.
func (m *MemoryRecordRepository) Count(ctx context.Context, filter *auditDomain.Filter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, record := range m.records {
		if filter.Matches(record) {
			count++
		}
	}
	return count, nil
}

// sortRecords orders records by timestamp, then id. UUIDv7 ids are time
// ordered, so the tie-break preserves insertion order within a millisecond.
func sortRecords(records []*auditDomain.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.Before(records[j].Timestamp)
		}
		return bytes.Compare(records[i].ID[:], records[j].ID[:]) < 0
	})
}

func cloneRecord(record *auditDomain.Record) *auditDomain.Record {
	clone := *record
	if record.SubjectID != nil {
		subjectID := *record.SubjectID
		clone.SubjectID = &subjectID
	}
	clone.EncryptedDetails = bytes.Clone(record.EncryptedDetails)
	clone.Signature = bytes.Clone(record.Signature)
	return &clone
}
