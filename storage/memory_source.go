package storage

import (
	"context"
	"sync"

	"rental-market/models"
)

// MemorySource serves listings from an in-process slice. It backs the CLI's
// demo mode and the search tests.
type MemorySource struct {
	mu      sync.RWMutex
	records []models.RawListingRecord
	err     error
}

// NewMemorySource creates a MemorySource over a copy of records.
func NewMemorySource(records []models.RawListingRecord) *MemorySource {
	cp := make([]models.RawListingRecord, len(records))
	copy(cp, records)
	return &MemorySource{records: cp}
}

// FailWith makes every subsequent fetch return err (nil clears it).
func (m *MemorySource) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Add appends a record.
func (m *MemorySource) Add(r models.RawListingRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
}

// FetchAvailableListings returns the records matching c, in insertion order.
func (m *MemorySource) FetchAvailableListings(ctx context.Context, c models.Constraints) ([]models.RawListingRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}

	out := make([]models.RawListingRecord, 0, len(m.records))
	for _, r := range m.records {
		if c.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}
