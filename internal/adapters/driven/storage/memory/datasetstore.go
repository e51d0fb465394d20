package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
)

// Ensure DatasetStore implements the interface.
var _ driven.DatasetStore = (*DatasetStore)(nil)

// DatasetStore is an in-memory implementation of driven.DatasetStore.
type DatasetStore struct {
	mu      sync.RWMutex
	records []domain.DatasetRecord
	nextSeq int64
	now     func() time.Time
}

// NewDatasetStore creates a new in-memory dataset store.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{nextSeq: 1, now: time.Now}
}

// Append stores records in one critical section so concurrent batches
// never interleave.
func (s *DatasetStore) Append(ctx context.Context, records []domain.DatasetRecord) ([]domain.DatasetRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	out := make([]domain.DatasetRecord, len(records))
	for i := range records {
		rec := records[i].Clone()
		rec.Seq = s.nextSeq
		rec.CreatedAt = now
		s.nextSeq++
		s.records = append(s.records, rec)
		out[i] = rec.Clone()
	}
	return out, nil
}

// Records returns copies of every record in insertion order.
func (s *DatasetStore) Records(_ context.Context) ([]domain.DatasetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DatasetRecord, len(s.records))
	for i := range s.records {
		out[i] = s.records[i].Clone()
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *DatasetStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Clear removes every record. Sequence numbers keep increasing.
func (s *DatasetStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}
