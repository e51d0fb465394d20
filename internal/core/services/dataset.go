package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
	"github.com/custodia-labs/almanac/internal/core/ports/driving"
	"github.com/custodia-labs/almanac/internal/logger"
)

// Ensure DatasetService implements the interface.
var _ driving.DatasetService = (*DatasetService)(nil)

// DatasetService appends provenance-stamped rows and answers queries over them.
type DatasetService struct {
	store     driven.DatasetStore
	publisher driven.EventPublisher
	now       func() time.Time
}

// NewDatasetService creates a dataset service. publisher may be nil.
func NewDatasetService(store driven.DatasetStore, publisher driven.EventPublisher) *DatasetService {
	return &DatasetService{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// Insert validates rows, stamps provenance and appends them atomically.
// Nothing is stored when any row is invalid.
func (s *DatasetService) Insert(ctx context.Context, rows []domain.DatasetRow, provenance domain.Provenance) ([]domain.DatasetRecord, error) {
	if s.store == nil {
		return nil, errors.New("dataset store not configured")
	}
	if strings.TrimSpace(provenance.Provider.String()) == "" {
		return nil, &domain.ValidationError{Field: "provenance.provider", Message: "provider is required"}
	}
	if len(rows) == 0 {
		return []domain.DatasetRecord{}, nil
	}
	if provenance.Timestamp == "" {
		provenance.Timestamp = s.now().UTC().Format(time.RFC3339)
	}

	note := provenance.Note()
	records := make([]domain.DatasetRecord, len(rows))
	var errs []error
	for i := range rows {
		row := rows[i].Clone()
		if strings.TrimSpace(row.SourceTool) == "" {
			row.SourceTool = provenance.Provider.String()
		}
		if strings.TrimSpace(row.Notes) == "" {
			row.Notes = note
		} else {
			row.Notes = row.Notes + " | " + note
		}
		if err := row.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", i, err))
			continue
		}
		records[i] = domain.DatasetRecord{Row: row, Provenance: provenance.Clone()}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	stored, err := s.store.Append(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("append records: %w", err)
	}
	logger.Debug("dataset: appended %d rows from %s", len(stored), provenance.Provider)
	s.publish(ctx, stored, provenance.Provider)
	return stored, nil
}

// publish announces an append. Delivery failures never fail the insert.
func (s *DatasetService) publish(ctx context.Context, records []domain.DatasetRecord, provider domain.ProviderKey) {
	if s.publisher == nil {
		return
	}
	ids := make([]string, len(records))
	for i := range records {
		ids[i] = records[i].Row.ID
	}
	event := driven.DatasetEvent{
		RecordIDs: ids,
		Provider:  provider,
		Timestamp: s.now().UTC(),
		Count:     len(records),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("dataset: publish event: %v", err)
	}
}

// List returns copies of rows matching filter in insertion order.
func (s *DatasetService) List(ctx context.Context, filter domain.RowFilter) ([]domain.DatasetRow, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.DatasetRow, 0, len(records))
	for i := range records {
		if filter.Match(&records[i].Row) {
			rows = append(rows, records[i].Row)
		}
	}
	return rows, nil
}

// Records returns copies of every stored record.
func (s *DatasetService) Records(ctx context.Context) ([]domain.DatasetRecord, error) {
	if s.store == nil {
		return nil, errors.New("dataset store not configured")
	}
	return s.store.Records(ctx)
}

// Stats summarises rows matching filter.
func (s *DatasetService) Stats(ctx context.Context, filter domain.RowFilter) (*domain.DatasetStats, error) {
	rows, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(rows)
	return &stats, nil
}

// Clear removes every record.
func (s *DatasetService) Clear(ctx context.Context) error {
	if s.store == nil {
		return errors.New("dataset store not configured")
	}
	return s.store.Clear(ctx)
}
