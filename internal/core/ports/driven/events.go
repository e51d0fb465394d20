package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

// DatasetEvent describes one append batch.
type DatasetEvent struct {
	RecordIDs []string           `json:"record_ids"`
	Provider  domain.ProviderKey `json:"provider"`
	Timestamp time.Time          `json:"timestamp"`
	Count     int                `json:"count"`
}

// EventPublisher announces dataset changes to interested parties.
type EventPublisher interface {
	Publish(ctx context.Context, event DatasetEvent) error
	Close() error
}
