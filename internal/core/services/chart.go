package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driving"
	"github.com/custodia-labs/almanac/internal/logger"
)

// Ensure ChartService implements the interface.
var _ driving.ChartService = (*ChartService)(nil)

// DefaultBatchParallelism bounds concurrent chart computations.
const DefaultBatchParallelism = 4

// ChartService computes charts through the registered ephemeris provider.
type ChartService struct {
	registry    driving.ProviderRegistry
	parallelism int
}

// NewChartService creates a chart service. A parallelism below one uses
// DefaultBatchParallelism.
func NewChartService(registry driving.ProviderRegistry, parallelism int) *ChartService {
	if parallelism < 1 {
		parallelism = DefaultBatchParallelism
	}
	return &ChartService{registry: registry, parallelism: parallelism}
}

// Compute validates the query and returns positions for it.
func (s *ChartService) Compute(ctx context.Context, q domain.BirthQuery) (*domain.EphemerisResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	eph, err := s.registry.Ephemeris()
	if err != nil {
		return nil, err
	}
	instant, err := q.Instant()
	if err != nil {
		return nil, err
	}
	opts := q.Options.WithDefaults()
	logger.Debug("chart: %s %s %s via %s (%s/%s)", q.Date, q.Time, q.Timezone, eph.Name(), opts.Zodiac, opts.HouseSystem)
	return eph.Positions(ctx, instant, q.Coordinates, opts)
}

// ComputeBatch computes every query with bounded parallelism. The first
// failure cancels queries that have not started.
func (s *ChartService) ComputeBatch(ctx context.Context, queries []domain.BirthQuery) ([]*domain.EphemerisResult, error) {
	logger.Section("Chart Batch")
	logger.Debug("Computing %d charts, parallelism %d", len(queries), s.parallelism)
	defer logger.Timed("chart batch")()

	results := make([]*domain.EphemerisResult, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i := range queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Compute(gctx, queries[i])
			if err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Rows computes a chart and maps each body to a dataset row.
func (s *ChartService) Rows(ctx context.Context, personID string, q domain.BirthQuery) ([]domain.DatasetRow, error) {
	res, err := s.Compute(ctx, q)
	if err != nil {
		return nil, err
	}
	return ChartRows(personID, q, res), nil
}

var titleCaser = cases.Title(language.English)

// ChartRows maps each body of res to a Guidance row. Tropical charts
// become WA rows and sidereal charts HA rows.
func ChartRows(personID string, q domain.BirthQuery, res *domain.EphemerisResult) []domain.DatasetRow {
	opts := res.Metadata.Options.WithDefaults()
	system := domain.SystemWA
	if opts.Zodiac == domain.ZodiacSidereal {
		system = domain.SystemHA
	}
	subsystem := titleCaser.String(string(opts.Zodiac)) + " · " + opts.HouseSystem
	clock := strings.TrimSpace(q.Time)
	if clock == "" {
		clock = "12:00"
	}

	rows := make([]domain.DatasetRow, 0, len(res.Bodies))
	for _, body := range res.Bodies {
		degrees := int(math.Round(body.Longitude)) % 360
		if degrees < 0 {
			degrees += 360
		}
		lon := strconv.FormatFloat(body.Longitude, 'f', 2, 64)
		rows = append(rows, domain.DatasetRow{
			ID:                 uuid.NewString(),
			PersonID:           personID,
			BirthDatetimeLocal: q.Date + "T" + clock,
			BirthTimezone:      q.Timezone,
			System:             system,
			Subsystem:          subsystem,
			SourceTool:         "ephemeris",
			DataPoint:          body.Name,
			VerbatimText:       fmt.Sprintf("%s @ %s° (house %d)", body.Name, lon, body.House),
			Category:           domain.CategoryGuidance,
			Subcategory:        "Ephemeris",
			DirectionDegrees:   &degrees,
			Polarity:           domain.PolarityNeutral,
			Strength:           0,
			Confidence:         0.85,
			WeightSystem:       system.DefaultWeight(),
			Notes:              fmt.Sprintf("longitude=%s;house=%d", lon, body.House),
		})
	}
	return rows
}
