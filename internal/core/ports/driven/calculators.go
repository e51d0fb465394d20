package driven

import (
	"context"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

// FengShuiProvider computes Flying Stars and Eight Mansions readings.
type FengShuiProvider interface {
	FlyingStars(ctx context.Context, in domain.FlyingStarsInput) ([]domain.FlyingStar, error)
	EightMansions(ctx context.Context, birthYear int, gender domain.Gender) (*domain.EightMansionsResult, error)
}

// HumanDesignProvider computes a body graph from a birth query.
type HumanDesignProvider interface {
	BodyGraph(ctx context.Context, q domain.BirthQuery) (*domain.BodyGraph, error)
}

// GeneKeysProvider computes a hologenetic profile.
type GeneKeysProvider interface {
	Profile(ctx context.Context, q domain.BirthQuery) (*domain.GeneKeysProfile, error)
}

// QMDJProvider casts a Qi Men Dun Jia board.
type QMDJProvider interface {
	Board(ctx context.Context, in domain.QMDJInput) (*domain.QMDJBoard, error)
}

// ChineseCalendarProvider computes BaZi pillars.
type ChineseCalendarProvider interface {
	Sexagenary(ctx context.Context, q domain.BirthQuery) (*domain.SexagenaryStemBranch, error)
	FourPillars(ctx context.Context, q domain.BirthQuery) ([]domain.BaZiPillar, error)
	LuckPillars(ctx context.Context, q domain.BirthQuery, gender domain.Gender) ([]domain.LuckPillar, error)
}

// ZWDSProvider computes a Zi Wei Dou Shu chart.
type ZWDSProvider interface {
	Palaces(ctx context.Context, q domain.BirthQuery) ([]domain.ZWDSPalaceReading, error)
}
