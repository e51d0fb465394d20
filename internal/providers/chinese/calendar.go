// Package chinese holds the demo Chinese calendar and Zi Wei Dou Shu
// providers. Both are deterministic functions of the local birth time,
// carry no astronomical meaning, and are registered only when demo
// providers are enabled.
package chinese

import (
	"context"
	"math"
	"time"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
)

// Ensure DemoCalendar implements the interface.
var _ driven.ChineseCalendarProvider = (*DemoCalendar)(nil)

// Pillar names.
const (
	PillarYear  = "year"
	PillarMonth = "month"
	PillarDay   = "day"
	PillarHour  = "hour"
)

// HeavenlyStems in cycle order.
var HeavenlyStems = []string{"Jia", "Yi", "Bing", "Ding", "Wu", "Ji", "Geng", "Xin", "Ren", "Gui"}

// EarthlyBranches in cycle order.
var EarthlyBranches = []string{"Zi", "Chou", "Yin", "Mao", "Chen", "Si", "Wu", "Wei", "Shen", "You", "Xu", "Hai"}

const luckCycles = 4

// DemoCalendar derives pillars from a weighted sum of the local date.
type DemoCalendar struct{}

// NewDemoCalendar creates a demo calendar provider.
func NewDemoCalendar() *DemoCalendar {
	return &DemoCalendar{}
}

// Sexagenary returns the stem and branch at the base index.
func (p *DemoCalendar) Sexagenary(ctx context.Context, q domain.BirthQuery) (*domain.SexagenaryStemBranch, error) {
	base, err := calendarBase(ctx, q)
	if err != nil {
		return nil, err
	}
	return &domain.SexagenaryStemBranch{
		Stem:   HeavenlyStems[base%len(HeavenlyStems)],
		Branch: EarthlyBranches[base%len(EarthlyBranches)],
	}, nil
}

// FourPillars returns the year, month, day and hour pillars.
func (p *DemoCalendar) FourPillars(ctx context.Context, q domain.BirthQuery) ([]domain.BaZiPillar, error) {
	base, err := calendarBase(ctx, q)
	if err != nil {
		return nil, err
	}
	return []domain.BaZiPillar{
		makePillar(base, PillarYear),
		makePillar(base+1, PillarMonth),
		makePillar(base+2, PillarDay),
		makePillar(base+3, PillarHour),
	}, nil
}

// LuckPillars returns four decade cycles starting at age ten. Gender does
// not affect the demo sequence.
func (p *DemoCalendar) LuckPillars(ctx context.Context, q domain.BirthQuery, _ domain.Gender) ([]domain.LuckPillar, error) {
	base, err := calendarBase(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.LuckPillar, luckCycles)
	for i := range out {
		out[i] = domain.LuckPillar{
			Index:         i,
			StartingAge:   10 + i*10,
			DurationYears: 10,
			Pillar:        makePillar(base+i+5, PillarYear),
		}
	}
	return out, nil
}

func makePillar(index int, pillar string) domain.BaZiPillar {
	stem := HeavenlyStems[index%len(HeavenlyStems)]
	return domain.BaZiPillar{
		Pillar:        pillar,
		HeavenlyStem:  stem,
		EarthlyBranch: EarthlyBranches[index%len(EarthlyBranches)],
		HiddenStems:   []string{stem},
	}
}

func calendarBase(ctx context.Context, q domain.BirthQuery) (int, error) {
	local, err := localTime(ctx, q)
	if err != nil {
		return 0, err
	}
	_, offset := local.Zone()
	sum := float64(local.Year()) + float64(local.Month())*3 + float64(local.Day())*7 +
		float64(local.Hour())*13 + float64(offset)/3600
	return int(math.Abs(math.Floor(sum))), nil
}

func localTime(ctx context.Context, q domain.BirthQuery) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	return q.Instant()
}
