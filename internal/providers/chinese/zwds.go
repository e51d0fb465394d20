package chinese

import (
	"context"
	"fmt"
	"math"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
)

var _ driven.ZWDSProvider = (*DemoZWDS)(nil)

// Palaces lists the twelve palaces in chart order.
var Palaces = []string{
	"Life", "Wealth", "Travel", "Career", "Health", "Children",
	"Spouse", "Siblings", "Parents", "Property", "Friends", "Servants",
}

var starSets = [][2]string{
	{"Zi Wei", "Tian Ji"},
	{"Tai Yang", "Wu Qu"},
	{"Tian Tong", "Lian Zhen"},
	{"Tai Yin", "Tan Lang"},
	{"Ju Men", "Tian Liang"},
	{"Qi Sha", "Po Jun"},
}

// DemoZWDS assigns star pairs to palaces from a seed of the local time.
type DemoZWDS struct{}

// NewDemoZWDS creates a demo Zi Wei Dou Shu provider.
func NewDemoZWDS() *DemoZWDS {
	return &DemoZWDS{}
}

// Palaces returns one reading per palace. Each reading notes its seed.
func (p *DemoZWDS) Palaces(ctx context.Context, q domain.BirthQuery) ([]domain.ZWDSPalaceReading, error) {
	local, err := localTime(ctx, q)
	if err != nil {
		return nil, err
	}
	seed := int(math.Abs(math.Floor(
		float64(local.Year())*0.3 + float64(local.Month())*1.7 + float64(local.Day())*2.3 +
			float64(local.Hour())*3.1 + float64(local.Minute()),
	)))

	out := make([]domain.ZWDSPalaceReading, len(Palaces))
	for i, palace := range Palaces {
		s := seed + i
		set := starSets[s%len(starSets)]
		out[i] = domain.ZWDSPalaceReading{
			Palace: palace,
			Stars: []string{
				fmt.Sprintf("%s %d", set[0], s%12),
				fmt.Sprintf("%s %d", set[1], s%12),
			},
			Notes: fmt.Sprintf("demo-seed:%d", s),
		}
	}
	return out, nil
}
