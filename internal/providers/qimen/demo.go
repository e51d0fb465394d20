package qimen

import (
	"context"
	"math"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
)

var _ driven.QMDJProvider = (*Demo)(nil)

var (
	demoPalaces = []string{"NW", "N", "NE", "W", "Center", "E", "SW", "S", "SE"}
	demoStars   = []string{"Tian Peng", "Tian Ren", "Tian Chong", "Tian Fu", "Tian Xing", "Tian Ying", "Tian Rui", "Tian Xian", "Tian Qin"}
	demoDoors   = []string{"Kai", "Xiu", "Sheng", "Shang", "Du", "Jing", "Si", "Jing", "Kai"}
	demoDeities = []string{"Geng", "Xin", "Ren", "Gui", "Ding", "Bing", "Yi", "Jia", "Ji"}
)

// Demo rotates fixed lists by the minute of the instant.
type Demo struct{}

// NewDemo creates a demo board provider.
func NewDemo() *Demo {
	return &Demo{}
}

// Board returns the rotation board. The variant is the school name.
func (p *Demo) Board(ctx context.Context, in domain.QMDJInput) (*domain.QMDJBoard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	in, local, err := prepare(in)
	if err != nil {
		return nil, err
	}

	minutes := math.Floor(float64(local.UnixMilli()) / 60000)
	seed := int(math.Mod(math.Abs(minutes), float64(len(demoStars))))
	shift := 1
	if in.Arrangement == domain.ArrangementYin {
		shift = -1
	}
	stars := rotate(demoStars, seed)
	doors := rotate(demoDoors, seed+shift)
	deities := rotate(demoDeities, seed+shift*2)

	chart := make([]domain.QMDJCell, len(demoPalaces))
	for i, palace := range demoPalaces {
		chart[i] = domain.QMDJCell{Palace: palace, Star: stars[i], Door: doors[i], Deity: deities[i]}
	}
	return &domain.QMDJBoard{Variant: in.School, Chart: chart}, nil
}

func rotate(values []string, offset int) []string {
	n := len(values)
	shift := ((offset % n) + n) % n
	out := make([]string, n)
	for i := range out {
		out[i] = values[(i+shift)%n]
	}
	return out
}
