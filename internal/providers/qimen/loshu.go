// Package qimen casts Qi Men Dun Jia boards on the Lo Shu grid.
//
// LoShu is a seeded board: the same local instant, arrangement and school
// always produce the same stars, doors and deities. Demo is a rotation
// board for development and must not be installed in production.
package qimen

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
)

// Ensure LoShu implements the interface.
var _ driven.QMDJProvider = (*LoShu)(nil)

// DefaultSchool is used when the input names none.
const DefaultSchool = "Zhi Run"

const (
	seedStart   = 7
	seedModulus = 9_999_991
	isoLayout   = "2006-01-02T15:04:05.000Z07:00"
)

var (
	loShuPalaces = []string{"North", "North-East", "East", "South-East", "South", "South-West", "West", "North-West", "Centre"}
	loShuStars   = []string{"Tian Peng", "Tian Ren", "Tian Chong", "Tian Fu", "Tian Ying", "Tian Rui", "Tian Zhu", "Tian Xin", "Tian Qin"}
	loShuDoors   = []string{"Open", "Rest", "Life", "Harm", "Delusion", "Scene", "Death", "Shock", "Obstacle"}
	loShuDeities = []string{"Chief", "Earth", "Moon", "Heaven", "Dragon", "Tiger", "Tortoise", "Bird", "Harmony"}
)

// LoShu is the seeded Lo Shu board provider.
type LoShu struct{}

// NewLoShu creates a Lo Shu provider.
func NewLoShu() *LoShu {
	return &LoShu{}
}

// Board casts the board for the instant as seen in the input zone.
func (p *LoShu) Board(ctx context.Context, in domain.QMDJInput) (*domain.QMDJBoard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	in, local, err := prepare(in)
	if err != nil {
		return nil, err
	}

	seed := Seed(local.Format(isoLayout), string(in.Arrangement), in.School)
	chart := make([]domain.QMDJCell, len(loShuPalaces))
	for i, palace := range loShuPalaces {
		chart[i] = domain.QMDJCell{
			Palace: palace,
			Star:   pick(seed, loShuStars, i*3),
			Door:   pick(seed+17, loShuDoors, i*5),
			Deity:  pick(seed+29, loShuDeities, i*7),
		}
	}
	return &domain.QMDJBoard{
		Variant: fmt.Sprintf("%s · %s", in.Arrangement, in.School),
		Chart:   chart,
	}, nil
}

// Seed folds the board inputs into a deterministic seed.
func Seed(parts ...string) int {
	hash := seedStart
	for _, unit := range utf16.Encode([]rune(strings.Join(parts, ""))) {
		hash = (hash*33 + int(unit)) % seedModulus
	}
	return hash
}

func pick(seed int, values []string, index int) string {
	roll := math.Abs(math.Sin(float64(seed+index)) * 1000)
	return values[int(math.Floor(roll))%len(values)]
}

// prepare validates and defaults the input and resolves the local instant.
func prepare(in domain.QMDJInput) (domain.QMDJInput, time.Time, error) {
	if in.DateTime.IsZero() {
		return in, time.Time{}, &domain.ValidationError{Field: "dateTime", Message: "date and time are required"}
	}
	zone := in.Zone
	if strings.TrimSpace(zone) == "" {
		zone = in.DateTime.Location().String()
	}
	loc, err := domain.LoadZone(zone)
	if err != nil {
		return in, time.Time{}, err
	}
	switch in.Arrangement {
	case "":
		in.Arrangement = domain.ArrangementYang
	case domain.ArrangementYang, domain.ArrangementYin:
	default:
		return in, time.Time{}, &domain.ValidationError{
			Field:   "arrangement",
			Message: fmt.Sprintf("unknown arrangement %q", in.Arrangement),
		}
	}
	if strings.TrimSpace(in.School) == "" {
		in.School = DefaultSchool
	}
	in.Zone = zone
	return in, in.DateTime.In(loc), nil
}
