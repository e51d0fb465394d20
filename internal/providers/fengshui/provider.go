// Package fengshui computes Traditional Feng Shui readings: Flying Stars
// charts for a building and Eight Mansions directions for a person.
package fengshui

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/custodia-labs/almanac/internal/astro"
	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.FengShuiProvider = (*Provider)(nil)

// Palace names in Lo Shu reading order.
const (
	PalaceNorthWest = "North-West"
	PalaceNorth     = "North"
	PalaceNorthEast = "North-East"
	PalaceWest      = "West"
	PalaceCentre    = "Centre"
	PalaceEast      = "East"
	PalaceSouthWest = "South-West"
	PalaceSouth     = "South"
	PalaceSouthEast = "South-East"
)

var palaceOrder = [9]string{
	PalaceNorthWest, PalaceNorth, PalaceNorthEast,
	PalaceWest, PalaceCentre, PalaceEast,
	PalaceSouthWest, PalaceSouth, PalaceSouthEast,
}

var loShuBase = [9]int{6, 1, 8, 7, 5, 3, 2, 9, 4}

type directions struct {
	favourable   []string
	unfavourable []string
}

// Gua 5 never appears: it is remapped to 2 (male) or 8 (female).
var lifeGuaDirections = map[string]directions{
	"1": {
		favourable:   []string{PalaceNorth, PalaceSouthEast, PalaceEast, PalaceSouth},
		unfavourable: []string{PalaceSouthWest, PalaceNorthWest, PalaceWest, PalaceNorthEast},
	},
	"2": {
		favourable:   []string{PalaceSouthWest, PalaceWest, PalaceNorthWest, PalaceNorthEast},
		unfavourable: []string{PalaceNorth, PalaceSouth, PalaceEast, PalaceSouthEast},
	},
	"3": {
		favourable:   []string{PalaceSouth, PalaceNorth, PalaceSouthEast, PalaceEast},
		unfavourable: []string{PalaceWest, PalaceNorthWest, PalaceNorthEast, PalaceSouthWest},
	},
	"4": {
		favourable:   []string{PalaceSouthEast, PalaceEast, PalaceSouth, PalaceNorth},
		unfavourable: []string{PalaceNorthEast, PalaceSouthWest, PalaceWest, PalaceNorthWest},
	},
	"6": {
		favourable:   []string{PalaceNorthWest, PalaceNorthEast, PalaceWest, PalaceSouthWest},
		unfavourable: []string{PalaceSouth, PalaceNorth, PalaceSouthEast, PalaceEast},
	},
	"7": {
		favourable:   []string{PalaceWest, PalaceNorthEast, PalaceNorthWest, PalaceSouthWest},
		unfavourable: []string{PalaceEast, PalaceSouth, PalaceNorth, PalaceSouthEast},
	},
	"8": {
		favourable:   []string{PalaceNorthEast, PalaceSouthWest, PalaceNorthWest, PalaceWest},
		unfavourable: []string{PalaceSouthEast, PalaceEast, PalaceSouth, PalaceNorth},
	},
	"9": {
		favourable:   []string{PalaceSouth, PalaceEast, PalaceSouthEast, PalaceNorth},
		unfavourable: []string{PalaceNorthWest, PalaceWest, PalaceSouthWest, PalaceNorthEast},
	},
}

// Provider is the traditional Feng Shui calculator.
type Provider struct{}

// New creates a Feng Shui provider.
func New() *Provider {
	return &Provider{}
}

// FlyingStars lays out the nine palaces for a period, rotated by the
// facing direction and perturbed by the sitting direction.
func (p *Provider) FlyingStars(ctx context.Context, in domain.FlyingStarsInput) ([]domain.FlyingStar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateFlyingStars(in); err != nil {
		return nil, err
	}

	offset := int(math.Round(astro.Wrap360(in.FacingDegrees)/45)) % 8
	stars := make([]domain.FlyingStar, 0, len(palaceOrder))
	for i, palace := range palaceOrder {
		if palace == PalaceCentre {
			centre := ((in.Period - 1) % 9) + 1
			stars = append(stars, domain.FlyingStar{
				Palace:     palace,
				Star:       centre,
				BaseStar:   5,
				PeriodStar: centre,
			})
			continue
		}

		baseIndex := (i + offset) % len(loShuBase)
		base := loShuBase[baseIndex]
		period := ((base + in.Period - 2) % 9) + 1
		influence := math.Abs(math.Sin(astro.Radians(in.SittingDegrees + float64(baseIndex)*40)))
		star := int(math.Round(float64(period)+influence)) % 9
		if star == 0 {
			star = 9
		}
		stars = append(stars, domain.FlyingStar{
			Palace:     palace,
			Star:       star,
			BaseStar:   base,
			PeriodStar: period,
		})
	}
	return stars, nil
}

func validateFlyingStars(in domain.FlyingStarsInput) error {
	for field, v := range map[string]float64{"sittingDegrees": in.SittingDegrees, "facingDegrees": in.FacingDegrees} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &domain.ValidationError{Field: field, Message: "must be finite"}
		}
	}
	if in.Period < 1 || in.Period > 9 {
		return &domain.ValidationError{Field: "period", Message: "period must be between 1 and 9"}
	}
	return nil
}

// EightMansions derives the life gua and its directions. An unspecified
// gender yields the UNKNOWN gua with no directions.
func (p *Provider) EightMansions(ctx context.Context, birthYear int, gender domain.Gender) (*domain.EightMansionsResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if birthYear < 1 {
		return nil, &domain.ValidationError{Field: "birthYear", Message: "birth year must be positive"}
	}
	gua, err := LifeGua(birthYear, gender)
	if err != nil {
		return nil, err
	}

	dirs := lifeGuaDirections[gua]
	return &domain.EightMansionsResult{
		MingGua:                gua,
		FavourableDirections:   append([]string{}, dirs.favourable...),
		UnfavourableDirections: append([]string{}, dirs.unfavourable...),
	}, nil
}

// LifeGua reduces the birth year to a single digit and applies the
// gendered formula.
func LifeGua(birthYear int, gender domain.Gender) (string, error) {
	reduced := digitSum(birthYear)
	switch gender {
	case domain.GenderUnspecified, "":
		return domain.UnknownToken, nil
	case domain.GenderMale:
		gua := 10 - reduced
		if gua == 5 {
			return "2", nil
		}
		g := (gua + 8) % 9
		if g == 0 {
			g = 9
		}
		return strconv.Itoa(g), nil
	case domain.GenderFemale:
		gua := reduced + 5
		if gua > 9 {
			gua -= 9
		}
		if gua == 5 {
			return "8", nil
		}
		return strconv.Itoa(gua), nil
	default:
		return "", &domain.ValidationError{Field: "gender", Message: fmt.Sprintf("unknown gender %q", gender)}
	}
}

func digitSum(n int) int {
	for n > 9 {
		sum := 0
		for ; n > 0; n /= 10 {
			sum += n % 10
		}
		n = sum
	}
	return n
}
