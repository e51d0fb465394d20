package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// UnknownToken marks a verbatim field the calculator could not interpret.
const UnknownToken = "UNKNOWN"

// System identifies the tradition a row comes from.
type System string

// Known systems.
const (
	SystemWA                    System = "WA"
	SystemHA                    System = "HA"
	SystemJA                    System = "JA"
	SystemBaZi                  System = "BaZi"
	SystemZWDS                  System = "ZWDS"
	SystemQMDJ                  System = "QMDJ"
	SystemFS                    System = "FS"
	SystemIChing                System = "IChing"
	SystemTarot                 System = "Tarot"
	SystemNumerologyPythagorean System = "Numerology_Pythagorean"
	SystemNumerologyChaldean    System = "Numerology_Chaldean"
	SystemGeomancy              System = "Geomancy"
	SystemPalmistry             System = "Palmistry"
	SystemMianXiang             System = "MianXiang"
	SystemHD                    System = "HD"
	SystemGK                    System = "GK"
)

// AllSystems returns every known system in display order.
func AllSystems() []System {
	return []System{
		SystemWA, SystemHA, SystemJA, SystemBaZi, SystemZWDS, SystemQMDJ, SystemFS,
		SystemIChing, SystemTarot, SystemNumerologyPythagorean, SystemNumerologyChaldean,
		SystemGeomancy, SystemPalmistry, SystemMianXiang, SystemHD, SystemGK,
	}
}

// IsValid returns true if the system is recognised.
func (s System) IsValid() bool {
	return slices.Contains(AllSystems(), s)
}

// String returns the string representation.
func (s System) String() string {
	return string(s)
}

// DefaultWeight returns the built-in multiplier for the system.
func (s System) DefaultWeight() float64 {
	switch s {
	case SystemHD:
		return 0.6
	case SystemGK:
		return 0.5
	default:
		return 1
	}
}

// Category is the life area a row speaks to.
type Category string

// Known categories.
const (
	CategoryPersonality   Category = "Personality"
	CategoryCareer        Category = "Career"
	CategoryWealth        Category = "Wealth"
	CategoryRelationships Category = "Relationships"
	CategoryHealth        Category = "Health"
	CategoryCreativity    Category = "Creativity"
	CategoryFamily        Category = "Family"
	CategoryReputation    Category = "Reputation"
	CategoryLegal         Category = "Legal"
	CategorySpirituality  Category = "Spirituality"
	CategoryGuidance      Category = "Guidance"
	CategoryTiming        Category = "Timing"
	CategoryDirection     Category = "Direction"
	CategoryProperty      Category = "Property"
	CategoryLearning      Category = "Learning"
)

// AllCategories returns every known category.
func AllCategories() []Category {
	return []Category{
		CategoryPersonality, CategoryCareer, CategoryWealth, CategoryRelationships,
		CategoryHealth, CategoryCreativity, CategoryFamily, CategoryReputation,
		CategoryLegal, CategorySpirituality, CategoryGuidance, CategoryTiming,
		CategoryDirection, CategoryProperty, CategoryLearning,
	}
}

// IsValid returns true if the category is recognised.
func (c Category) IsValid() bool {
	return slices.Contains(AllCategories(), c)
}

// Polarity is the favourability of a row.
type Polarity string

// Polarity values. Unfavourable uses U+2212 MINUS SIGN.
const (
	PolarityFavourable   Polarity = "+"
	PolarityNeutral      Polarity = "0"
	PolarityUnfavourable Polarity = "−"
)

// IsValid returns true if the polarity is recognised.
func (p Polarity) IsValid() bool {
	switch p {
	case PolarityFavourable, PolarityNeutral, PolarityUnfavourable:
		return true
	default:
		return false
	}
}

// Description returns favourable, neutral or unfavourable.
func (p Polarity) Description() string {
	switch p {
	case PolarityFavourable:
		return "favourable"
	case PolarityNeutral:
		return "neutral"
	case PolarityUnfavourable:
		return "unfavourable"
	default:
		return unknownDescription
	}
}

// ParsePolarity accepts the ASCII hyphen as an alias for the minus sign.
func ParsePolarity(s string) (Polarity, error) {
	s = strings.TrimSpace(s)
	if s == "-" {
		return PolarityUnfavourable, nil
	}
	p := Polarity(s)
	if !p.IsValid() {
		return "", &ValidationError{Field: "polarity", Message: fmt.Sprintf("unknown polarity %q", s)}
	}
	return p, nil
}

// DatasetRow is the canonical unit of calculator output.
//
// MergedFrom and ConflictSetID are owned by the normalisation engine.
// Calculators leave them empty.
type DatasetRow struct {
	ID                 string            `json:"id"`
	PersonID           string            `json:"person_id"`
	BirthDatetimeLocal string            `json:"birth_datetime_local"`
	BirthTimezone      string            `json:"birth_timezone"`
	System             System            `json:"system"`
	Subsystem          string            `json:"subsystem"`
	SourceTool         string            `json:"source_tool"`
	SourceRef          string            `json:"source_url_or_ref"`
	DataPoint          string            `json:"data_point"`
	VerbatimText       string            `json:"verbatim_text"`
	Category           Category          `json:"category"`
	Subcategory        string            `json:"subcategory"`
	DirectionCardinal  DirectionCardinal `json:"direction_cardinal"`
	DirectionDegrees   *int              `json:"direction_degrees,omitempty"`
	TimingWindowStart  string            `json:"timing_window_start,omitempty"`
	TimingWindowEnd    string            `json:"timing_window_end,omitempty"`
	Polarity           Polarity          `json:"polarity"`
	Strength           int               `json:"strength"`
	Confidence         float64           `json:"confidence"`
	WeightSystem       float64           `json:"weight_system"`
	Notes              string            `json:"notes"`
	MergedFrom         []string          `json:"merged_from,omitempty"`
	ConflictSetID      string            `json:"conflict_set_id,omitempty"`
}

// HasWindow reports whether a timing window is set.
func (r *DatasetRow) HasWindow() bool {
	return r.TimingWindowStart != "" || r.TimingWindowEnd != ""
}

// Window parses the timing window in the row's birth zone.
// A row without a window returns (nil, nil).
func (r *DatasetRow) Window() (*ClosedInterval, error) {
	zone := r.BirthTimezone
	if zone == "" {
		zone = "UTC"
	}
	return EnsureClosedInterval(r.TimingWindowStart, r.TimingWindowEnd, zone)
}

// IsUnknown reports whether the verbatim text is the UNKNOWN sentinel.
func (r *DatasetRow) IsUnknown() bool {
	return strings.TrimSpace(r.VerbatimText) == UnknownToken
}

// Clone returns a deep copy.
func (r *DatasetRow) Clone() DatasetRow {
	out := *r
	if r.DirectionDegrees != nil {
		d := *r.DirectionDegrees
		out.DirectionDegrees = &d
	}
	out.MergedFrom = slices.Clone(r.MergedFrom)
	return out
}

// Validate checks every field rule and reports all failures at once.
func (r *DatasetRow) Validate() error {
	var errs []error
	add := func(field, msg string) {
		errs = append(errs, &ValidationError{Field: field, Message: msg})
	}

	if strings.TrimSpace(r.ID) == "" {
		add("id", "id is required")
	}
	if strings.TrimSpace(r.PersonID) == "" {
		add("person_id", "person_id is required")
	}
	loc, err := LoadZone(r.BirthTimezone)
	if err != nil {
		add("birth_timezone", "unknown time zone")
	}
	if strings.TrimSpace(r.BirthDatetimeLocal) == "" {
		add("birth_datetime_local", "birth_datetime_local is required")
	} else if loc != nil {
		if _, err := ParseInZone(r.BirthDatetimeLocal, loc); err != nil {
			add("birth_datetime_local", "birth_datetime_local must be ISO 8601")
		}
	}
	if !r.System.IsValid() {
		add("system", fmt.Sprintf("unknown system %q", r.System))
	}
	if strings.TrimSpace(r.DataPoint) == "" {
		add("data_point", "data_point is required")
	}
	if strings.TrimSpace(r.VerbatimText) == "" {
		add("verbatim_text", "verbatim_text is required")
	}
	if !r.Category.IsValid() {
		add("category", fmt.Sprintf("unknown category %q", r.Category))
	}
	if !r.DirectionCardinal.IsValid() {
		add("direction_cardinal", fmt.Sprintf("unknown direction %q", r.DirectionCardinal))
	}
	if r.DirectionDegrees != nil && (*r.DirectionDegrees < 0 || *r.DirectionDegrees > 359) {
		add("direction_degrees", "direction_degrees must be an integer between 0 and 359")
	}
	if _, err := r.Window(); err != nil {
		errs = append(errs, fmt.Errorf("timing_window: %w", err))
	}
	if !r.Polarity.IsValid() {
		add("polarity", fmt.Sprintf("unknown polarity %q", r.Polarity))
	}
	if r.Strength < -2 || r.Strength > 2 {
		add("strength", "strength must be between -2 and 2")
	}
	if math.IsNaN(r.Confidence) || r.Confidence < 0 || r.Confidence > 1 {
		add("confidence", "confidence must be between 0 and 1")
	}
	if math.IsNaN(r.WeightSystem) || math.IsInf(r.WeightSystem, 0) || r.WeightSystem <= 0 {
		add("weight_system", "weight_system must be positive")
	}

	return errors.Join(errs...)
}
