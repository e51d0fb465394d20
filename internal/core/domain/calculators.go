package domain

import "time"

// FlyingStar is one palace of a Flying Stars chart.
type FlyingStar struct {
	Palace     string `json:"palace"`
	Star       int    `json:"star"`
	BaseStar   int    `json:"baseStar"`
	PeriodStar int    `json:"periodStar"`
}

// FlyingStarsInput describes a building for a Flying Stars chart.
type FlyingStarsInput struct {
	SittingDegrees float64
	FacingDegrees  float64
	Period         int
	Variant        string
}

// Gender selects the Eight Mansions life gua formula.
type Gender string

// Genders.
const (
	GenderFemale      Gender = "female"
	GenderMale        Gender = "male"
	GenderUnspecified Gender = "unspecified"
)

// EightMansionsResult holds the life gua and its directions.
// MingGua is UnknownToken when gender is unspecified.
type EightMansionsResult struct {
	MingGua                string   `json:"mingGua"`
	FavourableDirections   []string `json:"favourableDirections"`
	UnfavourableDirections []string `json:"unfavourableDirections"`
}

// CentreState is defined or undefined.
type CentreState string

// Centre states.
const (
	CentreDefined   CentreState = "defined"
	CentreUndefined CentreState = "undefined"
)

// GateActivation is one body's gate and line.
type GateActivation struct {
	Body string `json:"body"`
	Gate int    `json:"gate"`
	Line int    `json:"line"`
}

// BodyGraph is a Human Design chart.
type BodyGraph struct {
	Centres     map[string]CentreState `json:"centres"`
	Activations []GateActivation       `json:"activations"`
	Type        string                 `json:"type"`
	Authority   string                 `json:"authority"`
}

// GeneKeySphere is one sphere of a hologenetic profile.
type GeneKeySphere struct {
	Name    string `json:"name"`
	GeneKey int    `json:"geneKey"`
	Line    int    `json:"line"`
}

// GeneKeysProfile is the activation sequence of a profile.
type GeneKeysProfile struct {
	Spheres []GeneKeySphere `json:"spheres"`
}

// QMDJArrangement is the yin or yang dun.
type QMDJArrangement string

// Arrangements.
const (
	ArrangementYang QMDJArrangement = "yang"
	ArrangementYin  QMDJArrangement = "yin"
)

// QMDJInput selects the instant and school for a board.
type QMDJInput struct {
	DateTime    time.Time
	Zone        string
	Arrangement QMDJArrangement
	School      string
}

// QMDJCell is one palace of a Qi Men board.
type QMDJCell struct {
	Palace string `json:"palace"`
	Star   string `json:"star"`
	Door   string `json:"door"`
	Deity  string `json:"deity"`
}

// QMDJBoard is a 3x3 Lo Shu board flattened to nine cells.
type QMDJBoard struct {
	Variant string     `json:"variant"`
	Chart   []QMDJCell `json:"chart"`
}

// SexagenaryStemBranch is one stem/branch pair.
type SexagenaryStemBranch struct {
	Stem   string `json:"stem"`
	Branch string `json:"branch"`
}

// BaZiPillar is one of the four pillars.
type BaZiPillar struct {
	Pillar        string   `json:"pillar"`
	HeavenlyStem  string   `json:"heavenlyStem"`
	EarthlyBranch string   `json:"earthlyBranch"`
	HiddenStems   []string `json:"hiddenStems"`
}

// LuckPillar is one decade luck cycle.
type LuckPillar struct {
	Index         int        `json:"index"`
	StartingAge   int        `json:"startingAge"`
	Pillar        BaZiPillar `json:"pillar"`
	DurationYears int        `json:"durationYears"`
}

// ZWDSPalaceReading is one palace of a Zi Wei Dou Shu chart.
type ZWDSPalaceReading struct {
	Palace string   `json:"palace"`
	Stars  []string `json:"stars"`
	Notes  string   `json:"notes,omitempty"`
}
