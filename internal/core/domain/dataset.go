package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"time"
)

// Provenance records who computed a row, when, and with what configuration.
type Provenance struct {
	Provider  ProviderKey    `json:"provider"`
	Timestamp string         `json:"timestamp"`
	Config    map[string]any `json:"config"`
}

// Clone returns a copy with its own config map.
func (p Provenance) Clone() Provenance {
	out := p
	out.Config = maps.Clone(p.Config)
	if out.Config == nil {
		out.Config = map[string]any{}
	}
	return out
}

// Note renders the provenance as a notes token. Config keys are sorted
// by encoding/json, so the token is stable for equal configs.
func (p Provenance) Note() string {
	cfg := p.Config
	if cfg == nil {
		cfg = map[string]any{}
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		raw = []byte("{}")
	}
	return fmt.Sprintf("provenance:timestamp=%s;provider=%s;config=%s", p.Timestamp, p.Provider, raw)
}

// DatasetRecord is one appended row with its provenance.
type DatasetRecord struct {
	Seq        int64      `json:"seq"`
	Row        DatasetRow `json:"row"`
	Provenance Provenance `json:"provenance"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Clone returns a deep copy.
func (r *DatasetRecord) Clone() DatasetRecord {
	out := *r
	out.Row = r.Row.Clone()
	out.Provenance = r.Provenance.Clone()
	return out
}

// RowFilter narrows a row listing. Zero values disable each criterion.
type RowFilter struct {
	Systems       []System
	Categories    []Category
	Text          string
	Polarity      Polarity
	MinConfidence float64
	MaxConfidence float64
	MinStrength   int
	MaxStrength   int
	// TimeStart and TimeEnd bound a range that a row's window must overlap.
	TimeStart     *time.Time
	TimeEnd       *time.Time
	ConflictsOnly bool
	HideUnknown   bool
}

// DefaultRowFilter accepts every row.
func DefaultRowFilter() RowFilter {
	return RowFilter{MinConfidence: 0, MaxConfidence: 1, MinStrength: -2, MaxStrength: 2}
}

// Match reports whether the row passes every enabled criterion.
func (f RowFilter) Match(r *DatasetRow) bool {
	if len(f.Systems) > 0 && !containsValue(f.Systems, r.System) {
		return false
	}
	if len(f.Categories) > 0 && !containsValue(f.Categories, r.Category) {
		return false
	}
	if text := strings.TrimSpace(f.Text); text != "" {
		hay := strings.ToLower(r.Subsystem + " " + r.DataPoint)
		if !strings.Contains(hay, strings.ToLower(text)) {
			return false
		}
	}
	if f.Polarity != "" && r.Polarity != f.Polarity {
		return false
	}
	if f.MaxConfidence > 0 && (r.Confidence < f.MinConfidence || r.Confidence > f.MaxConfidence) {
		return false
	}
	if (f.MinStrength != 0 || f.MaxStrength != 0) && (r.Strength < f.MinStrength || r.Strength > f.MaxStrength) {
		return false
	}
	if f.TimeStart != nil || f.TimeEnd != nil {
		w, err := r.Window()
		if err != nil || w == nil {
			return false
		}
		lo, hi := w.Start, w.End
		if f.TimeStart != nil {
			lo = *f.TimeStart
		}
		if f.TimeEnd != nil {
			hi = *f.TimeEnd
		}
		if w.End.Before(lo) || w.Start.After(hi) {
			return false
		}
	}
	if f.ConflictsOnly && r.ConflictSetID == "" {
		return false
	}
	if f.HideUnknown && r.IsUnknown() {
		return false
	}
	return true
}

func containsValue[T comparable](values []T, v T) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// DatasetStats summarises a set of rows.
type DatasetStats struct {
	TotalRows               int     `json:"total_rows"`
	SystemCount             int     `json:"system_count"`
	UnknownShare            float64 `json:"unknown_share"`
	ConflictCount           int     `json:"conflict_count"`
	StrengthWeightedAverage float64 `json:"strength_weighted_average"`
}

// NormaliseReport summarises one normalisation run.
type NormaliseReport struct {
	Input        int `json:"input"`
	Output       int `json:"output"`
	Merged       int `json:"merged"`
	ConflictSets int `json:"conflict_sets"`
	Conflicting  int `json:"conflicting"`
}
