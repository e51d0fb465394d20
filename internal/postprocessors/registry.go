package postprocessors

import (
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/almanac/internal/core/ports/driven"
)

// BuilderFunc creates a pass from its settings, e.g. the [weights] table.
type BuilderFunc func(cfg map[string]any) (driven.RowProcessor, error)

// Registry maps pass names to builders so a pipeline can be described
// by an ordered list of names.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]BuilderFunc)}
}

// Register binds name to builder, replacing any earlier binding.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates the pass registered under name.
func (r *Registry) Build(name string, cfg map[string]any) (driven.RowProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown processor %q (known: %s)", name, strings.Join(r.Names(), ", "))
	}
	return builder(cfg)
}

// BuildPipeline builds the named passes in order. A pass may appear only
// once; merging twice would fold already-merged representatives again.
func (r *Registry) BuildPipeline(names []string, configs map[string]map[string]any) (*Pipeline, error) {
	p := NewPipeline()
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("processor %q listed twice", name)
		}
		seen[name] = true
		proc, err := r.Build(name, configs[name])
		if err != nil {
			return nil, err
		}
		p.Add(proc)
	}
	return p, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
