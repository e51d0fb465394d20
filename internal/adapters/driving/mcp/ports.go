package mcp

import (
	"github.com/custodia-labs/almanac/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chart computes ephemeris charts and chart rows.
	Chart driving.ChartService

	// Registry reports calculator role status.
	Registry driving.ProviderRegistry

	// Normalise dedupes rows and flags conflicts.
	Normalise driving.NormaliseService

	// Dataset exposes stored rows as resources.
	Dataset driving.DatasetService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Chart == nil {
		return ErrMissingChartService
	}
	if p.Registry == nil {
		return ErrMissingRegistry
	}
	// Normalise and Dataset are optional; their tools and resources
	// report an error when missing.
	return nil
}
