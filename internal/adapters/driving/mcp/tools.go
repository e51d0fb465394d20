package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

// ChartInput is the input schema for the compute_chart tool.
type ChartInput struct {
	Date        string  `json:"date" jsonschema:"civil birth date, YYYY-MM-DD"`
	Time        string  `json:"time,omitempty" jsonschema:"local wall-clock time, HH:MM or HH:MM:SS (default 12:00)"`
	Timezone    string  `json:"timezone" jsonschema:"IANA timezone of the birth place, e.g. Europe/London"`
	Latitude    float64 `json:"latitude" jsonschema:"latitude in degrees, north positive"`
	Longitude   float64 `json:"longitude" jsonschema:"longitude in degrees, east positive"`
	Zodiac      string  `json:"zodiac,omitempty" jsonschema:"tropical (default) or sidereal"`
	HouseSystem string  `json:"house_system,omitempty" jsonschema:"single-letter house system code (default P)"`
	Ayanamsa    string  `json:"ayanamsa,omitempty" jsonschema:"ayanamsa for the sidereal zodiac (default lahiri)"`
	Rows        bool    `json:"rows,omitempty" jsonschema:"return dataset rows instead of raw positions"`
	PersonID    string  `json:"person_id,omitempty" jsonschema:"person id stamped on rows"`
}

// Query converts the input to a birth query.
func (in ChartInput) Query() domain.BirthQuery {
	return domain.BirthQuery{
		Date:        in.Date,
		Time:        in.Time,
		Timezone:    in.Timezone,
		Coordinates: domain.Coordinates{Latitude: in.Latitude, Longitude: in.Longitude},
		Options: domain.EphemerisOptions{
			Zodiac:      domain.ZodiacType(strings.ToLower(strings.TrimSpace(in.Zodiac))),
			HouseSystem: strings.ToUpper(strings.TrimSpace(in.HouseSystem)),
			Ayanamsa:    in.Ayanamsa,
		},
	}
}

// ChartOutput is the output schema for the compute_chart tool.
// Exactly one of Chart or Rows is set.
type ChartOutput struct {
	Chart *domain.EphemerisResult `json:"chart,omitempty"`
	Rows  []domain.DatasetRow     `json:"rows,omitempty"`
}

// NormaliseInput is the input schema for the normalise_rows tool.
type NormaliseInput struct {
	Rows []domain.DatasetRow `json:"rows" jsonschema:"dataset rows to deduplicate and check for conflicts"`
}

// NormaliseOutput is the output schema for the normalise_rows tool.
type NormaliseOutput struct {
	Rows   []domain.DatasetRow    `json:"rows"`
	Report domain.NormaliseReport `json:"report"`
}

// ProviderStatusInput is the empty input of the provider_status tool.
type ProviderStatusInput struct{}

// ProviderStatusOutput is the output schema for the provider_status tool.
type ProviderStatusOutput struct {
	Providers []domain.ProviderStatus `json:"providers"`
	Missing   int                     `json:"missing"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compute_chart",
		Description: "Compute planetary positions, houses and angles for a birth moment, or the equivalent dataset rows",
	}, s.handleComputeChart)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "normalise_rows",
		Description: "Validate dataset rows, merge duplicates with overlapping timing windows and flag polarity conflicts",
	}, s.handleNormaliseRows)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "provider_status",
		Description: "List calculator roles, whether each is registered, and how to enable missing ones",
	}, s.handleProviderStatus)
}

// handleComputeChart handles the compute_chart tool invocation.
func (s *Server) handleComputeChart(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChartInput,
) (*mcp.CallToolResult, ChartOutput, error) {
	q := input.Query()
	if input.Rows {
		rows, err := s.ports.Chart.Rows(ctx, input.PersonID, q)
		if err != nil {
			return nil, ChartOutput{}, err
		}
		return nil, ChartOutput{Rows: rows}, nil
	}

	result, err := s.ports.Chart.Compute(ctx, q)
	if err != nil {
		return nil, ChartOutput{}, err
	}
	return nil, ChartOutput{Chart: result}, nil
}

// handleNormaliseRows handles the normalise_rows tool invocation.
func (s *Server) handleNormaliseRows(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input NormaliseInput,
) (*mcp.CallToolResult, NormaliseOutput, error) {
	if s.ports.Normalise == nil {
		return nil, NormaliseOutput{}, errors.New("normalise service not configured")
	}
	rows, report, err := s.ports.Normalise.Normalise(ctx, input.Rows)
	if err != nil {
		return nil, NormaliseOutput{}, err
	}
	if rows == nil {
		rows = []domain.DatasetRow{}
	}
	return nil, NormaliseOutput{Rows: rows, Report: report}, nil
}

// handleProviderStatus handles the provider_status tool invocation.
func (s *Server) handleProviderStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ProviderStatusInput,
) (*mcp.CallToolResult, ProviderStatusOutput, error) {
	statuses := s.ports.Registry.ListStatus()
	out := ProviderStatusOutput{Providers: statuses}
	for _, st := range statuses {
		if !st.Registered {
			out.Missing++
		}
	}
	return nil, out, nil
}
