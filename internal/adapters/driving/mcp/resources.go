package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for almanac resources.
	uriScheme = "almanac://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for provider status.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "providers",
		Name:        "providers",
		Description: "Calculator roles and their registration status",
		MIMEType:    "application/json",
	}, s.handleProvidersResource)

	// Static resource for dataset statistics.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "dataset/stats",
		Name:        "dataset-stats",
		Description: "Summary statistics of the stored dataset",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	// Template for rows of one system.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "dataset/systems/{system}",
		Name:        "system-rows",
		Description: "Stored dataset rows of a single system, e.g. WA or HD",
		MIMEType:    "application/json",
	}, s.handleSystemRowsResource)
}

// handleProvidersResource returns the registry status.
func (s *Server) handleProvidersResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.ports.Registry.ListStatus())
}

// handleStatsResource returns statistics over every stored row.
func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Dataset == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	stats, err := s.ports.Dataset.Stats(ctx, domain.DefaultRowFilter())
	if err != nil {
		return nil, fmt.Errorf("computing stats: %w", err)
	}
	return jsonResource(req.Params.URI, stats)
}

// handleSystemRowsResource returns the stored rows of one system.
func (s *Server) handleSystemRowsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Dataset == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract system from URI: almanac://dataset/systems/{system}
	system := domain.System(extractSystem(req.Params.URI))
	if !system.IsValid() {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	filter := domain.DefaultRowFilter()
	filter.Systems = []domain.System{system}
	rows, err := s.ports.Dataset.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing rows: %w", err)
	}
	if rows == nil {
		rows = []domain.DatasetRow{}
	}
	return jsonResource(req.Params.URI, rows)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSystem extracts the system from a URI like almanac://dataset/systems/{system}.
func extractSystem(uri string) string {
	const prefix = uriScheme + "dataset/systems/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
