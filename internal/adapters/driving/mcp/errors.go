// Package mcp provides an MCP (Model Context Protocol) server adapter for almanac.
// It lets AI assistants compute charts, normalise dataset rows and inspect
// which calculator roles are registered.
package mcp

import "errors"

// ErrMissingChartService is returned when the chart service is not provided.
var ErrMissingChartService = errors.New("mcp: chart service is required")

// ErrMissingRegistry is returned when the provider registry is not provided.
var ErrMissingRegistry = errors.New("mcp: provider registry is required")
