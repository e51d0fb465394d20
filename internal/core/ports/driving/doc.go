// Package driving defines the ports the CLI and the MCP server call into:
// chart computation, calculator roles, row normalisation, the dataset,
// provider status and per-system weights.
//
// Implementations live in internal/core/services.
package driving
