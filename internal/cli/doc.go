// Package cli implements the command-line interface for npb-mcp.
//
// The cli package provides the Cobra-based CLI: "serve" runs the MCP server
// over stdio or streamable HTTP, while "teams", "roster", "player" and
// "search" run the same queries once and print text or JSON. Configuration
// comes from NPB_* environment variables, with flags taking precedence.
package cli
