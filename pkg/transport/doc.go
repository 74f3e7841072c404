// Package transport exposes the research adapters as MCP tools over
// streamable HTTP.
//
// Server registers the search and fetch tools on an MCP server and
// serves them at /mcp, alongside health and metrics endpoints. Tool
// invocations flow through a middleware chain (recovery, request ID,
// logging, metrics) before reaching the adapters; adapter errors are
// reported as tool errors in the MCP result, never as protocol errors.
package transport
