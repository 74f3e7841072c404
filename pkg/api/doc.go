// Package api defines the result types returned by the search and fetch
// tools and the error taxonomy shared across the server.
//
// SearchResult and FetchResult are the normalized output shapes expected
// by deep-research MCP clients. APIError categorizes failures into
// configuration errors (fatal at startup), vendor errors (reported to the
// caller as tool errors), and timeouts (a distinct condition so callers
// can tell a slow vendor from a broken one).
//
// This package depends only on the Go standard library.
package api
