// Package research implements the search and fetch adapters backing the
// MCP tools of the same names.
//
// Each adapter invocation is independent and stateless: it creates a
// transient assistant and thread on the vendor side, runs a single
// bounded-poll retrieval against the configured vector store, normalizes
// the response, and deletes the transient resources on every exit path.
// No state is shared between invocations, so adapters may run
// concurrently without coordination.
//
// The vendor is reached through the VendorClient interface so adapters
// can be tested against a mock without network access.
package research
