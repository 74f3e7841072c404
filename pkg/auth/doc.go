// Package auth provides pluggable authentication for the MCP endpoint.
//
// Authentication uses a chain-of-responsibility pattern with three-outcome
// voting: each authenticator returns Yes (identity found), No (credentials
// invalid), or Abstain (can't handle). A configurable default voter decides
// when all authenticators abstain.
//
// Auth is implemented as HTTP middleware in front of the MCP handler,
// keeping it decoupled from tool logic. Health and metrics endpoints are
// served outside the middleware and never require credentials.
package auth
