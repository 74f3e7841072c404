// Package azure provides a typed HTTP client for the subset of the Azure
// OpenAI Assistants API that the research adapters need: transient
// assistants, threads, messages, runs, message listing with citation
// annotations, and file metadata lookup.
//
// Requests are addressed as {endpoint}/openai/{path}?api-version={v} and
// authenticated with the api-key header. Non-2xx responses are mapped onto
// the pkg/api error taxonomy, with the vendor's own error message preserved
// where the body carries one.
//
// The client is stateless and safe for concurrent use. All remote
// resources it creates are owned by the caller, which is responsible for
// deleting them.
package azure
