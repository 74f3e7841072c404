package api

// SearchResult is one entry returned by the search tool. Results are
// ordered by vendor-reported relevance; one entry is produced per
// citation in the vendor response.
type SearchResult struct {
	// ID is the vendor file identifier of the cited document.
	ID string `json:"id"`

	// Title is the document title, typically the uploaded filename.
	Title string `json:"title"`

	// Text is a short snippet from the cited passage.
	Text string `json:"text"`

	// URL is an optional link to the source document. Null when the
	// vendor collection has no addressable location for the file.
	URL *string `json:"url"`
}

// SearchResponse wraps the result list in the envelope deep-research
// clients expect.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// FetchResult is the full document returned by the fetch tool.
type FetchResult struct {
	// ID echoes the requested document identifier.
	ID string `json:"id"`

	// Title is the document title, typically the uploaded filename.
	Title string `json:"title"`

	// Text is the full document content as extracted by the vendor.
	Text string `json:"text"`

	// URL is an optional link to the source document.
	URL *string `json:"url"`

	// Metadata carries vendor bookkeeping for the retrieval (run
	// status, transient resource identifiers).
	Metadata map[string]string `json:"metadata,omitempty"`
}
