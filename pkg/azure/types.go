package azure

// Run statuses reported by the Assistants API.
const (
	RunStatusQueued         = "queued"
	RunStatusInProgress     = "in_progress"
	RunStatusRequiresAction = "requires_action"
	RunStatusCancelling     = "cancelling"
	RunStatusCancelled      = "cancelled"
	RunStatusFailed         = "failed"
	RunStatusCompleted      = "completed"
	RunStatusIncomplete     = "incomplete"
	RunStatusExpired        = "expired"
)

// TerminalRunStatus reports whether a run status will no longer change.
// requires_action counts as terminal here: this server registers no
// client-executed tools, so a run asking for one can never progress.
func TerminalRunStatus(status string) bool {
	switch status {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled,
		RunStatusExpired, RunStatusIncomplete, RunStatusRequiresAction:
		return true
	}
	return false
}

// Tool declares a hosted tool on an assistant. The only type used by this
// server is "file_search".
type Tool struct {
	Type string `json:"type"`
}

// ToolResources binds hosted tool state to an assistant.
type ToolResources struct {
	FileSearch *FileSearchResources `json:"file_search,omitempty"`
}

// FileSearchResources names the vector stores the file_search tool may use.
type FileSearchResources struct {
	VectorStoreIDs []string `json:"vector_store_ids"`
}

// CreateAssistantRequest is the body for assistant creation.
type CreateAssistantRequest struct {
	Model         string         `json:"model"`
	Name          string         `json:"name,omitempty"`
	Instructions  string         `json:"instructions,omitempty"`
	Tools         []Tool         `json:"tools,omitempty"`
	ToolResources *ToolResources `json:"tool_resources,omitempty"`
}

// Assistant is a vendor-hosted agent instance.
type Assistant struct {
	ID     string `json:"id"`
	Object string `json:"object"`
	Name   string `json:"name"`
	Model  string `json:"model"`
}

// Thread is a vendor-hosted conversation.
type Thread struct {
	ID     string `json:"id"`
	Object string `json:"object"`
}

// CreateMessageRequest is the body for posting a message to a thread.
type CreateMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message is one entry in a thread. Assistant replies carry one or more
// content blocks; only text blocks are meaningful to this server.
type Message struct {
	ID      string           `json:"id"`
	Object  string           `json:"object"`
	Role    string           `json:"role"`
	RunID   string           `json:"run_id,omitempty"`
	Content []MessageContent `json:"content"`
}

// MessageContent is a single content block of a message.
type MessageContent struct {
	Type string       `json:"type"`
	Text *MessageText `json:"text,omitempty"`
}

// MessageText is the text payload of a content block, including any
// citation annotations embedded by the file_search tool.
type MessageText struct {
	Value       string       `json:"value"`
	Annotations []Annotation `json:"annotations"`
}

// Annotation is a structured reference embedded in message text. For
// file_search citations, Type is "file_citation", Text is the inline
// marker (e.g. "【4:0†source】"), and the index range locates the cited
// passage within the message text.
type Annotation struct {
	Type         string        `json:"type"`
	Text         string        `json:"text"`
	StartIndex   int           `json:"start_index"`
	EndIndex     int           `json:"end_index"`
	FileCitation *FileCitation `json:"file_citation,omitempty"`
}

// FileCitation points at the source document of a citation annotation.
// Quote carries the cited passage on API versions that still populate it.
type FileCitation struct {
	FileID string `json:"file_id"`
	Quote  string `json:"quote,omitempty"`
}

// CreateRunRequest is the body for starting a run on a thread.
type CreateRunRequest struct {
	AssistantID string `json:"assistant_id"`
}

// Run is one vendor-side execution of an assistant against a thread.
type Run struct {
	ID        string    `json:"id"`
	Object    string    `json:"object"`
	Status    string    `json:"status"`
	LastError *RunError `json:"last_error,omitempty"`
}

// RunError describes why a run reached the failed status.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// File is the metadata record of an uploaded document.
type File struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	Filename  string `json:"filename"`
	Bytes     int64  `json:"bytes"`
	CreatedAt int64  `json:"created_at"`
}

// ListMessagesOptions narrows a message listing.
type ListMessagesOptions struct {
	// RunID restricts the listing to messages produced by one run.
	RunID string

	// Order is "asc" or "desc" by creation time. Empty means the vendor
	// default (desc).
	Order string

	// Limit caps the number of returned messages. Zero means the vendor
	// default.
	Limit int
}

// messageList is the wire envelope for message listings.
type messageList struct {
	Object string    `json:"object"`
	Data   []Message `json:"data"`
}

// deletion is the wire envelope for delete confirmations.
type deletion struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// errorResponse is the vendor's error envelope.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
