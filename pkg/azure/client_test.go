package azure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/api"
)

// newTestClient creates a Client pointed at the given test server.
func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(Config{
		Endpoint:   srv.URL,
		APIKey:     "test-key",
		APIVersion: "2024-05-01-preview",
	})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return c
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing endpoint", Config{APIKey: "k", APIVersion: "v"}},
		{"missing api key", Config{Endpoint: "https://x", APIVersion: "v"}},
		{"missing api version", Config{Endpoint: "https://x", APIKey: "k"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(tt.cfg); err == nil {
				t.Error("NewClient() = nil error, want config error")
			}
		})
	}
}

func TestCreateAssistantRequestWire(t *testing.T) {
	var gotPath, gotAPIKey, gotVersion, gotBeta string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("api-key")
		gotBeta = r.Header.Get("OpenAI-Beta")
		gotVersion = r.URL.Query().Get("api-version")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(Assistant{ID: "asst_123", Object: "assistant"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	asst, err := c.CreateAssistant(context.Background(), CreateAssistantRequest{
		Model:        "gpt-4o",
		Name:         "Research Assistant",
		Instructions: "search the knowledge base",
		Tools:        []Tool{{Type: "file_search"}},
		ToolResources: &ToolResources{
			FileSearch: &FileSearchResources{VectorStoreIDs: []string{"vs_abc"}},
		},
	})
	if err != nil {
		t.Fatalf("CreateAssistant() error: %v", err)
	}

	if asst.ID != "asst_123" {
		t.Errorf("assistant ID = %q, want asst_123", asst.ID)
	}
	if gotPath != "/openai/assistants" {
		t.Errorf("path = %q, want /openai/assistants", gotPath)
	}
	if gotAPIKey != "test-key" {
		t.Errorf("api-key header = %q, want test-key", gotAPIKey)
	}
	if gotVersion != "2024-05-01-preview" {
		t.Errorf("api-version = %q", gotVersion)
	}
	if gotBeta != "assistants=v2" {
		t.Errorf("OpenAI-Beta header = %q, want assistants=v2", gotBeta)
	}
	if gotBody["model"] != "gpt-4o" {
		t.Errorf("body model = %v, want gpt-4o", gotBody["model"])
	}
	tools, ok := gotBody["tools"].([]any)
	if !ok || len(tools) != 1 {
		t.Fatalf("body tools = %v, want one entry", gotBody["tools"])
	}
	if tool := tools[0].(map[string]any); tool["type"] != "file_search" {
		t.Errorf("tool type = %v, want file_search", tool["type"])
	}
}

func TestDeleteAssistant(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"id": "asst_123", "deleted": true})
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	if err := c.DeleteAssistant(context.Background(), "asst_123"); err != nil {
		t.Fatalf("DeleteAssistant() error: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", gotMethod)
	}
	if gotPath != "/openai/assistants/asst_123" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestThreadLifecycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/openai/threads":
			json.NewEncoder(w).Encode(Thread{ID: "thread_1", Object: "thread"})
		case r.Method == http.MethodDelete && r.URL.Path == "/openai/threads/thread_1":
			json.NewEncoder(w).Encode(map[string]any{"id": "thread_1", "deleted": true})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	thread, err := c.CreateThread(context.Background())
	if err != nil {
		t.Fatalf("CreateThread() error: %v", err)
	}
	if thread.ID != "thread_1" {
		t.Errorf("thread ID = %q", thread.ID)
	}
	if err := c.DeleteThread(context.Background(), thread.ID); err != nil {
		t.Fatalf("DeleteThread() error: %v", err)
	}
}

func TestListMessagesQuery(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data": []Message{
				{ID: "msg_1", Role: "assistant"},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	msgs, err := c.ListMessages(context.Background(), "thread_1", ListMessagesOptions{
		RunID: "run_1",
		Order: "desc",
		Limit: 5,
	})
	if err != nil {
		t.Fatalf("ListMessages() error: %v", err)
	}
	if len(msgs) != 1 || msgs[0].ID != "msg_1" {
		t.Errorf("messages = %+v", msgs)
	}
	if got := gotQuery["run_id"]; len(got) != 1 || got[0] != "run_1" {
		t.Errorf("run_id query = %v", got)
	}
	if got := gotQuery["order"]; len(got) != 1 || got[0] != "desc" {
		t.Errorf("order query = %v", got)
	}
	if got := gotQuery["limit"]; len(got) != 1 || got[0] != "5" {
		t.Errorf("limit query = %v", got)
	}
}

func TestGetFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openai/files/file-123" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(File{ID: "file-123", Filename: "Refund Policy.pdf"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	file, err := c.GetFile(context.Background(), "file-123")
	if err != nil {
		t.Fatalf("GetFile() error: %v", err)
	}
	if file.Filename != "Refund Policy.pdf" {
		t.Errorf("filename = %q", file.Filename)
	}
}

func TestVendorErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType api.ErrorType
		wantMsg  string
	}{
		{
			"unauthorized with message",
			http.StatusUnauthorized,
			`{"error":{"code":"401","message":"Access denied due to invalid subscription key"}}`,
			api.ErrorTypeVendor,
			"Access denied due to invalid subscription key",
		},
		{
			"rate limited",
			http.StatusTooManyRequests,
			`{"error":{"code":"429","message":"Requests exceeded the rate limit"}}`,
			api.ErrorTypeTooManyRequests,
			"Requests exceeded the rate limit",
		},
		{
			"not found without body",
			http.StatusNotFound,
			``,
			api.ErrorTypeNotFound,
			"Azure OpenAI resource not found",
		},
		{
			"server error",
			http.StatusInternalServerError,
			`not json`,
			api.ErrorTypeVendor,
			"Azure OpenAI server error (HTTP 500)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(t, srv)
			_, err := c.GetRun(context.Background(), "thread_1", "run_1")
			if err == nil {
				t.Fatal("GetRun() = nil error, want vendor error")
			}
			apiErr, ok := err.(*api.APIError)
			if !ok {
				t.Fatalf("error type = %T, want *api.APIError", err)
			}
			if apiErr.Type != tt.wantType {
				t.Errorf("error type = %q, want %q", apiErr.Type, tt.wantType)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("error message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestNetworkErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately, so the dial fails

	c, err := NewClient(Config{
		Endpoint:   srv.URL,
		APIKey:     "test-key",
		APIVersion: "2024-05-01-preview",
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.CreateThread(context.Background())
	if err == nil {
		t.Fatal("CreateThread() = nil error, want network error")
	}
	apiErr, ok := err.(*api.APIError)
	if !ok {
		t.Fatalf("error type = %T, want *api.APIError", err)
	}
	if apiErr.Type != api.ErrorTypeVendor {
		t.Errorf("error type = %q, want vendor_error", apiErr.Type)
	}
}

func TestTerminalRunStatus(t *testing.T) {
	terminal := []string{
		RunStatusCompleted, RunStatusFailed, RunStatusCancelled,
		RunStatusExpired, RunStatusIncomplete, RunStatusRequiresAction,
	}
	for _, s := range terminal {
		if !TerminalRunStatus(s) {
			t.Errorf("TerminalRunStatus(%q) = false, want true", s)
		}
	}

	nonTerminal := []string{RunStatusQueued, RunStatusInProgress, RunStatusCancelling}
	for _, s := range nonTerminal {
		if TerminalRunStatus(s) {
			t.Errorf("TerminalRunStatus(%q) = true, want false", s)
		}
	}
}
