package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/api"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/debug"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/observability"
)

// Config holds the connection settings for an Azure OpenAI resource.
type Config struct {
	// Endpoint is the resource URL, e.g. https://my-resource.openai.azure.com.
	Endpoint string

	// APIKey authenticates requests via the api-key header.
	APIKey string

	// APIVersion is the api-version query parameter sent on every request.
	APIVersion string

	// Timeout bounds each individual HTTP request. Defaults to 60s.
	Timeout time.Duration
}

// Client performs HTTP requests against the Azure OpenAI Assistants API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	apiVersion string
}

// NewClient creates a Client for the given Azure OpenAI resource.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, api.NewConfigError("endpoint", "endpoint is required")
	}
	if cfg.APIKey == "" {
		return nil, api.NewConfigError("api_key", "API key is required")
	}
	if cfg.APIVersion == "" {
		return nil, api.NewConfigError("api_version", "API version is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		apiVersion: cfg.APIVersion,
	}, nil
}

// CreateAssistant creates a transient assistant.
func (c *Client) CreateAssistant(ctx context.Context, req CreateAssistantRequest) (*Assistant, error) {
	var out Assistant
	if err := c.do(ctx, "create_assistant", http.MethodPost, "assistants", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAssistant deletes an assistant by ID.
func (c *Client) DeleteAssistant(ctx context.Context, assistantID string) error {
	var out deletion
	return c.do(ctx, "delete_assistant", http.MethodDelete, "assistants/"+assistantID, nil, nil, &out)
}

// CreateThread creates an empty conversation thread.
func (c *Client) CreateThread(ctx context.Context) (*Thread, error) {
	var out Thread
	if err := c.do(ctx, "create_thread", http.MethodPost, "threads", nil, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteThread deletes a thread by ID.
func (c *Client) DeleteThread(ctx context.Context, threadID string) error {
	var out deletion
	return c.do(ctx, "delete_thread", http.MethodDelete, "threads/"+threadID, nil, nil, &out)
}

// CreateMessage appends a message to a thread.
func (c *Client) CreateMessage(ctx context.Context, threadID string, req CreateMessageRequest) (*Message, error) {
	var out Message
	if err := c.do(ctx, "create_message", http.MethodPost, "threads/"+threadID+"/messages", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRun starts an assistant run on a thread.
func (c *Client) CreateRun(ctx context.Context, threadID string, req CreateRunRequest) (*Run, error) {
	var out Run
	if err := c.do(ctx, "create_run", http.MethodPost, "threads/"+threadID+"/runs", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRun retrieves the current state of a run.
func (c *Client) GetRun(ctx context.Context, threadID, runID string) (*Run, error) {
	var out Run
	if err := c.do(ctx, "get_run", http.MethodGet, "threads/"+threadID+"/runs/"+runID, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMessages lists messages on a thread, newest first by default.
func (c *Client) ListMessages(ctx context.Context, threadID string, opts ListMessagesOptions) ([]Message, error) {
	query := url.Values{}
	if opts.RunID != "" {
		query.Set("run_id", opts.RunID)
	}
	if opts.Order != "" {
		query.Set("order", opts.Order)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	var out messageList
	if err := c.do(ctx, "list_messages", http.MethodGet, "threads/"+threadID+"/messages", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetFile retrieves metadata for an uploaded file, used to resolve
// citation file IDs to document titles.
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	var out File
	if err := c.do(ctx, "get_file", http.MethodGet, "files/"+fileID, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// do performs a single JSON request against {endpoint}/openai/{path} and
// decodes the response into out. operation labels the request in metrics
// and debug logs.
func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api-version", c.apiVersion)
	reqURL := c.endpoint + "/openai/" + path + "?" + query.Encode()

	var reqBody []byte
	if body != nil {
		var err error
		reqBody, err = json.Marshal(body)
		if err != nil {
			return api.NewVendorError(fmt.Sprintf("marshaling %s request: %s", operation, err.Error()))
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, reqURL, bytes.NewReader(reqBody))
	if err != nil {
		return api.NewVendorError(fmt.Sprintf("creating %s request: %s", operation, err.Error()))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", c.apiKey)
	httpReq.Header.Set("OpenAI-Beta", "assistants=v2")

	debug.Log("azure", "vendor request", "operation", operation, "method", method, "path", path)
	if debug.TraceIsEnabled("azure") && len(reqBody) > 0 {
		debug.Raw("azure", string(reqBody))
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observability.VendorRequestsTotal.WithLabelValues(operation, "error").Inc()
		return MapNetworkError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		observability.VendorRequestsTotal.WithLabelValues(operation, "error").Inc()
		return MapHTTPError(httpResp)
	}

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		observability.VendorRequestsTotal.WithLabelValues(operation, "error").Inc()
		return api.NewVendorError(fmt.Sprintf("parsing %s response: %s", operation, err.Error()))
	}

	observability.VendorRequestsTotal.WithLabelValues(operation, "success").Inc()
	return nil
}
