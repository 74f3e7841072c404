package research

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/api"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/azure"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/debug"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/observability"
)

// VendorClient is the subset of the Azure OpenAI Assistants API the
// adapters use. *azure.Client implements it; tests substitute a mock.
type VendorClient interface {
	CreateAssistant(ctx context.Context, req azure.CreateAssistantRequest) (*azure.Assistant, error)
	DeleteAssistant(ctx context.Context, assistantID string) error
	CreateThread(ctx context.Context) (*azure.Thread, error)
	DeleteThread(ctx context.Context, threadID string) error
	CreateMessage(ctx context.Context, threadID string, req azure.CreateMessageRequest) (*azure.Message, error)
	CreateRun(ctx context.Context, threadID string, req azure.CreateRunRequest) (*azure.Run, error)
	GetRun(ctx context.Context, threadID, runID string) (*azure.Run, error)
	ListMessages(ctx context.Context, threadID string, opts azure.ListMessagesOptions) ([]azure.Message, error)
	GetFile(ctx context.Context, fileID string) (*azure.File, error)
}

// Options holds per-service tuning. Deployment and VectorStoreID are
// required; the rest default sensibly.
type Options struct {
	// Deployment is the Azure OpenAI model deployment name used for
	// transient assistants.
	Deployment string

	// VectorStoreID identifies the pre-provisioned document collection.
	VectorStoreID string

	// PollInterval is the delay between run status checks. Default: 1s.
	PollInterval time.Duration

	// PollTimeout bounds the total wall-clock wait for a run to reach a
	// terminal status. Default: 120s.
	PollTimeout time.Duration

	// MaxResults caps the number of search results. Default: 10.
	MaxResults int

	// SnippetLength caps snippet text in search results, in runes.
	// Default: 200.
	SnippetLength int
}

// Service implements the search and fetch adapters.
type Service struct {
	client VendorClient
	opts   Options
}

// New creates a Service. Returns a config error if Deployment or
// VectorStoreID is missing.
func New(client VendorClient, opts Options) (*Service, error) {
	if client == nil {
		return nil, api.NewConfigError("client", "vendor client is required")
	}
	if opts.Deployment == "" {
		return nil, api.NewConfigError("deployment", "model deployment name is required")
	}
	if opts.VectorStoreID == "" {
		return nil, api.NewConfigError("vector_store_id", "vector store ID is required")
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 1 * time.Second
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 120 * time.Second
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 10
	}
	if opts.SnippetLength <= 0 {
		opts.SnippetLength = 200
	}

	return &Service{client: client, opts: opts}, nil
}

// session tracks the transient vendor resources of one adapter invocation.
type session struct {
	svc         *Service
	assistantID string
	threadID    string
}

// begin creates the transient assistant and thread for one invocation.
// On any error the partially created resources are already released.
func (s *Service) begin(ctx context.Context, name, instructions string) (*session, error) {
	asst, err := s.client.CreateAssistant(ctx, azure.CreateAssistantRequest{
		Model:        s.opts.Deployment,
		Name:         name,
		Instructions: instructions,
		Tools:        []azure.Tool{{Type: "file_search"}},
		ToolResources: &azure.ToolResources{
			FileSearch: &azure.FileSearchResources{
				VectorStoreIDs: []string{s.opts.VectorStoreID},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	sess := &session{svc: s, assistantID: asst.ID}

	thread, err := s.client.CreateThread(ctx)
	if err != nil {
		sess.release(ctx)
		return nil, err
	}
	sess.threadID = thread.ID

	debug.Log("research", "session started",
		"assistant_id", sess.assistantID, "thread_id", sess.threadID)
	return sess, nil
}

// release deletes the session's remote resources. Cleanup is best-effort:
// failures are logged and counted, never returned, and each resource is
// deleted at most once. The deletion runs on a context detached from the
// caller's so a disconnect or poll timeout does not skip cleanup.
func (sess *session) release(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if sess.threadID != "" {
		if err := sess.svc.client.DeleteThread(cleanupCtx, sess.threadID); err != nil {
			observability.CleanupFailuresTotal.WithLabelValues("thread").Inc()
			slog.Warn("thread cleanup failed", "thread_id", sess.threadID, "error", err)
		}
		sess.threadID = ""
	}
	if sess.assistantID != "" {
		if err := sess.svc.client.DeleteAssistant(cleanupCtx, sess.assistantID); err != nil {
			observability.CleanupFailuresTotal.WithLabelValues("assistant").Inc()
			slog.Warn("assistant cleanup failed", "assistant_id", sess.assistantID, "error", err)
		}
		sess.assistantID = ""
	}
}

// runToCompletion starts a run on the session's thread and polls it until
// it reaches a terminal status or the poll bound is exceeded. tool labels
// the run latency metric.
func (sess *session) runToCompletion(ctx context.Context, tool string) (*azure.Run, error) {
	svc := sess.svc

	run, err := svc.client.CreateRun(ctx, sess.threadID, azure.CreateRunRequest{
		AssistantID: sess.assistantID,
	})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	deadline := start.Add(svc.opts.PollTimeout)

	for !azure.TerminalRunStatus(run.Status) {
		if time.Now().After(deadline) {
			return nil, api.NewTimeoutError(fmt.Sprintf(
				"run %s timed out after %s (last status %q)",
				run.ID, svc.opts.PollTimeout, run.Status))
		}

		select {
		case <-ctx.Done():
			return nil, api.NewVendorError(fmt.Sprintf("run polling cancelled: %s", ctx.Err()))
		case <-time.After(svc.opts.PollInterval):
		}

		run, err = svc.client.GetRun(ctx, sess.threadID, run.ID)
		if err != nil {
			return nil, err
		}
		debug.Log("research", "run polled", "run_id", run.ID, "status", run.Status)
	}

	observability.VendorRunLatency.WithLabelValues(tool).Observe(time.Since(start).Seconds())

	if run.Status != azure.RunStatusCompleted {
		msg := fmt.Sprintf("run %s ended with status %q", run.ID, run.Status)
		if run.LastError != nil && run.LastError.Message != "" {
			msg = fmt.Sprintf("%s: %s", msg, run.LastError.Message)
		}
		return nil, api.NewVendorError(msg)
	}

	return run, nil
}

// assistantReply returns the newest assistant message produced by the
// given run, or nil when the run produced none.
func (sess *session) assistantReply(ctx context.Context, runID string) (*azure.Message, error) {
	msgs, err := sess.svc.client.ListMessages(ctx, sess.threadID, azure.ListMessagesOptions{
		RunID: runID,
		Order: "desc",
		Limit: 10,
	})
	if err != nil {
		return nil, err
	}
	for i := range msgs {
		if msgs[i].Role == "assistant" {
			return &msgs[i], nil
		}
	}
	return nil, nil
}

// fileTitle resolves a citation file ID to the uploaded document's
// filename. Resolution failures fall back to the file ID itself so a
// missing metadata record never fails the whole call. The cache spans one
// adapter invocation only.
func (s *Service) fileTitle(ctx context.Context, cache map[string]string, fileID string) string {
	if title, ok := cache[fileID]; ok {
		return title
	}
	title := fileID
	if file, err := s.client.GetFile(ctx, fileID); err == nil && file.Filename != "" {
		title = file.Filename
	} else if err != nil {
		debug.Log("research", "file title lookup failed", "file_id", fileID, "error", err)
	}
	cache[fileID] = title
	return title
}
