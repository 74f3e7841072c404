package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/api"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/debug"
)

const serverName = "research-mcp"

// ResearchService is the adapter surface the MCP tools delegate to.
// *research.Service implements it; tests substitute a stub.
type ResearchService interface {
	Search(ctx context.Context, query string) ([]api.SearchResult, error)
	Fetch(ctx context.Context, id string) (*api.FetchResult, error)
}

// SearchInput is the argument schema of the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema_description:"Search query to run against the document collection"`
}

// FetchInput is the argument schema of the fetch tool.
type FetchInput struct {
	ID string `json:"id" jsonschema_description:"File ID of the document to retrieve, as returned by search"`
}

// ServerConfig holds configuration for the transport server.
type ServerConfig struct {
	Addr            string
	Version         string
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8000",
		Version:         "dev",
		ShutdownTimeout: 10 * time.Second,
		Logger:          slog.Default(),
	}
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) ServerOption {
	return func(s *Server) { s.config.Addr = addr }
}

// WithVersion sets the version reported in the MCP handshake.
func WithVersion(v string) ServerOption {
	return func(s *Server) { s.config.Version = v }
}

// WithShutdownTimeout sets the graceful shutdown deadline.
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.config.ShutdownTimeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.config.Logger = l; s.logger = l }
}

// WithHTTPMiddleware adds HTTP-level middleware (auth, request metrics)
// applied around the MCP endpoint, outermost first.
func WithHTTPMiddleware(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(s *Server) { s.httpMiddleware = append(s.httpMiddleware, mw...) }
}

// WithMetricsHandler mounts the given handler at /metrics.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *Server) { s.metricsHandler = h }
}

// Server serves the search and fetch tools over MCP streamable HTTP.
type Server struct {
	research       ResearchService
	handler        Handler
	mcpServer      *mcp.Server
	httpServer     *http.Server
	httpMiddleware []func(http.Handler) http.Handler
	metricsHandler http.Handler
	config         ServerConfig
	logger         *slog.Logger
}

// NewServer creates a transport server for the given research service.
// Default middleware (recovery, request ID, logging, metrics) is applied
// to every tool invocation.
func NewServer(svc ResearchService, opts ...ServerOption) *Server {
	s := &Server{
		research: svc,
		config:   DefaultServerConfig(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.handler = Chain(
		Recovery(),
		RequestID(),
		Logging(s.logger),
		Metrics(),
	)(HandlerFunc(s.dispatch))

	s.mcpServer = mcp.NewServer(
		&mcp.Implementation{Name: serverName, Version: s.config.Version},
		nil,
	)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "search",
		Description: "Searches the document collection for passages relevant to the " +
			"query. Returns a list of results with document ID, title, and a text snippet.",
	}, s.handleSearch)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "fetch",
		Description: "Retrieves the full text of a document by its file ID, " +
			"as returned by a prior search.",
	}, s.handleFetch)

	s.httpServer = &http.Server{
		Addr:    s.config.Addr,
		Handler: s.buildMux(),
	}

	return s
}

// dispatch is the innermost handler: it routes the invocation to the
// research adapter named by the tool.
func (s *Server) dispatch(ctx context.Context, inv *Invocation) (any, error) {
	switch inv.Tool {
	case "search":
		in := inv.Args.(SearchInput)
		results, err := s.research.Search(ctx, in.Query)
		if err != nil {
			return nil, err
		}
		return &api.SearchResponse{Results: results}, nil
	case "fetch":
		in := inv.Args.(FetchInput)
		return s.research.Fetch(ctx, in.ID)
	default:
		return nil, api.NewInvalidRequestError("tool", fmt.Sprintf("unknown tool %q", inv.Tool))
	}
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, struct{}, error) {
	return s.invoke(ctx, &Invocation{Tool: "search", Args: in})
}

func (s *Server) handleFetch(ctx context.Context, _ *mcp.CallToolRequest, in FetchInput) (*mcp.CallToolResult, struct{}, error) {
	return s.invoke(ctx, &Invocation{Tool: "fetch", Args: in})
}

// invoke runs the middleware chain and shapes the outcome as an MCP tool
// result. Adapter errors become tool errors (IsError with a message) so
// the calling model can react to them; they are never surfaced as MCP
// protocol errors.
func (s *Server) invoke(ctx context.Context, inv *Invocation) (*mcp.CallToolResult, struct{}, error) {
	result, err := s.handler.HandleTool(ctx, inv)
	if err != nil {
		debug.Log("transport", "tool error", "tool", inv.Tool, "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		}, struct{}{}, nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: api.NewInternalError("result serialization failed").Error()}},
		}, struct{}{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
	}, struct{}{}, nil
}

// buildMux assembles the HTTP routes: the MCP endpoint (wrapped in the
// configured HTTP middleware), health probes, and optionally /metrics.
func (s *Server) buildMux() *http.ServeMux {
	var mcpHandler http.Handler = mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
	mcpHandler = withRequestIDHeader(mcpHandler)
	for i := len(s.httpMiddleware) - 1; i >= 0; i-- {
		mcpHandler = s.httpMiddleware[i](mcpHandler)
	}

	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpHandler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok\n"))
	})
	if s.metricsHandler != nil {
		mux.Handle("/metrics", s.metricsHandler)
	}
	return mux
}

// withRequestIDHeader propagates an X-Request-ID header into the request
// context so tool logs correlate with upstream proxies.
func withRequestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-Request-ID"); id != "" {
			r = r.WithContext(ContextWithRequestID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe starts the server and blocks until a shutdown signal
// (SIGINT or SIGTERM) is received. It then gracefully shuts down,
// waiting for in-flight requests to complete within the configured timeout.
func (s *Server) ListenAndServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.String("addr", s.config.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	return s.shutdown()
}

// ServeOn starts the server on the given listener and blocks until
// Shutdown is called. Used for testing.
func (s *Server) ServeOn(ln net.Listener) error {
	if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down gracefully", slog.Duration("timeout", s.config.ShutdownTimeout))
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown error", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// Shutdown gracefully shuts down the server with the given context.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
