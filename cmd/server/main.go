// Command server runs the research MCP server.
//
// Configuration is layered: built-in defaults, an optional YAML file,
// then environment variables. The Azure connection settings are
// required at startup:
//
//	AZURE_OPENAI_ENDPOINT        - Azure OpenAI resource endpoint (required)
//	AZURE_OPENAI_API_KEY         - API key (required)
//	AZURE_OPENAI_DEPLOYMENT_NAME - Model deployment name (required)
//	AZURE_OPENAI_API_VERSION     - API version (default: 2024-05-01-preview)
//	VECTOR_STORE_ID              - Vector store with the document corpus (required)
//	RESEARCH_MCP_PORT            - Listen port (default: 8000)
//	RESEARCH_MCP_CONFIG          - Path to a YAML config file (optional)
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/auth"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/auth/apikey"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/auth/jwt"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/auth/noop"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/azure"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/config"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/debug"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/observability"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/research"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/transport"
)

var version = "0.2.0"

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("RESEARCH_MCP_CONFIG"))
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	debug.Init(cfg.Debug.Categories, cfg.Debug.Level)

	// Vendor client.
	client, err := azure.NewClient(azure.Config{
		Endpoint:   cfg.Azure.Endpoint,
		APIKey:     cfg.Azure.APIKey,
		APIVersion: cfg.Azure.APIVersion,
	})
	if err != nil {
		return fmt.Errorf("creating vendor client: %w", err)
	}
	defer client.Close()

	// Research adapters.
	svc, err := research.New(client, research.Options{
		Deployment:    cfg.Azure.Deployment,
		VectorStoreID: cfg.Azure.VectorStoreID,
		PollInterval:  cfg.Research.PollInterval,
		PollTimeout:   cfg.Research.PollTimeout,
		MaxResults:    cfg.Research.MaxResults,
		SnippetLength: cfg.Research.SnippetLength,
	})
	if err != nil {
		return fmt.Errorf("creating research service: %w", err)
	}

	// Metrics registry.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observability.Register(reg)

	opts := []transport.ServerOption{
		transport.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transport.WithVersion(version),
		transport.WithHTTPMiddleware(
			auth.Middleware(buildAuthChain(cfg.Auth), buildRateLimiter(cfg.Auth.RateLimit)),
			observability.MetricsMiddleware,
		),
	}
	if cfg.Observability.Metrics.Enabled {
		opts = append(opts, transport.WithMetricsHandler(
			promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		))
	}

	srv := transport.NewServer(svc, opts...)

	slog.Info("research MCP server configured",
		"port", cfg.Server.Port,
		"deployment", cfg.Azure.Deployment,
		"vector_store", cfg.Azure.VectorStoreID,
		"auth", cfg.Auth.Type,
	)

	return srv.ListenAndServe()
}

// buildAuthChain maps the configured auth type onto a voting chain.
// Type "none" accepts every request with an anonymous identity.
func buildAuthChain(cfg config.AuthConfig) *auth.AuthChain {
	switch cfg.Type {
	case "apikey":
		entries := make([]apikey.RawKeyEntry, 0, len(cfg.APIKeys))
		for _, k := range cfg.APIKeys {
			entries = append(entries, apikey.RawKeyEntry{
				Key: k.Key,
				Identity: auth.Identity{
					Subject:     k.Subject,
					ServiceTier: k.ServiceTier,
				},
			})
		}
		return &auth.AuthChain{
			Authenticators:  []auth.Authenticator{apikey.New(entries)},
			DefaultDecision: auth.No,
		}
	case "jwt":
		return &auth.AuthChain{
			Authenticators: []auth.Authenticator{jwt.New(jwt.Config{
				Issuer:   cfg.JWT.Issuer,
				Audience: cfg.JWT.Audience,
				JWKSURL:  cfg.JWT.JWKSURL,
			})},
			DefaultDecision: auth.No,
		}
	default:
		return &auth.AuthChain{
			Authenticators:  []auth.Authenticator{&noop.Authenticator{}},
			DefaultDecision: auth.Yes,
		}
	}
}

// buildRateLimiter returns nil when limiting is disabled.
func buildRateLimiter(cfg config.RateLimitConfig) auth.RateLimiter {
	if cfg.DefaultRPM <= 0 && len(cfg.Tiers) == 0 {
		return nil
	}
	return auth.NewInProcessLimiter(cfg.Tiers, cfg.DefaultRPM)
}
