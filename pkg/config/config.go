// Package config provides unified configuration for the research MCP server.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (AZURE_OPENAI_* and RESEARCH_MCP_* names)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the research MCP server.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Azure         AzureConfig         `yaml:"azure"`
	Research      ResearchConfig      `yaml:"research"`
	Auth          AuthConfig          `yaml:"auth"`
	Observability ObservabilityConfig `yaml:"observability"`
	Debug         DebugConfig         `yaml:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // default: 8000
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default: 300s
}

// AzureConfig holds Azure OpenAI connection settings. All fields except
// APIVersion are required at startup.
type AzureConfig struct {
	Endpoint      string `yaml:"endpoint"`        // e.g. https://my-resource.openai.azure.com
	APIKey        string `yaml:"api_key"`         // required
	APIKeyFile    string `yaml:"api_key_file"`    // _file variant for api_key
	Deployment    string `yaml:"deployment"`      // model deployment name, required
	APIVersion    string `yaml:"api_version"`     // default: "2024-05-01-preview"
	VectorStoreID string `yaml:"vector_store_id"` // required
}

// ResearchConfig holds tuning for the search and fetch adapters.
type ResearchConfig struct {
	PollInterval  time.Duration `yaml:"poll_interval"`  // default: 1s
	PollTimeout   time.Duration `yaml:"poll_timeout"`   // default: 120s
	MaxResults    int           `yaml:"max_results"`    // default: 10
	SnippetLength int           `yaml:"snippet_length"` // default: 200
}

// AuthConfig holds inbound authentication settings.
type AuthConfig struct {
	Type      string          `yaml:"type"`       // "none", "apikey", or "jwt", default: "none"
	APIKeys   []APIKeyConfig  `yaml:"api_keys"`   // API key entries for type=apikey
	JWT       JWTConfig       `yaml:"jwt"`        // JWT settings for type=jwt
	RateLimit RateLimitConfig `yaml:"rate_limit"` // optional per-tier rate limits
}

// APIKeyConfig describes a single API key entry.
type APIKeyConfig struct {
	Key         string `yaml:"key"`
	KeyFile     string `yaml:"key_file"` // _file variant for key
	Subject     string `yaml:"subject"`
	ServiceTier string `yaml:"service_tier"`
}

// JWTConfig holds JWT/OIDC validation settings.
type JWTConfig struct {
	Issuer   string `yaml:"issuer"`
	Audience string `yaml:"audience"`
	JWKSURL  string `yaml:"jwks_url"`
}

// RateLimitConfig holds sliding-window rate limit settings per service tier.
type RateLimitConfig struct {
	DefaultRPM int            `yaml:"default_rpm"` // 0 disables limiting
	Tiers      map[string]int `yaml:"tiers"`       // tier name -> requests per minute
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// DebugConfig holds debug logging settings.
type DebugConfig struct {
	Categories string `yaml:"categories"` // comma-separated, e.g. "azure,research"
	Level      string `yaml:"level"`      // ERROR, WARN, INFO, DEBUG, TRACE
}

// DefaultAPIVersion is the Azure OpenAI API version used when none is configured.
const DefaultAPIVersion = "2024-05-01-preview"

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         8000,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 300 * time.Second,
		},
		Azure: AzureConfig{
			APIVersion: DefaultAPIVersion,
		},
		Research: ResearchConfig{
			PollInterval:  1 * time.Second,
			PollTimeout:   120 * time.Second,
			MaxResults:    10,
			SnippetLength: 200,
		},
		Auth: AuthConfig{
			Type: "none",
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
