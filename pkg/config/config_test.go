package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8000 {
		t.Errorf("default server.port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("default server.read_timeout = %v, want 30s", cfg.Server.ReadTimeout)
	}
	if cfg.Azure.APIVersion != "2024-05-01-preview" {
		t.Errorf("default azure.api_version = %q, want \"2024-05-01-preview\"", cfg.Azure.APIVersion)
	}
	if cfg.Research.PollInterval != 1*time.Second {
		t.Errorf("default research.poll_interval = %v, want 1s", cfg.Research.PollInterval)
	}
	if cfg.Research.PollTimeout != 120*time.Second {
		t.Errorf("default research.poll_timeout = %v, want 120s", cfg.Research.PollTimeout)
	}
	if cfg.Research.MaxResults != 10 {
		t.Errorf("default research.max_results = %d, want 10", cfg.Research.MaxResults)
	}
	if cfg.Research.SnippetLength != 200 {
		t.Errorf("default research.snippet_length = %d, want 200", cfg.Research.SnippetLength)
	}
	if cfg.Auth.Type != "none" {
		t.Errorf("default auth.type = %q, want \"none\"", cfg.Auth.Type)
	}
	if !cfg.Observability.Metrics.Enabled {
		t.Error("default observability.metrics.enabled = false, want true")
	}
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
server:
  port: 9090
  read_timeout: 60s
azure:
  endpoint: https://my-resource.openai.azure.com
  api_key: azure-test-key
  deployment: gpt-4o
  api_version: 2024-08-01-preview
  vector_store_id: vs_abc123
research:
  poll_interval: 500ms
  poll_timeout: 30s
  max_results: 5
  snippet_length: 120
auth:
  type: apikey
  api_keys:
    - key: sk-key-1
      subject: alice
      service_tier: premium
`
	path := writeTempConfig(t, yamlContent)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Azure.Endpoint != "https://my-resource.openai.azure.com" {
		t.Errorf("azure.endpoint = %q", cfg.Azure.Endpoint)
	}
	if cfg.Azure.APIVersion != "2024-08-01-preview" {
		t.Errorf("azure.api_version = %q", cfg.Azure.APIVersion)
	}
	if cfg.Azure.VectorStoreID != "vs_abc123" {
		t.Errorf("azure.vector_store_id = %q", cfg.Azure.VectorStoreID)
	}
	if cfg.Research.PollInterval != 500*time.Millisecond {
		t.Errorf("research.poll_interval = %v, want 500ms", cfg.Research.PollInterval)
	}
	if cfg.Research.MaxResults != 5 {
		t.Errorf("research.max_results = %d, want 5", cfg.Research.MaxResults)
	}
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0].Subject != "alice" {
		t.Errorf("auth.api_keys = %+v", cfg.Auth.APIKeys)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://env-resource.openai.azure.com")
	t.Setenv("AZURE_OPENAI_API_KEY", "env-key")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT_NAME", "env-deployment")
	t.Setenv("AZURE_OPENAI_API_VERSION", "2024-10-01-preview")
	t.Setenv("VECTOR_STORE_ID", "vs_env")
	t.Setenv("RESEARCH_MCP_PORT", "7070")

	// Env must win over the file.
	path := writeTempConfig(t, `
azure:
  endpoint: https://file-resource.openai.azure.com
  api_key: file-key
  deployment: file-deployment
  vector_store_id: vs_file
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Azure.Endpoint != "https://env-resource.openai.azure.com" {
		t.Errorf("azure.endpoint = %q, want env value", cfg.Azure.Endpoint)
	}
	if cfg.Azure.APIKey != "env-key" {
		t.Errorf("azure.api_key = %q, want env value", cfg.Azure.APIKey)
	}
	if cfg.Azure.Deployment != "env-deployment" {
		t.Errorf("azure.deployment = %q, want env value", cfg.Azure.Deployment)
	}
	if cfg.Azure.VectorStoreID != "vs_env" {
		t.Errorf("azure.vector_store_id = %q, want env value", cfg.Azure.VectorStoreID)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("server.port = %d, want 7070", cfg.Server.Port)
	}
}

func TestAPIKeyFileResolution(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "azure-key")
	if err := os.WriteFile(keyPath, []byte("  secret-from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	path := writeTempConfig(t, `
azure:
  endpoint: https://my-resource.openai.azure.com
  api_key_file: `+keyPath+`
  deployment: gpt-4o
  vector_store_id: vs_abc
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Azure.APIKey != "secret-from-file" {
		t.Errorf("azure.api_key = %q, want trimmed file content", cfg.Azure.APIKey)
	}
}

func TestValidateMissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"missing endpoint", func(c *Config) { c.Azure.Endpoint = "" }, "azure.endpoint"},
		{"missing api key", func(c *Config) { c.Azure.APIKey = "" }, "azure.api_key"},
		{"missing deployment", func(c *Config) { c.Azure.Deployment = "" }, "azure.deployment"},
		{"missing vector store", func(c *Config) { c.Azure.VectorStoreID = "" }, "azure.vector_store_id"},
		{"bad endpoint scheme", func(c *Config) { c.Azure.Endpoint = "my-resource.openai.azure.com" }, "http(s)"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad poll interval", func(c *Config) { c.Research.PollInterval = 0 }, "poll_interval"},
		{"bad poll timeout", func(c *Config) { c.Research.PollTimeout = 0 }, "poll_timeout"},
		{"bad auth type", func(c *Config) { c.Auth.Type = "oauth" }, "auth.type"},
		{"apikey without keys", func(c *Config) { c.Auth.Type = "apikey" }, "auth.api_keys"},
		{"jwt without jwks", func(c *Config) { c.Auth.Type = "jwt" }, "jwks_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Validate() = %q, want mention of %q", err, tt.wantSub)
			}
		})
	}
}

func TestValidateOK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

// validConfig returns a Config that passes validation.
func validConfig() Config {
	cfg := Defaults()
	cfg.Azure.Endpoint = "https://my-resource.openai.azure.com"
	cfg.Azure.APIKey = "test-key"
	cfg.Azure.Deployment = "gpt-4o"
	cfg.Azure.VectorStoreID = "vs_abc"
	return cfg
}

// writeTempConfig writes yamlContent to a temp file and returns its path.
func writeTempConfig(t *testing.T, yamlContent string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
