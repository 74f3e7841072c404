package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure. A missing
// vendor credential or identifier is a startup-time configuration error,
// never a runtime one.
func (c *Config) Validate() error {
	var errs []error

	if c.Azure.Endpoint == "" {
		errs = append(errs, fmt.Errorf("azure.endpoint is required (AZURE_OPENAI_ENDPOINT)"))
	} else if !strings.HasPrefix(c.Azure.Endpoint, "http://") && !strings.HasPrefix(c.Azure.Endpoint, "https://") {
		errs = append(errs, fmt.Errorf("azure.endpoint must be an http(s) URL, got %q", c.Azure.Endpoint))
	}
	if c.Azure.APIKey == "" {
		errs = append(errs, fmt.Errorf("azure.api_key is required (AZURE_OPENAI_API_KEY)"))
	}
	if c.Azure.Deployment == "" {
		errs = append(errs, fmt.Errorf("azure.deployment is required (AZURE_OPENAI_DEPLOYMENT_NAME)"))
	}
	if c.Azure.VectorStoreID == "" {
		errs = append(errs, fmt.Errorf("azure.vector_store_id is required (VECTOR_STORE_ID)"))
	}
	if c.Azure.APIVersion == "" {
		errs = append(errs, fmt.Errorf("azure.api_version must not be empty"))
	}

	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	if c.Research.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("research.poll_interval must be > 0, got %v", c.Research.PollInterval))
	}
	if c.Research.PollTimeout <= 0 {
		errs = append(errs, fmt.Errorf("research.poll_timeout must be > 0, got %v", c.Research.PollTimeout))
	}
	if c.Research.MaxResults <= 0 {
		errs = append(errs, fmt.Errorf("research.max_results must be > 0, got %d", c.Research.MaxResults))
	}

	switch c.Auth.Type {
	case "none", "apikey", "jwt":
		// valid
	default:
		errs = append(errs, fmt.Errorf("auth.type must be \"none\", \"apikey\", or \"jwt\", got %q", c.Auth.Type))
	}

	if c.Auth.Type == "apikey" && len(c.Auth.APIKeys) == 0 {
		errs = append(errs, fmt.Errorf("auth.api_keys must not be empty when auth.type is \"apikey\""))
	}
	if c.Auth.Type == "jwt" && c.Auth.JWT.JWKSURL == "" {
		errs = append(errs, fmt.Errorf("auth.jwt.jwks_url is required when auth.type is \"jwt\""))
	}

	return errors.Join(errs...)
}
