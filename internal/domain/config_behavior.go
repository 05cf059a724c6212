package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// HasCredential reports whether an API credential was resolved at load time.
func (c *Config) HasCredential() bool {
	return strings.TrimSpace(c.Credential) != ""
}

// GetCredentialName returns the variable the credential is expected in.
func (c *Config) GetCredentialName() string {
	if c.CredentialSource != "" {
		return c.CredentialSource
	}
	if c.Model.AuthEnvVar != "" {
		return c.Model.AuthEnvVar
	}
	return DefaultAuthEnvVar
}

// GetRequestTimeout returns the per-request timeout for the remote model.
func (c *Config) GetRequestTimeout() time.Duration {
	if c.Model.TimeoutSeconds <= 0 {
		return DefaultHTTPClientTimeout
	}
	return time.Duration(c.Model.TimeoutSeconds) * time.Second
}

// GetServerAddr returns the listen address with default fallback.
func (c *Config) GetServerAddr() string {
	if c.Server.Addr == "" {
		return DefaultServerAddr
	}
	return c.Server.Addr
}

// GetMaxBodyBytes returns the request body limit with default fallback.
func (c *Config) GetMaxBodyBytes() int64 {
	if c.Server.MaxBodyBytes <= 0 {
		return DefaultMaxBodyBytes
	}
	return c.Server.MaxBodyBytes
}

// GetAllowedOrigins returns the CORS origins, allowing all when unset.
func (c *Config) GetAllowedOrigins() []string {
	if len(c.Server.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return c.Server.AllowedOrigins
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Credential != "" {
		c.Credential = "********"
	}
	return c
}

// ValidateConsistency checks the internal consistency of the configuration.
func (c *Config) ValidateConsistency() error {
	if c.Model.ModelID == "" {
		return fmt.Errorf("model.model_id is required")
	}
	if c.Model.Endpoint == "" {
		return fmt.Errorf("model.endpoint is required")
	}
	if _, err := url.ParseRequestURI(c.Model.ResolvedEndpoint()); err != nil {
		return fmt.Errorf("model.endpoint is not a valid URL: %w", err)
	}
	switch c.Model.APIFormat.GetRequestStyle() {
	case RequestStyleGemini, RequestStyleChat:
	default:
		return fmt.Errorf("model.api_format.request_style %q is not supported", c.Model.APIFormat.RequestStyle)
	}
	if c.Model.MaxTokens < 0 {
		return fmt.Errorf("model.max_tokens must be >= 0")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("model.temperature must be between 0 and 2")
	}
	return nil
}
