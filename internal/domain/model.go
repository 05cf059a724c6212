// Package domain defines the core entities and value objects for diarisk.
//
// This file contains the remote text-generation model definition. The domain
// layer is independent of infrastructure concerns: the HTTP adapter reads
// these values, the requester never does.
package domain

import "strings"

// ModelDefinition describes the remote text-generation endpoint declared in
// the config file.
type ModelDefinition struct {
	Name           string    `yaml:"name"`
	Endpoint       string    `yaml:"endpoint"`
	AuthEnvVar     string    `yaml:"auth_env_var"`
	ModelID        string    `yaml:"model_id"`
	MaxTokens      int       `yaml:"max_tokens,omitempty"`
	Temperature    float64   `yaml:"temperature,omitempty"`
	TimeoutSeconds int       `yaml:"timeout_seconds,omitempty"`
	APIFormat      APIFormat `yaml:"api_format,omitempty"`
}

// ResolvedEndpoint substitutes the {model} placeholder with ModelID.
func (m ModelDefinition) ResolvedEndpoint() string {
	return strings.ReplaceAll(m.Endpoint, ModelPlaceholder, m.ModelID)
}

// APIFormat defines how requests are built and responses parsed.
// All fields are optional; defaults depend on RequestStyle.
type APIFormat struct {
	// RequestStyle selects the body layout.
	// Values: "gemini" (default) - {"contents":[{"parts":[{"text":...}]}]}
	//         "chat" - {"messages":[{"role":"user","content":...}]}
	RequestStyle string `yaml:"request_style,omitempty"`

	// AuthHeaderName is the header carrying the credential.
	// Default: "x-goog-api-key" for gemini, "Authorization" for chat.
	AuthHeaderName string `yaml:"auth_header_name,omitempty"`

	// AuthHeaderPrefix is prepended to the credential.
	// Default: "" for gemini, "Bearer " for chat unless AuthHeaderName is set.
	AuthHeaderPrefix string `yaml:"auth_header_prefix,omitempty"`

	// ContentWrapper controls chat message content.
	// Values: "standard" (default) - plain string content
	//         "anthropic" - [{"type":"text","text":...}]
	ContentWrapper string `yaml:"content_wrapper,omitempty"`

	// ResponseJSONPath locates the generated text in the response.
	// Default: "candidates[0].content.parts[0].text" for gemini,
	// "choices[0].message.content" for chat.
	ResponseJSONPath string `yaml:"response_json_path,omitempty"`

	// ExtraHeaders are sent with each request.
	// Example: {"anthropic-version": "2023-06-01"}
	ExtraHeaders map[string]string `yaml:"extra_headers,omitempty"`
}

const (
	ModelPlaceholder = "{model}"

	RequestStyleGemini = "gemini"
	RequestStyleChat   = "chat"

	GeminiAuthHeaderName    = "x-goog-api-key"
	DefaultAuthHeaderName   = "Authorization"
	DefaultAuthHeaderPrefix = "Bearer "

	ContentWrapperStandard  = "standard"
	ContentWrapperAnthropic = "anthropic"

	GeminiResponsePath    = "candidates[0].content.parts[0].text"
	DefaultResponsePath   = "choices[0].message.content"
	AnthropicResponsePath = "content[0].text"
)

// GetRequestStyle returns the body layout with default fallback.
func (f APIFormat) GetRequestStyle() string {
	if f.RequestStyle == "" {
		return RequestStyleGemini
	}
	return strings.ToLower(f.RequestStyle)
}

// IsGemini reports whether the generateContent layout is used.
func (f APIFormat) IsGemini() bool {
	return f.GetRequestStyle() == RequestStyleGemini
}

// GetAuthHeaderName returns the authentication header name with default fallback.
func (f APIFormat) GetAuthHeaderName() string {
	if f.AuthHeaderName != "" {
		return f.AuthHeaderName
	}
	if f.IsGemini() {
		return GeminiAuthHeaderName
	}
	return DefaultAuthHeaderName
}

// GetAuthHeaderPrefix returns the authentication header prefix with default fallback.
// An empty prefix with a custom header name is intentional (e.g. x-api-key).
func (f APIFormat) GetAuthHeaderPrefix() string {
	if f.AuthHeaderPrefix != "" {
		return f.AuthHeaderPrefix
	}
	if f.AuthHeaderName != "" || f.IsGemini() {
		return ""
	}
	return DefaultAuthHeaderPrefix
}

// IsContentWrapped returns true if chat content is wrapped in Anthropic's array format.
func (f APIFormat) IsContentWrapped() bool {
	return f.ContentWrapper == ContentWrapperAnthropic
}

// GetResponseJSONPath returns the JSON path for the generated text with default fallback.
func (f APIFormat) GetResponseJSONPath() string {
	if f.ResponseJSONPath != "" {
		return f.ResponseJSONPath
	}
	if f.IsGemini() {
		return GeminiResponsePath
	}
	return DefaultResponsePath
}
