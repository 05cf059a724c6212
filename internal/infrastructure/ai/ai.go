// Package ai provides the generator factory and the HTTP-based text-generation
// provider.
//
// The provider is configuration-driven:
//   - Factory: Creates a provider for a model definition and credential
//   - HTTP Provider: Generic client for the Generative Language generateContent
//     API and chat-completions style APIs, selected by APIFormat
//   - JSON path extraction: locates the generated text in any response layout
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/doeshing/diarisk/internal/domain"
	"github.com/doeshing/diarisk/internal/ports"
)

// ErrMissingCredential is returned when a provider is built without a credential.
var ErrMissingCredential = errors.New("missing API credential")

// maxErrorBody bounds how much of an error response is read for the message.
const maxErrorBody = 4 << 10

// ====================================================================================
// Factory
// ====================================================================================

// Factory creates providers sharing one HTTP client.
type Factory struct {
	httpClient *http.Client
	logger     ports.Logger
}

// NewFactory creates a factory whose client times out after the model's
// configured timeout.
func NewFactory(client *http.Client) *Factory {
	if client == nil {
		client = &http.Client{Timeout: domain.DefaultHTTPClientTimeout}
	}
	return &Factory{httpClient: client}
}

// WithLogger sets the logger providers report truncated responses to.
func (f *Factory) WithLogger(logger ports.Logger) *Factory {
	f.logger = logger
	return f
}

// ForModel creates an HTTP provider for model authenticated with credential.
func (f *Factory) ForModel(model domain.ModelDefinition, credential string) (ports.Generator, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, fmt.Errorf("%w: set %s", ErrMissingCredential, model.AuthEnvVar)
	}
	if model.Endpoint == "" {
		return nil, fmt.Errorf("model %s has no endpoint", model.Name)
	}
	provider := newHTTPProvider(model, credential, f.httpClient)
	provider.logger = f.logger
	return provider, nil
}

var _ ports.GeneratorFactory = (*Factory)(nil)

// ====================================================================================
// HTTP Provider
// ====================================================================================

// httpProvider sends one prompt per call and returns the generated text.
type httpProvider struct {
	model      domain.ModelDefinition
	credential string
	httpClient *http.Client
	logger     ports.Logger
}

func newHTTPProvider(model domain.ModelDefinition, credential string, client *http.Client) *httpProvider {
	return &httpProvider{
		model:      model,
		credential: credential,
		httpClient: client,
	}
}

// Generate implements ports.Generator. A response without text at the
// configured path yields "" and no error.
func (p *httpProvider) Generate(ctx context.Context, prompt string) (string, error) {
	requestBody, err := p.buildRequestBody(prompt)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.model.ResolvedEndpoint(), bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	p.setAuthHeaders(httpReq)
	p.setExtraHeaders(httpReq)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", statusError(resp)
	}

	var responseBody bytes.Buffer
	if _, err := responseBody.ReadFrom(resp.Body); err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	content, err := p.parseResponse(responseBody.Bytes())
	if err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	return content, nil
}

// buildRequestBody constructs the JSON request body based on the model's APIFormat.
func (p *httpProvider) buildRequestBody(prompt string) ([]byte, error) {
	format := p.model.APIFormat
	if format.IsGemini() {
		return json.Marshal(p.geminiRequest(prompt))
	}

	request := map[string]interface{}{
		"model":    p.model.ModelID,
		"messages": []map[string]interface{}{formatMessage("user", prompt, format)},
	}
	if p.model.MaxTokens > 0 {
		request["max_tokens"] = p.model.MaxTokens
	}
	if p.model.Temperature > 0 {
		request["temperature"] = p.model.Temperature
	}
	return json.Marshal(request)
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

func (p *httpProvider) geminiRequest(prompt string) geminiRequest {
	req := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}
	if p.model.MaxTokens > 0 || p.model.Temperature > 0 {
		req.GenerationConfig = &geminiGenerationConfig{
			MaxOutputTokens: p.model.MaxTokens,
			Temperature:     p.model.Temperature,
		}
	}
	return req
}

// formatMessage formats a single chat message based on the content wrapper configuration.
func formatMessage(role, content string, format domain.APIFormat) map[string]interface{} {
	message := map[string]interface{}{
		"role": role,
	}

	if format.IsContentWrapped() {
		message["content"] = []map[string]string{
			{"type": "text", "text": content},
		}
	} else {
		message["content"] = content
	}

	return message
}

// setAuthHeaders configures authentication headers based on the model's APIFormat.
func (p *httpProvider) setAuthHeaders(req *http.Request) {
	format := p.model.APIFormat
	req.Header.Set(format.GetAuthHeaderName(), format.GetAuthHeaderPrefix()+p.credential)
}

// setExtraHeaders adds any additional headers defined in the APIFormat configuration.
func (p *httpProvider) setExtraHeaders(req *http.Request) {
	for key, value := range p.model.APIFormat.ExtraHeaders {
		req.Header.Set(key, value)
	}
}

// parseResponse extracts the generated text using the configured JSON path.
// A missing path (no candidates, blocked prompt) is a degenerate response,
// not an error.
func (p *httpProvider) parseResponse(body []byte) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", nil
	}

	var response map[string]interface{}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("unmarshal JSON: %w", err)
	}

	if p.model.APIFormat.IsGemini() {
		p.checkFinishReason(response)
	}

	path := p.model.APIFormat.GetResponseJSONPath()
	content, err := extractJSONPath(response, path)
	if err != nil {
		if errors.Is(err, errPathNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("extract from path '%s': %w", path, err)
	}

	return strings.TrimSpace(content), nil
}

// checkFinishReason logs candidates that stopped for a reason other than
// STOP, such as MAX_TOKENS or SAFETY. The text, if any, is still used.
func (p *httpProvider) checkFinishReason(response map[string]interface{}) {
	if p.logger == nil {
		return
	}
	reason, err := extractJSONPath(response, "candidates[0].finishReason")
	if err != nil || reason == "" || reason == "STOP" {
		return
	}
	p.logger.Warn("generation stopped early", map[string]interface{}{
		"model":         p.model.ModelID,
		"finish_reason": reason,
	})
}

// statusError builds an error from a failed response, preferring the
// provider's own error message.
func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, envelope.Error.Message)
	}
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
}

// ====================================================================================
// JSON path extraction
// ====================================================================================

var errPathNotFound = errors.New("path not found")

// extractJSONPath extracts a string value from a nested JSON structure using a simple path notation.
// Supported paths: "field", "field.nested", "field[0]", "field[0].nested.field"
func extractJSONPath(data map[string]interface{}, path string) (string, error) {
	parts := parseJSONPath(path)
	var current interface{} = data

	for _, part := range parts {
		switch part.kind {
		case "field":
			obj, ok := current.(map[string]interface{})
			if !ok {
				return "", fmt.Errorf("expected object at '%s'", part.value)
			}
			var found bool
			current, found = obj[part.value]
			if !found || current == nil {
				return "", fmt.Errorf("field '%s': %w", part.value, errPathNotFound)
			}

		case "index":
			arr, ok := current.([]interface{})
			if !ok {
				return "", fmt.Errorf("expected array at index %s", part.value)
			}
			idx, err := strconv.Atoi(part.value)
			if err != nil {
				return "", fmt.Errorf("invalid index %q: %w", part.value, err)
			}
			if idx < 0 || idx >= len(arr) {
				return "", fmt.Errorf("index %d out of bounds (len=%d): %w", idx, len(arr), errPathNotFound)
			}
			current = arr[idx]
		}
	}

	if str, ok := current.(string); ok {
		return str, nil
	}

	return "", fmt.Errorf("final value is not a string: %T", current)
}

type pathPart struct {
	kind  string // "field" or "index"
	value string
}

// parseJSONPath converts "candidates[0].content.parts[0].text" into structured path parts.
func parseJSONPath(path string) []pathPart {
	var parts []pathPart
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, pathPart{kind: "field", value: current.String()})
			current.Reset()
		}
	}

	for i := 0; i < len(path); i++ {
		ch := path[i]
		switch ch {
		case '.':
			flush()
		case '[':
			flush()
			j := i + 1
			for j < len(path) && path[j] != ']' {
				j++
			}
			if j < len(path) {
				parts = append(parts, pathPart{kind: "index", value: path[i+1 : j]})
				i = j
			}
		default:
			current.WriteByte(ch)
		}
	}
	flush()

	return parts
}
