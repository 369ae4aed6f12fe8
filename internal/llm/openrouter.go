package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openrouterModels maps the short names used by the other providers onto
// OpenRouter's vendor-prefixed IDs, so SKILLPULSE_OPENROUTER_MODEL accepts
// either form.
var openrouterModels = map[string]string{
	"claude-haiku":  "anthropic/claude-haiku-4.5",
	"claude-sonnet": "anthropic/claude-sonnet-4.5",
	"gpt-4o-mini":   "openai/gpt-4o-mini",
	"gpt-mini":      "openai/gpt-4.1-mini",
	"gemini-flash":  "google/gemini-2.5-flash",
}

// openrouterHeaders identify skillpulse in OpenRouter's request attribution.
var openrouterHeaders = map[string]string{
	"HTTP-Referer": "https://github.com/abhisek/skillpulse",
	"X-Title":      "skillpulse",
}

// OpenRouterProvider talks to OpenRouter's OpenAI-compatible endpoint
// through the OpenAI adapter.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
// Short aliases are expanded; any other model must be a "vendor/model" ID.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	model := resolveModel(cfg.Model, openrouterModels)
	if vendor, name, ok := strings.Cut(model, "/"); !ok || vendor == "" || name == "" {
		return nil, fmt.Errorf("openrouter model %q must be in vendor/model form", cfg.Model)
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL
	if config.BaseURL == "" {
		config.BaseURL = defaultOpenRouterBaseURL
	}
	config.HTTPClient = &headerDoer{inner: config.HTTPClient, headers: openrouterHeaders}

	return &OpenRouterProvider{OpenAIProvider: &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}}, nil
}

// headerDoer adds fixed headers to every outgoing request.
type headerDoer struct {
	inner   openai.HTTPDoer
	headers map[string]string
}

func (d *headerDoer) Do(req *http.Request) (*http.Response, error) {
	for k, v := range d.headers {
		req.Header.Set(k, v)
	}
	return d.inner.Do(req)
}
