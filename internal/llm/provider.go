// Package llm is the provider-neutral client the coaching feature uses.
// Providers return JSON matching a request schema; decorators add retries,
// timeouts and request logging.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured completion.
type Provider interface {
	// Generate returns content that, when req.Schema is set, has already
	// been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the configured model, after friendly-name resolution.
	ModelID() string
}

// Request is a provider-neutral completion request.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, selects the provider's native structured output
	// and is enforced on the response.
	Schema *Schema

	MaxTokens int

	// Temperature 0 leaves the provider default.
	Temperature float64
}

// UserPrompt builds a single-turn request.
func UserPrompt(system, prompt string, schema *Schema, maxTokens int) Request {
	return Request{
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: prompt}},
		Schema:    schema,
		MaxTokens: maxTokens,
	}
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema. Name doubles as the cache key for the
// compiled validator, so it must be unique per definition.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	// Content is the model output: validated JSON when a schema was
	// requested, raw text otherwise.
	Content json.RawMessage

	Usage Usage

	// Model is the model that served the request, which may differ from
	// ModelID when a gateway routes it.
	Model string

	// StopReason is StopEnd or StopMaxTokens.
	StopReason string
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
