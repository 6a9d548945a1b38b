// Package llm wraps hosted language models behind a small Provider
// interface. Responses are always JSON; when a schema is supplied the
// payload is validated before it is handed back.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates a single structured completion.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model the provider sends requests to.
	ModelID() string
}

// Request is a single-turn prompt.
type Request struct {
	System string
	Prompt string

	// Schema, when set, asks the provider for JSON matching it and makes
	// Generate validate the reply.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Schema is a named JSON Schema document.
type Schema struct {
	// Name is kebab-case; it doubles as the OpenAI schema name and the
	// cache key for the compiled validator.
	Name        string
	Description string
	Definition  map[string]any
}

// StopReason is a provider-neutral finish reason.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is a completed generation.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// Usage is the token accounting reported by the provider.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// finish applies the checks every provider shares: truncation and schema
// validation.
func finish(req Request, resp *Response) (*Response, error) {
	if resp.StopReason == StopMaxTokens && req.Schema != nil {
		return nil, &TruncatedError{Content: resp.Content}
	}
	if err := req.Schema.validate(resp.Content); err != nil {
		return nil, err
	}
	return resp, nil
}
