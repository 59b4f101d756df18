// Package textgen provides the client for the external generative text
// completion service. The service has no semantic contract beyond best-effort
// text out; callers own the parsing of whatever comes back.
package textgen

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
)

// Completer is the minimal surface the pipeline needs from a text-generation
// backend. Implementations must be safe for concurrent use.
type Completer interface {
	// Complete sends a prompt and returns the raw text response.
	Complete(ctx context.Context, prompt string) (string, error)
	// ModelName identifies the backing model, for logging.
	ModelName() string
}

// ErrEmptyCompletion is returned when the service replies with no text at all.
var ErrEmptyCompletion = errors.New("textgen: empty completion")

// Gemini is a Completer backed by the Gemini API.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGemini creates a Gemini-backed completer for the given model.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("textgen: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Gemini{client: client, model: model, temperature: 0.2}, nil
}

// WithModel returns a completer sharing the underlying client but targeting a
// different model identifier. Used to build the fallback completer.
func (g *Gemini) WithModel(model string) *Gemini {
	return &Gemini{client: g.client, model: model, temperature: g.temperature}
}

// ModelName implements Completer.
func (g *Gemini) ModelName() string { return g.model }

// Complete implements Completer.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	})
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
