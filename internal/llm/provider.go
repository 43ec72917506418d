package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Provider sends one request to a language model. Implementations are the
// SDK adapters in this package and the decorators that wrap them.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Request is a single model call. With Schema set the reply must be a JSON
// object; without it Response.Content holds the text as a JSON string.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// UserPrompt builds a one-turn request, which is all the agents send.
func UserPrompt(system, user string, schema *Schema, maxTokens int, temperature float64) Request {
	return Request{
		System:      system,
		Messages:    []Message{{Role: RoleUser, Content: user}},
		Schema:      schema,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Schema is a JSON Schema for the reply. Name keys the compiled-schema
// cache and is sent to providers that want one ("learning-path").
//
// A Loose schema is a hint only: it is described to the model but not
// enforced or validated, for replies the caller can repair itself.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
	Loose       bool
}

// Response is a model reply. StopReason is StopEnd or StopMaxTokens.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Decode unmarshals Content into v, falling back to the outermost {...}
// span when the model wrapped its JSON in prose. Failure yields
// *ErrInvalidResponse.
func (r *Response) Decode(v any) error {
	if r == nil {
		return &ErrInvalidResponse{Err: errors.New("no response")}
	}
	if json.Unmarshal(r.Content, v) == nil {
		return nil
	}
	obj, err := ExtractJSON(TextContent(r.Content))
	if err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: err}
	}
	if err := json.Unmarshal(obj, v); err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: fmt.Errorf("decode embedded object: %w", err)}
	}
	return nil
}
