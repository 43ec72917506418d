package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// openaiModels are the aliases accepted in OpenAIConfig.Model.
var openaiModels = map[string]string{
	"gpt-4":       "gpt-4",
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
}

// OpenAIProvider talks to the chat completions API. It also serves
// compatible endpoints through a custom base URL.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	name   string
	// strict turns on strict JSON-schema mode. Compatible endpoints that
	// route to other vendors may reject it.
	strict bool
}

// NewOpenAIProvider builds a provider for the OpenAI API.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	return newOpenAIProvider(cc, resolveModel(cfg.Model, openaiModels), ProviderOpenAI, true), nil
}

func newOpenAIProvider(cc openai.ClientConfig, model, name string, strict bool) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cc),
		model:  model,
		name:   name,
		strict: strict,
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chatReq, err := p.chatRequest(req)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, openaiError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("%s reply has no choices", p.name)}
	}

	choice := resp.Choices[0]
	stop := StopEnd
	if choice.FinishReason == openai.FinishReasonLength {
		stop = StopMaxTokens
	}
	return finish(req, reply{
		text:  choice.Message.Content,
		model: resp.Model,
		stop:  stop,
		usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	})
}

// chatRequest builds the completion request. Strict schemas use the
// json_schema response format; loose ones fall back to json_object plus a
// schema description in the system message.
func (p *OpenAIProvider) chatRequest(req Request) (openai.ChatCompletionRequest, error) {
	system := req.System
	var format *openai.ChatCompletionResponseFormat
	if s := req.Schema; s != nil {
		if s.Loose || !p.strict {
			system = withSchemaHint(system, s)
			format = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
		} else {
			def, err := json.Marshal(s.Definition)
			if err != nil {
				return openai.ChatCompletionRequest{}, fmt.Errorf("marshal schema %s: %w", s.Name, err)
			}
			format = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
				JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
					Name:        s.Name,
					Description: s.Description,
					Schema:      json.RawMessage(def),
					Strict:      true,
				},
			}
		}
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	return openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            messages,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
		ResponseFormat:      format,
	}, nil
}

func (p *OpenAIProvider) ModelID() string { return p.model }

// Name returns the provider name recorded in audit events.
func (p *OpenAIProvider) Name() string { return p.name }

func openaiError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, nil, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, nil, err)
	}
	return &ErrProviderUnavailable{Err: err}
}
