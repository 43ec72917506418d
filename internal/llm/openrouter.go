package llm

import (
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	openRouterTitle          = "learncoach"
)

// NewOpenRouterProvider builds an OpenAI-compatible provider aimed at
// OpenRouter. Model IDs ("vendor/model") pass through unchanged and strict
// schema mode is off since the routed model may not support it.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	cc := openai.DefaultConfig(cfg.APIKey)
	cc.BaseURL = defaultOpenRouterBaseURL
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	cc.HTTPClient = &http.Client{Transport: titleTransport{base: http.DefaultTransport}}
	return newOpenAIProvider(cc, cfg.Model, ProviderOpenRouter, false), nil
}

// titleTransport adds the app attribution header OpenRouter shows in
// its usage dashboard.
type titleTransport struct {
	base http.RoundTripper
}

func (t titleTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("X-Title", openRouterTitle)
	return t.base.RoundTrip(r)
}
