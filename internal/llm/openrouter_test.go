package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenRouterProvider(t *testing.T) {
	var title string
	var sent map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title = r.Header.Get("X-Title")
		_ = json.NewDecoder(r.Body).Decode(&sent)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion(`{"ok":true}`, "stop"))
	}))
	defer srv.Close()

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "anthropic/claude-3-haiku", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "anthropic/claude-3-haiku" || p.Name() != ProviderOpenRouter || p.strict {
		t.Fatalf("provider = %+v", p)
	}

	_, err = p.Generate(context.Background(), Request{
		System:   "Summarize progress.",
		Messages: []Message{{Role: RoleUser, Content: "go"}},
		Schema:   &Schema{Name: "router-summary", Definition: map[string]any{"type": "object", "required": []any{"ok"}}},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if title != openRouterTitle {
		t.Errorf("X-Title = %q", title)
	}
	if format, _ := sent["response_format"].(map[string]any); format["type"] != "json_object" {
		t.Errorf("response_format = %v", format)
	}
	msgs, _ := sent["messages"].([]any)
	system, _ := msgs[0].(map[string]any)["content"].(string)
	if !strings.Contains(system, "JSON Schema") {
		t.Errorf("schema hint missing from system prompt: %q", system)
	}
}

func TestOpenRouterRequiresKey(t *testing.T) {
	if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "x/y"}); err == nil {
		t.Fatal("expected error without API key")
	}
}
