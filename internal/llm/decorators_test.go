package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/abhisek/learncoach/internal/store"
)

type recordingRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestWithLogging_RecordsEvent(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"ok":true}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 4},
	})
	repo := &recordingRepo{}
	p := WithLogging(mock, repo, nil)

	ctx := WithStudent(WithPurpose(context.Background(), "schedule"), "stu-7")
	req := UserPrompt("be brief", "plan my week", &Schema{Name: "weekly-schedule", Definition: map[string]any{"type": "object"}}, 100, 0.7)
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if ev.Provider != "mock" || ev.Model != "mock" || ev.Purpose != "schedule" || ev.StudentID != "stu-7" {
		t.Fatalf("unexpected event header: %+v", ev)
	}
	if !ev.Success || ev.InputTokens != 12 || ev.OutputTokens != 4 {
		t.Fatalf("unexpected event usage: %+v", ev)
	}
	if ev.ResponseBody != `{"ok":true}` {
		t.Fatalf("response body = %q", ev.ResponseBody)
	}
	for _, want := range []string{"[system]", "plan my week", "[schema: weekly-schedule]"} {
		if !strings.Contains(ev.RequestBody, want) {
			t.Errorf("request body missing %q", want)
		}
	}
}

func TestWithLogging_FailureAndRepoError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}})
	repo := &recordingRepo{err: errors.New("disk full")}
	p := WithLogging(mock, repo, nil)

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected provider error to pass through, got %v", err)
	}
	if len(repo.events) != 1 || repo.events[0].Success || repo.events[0].ErrorMessage == "" {
		t.Fatalf("expected failed event, got %+v", repo.events)
	}
}

func TestWithLogging_KeepsRejectedReply(t *testing.T) {
	bad := &ErrInvalidResponse{Content: json.RawMessage(`{"progress":"lots"}`), Err: errors.New("schema")}
	repo := &recordingRepo{}
	_, _ = WithLogging(NewMockProvider(MockResponse{Err: bad}), repo, nil).Generate(context.Background(), Request{})
	if len(repo.events) != 1 || repo.events[0].ResponseBody != `{"progress":"lots"}` {
		t.Fatalf("events = %+v", repo.events)
	}
}

func TestWithLogging_NilRepo(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	if _, err := WithLogging(mock, nil, nil).Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWithCache_ServesRepeatRequests(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"n":1}`)},
		MockResponse{Content: json.RawMessage(`{"n":2}`)},
	)
	p := WithCache(mock, NewMemoryCache(), time.Minute, nil)
	req := UserPrompt("", "same question", nil, 50, 0.3)

	first, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if string(first.Content) != `{"n":1}` || string(second.Content) != `{"n":1}` {
		t.Fatalf("expected cached content, got %s then %s", first.Content, second.Content)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 upstream call, got %d", mock.CallCount())
	}

	other := UserPrompt("", "different question", nil, 50, 0.3)
	third, err := p.Generate(context.Background(), other)
	if err != nil {
		t.Fatalf("third call: %v", err)
	}
	if string(third.Content) != `{"n":2}` {
		t.Fatalf("expected fresh content, got %s", third.Content)
	}
}

func TestWithCache_DoesNotStoreErrors(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{}},
		MockResponse{Content: json.RawMessage(`{"n":1}`)},
	)
	p := WithCache(mock, NewMemoryCache(), time.Minute, nil)
	req := UserPrompt("", "q", nil, 10, 0)

	if _, err := p.Generate(context.Background(), req); err == nil {
		t.Fatal("expected first call to fail")
	}
	resp, err := p.Generate(context.Background(), req)
	if err != nil || string(resp.Content) != `{"n":1}` {
		t.Fatalf("expected upstream retry, got %v %v", resp, err)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := c.Get(ctx, "k"); !ok || string(v) != "v" {
		t.Fatalf("expected hit, got %q %v", v, ok)
	}
	now = now.Add(time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestCacheKey_DependsOnRequest(t *testing.T) {
	a := CacheKey("gpt-4", UserPrompt("s", "u", nil, 10, 0.3))
	b := CacheKey("gpt-4", UserPrompt("s", "u", nil, 10, 0.7))
	c := CacheKey("gpt-4o", UserPrompt("s", "u", nil, 10, 0.3))
	if a == b || a == c {
		t.Fatal("expected distinct keys")
	}
	if a != CacheKey("gpt-4", UserPrompt("s", "u", nil, 10, 0.3)) {
		t.Fatal("expected stable key")
	}
}

func TestWithTracing_RecordsSpan(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`), Usage: Usage{InputTokens: 3}},
		MockResponse{Err: &ErrProviderUnavailable{}},
	)
	p := WithTracing(mock, tp.Tracer("test"))
	ctx := WithPurpose(context.Background(), "adaptive")

	_, _ = p.Generate(ctx, Request{})
	_, _ = p.Generate(ctx, Request{})

	spans := exp.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name != "llm.generate" {
		t.Fatalf("span name = %q", spans[0].Name)
	}
	if spans[1].Status.Code.String() != "Error" {
		t.Fatalf("expected error status, got %v", spans[1].Status)
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, Options{Cache: NewMemoryCache()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("model = %q", p.ModelID())
	}
	if _, err := NewProvider(context.Background(), Config{Provider: "nope"}, Options{}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if _, err := NewProvider(context.Background(), Config{Provider: ProviderOpenRouter}, Options{}); err == nil {
		t.Fatal("expected error for openrouter without key")
	}
}
