package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProviderScript(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"topics":[]}`), Usage: Usage{InputTokens: 10, OutputTokens: 5}},
		MockResponse{Err: &ErrRateLimit{}},
	)
	ctx := WithStudent(WithPurpose(context.Background(), "learning_path"), "stu-1")

	resp, err := mock.Generate(ctx, UserPrompt("sys", "plan", nil, 100, 0))
	if err != nil {
		t.Fatal(err)
	}
	if string(resp.Content) != `{"topics":[]}` || resp.Usage.TotalTokens != 15 || resp.StopReason != StopEnd {
		t.Fatalf("resp = %+v", resp)
	}

	var rl *ErrRateLimit
	if _, err := mock.Generate(context.Background(), Request{}); !errors.As(err, &rl) {
		t.Fatalf("second reply: %v", err)
	}
	var un *ErrProviderUnavailable
	if _, err := mock.Generate(context.Background(), Request{}); !errors.As(err, &un) {
		t.Fatalf("exhausted script: %v", err)
	}

	if mock.CallCount() != 3 || mock.Calls[0].System != "sys" {
		t.Fatalf("calls = %+v", mock.Calls)
	}
	if mock.Purposes[0] != "learning_path" || mock.Purposes[1] != "unknown" {
		t.Errorf("purposes = %v", mock.Purposes)
	}
	if mock.Students[0] != "stu-1" || mock.Students[1] != "" {
		t.Errorf("students = %v", mock.Students)
	}
	if mock.ModelID() != ProviderMock || mock.Name() != ProviderMock {
		t.Error("mock should identify as mock")
	}

	mock.AddResponse(MockResponse{Content: json.RawMessage(`{}`)})
	if _, err := mock.Generate(context.Background(), Request{}); err != nil {
		t.Errorf("added reply: %v", err)
	}
}

func TestResponseDecode(t *testing.T) {
	type summary struct {
		Hours float64 `json:"total_study_hours"`
	}
	tests := []struct {
		name    string
		content string
		want    float64
		wantErr bool
	}{
		{"object", `{"total_study_hours":4.5}`, 4.5, false},
		{"object inside quoted prose", `"Summary: {\"total_study_hours\": 2} as requested"`, 2, false},
		{"no object", `"I could not summarise that."`, 0, true},
		{"not JSON at all", `no json here`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got summary
			err := (&Response{Content: json.RawMessage(tt.content)}).Decode(&got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			var inv *ErrInvalidResponse
			if tt.wantErr && !errors.As(err, &inv) {
				t.Fatalf("want ErrInvalidResponse, got %T", err)
			}
			if got.Hours != tt.want {
				t.Errorf("hours = %v, want %v", got.Hours, tt.want)
			}
		})
	}

	var nilResp *Response
	var inv *ErrInvalidResponse
	if err := nilResp.Decode(&struct{}{}); !errors.As(err, &inv) {
		t.Errorf("nil response: %v", err)
	}
}

func TestContextLabels(t *testing.T) {
	ctx := context.Background()
	if PurposeFrom(ctx) != "unknown" || StudentFrom(ctx) != "" {
		t.Fatal("empty context should carry no labels")
	}
	ctx = WithStudent(WithPurpose(ctx, "schedule"), "stu-9")
	if PurposeFrom(ctx) != "schedule" || StudentFrom(ctx) != "stu-9" {
		t.Fatalf("labels = %q %q", PurposeFrom(ctx), StudentFrom(ctx))
	}
	if PurposeFrom(WithPurpose(ctx, "")) != "unknown" {
		t.Error("blank purpose should read as unknown")
	}
}
