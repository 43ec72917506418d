package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

var sessionShape = &Schema{
	Name: "validate-session-shape",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"effectiveness_score": map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"difficulty":          map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
			"key_concepts": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"review": map[string]any{
				"type":       "object",
				"properties": map[string]any{"topic": map[string]any{"type": "string"}},
				"required":   []any{"topic"},
			},
		},
		"required": []any{"effectiveness_score", "key_concepts"},
	},
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"complete", `{"effectiveness_score":82,"difficulty":"medium","key_concepts":["loops"],"review":{"topic":"lists"}}`, false},
		{"optional fields omitted", `{"effectiveness_score":40,"key_concepts":[]}`, false},
		{"missing required", `{"key_concepts":["loops"]}`, true},
		{"score out of range", `{"effectiveness_score":140,"key_concepts":[]}`, true},
		{"wrong item type", `{"effectiveness_score":50,"key_concepts":[1,2]}`, true},
		{"bad enum", `{"effectiveness_score":50,"key_concepts":[],"difficulty":"brutal"}`, true},
		{"nested required", `{"effectiveness_score":50,"key_concepts":[],"review":{}}`, true},
		{"not JSON", `Sure! Here is the analysis`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(sessionShape, json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("want ErrInvalidResponse, got %T (%v)", err, err)
			}
			if string(inv.Content) != tt.raw {
				t.Errorf("content = %q", inv.Content)
			}
		})
	}
}

func TestValidateResponseNilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`anything`)); err != nil {
		t.Fatal(err)
	}
}

func TestCompileSchemaCached(t *testing.T) {
	a, err := compileSchema(sessionShape)
	if err != nil {
		t.Fatal(err)
	}
	b, err := compileSchema(sessionShape)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatal("second compile should hit the cache")
	}
}

func TestCompileSchemaBroken(t *testing.T) {
	broken := &Schema{Name: "validate-broken", Definition: map[string]any{"type": 42}}
	if _, err := compileSchema(broken); err == nil {
		t.Fatal("expected compile error")
	}
}
