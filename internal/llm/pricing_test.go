package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		found bool
		input float64
	}{
		{"gpt-4", true, 30},
		{"openai/gpt-4o-mini", true, 0.15},
		{"claude-haiku-4-5-20251001", true, 1},
		{"some/unknown-model", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			c := LookupCost(tt.model)
			if (c != nil) != tt.found {
				t.Fatalf("LookupCost(%q) found = %v, want %v", tt.model, c != nil, tt.found)
			}
			if c != nil && c.InputPerMTok != tt.input {
				t.Fatalf("input price = %v, want %v", c.InputPerMTok, tt.input)
			}
		})
	}
}

func TestEstimateCost(t *testing.T) {
	got, ok := EstimateCost("gpt-4o-mini", 1_000_000, 500_000)
	if !ok {
		t.Fatal("expected priced model")
	}
	if math.Abs(got-0.45) > 1e-9 {
		t.Fatalf("cost = %v, want 0.45", got)
	}
	if _, ok := EstimateCost("mock", 10, 10); ok {
		t.Fatal("mock must be unpriced")
	}
}
