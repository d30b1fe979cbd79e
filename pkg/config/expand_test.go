package config

import (
	"math"
	"strings"
	"testing"
)

func TestExpandParametersScalar(t *testing.T) {
	got, err := ExpandParameters(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != 42 {
		t.Errorf("expected [42], got %v", got)
	}

	got, err = ExpandParameters(0.25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != 0.25 {
		t.Errorf("expected [0.25], got %v", got)
	}
}

func TestExpandParametersList(t *testing.T) {
	got, err := ExpandParameters([]any{10, 20.5, 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{10, 20.5, 30}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestExpandParametersRange(t *testing.T) {
	tests := []struct {
		name string
		spec map[string]any
		want []float64
	}{
		{
			name: "integer steps",
			spec: map[string]any{"min": 10, "max": 40, "step": 10},
			want: []float64{10, 20, 30, 40},
		},
		{
			name: "fractional steps include max",
			spec: map[string]any{"min": 0.0, "max": 1.0, "step": 0.25},
			want: []float64{0, 0.25, 0.5, 0.75, 1.0},
		},
		{
			name: "max not on grid is excluded",
			spec: map[string]any{"min": 0, "max": 10, "step": 4},
			want: []float64{0, 4, 8},
		},
		{
			name: "min equals max",
			spec: map[string]any{"min": 5, "max": 5, "step": 1},
			want: []float64{5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandParameters(tt.spec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("element %d: expected %f, got %f", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestExpandParametersErrors(t *testing.T) {
	tests := []struct {
		name    string
		spec    any
		wantErr string
	}{
		{"nil spec", nil, "missing"},
		{"empty list", []any{}, "cannot be empty"},
		{"non-numeric list element", []any{1, "two"}, "not numeric"},
		{"non-numeric scalar", "fast", "not numeric"},
		{"range missing min", map[string]any{"max": 1, "step": 1}, `missing "min"`},
		{"range missing step", map[string]any{"min": 0, "max": 1}, `missing "step"`},
		{"zero step", map[string]any{"min": 0, "max": 1, "step": 0}, "step must be positive"},
		{"max below min", map[string]any{"min": 2, "max": 1, "step": 1}, "smaller than min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExpandParameters(tt.spec)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}
