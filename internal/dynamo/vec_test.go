package dynamo

import (
	"math"
	"testing"
)

func TestVec2_Normalize(t *testing.T) {
	tests := []struct {
		name string
		v    Vec2
		want Vec2
	}{
		{"unit x", V(1, 0), V(1, 0)},
		{"3-4-5", V(3, 4), V(0.6, 0.8)},
		{"negative", V(0, -2), V(0, -1)},
		{"zero", Vec2{}, Vec2{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Normalize()
			if math.Abs(got.X-tt.want.X) > 1e-12 || math.Abs(got.Y-tt.want.Y) > 1e-12 {
				t.Errorf("Normalize(%v) = %v, want %v", tt.v, got, tt.want)
			}
			if !got.IsValid() {
				t.Errorf("Normalize(%v) produced non-finite %v", tt.v, got)
			}
		})
	}
}

func TestVec2_Arithmetic(t *testing.T) {
	a := V(1, 2)
	b := V(4, 6)

	if got := a.Add(b); got != V(5, 8) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != V(3, 4) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(2); got != V(2, 4) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := b.Sub(a).Len(); got != 5 {
		t.Errorf("Len failed: got %v", got)
	}
	if got := a.Dot(b); got != 16 {
		t.Errorf("Dot failed: got %v", got)
	}
}

func TestVec2_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		v     Vec2
		valid bool
	}{
		{"zero", Vec2{}, true},
		{"normal", V(1, -3), true},
		{"NaN x", V(math.NaN(), 0), false},
		{"+Inf y", V(0, math.Inf(1)), false},
		{"-Inf x", V(math.Inf(-1), 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}
