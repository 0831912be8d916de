package calculator

import (
	"math"
	"testing"
)

func TestFormatValue(t *testing.T) {
	// Operands held in variables so the sum is computed in float64 rather
	// than as an exact constant.
	a, b := 0.1, 0.2

	tests := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "0"},
		{in: math.Copysign(0, -1), want: "-0"},
		{in: 8, want: "8"},
		{in: -2, want: "-2"},
		{in: 11, want: "11"},
		{in: 0.1, want: "0.1"},
		{in: a + b, want: "0.30000000000000004"},
		{in: 1234567.5, want: "1234567.5"},
		{in: 0.0001, want: "0.0001"},
		{in: 0.00001, want: "1e-05"},
		{in: 1e15, want: "1000000000000000"},
		{in: 1e16, want: "1e+16"},
		{in: math.Inf(1), want: "Inf"},
		{in: math.Inf(-1), want: "-Inf"},
		{in: math.NaN(), want: "NaN"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := formatValue(tc.in); got != tc.want {
				t.Fatalf("formatValue(%v): expected %q, got %q", tc.in, tc.want, got)
			}
		})
	}
}

func TestParseDisplay(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{in: "0", want: 0, ok: true},
		{in: "-12.5", want: -12.5, ok: true},
		{in: "3.", want: 3, ok: true},
		{in: "1e+16", want: 1e16, ok: true},
		{in: "Inf", want: math.Inf(1), ok: true},
		{in: "-Inf", want: math.Inf(-1), ok: true},
		{in: "1e999", want: math.Inf(1), ok: true},
		{in: "-", ok: false},
		{in: "+", ok: false},
		{in: "×", ok: false},
		{in: "--5", ok: false},
		{in: "", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := parseDisplay(tc.in)
			if ok != tc.ok {
				t.Fatalf("parseDisplay(%q): expected ok=%t, got %t", tc.in, tc.ok, ok)
			}
			if ok && got != tc.want {
				t.Fatalf("parseDisplay(%q): expected %v, got %v", tc.in, tc.want, got)
			}
		})
	}

	if v, ok := parseDisplay("-NaN"); !ok || !math.IsNaN(v) {
		t.Fatalf("expected -NaN to parse as NaN, got %v %t", v, ok)
	}
}
