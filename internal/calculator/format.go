package calculator

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// formatValue renders x the way the display shows computed results.
func formatValue(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Inf"
	case math.IsInf(x, -1):
		return "-Inf"
	}

	abs := math.Abs(x)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(x, 'e', -1, 64)
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// parseDisplay reports whether s is a number and returns its value.
// One leading sign glyph is accepted so that toggled values such as "-NaN"
// stay numeric. Literals beyond float64 range parse to ±Inf.
func parseDisplay(s string) (float64, bool) {
	neg := strings.HasPrefix(s, glyphs[Subtract])
	if neg {
		s = s[len(glyphs[Subtract]):]
	}
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}
