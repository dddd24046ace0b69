// Package css parses the computed CSS values a rendering session reports:
// colors, lengths, border radii, box shadows, object positions, and
// alignment keywords. Inputs are computed values, so the grammar is much
// narrower than author-level CSS.
package css

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is a parsed CSS color: an RRGGBB hex string (no leading '#')
// and an alpha channel in [0, 1].
type Color struct {
	Hex   string
	Alpha float64
}

// White is the substitute color for fully transparent backgrounds.
var White = Color{Hex: "FFFFFF", Alpha: 1}

// Transparency returns the color's opacity loss as a percentage in
// [0, 100]: round((1-alpha)*100).
func (c Color) Transparency() float64 {
	return math.Round((1 - c.Alpha) * 100)
}

// IsTransparent reports whether the color is fully transparent.
func (c Color) IsTransparent() bool {
	return c.Alpha == 0
}

// namedColors covers the handful of keywords that survive into computed
// values on some engines.
var namedColors = map[string]string{
	"black":       "000000",
	"white":       "FFFFFF",
	"red":         "FF0000",
	"green":       "008000",
	"blue":        "0000FF",
	"gray":        "808080",
	"grey":        "808080",
	"yellow":      "FFFF00",
	"orange":      "FFA500",
	"purple":      "800080",
	"transparent": "",
}

// ParseColor parses a computed color value: rgb(), rgba(), #RGB,
// #RRGGBB, #RRGGBBAA, or a named keyword. The keyword "transparent"
// and rgba() with zero alpha both parse to an all-zero color with
// Alpha 0.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "none" {
		return Color{}, fmt.Errorf("empty color value")
	}

	if hex, ok := namedColors[s]; ok {
		if hex == "" {
			return Color{Hex: "000000", Alpha: 0}, nil
		}
		return Color{Hex: hex, Alpha: 1}, nil
	}

	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}

	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		return parseRGBColor(s)
	}

	return Color{}, fmt.Errorf("unsupported color value %q", s)
}

func parseHexColor(h string) (Color, error) {
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	case 8:
		a, err := strconv.ParseUint(h[6:8], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q", h)
		}
		return Color{Hex: strings.ToUpper(h[:6]), Alpha: float64(a) / 255}, nil
	default:
		return Color{}, fmt.Errorf("invalid hex color %q", h)
	}
	if _, err := strconv.ParseUint(h, 16, 32); err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q", h)
	}
	return Color{Hex: strings.ToUpper(h), Alpha: 1}, nil
}

func parseRGBColor(s string) (Color, error) {
	open := strings.IndexByte(s, '(')
	close := strings.LastIndexByte(s, ')')
	if open < 0 || close <= open {
		return Color{}, fmt.Errorf("malformed rgb value %q", s)
	}

	body := s[open+1 : close]
	// Computed values use comma separators; newer engines may emit the
	// space/slash form.
	body = strings.ReplaceAll(body, "/", " ")
	body = strings.ReplaceAll(body, ",", " ")
	parts := strings.Fields(body)
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("malformed rgb value %q", s)
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSuffix(parts[i], "%"), 64)
		if err != nil {
			return Color{}, fmt.Errorf("malformed rgb channel %q", parts[i])
		}
		if strings.HasSuffix(parts[i], "%") {
			v = v * 255 / 100
		}
		ch[i] = uint8(math.Round(clamp(v, 0, 255)))
	}

	alpha := 1.0
	if len(parts) == 4 {
		v, err := strconv.ParseFloat(strings.TrimSuffix(parts[3], "%"), 64)
		if err != nil {
			return Color{}, fmt.Errorf("malformed alpha channel %q", parts[3])
		}
		if strings.HasSuffix(parts[3], "%") {
			v /= 100
		}
		alpha = clamp(v, 0, 1)
	}

	return Color{
		Hex:   fmt.Sprintf("%02X%02X%02X", ch[0], ch[1], ch[2]),
		Alpha: alpha,
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
