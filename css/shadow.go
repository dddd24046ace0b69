package css

import (
	"fmt"
	"math"
	"strings"
)

// Shadow is a parsed outer box shadow: the offset direction expressed
// as an angle, the blur radius, and the shadow color with its opacity.
type Shadow struct {
	AngleDeg float64 // atan2 of the offset vector, degrees in [0, 360)
	OffsetPx float64 // magnitude of the offset vector
	BlurPx   float64
	Color    string  // RRGGBB
	Opacity  float64 // 0..1
}

// ParseShadow parses a computed box-shadow value. Inset shadows and
// "none" return (nil, nil): they have no presentation equivalent and are
// dropped rather than rejected. Multiple shadows resolve to the first.
func ParseShadow(value string) (*Shadow, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "none" {
		return nil, nil
	}

	// Only the first shadow of a list is representable. Commas inside
	// rgb() functions do not split.
	if i := topLevelComma(value); i >= 0 {
		value = value[:i]
	}

	if strings.Contains(value, "inset") {
		return nil, nil
	}

	color := Color{Hex: "000000", Alpha: 1}
	rest := value

	// Computed values put the color first; author values may put it last.
	if start := strings.Index(rest, "rgb"); start >= 0 {
		end := strings.IndexByte(rest[start:], ')')
		if end < 0 {
			return nil, fmt.Errorf("malformed box-shadow %q", value)
		}
		c, err := ParseColor(rest[start : start+end+1])
		if err != nil {
			return nil, fmt.Errorf("malformed box-shadow color: %w", err)
		}
		color = c
		rest = rest[:start] + rest[start+end+1:]
	} else if start := strings.IndexByte(rest, '#'); start >= 0 {
		fields := strings.Fields(rest[start:])
		c, err := ParseColor(fields[0])
		if err != nil {
			return nil, fmt.Errorf("malformed box-shadow color: %w", err)
		}
		color = c
		rest = rest[:start] + strings.TrimPrefix(rest[start:], fields[0])
	}

	lengths := strings.Fields(rest)
	if len(lengths) < 2 {
		return nil, fmt.Errorf("box-shadow %q needs at least two offsets", value)
	}

	px := make([]float64, 0, 4)
	for _, l := range lengths {
		v, err := ParsePx(l)
		if err != nil {
			return nil, fmt.Errorf("malformed box-shadow length %q", l)
		}
		px = append(px, v)
	}

	dx, dy := px[0], px[1]
	blur := 0.0
	if len(px) > 2 {
		blur = px[2]
	}

	angle := math.Atan2(dy, dx) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}

	return &Shadow{
		AngleDeg: angle,
		OffsetPx: math.Hypot(dx, dy),
		BlurPx:   blur,
		Color:    color.Hex,
		Opacity:  color.Alpha,
	}, nil
}

// topLevelComma returns the index of the first comma outside any
// parenthesized group, or -1.
func topLevelComma(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
