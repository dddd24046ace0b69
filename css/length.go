package css

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePx parses a computed pixel length ("12px", "0", "1.5px") into a
// float64 pixel count. Unknown units and malformed values return an
// error; the bare zero is accepted because engines emit it unitless.
func ParsePx(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty length value")
	}
	if s == "0" {
		return 0, nil
	}
	if !strings.HasSuffix(s, "px") {
		return 0, fmt.Errorf("length %q is not in pixels", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	return v, nil
}

// ParsePercent parses a percentage value ("50%") into its numeric part.
func ParsePercent(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "%") {
		return 0, fmt.Errorf("value %q is not a percentage", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q", s)
	}
	return v, nil
}

// ObjectPosition is a resolved object-position value as percentages
// along each axis (50, 50 is centered).
type ObjectPosition struct {
	XPercent float64
	YPercent float64
}

// ParseObjectPosition parses a computed object-position value. Computed
// values are always two percentages ("50% 50%"); keywords are accepted
// anyway for callers feeding author-level values.
func ParseObjectPosition(s string) (ObjectPosition, error) {
	pos := ObjectPosition{XPercent: 50, YPercent: 50}
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(parts) == 0 {
		return pos, nil
	}
	if len(parts) == 1 {
		parts = append(parts, "50%")
	}

	axes := []*float64{&pos.XPercent, &pos.YPercent}
	for i, part := range parts[:2] {
		switch part {
		case "left", "top":
			*axes[i] = 0
		case "center":
			*axes[i] = 50
		case "right", "bottom":
			*axes[i] = 100
		default:
			v, err := ParsePercent(part)
			if err != nil {
				// Pixel offsets degrade to centered alignment.
				if _, pxErr := ParsePx(part); pxErr == nil {
					*axes[i] = 50
					continue
				}
				return pos, fmt.Errorf("invalid object-position %q: %w", s, err)
			}
			*axes[i] = v
		}
	}
	return pos, nil
}
