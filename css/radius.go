package css

import (
	"fmt"
	"strings"
)

// Radius is a resolved border radius. When FullyRound is set the corner
// radius equals half the element's shorter side (a pill or circle);
// otherwise Px holds the absolute radius in pixels.
type Radius struct {
	Px         float64
	FullyRound bool
}

// IsZero reports whether the radius rounds nothing.
func (r Radius) IsZero() bool {
	return !r.FullyRound && r.Px <= 0
}

// ResolveRadius resolves a computed border-radius against the element's
// rendered width and height in pixels. Percentages at or above 50%
// are treated as fully rounded; smaller percentages scale the shorter
// side. Multi-value radii resolve from their first component.
func ResolveRadius(value string, w, h float64) (Radius, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "0px" || value == "0" {
		return Radius{}, nil
	}

	// Per-corner shorthand: use the first corner. Slide decks round
	// uniformly; mixed corners have no shape equivalent anyway.
	if i := strings.IndexAny(value, " /"); i >= 0 {
		value = value[:i]
	}

	if strings.HasSuffix(value, "%") {
		pct, err := ParsePercent(value)
		if err != nil {
			return Radius{}, err
		}
		if pct >= 50 {
			return Radius{FullyRound: true}, nil
		}
		shorter := w
		if h < w {
			shorter = h
		}
		return Radius{Px: shorter * pct / 100}, nil
	}

	px, err := ParsePx(value)
	if err != nil {
		return Radius{}, fmt.Errorf("invalid border-radius %q: %w", value, err)
	}
	shorter := w
	if h < w {
		shorter = h
	}
	if shorter > 0 && px >= shorter/2 {
		return Radius{FullyRound: true}, nil
	}
	return Radius{Px: px}, nil
}
