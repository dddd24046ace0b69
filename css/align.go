package css

import "strings"

// Alignment is a horizontal text alignment in presentation terms.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// ParseAlignment maps a computed text-align value onto a presentation
// alignment. Engine-specific defaults ("start", "-webkit-auto") map to
// left; unrecognized values do too.
func ParseAlignment(s string) Alignment {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "center":
		return AlignCenter
	case "right", "end":
		return AlignRight
	case "justify":
		return AlignJustify
	default:
		return AlignLeft
	}
}

// VerticalAlignment is a vertical alignment in presentation terms.
type VerticalAlignment string

const (
	VAlignTop    VerticalAlignment = "top"
	VAlignMiddle VerticalAlignment = "middle"
	VAlignBottom VerticalAlignment = "bottom"
)

// ParseVerticalAlignment maps a computed vertical-align value onto a
// presentation vertical alignment. Table cells default to middle.
func ParseVerticalAlignment(s string) VerticalAlignment {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "top", "text-top":
		return VAlignTop
	case "bottom", "text-bottom":
		return VAlignBottom
	default:
		return VAlignMiddle
	}
}

// ParseRotation extracts the rotation in degrees from a computed
// transform matrix ("matrix(a, b, c, d, e, f)"). Non-rotating
// transforms and "none" return 0.
func ParseRotation(transform string) float64 {
	transform = strings.TrimSpace(transform)
	if transform == "" || transform == "none" {
		return 0
	}
	open := strings.IndexByte(transform, '(')
	close := strings.LastIndexByte(transform, ')')
	if !strings.HasPrefix(transform, "matrix(") || open < 0 || close <= open {
		return 0
	}
	parts := strings.Split(transform[open+1:close], ",")
	if len(parts) < 4 {
		return 0
	}
	a, errA := ParseNumber(parts[0])
	b, errB := ParseNumber(parts[1])
	if errA != nil || errB != nil {
		return 0
	}
	return atan2Deg(b, a)
}
