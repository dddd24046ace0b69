// Package render abstracts the rendering session a conversion runs
// inside. A Session loads one slide document, exposes a computed-style
// snapshot of its DOM, measures text with the document's fonts, and
// applies the one mutation the pipeline needs (rewriting a heading's
// content during title auto-wrap).
//
// Two implementations ship: Chrome drives a headless browser through
// chromedp, and Static resolves inline styles deterministically for
// tests and environments without a browser. Any conforming
// implementation is substitutable.
package render

import (
	"context"

	"github.com/ktzy0305/SlideWeaver/dom"
)

// FontSpec identifies a font for measurement.
type FontSpec struct {
	Family string
	SizePx float64
	Weight int
	Italic bool
}

// Session is a scoped rendering resource. It must be closed on every
// exit path; all methods honor context cancellation.
type Session interface {
	// Load navigates the session to a slide document. source is a local
	// file path.
	Load(ctx context.Context, source string) error

	// Snapshot returns the current style-annotated DOM tree rooted at
	// the document body. Each call reflects mutations applied since the
	// last one.
	Snapshot(ctx context.Context) (*dom.Node, error)

	// MeasureText returns the rendered width of text in CSS pixels
	// using the given font.
	MeasureText(ctx context.Context, text string, font FontSpec) (float64, error)

	// SetText replaces the content of the element identified by ref
	// with the given lines separated by explicit line breaks.
	SetText(ctx context.Context, ref string, lines []string) error

	// Close releases the session's resources.
	Close(ctx context.Context) error
}

// Measurer measures text width without a live session. The Static
// session and the auto-wrap tests use it directly.
type Measurer interface {
	MeasureText(text string, font FontSpec) (float64, error)
}

// MeasurerFunc adapts a function to the Measurer interface.
type MeasurerFunc func(text string, font FontSpec) (float64, error)

// MeasureText implements Measurer.
func (f MeasurerFunc) MeasureText(text string, font FontSpec) (float64, error) {
	return f(text, font)
}

// FixedWidth returns a deterministic measurer that charges every rune
// ratio×SizePx pixels. Tests use it for reproducible wrap decisions.
func FixedWidth(ratio float64) Measurer {
	return MeasurerFunc(func(text string, font FontSpec) (float64, error) {
		n := 0
		for range text {
			n++
		}
		return float64(n) * ratio * font.SizePx, nil
	})
}
