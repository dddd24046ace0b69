// Package autowrap rewrites over-wide content-slide headings with
// explicit line breaks before extraction, so the geometry the pipeline
// measures reflects the final wrapped boxes. Wrapping is greedy by
// word; a single word wider than the limit cannot be wrapped and fails
// the slide.
package autowrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/ktzy0305/SlideWeaver/dom"
	"github.com/ktzy0305/SlideWeaver/model"
	"github.com/ktzy0305/SlideWeaver/render"
)

// DefaultMaxWidthFraction is the slide-width fraction a heading line
// may occupy.
const DefaultMaxWidthFraction = 0.75

// tolerancePx absorbs sub-pixel measurement jitter between engines.
const tolerancePx = 1.5

// excludedClasses designate headings on title and ending slides, which
// are styled deliberately and never rewrapped.
var excludedClasses = []string{"title-slide", "ending-slide"}

// Config controls the wrap pass.
type Config struct {
	// MaxWidthFraction is the fraction of the slide width a heading
	// line may span. Zero means DefaultMaxWidthFraction.
	MaxWidthFraction float64
}

func (c Config) fraction() float64 {
	if c.MaxWidthFraction <= 0 {
		return DefaultMaxWidthFraction
	}
	return c.MaxWidthFraction
}

// Apply wraps every qualifying heading in the loaded document, mutating
// it through the session. It returns the wrap problems found; a
// non-nil error means the session itself failed.
func Apply(ctx context.Context, sess render.Session, cfg Config) ([]model.ValidationError, error) {
	body, err := sess.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshotting before wrap: %w", err)
	}

	slideW := 0.0
	if body.Style != nil {
		slideW = body.Style.Box.W
	}
	if slideW <= 0 {
		return nil, fmt.Errorf("document body has no measurable width")
	}
	limit := cfg.fraction()*slideW + tolerancePx

	var errs []model.ValidationError
	for _, heading := range candidates(body) {
		wrapErrs, err := wrapHeading(ctx, sess, heading, limit)
		if err != nil {
			return errs, err
		}
		errs = append(errs, wrapErrs...)
	}
	return errs, nil
}

// candidates returns the content-slide headings eligible for wrapping,
// in document order.
func candidates(body *dom.Node) []*dom.Node {
	return body.FindAll(func(n *dom.Node) bool {
		if !isHeadingTag(n.Tag) {
			return false
		}
		for _, class := range excludedClasses {
			if n.SelfOrAncestorHasClass(class) {
				return false
			}
		}
		return true
	})
}

func isHeadingTag(tag string) bool {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

func wrapHeading(ctx context.Context, sess render.Session, heading *dom.Node, limit float64) ([]model.ValidationError, error) {
	// Pre-broken headings are the author's own line layout.
	if heading.HasElement("br") {
		return nil, nil
	}

	text := strings.Join(strings.Fields(heading.TextContent()), " ")
	if text == "" {
		return nil, nil
	}

	font := headingFont(heading)
	width, err := sess.MeasureText(ctx, text, font)
	if err != nil {
		return nil, fmt.Errorf("measuring heading %q: %w", text, err)
	}
	if width <= limit {
		return nil, nil
	}

	lines, wrapErr, err := greedyWrap(ctx, sess, text, font, limit)
	if err != nil {
		return nil, err
	}
	if wrapErr != nil {
		return []model.ValidationError{*wrapErr}, nil
	}

	if err := sess.SetText(ctx, heading.Ref, lines); err != nil {
		return nil, fmt.Errorf("rewriting heading %q: %w", text, err)
	}

	// Re-validate the result: a wrapped line must never exceed the
	// limit it was wrapped against.
	var errs []model.ValidationError
	for _, line := range lines {
		w, err := sess.MeasureText(ctx, line, font)
		if err != nil {
			return errs, fmt.Errorf("re-measuring wrapped line %q: %w", line, err)
		}
		if w > limit {
			errs = append(errs, model.ValidationError{
				Message: fmt.Sprintf("heading line %q still measures %.2fpx against a %.2fpx limit after wrapping", line, w, limit),
			})
		}
	}
	return errs, nil
}

// greedyWrap packs words into lines left to right. It returns a
// validation error (not a session error) when a single word cannot fit;
// a failed measurement fails the wrap immediately rather than guessing.
func greedyWrap(ctx context.Context, sess render.Session, text string, font render.FontSpec, limit float64) ([]string, *model.ValidationError, error) {
	words := strings.Fields(text)
	var lines []string
	var current string

	for _, word := range words {
		wordW, err := sess.MeasureText(ctx, word, font)
		if err != nil {
			return nil, nil, fmt.Errorf("measuring word %q: %w", word, err)
		}
		if wordW > limit {
			return nil, &model.ValidationError{
				Message: fmt.Sprintf("heading %q is too long to wrap: word %q alone measures %.2fpx against a %.2fpx limit", text, word, wordW, limit),
			}, nil
		}

		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		lineW, err := sess.MeasureText(ctx, candidate, font)
		if err != nil {
			return nil, nil, fmt.Errorf("measuring line %q: %w", candidate, err)
		}
		if lineW <= limit {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines, nil, nil
}

func headingFont(heading *dom.Node) render.FontSpec {
	spec := render.FontSpec{Family: "Arial", SizePx: 32, Weight: 700}
	if s := heading.Style; s != nil {
		if s.FontFamily != "" {
			spec.Family = s.FontFamily
		}
		if s.FontSizePx > 0 {
			spec.SizePx = s.FontSizePx
		}
		if s.FontWeight > 0 {
			spec.Weight = s.FontWeight
		}
		spec.Italic = s.FontStyle == "italic"
	}
	return spec
}
