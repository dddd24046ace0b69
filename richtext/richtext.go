// Package richtext flattens a text-bearing element's inline markup into
// an ordered sequence of styled runs. Adjacent plain text and line
// breaks merge into one run; inline elements open runs with their own
// resolved style. Order is document order and is preserved exactly.
package richtext

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ktzy0305/SlideWeaver/css"
	"github.com/ktzy0305/SlideWeaver/dom"
	"github.com/ktzy0305/SlideWeaver/model"
	"github.com/ktzy0305/SlideWeaver/units"
)

// BoldWeight is the resolved font-weight threshold at which a run is
// emitted bold.
const BoldWeight = 600

// singleWeightFaces are display faces that ship one weight only; their
// resolved weight is decorative and must not trigger synthetic bolding.
var singleWeightFaces = map[string]bool{
	"impact":     true,
	"bebas neue": true,
	"oswald":     true,
	"lobster":    true,
	"pacifico":   true,
}

// inherited is the style state flowing down the recursion. The
// transform composes as a function so nested text-transform overrides
// still apply to their own subtree only.
type inherited struct {
	transform func(string) string
	opts      model.RunOptions
}

// Build flattens the children of a text-bearing element into runs. The
// element's own computed style provides the baseline every inline
// override is resolved against. Problems (inline margins, unparsable
// styles) are reported without aborting; extraction continues.
func Build(n *dom.Node) ([]model.TextRun, []model.ValidationError) {
	base := inherited{
		transform: transformFunc(styleOf(n).TextTransform),
		opts:      optionsFrom(n, model.RunOptions{}),
	}

	var runs []model.TextRun
	var errs []model.ValidationError
	for _, child := range n.Children {
		walk(child, base, &runs, &errs)
	}
	return model.TrimRuns(runs), errs
}

func walk(n *dom.Node, inh inherited, runs *[]model.TextRun, errs *[]model.ValidationError) {
	if n.IsText() {
		appendRun(runs, inh.transform(n.Text), inh.opts)
		return
	}

	if n.Tag == "br" {
		appendRun(runs, "\n", inh.opts)
		return
	}

	style := styleOf(n)
	if style.Margin.Any() {
		*errs = append(*errs, model.ValidationError{
			Message: "inline element <" + n.Tag + "> has a non-zero margin, which has no presentation equivalent; use padding on the parent instead",
		})
	}

	child := inherited{
		transform: inh.transform,
		opts:      optionsFrom(n, inh.opts),
	}
	if t := style.TextTransform; t != "" && t != "none" {
		child.transform = transformFunc(t)
	}

	for _, c := range n.Children {
		walk(c, child, runs, errs)
	}
}

// optionsFrom resolves a node's run options against the options already
// in force.
func optionsFrom(n *dom.Node, parent model.RunOptions) model.RunOptions {
	style := styleOf(n)
	opts := parent

	face := css.FirstFontFamily(style.FontFamily)
	if face != "" {
		opts.FontFace = face
	}
	if style.FontSizePx > 0 {
		opts.SizePt = units.PxToPoints(style.FontSizePx)
	}
	if c, err := css.ParseColor(style.Color); err == nil && !c.IsTransparent() {
		opts.Color = c.Hex
	}

	opts.Bold = style.FontWeight >= BoldWeight
	opts.Italic = style.FontStyle == "italic" || style.FontStyle == "oblique" || n.Tag == "i" || n.Tag == "em"
	if n.Tag == "b" || n.Tag == "strong" {
		opts.Bold = true
	}
	// Single-weight faces cannot render bold; suppress it regardless of
	// how it was requested.
	if singleWeightFaces[strings.ToLower(opts.FontFace)] {
		opts.Bold = false
	}

	decorated := strings.Contains(style.TextDecoration, "underline")
	opts.Underline = parent.Underline || decorated || n.Tag == "u"

	if n.Tag == "a" {
		if href := n.Attr("href"); href != "" {
			opts.Hyperlink = href
			// Links default to underlined unless the author styled the
			// decoration away explicitly.
			if !strings.Contains(n.Attr("style"), "text-decoration") && !decorated {
				opts.Underline = true
			}
		}
	}

	return opts
}

// appendRun adds text to the run sequence, merging with the previous
// run when the style is identical.
func appendRun(runs *[]model.TextRun, text string, opts model.RunOptions) {
	if text == "" {
		return
	}
	if len(*runs) > 0 {
		last := &(*runs)[len(*runs)-1]
		if last.Options == opts {
			last.Text += text
			return
		}
	}
	*runs = append(*runs, model.TextRun{Text: text, Options: opts})
}

var titleCaser = cases.Title(language.Und, cases.NoLower)

// transformFunc maps a computed text-transform onto a string function.
func transformFunc(transform string) func(string) string {
	switch transform {
	case "uppercase":
		return strings.ToUpper
	case "lowercase":
		return strings.ToLower
	case "capitalize":
		return titleCaser.String
	default:
		return func(s string) string { return s }
	}
}

// styleOf never returns nil; detached nodes resolve to an empty style.
func styleOf(n *dom.Node) *dom.Computed {
	if n.Style != nil {
		return n.Style
	}
	return &dom.Computed{}
}

// HasInlineFormatting reports whether any descendant uses inline markup
// that would require rich runs rather than a plain string.
func HasInlineFormatting(n *dom.Node) bool {
	return n.HasElement("b", "strong", "i", "em", "u", "a", "span", "br", "code", "sub", "sup", "mark", "small")
}
