// Package validate checks an extracted slide against the target layout.
// Every validator is a pure function returning a list of
// human-actionable problems; all validators always run, their results
// concatenate, and any non-empty combined list blocks emission.
package validate

import (
	"fmt"

	"github.com/ktzy0305/SlideWeaver/dom"
	"github.com/ktzy0305/SlideWeaver/model"
	"github.com/ktzy0305/SlideWeaver/units"
)

const (
	// DimensionToleranceIn is the allowed per-axis difference between
	// the measured body and the target layout.
	DimensionToleranceIn = 0.1

	// OverflowTolerancePx is the allowed per-axis scrollable overflow.
	OverflowTolerancePx = 1.0

	// MinBottomMarginIn is the minimum gap between sizable text and the
	// slide bottom.
	MinBottomMarginIn = 0.5

	// BottomMarginFontPt is the font size above which the bottom-margin
	// rule applies.
	BottomMarginFontPt = 12.0

	// TableBottomMarginIn is the margin a table must leave beyond the
	// content area's bottom edge.
	TableBottomMarginIn = 0.3

	// MaxColumnCountDiff is how far a row's effective column count may
	// deviate from the first row's cell count.
	MaxColumnCountDiff = 2

	// MaxCellChars bounds a single cell's flattened text.
	MaxCellChars = 5000
)

// All runs every validator and concatenates the results. body is the
// snapshot the document was extracted from; slideW and slideH are the
// target layout in inches.
func All(doc *model.SlideDocument, body *dom.Node, slideW, slideH float64) []model.ValidationError {
	var errs []model.ValidationError
	errs = append(errs, Dimensions(doc, slideW, slideH)...)
	errs = append(errs, Overflow(body)...)
	errs = append(errs, TextBottomMargin(doc, slideH)...)
	errs = append(errs, Tables(doc, slideW, slideH)...)
	return errs
}

// Dimensions checks that the measured body matches the target layout
// within tolerance on each axis.
func Dimensions(doc *model.SlideDocument, slideW, slideH float64) []model.ValidationError {
	var errs []model.ValidationError
	if d := doc.BodyW - slideW; d > DimensionToleranceIn || d < -DimensionToleranceIn {
		errs = append(errs, verr("slide body is %.2fin wide but the layout requires %.2fin (off by %.2fin)",
			doc.BodyW, slideW, abs(d)))
	}
	if d := doc.BodyH - slideH; d > DimensionToleranceIn || d < -DimensionToleranceIn {
		errs = append(errs, verr("slide body is %.2fin tall but the layout requires %.2fin (off by %.2fin)",
			doc.BodyH, slideH, abs(d)))
	}
	return errs
}

// Overflow checks every element for scrollable content exceeding its
// declared box, reporting the excess in points.
func Overflow(body *dom.Node) []model.ValidationError {
	var errs []model.ValidationError
	if body == nil {
		return errs
	}
	body.Walk(func(n *dom.Node) bool {
		if !n.IsElement() || n.Style == nil {
			return true
		}
		s := n.Style
		if excess := s.ScrollW - s.Box.W; excess > OverflowTolerancePx {
			errs = append(errs, verr("<%s> content overflows its box horizontally by %.2fpt",
				n.Tag, units.PxToPoints(excess)))
		}
		if excess := s.ScrollH - s.Box.H; excess > OverflowTolerancePx {
			errs = append(errs, verr("<%s> content overflows its box vertically by %.2fpt",
				n.Tag, units.PxToPoints(excess)))
		}
		return true
	})
	return errs
}

// TextBottomMargin flags sizable text ending too close to the slide
// bottom.
func TextBottomMargin(doc *model.SlideDocument, slideH float64) []model.ValidationError {
	var errs []model.ValidationError
	for _, el := range doc.Elements {
		var (
			pos    model.Position
			sizePt float64
			text   string
		)
		switch t := el.(type) {
		case *model.Text:
			pos, sizePt, text = t.Position, t.Style.SizePt, t.PlainText()
		case *model.List:
			pos, sizePt = t.Position, t.Style.SizePt
			if len(t.Items) > 0 {
				text = model.JoinRuns(t.Items[0].Runs)
			}
		default:
			continue
		}
		if sizePt <= BottomMarginFontPt {
			continue
		}
		if margin := slideH - pos.Bottom(); margin < MinBottomMarginIn {
			errs = append(errs, verr("text %q ends %.2fin from the slide bottom; at least %.2fin is required for text over %.0fpt",
				snippet(text), margin, MinBottomMarginIn, BottomMarginFontPt))
		}
	}
	return errs
}

// Tables validates every table's placement and structure.
func Tables(doc *model.SlideDocument, slideW, slideH float64) []model.ValidationError {
	var errs []model.ValidationError
	contentL, contentT, contentR, contentB := doc.ContentArea(slideW, slideH)

	for _, el := range doc.Elements {
		table, ok := el.(*model.Table)
		if !ok {
			continue
		}
		pos := table.Position

		if d := contentL - pos.X; d > 0 {
			errs = append(errs, verr("table extends %.2fin beyond the left content edge", d))
		}
		if d := pos.Right() - contentR; d > 0 {
			errs = append(errs, verr("table extends %.2fin beyond the right content edge", d))
		}
		if d := contentT - pos.Y; d > 0 {
			errs = append(errs, verr("table extends %.2fin beyond the top content edge", d))
		}
		if d := pos.Bottom() - (contentB - TableBottomMarginIn); d > 0 {
			errs = append(errs, verr("table bottom leaves only %.2fin above the content edge; %.2fin is required",
				contentB-pos.Bottom(), TableBottomMarginIn))
		}

		if pos.X < 0 {
			errs = append(errs, verr("table extends %.2fin beyond the left slide edge", -pos.X))
		}
		if pos.Y < 0 {
			errs = append(errs, verr("table extends %.2fin beyond the top slide edge", -pos.Y))
		}
		if d := pos.Right() - slideW; d > 0 {
			errs = append(errs, verr("table extends %.2fin beyond the right slide edge", d))
		}
		if d := pos.Bottom() - slideH; d > 0 {
			errs = append(errs, verr("table extends %.2fin beyond the bottom slide edge", d))
		}

		errs = append(errs, tableStructure(table)...)
	}
	return errs
}

func tableStructure(table *model.Table) []model.ValidationError {
	var errs []model.ValidationError

	if table.RowCount() == 0 {
		return append(errs, verr("table has no rows"))
	}

	firstCount := table.FirstRowCellCount()
	for i, row := range table.Rows {
		effective := model.EffectiveColumns(row)
		if diff := effective - firstCount; diff > MaxColumnCountDiff || diff < -MaxColumnCountDiff {
			errs = append(errs, verr("row %d has an inconsistent column count: %d effective columns against %d in the first row",
				i+1, effective, firstCount))
		}
		for j, cell := range row {
			if n := len([]rune(cell.PlainText())); n > MaxCellChars {
				errs = append(errs, verr("cell (%d,%d) holds %d characters; at most %d are allowed", i+1, j+1, n, MaxCellChars))
			}
			if span := cell.Options.ColSpan; span > firstCount {
				errs = append(errs, verr("cell (%d,%d) colspan %d exceeds the table's %d columns", i+1, j+1, span, firstCount))
			}
			if span := cell.Options.RowSpan; span > table.RowCount() {
				errs = append(errs, verr("cell (%d,%d) rowspan %d exceeds the table's %d rows", i+1, j+1, span, table.RowCount()))
			}
		}
	}
	return errs
}

func verr(format string, args ...any) model.ValidationError {
	return model.ValidationError{Message: fmt.Sprintf(format, args...)}
}

func snippet(s string) string {
	runes := []rune(s)
	if len(runes) > 40 {
		return string(runes[:40]) + "…"
	}
	return s
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
