package model

import "github.com/ktzy0305/SlideWeaver/css"

// Cell is one table cell. Text holds the flattened content when the
// cell has no inline formatting; Runs holds rich content otherwise
// (exactly one of the two is populated).
type Cell struct {
	Text    string
	Runs    []TextRun
	Options CellOptions
}

// PlainText returns the cell content as a single string regardless of
// representation.
func (c Cell) PlainText() string {
	if len(c.Runs) > 0 {
		return JoinRuns(c.Runs)
	}
	return c.Text
}

// CellOptions carries per-cell styling. Spans default to 1.
type CellOptions struct {
	Bold      bool
	Italic    bool
	Underline bool
	FontFace  string
	SizePt    float64
	Color     string // RRGGBB
	Fill      string // RRGGBB; empty means no fill
	Align     css.Alignment
	VAlign    css.VerticalAlignment
	MarginPt  float64
	Border    *Border
	ColSpan   int
	RowSpan   int
}
