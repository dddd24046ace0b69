package model

import "github.com/ktzy0305/SlideWeaver/css"

// ElementKind identifies the concrete variant of an Element.
type ElementKind int

const (
	KindText ElementKind = iota
	KindList
	KindImage
	KindShape
	KindLine
	KindTable
)

func (k ElementKind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindList:
		return "List"
	case KindImage:
		return "Image"
	case KindShape:
		return "Shape"
	case KindLine:
		return "Line"
	case KindTable:
		return "Table"
	default:
		return "Unknown"
	}
}

// Position is an element's frame on the slide, in inches. Rotation is
// normalized to [0, 360) degrees; nil means unrotated.
type Position struct {
	X, Y, W, H float64
	Rotation   *float64
}

// Right returns the frame's right edge.
func (p Position) Right() float64 { return p.X + p.W }

// Bottom returns the frame's bottom edge.
func (p Position) Bottom() float64 { return p.Y + p.H }

// IsEmpty reports whether the frame has no extent.
func (p Position) IsEmpty() bool { return p.W <= 0 || p.H <= 0 }

// Element is the closed set of slide element variants. Concrete types
// are *Text, *List, *Image, *Shape, *Line, and *Table; consumers
// dispatch with a type switch.
type Element interface {
	Kind() ElementKind
	Frame() Position
}

// Style carries resolved block-level text styling. Values are derived
// from computed CSS, never raw markup.
type Style struct {
	FontFace     string
	SizePt       float64
	Color        string // RRGGBB
	Transparency float64
	Bold         bool
	Italic       bool
	Underline    bool
	Align        css.Alignment
	LineHeightPt float64 // resolved line box height
	ParaSpacePt  float64 // spacing after a paragraph
	MarginPt     float64 // inset applied inside the text frame
}

// Text is a block of rich text.
type Text struct {
	Position Position
	Runs     []TextRun
	Style    Style
}

func (t *Text) Kind() ElementKind { return KindText }
func (t *Text) Frame() Position   { return t.Position }

// PlainText flattens the runs into one string.
func (t *Text) PlainText() string {
	return JoinRuns(t.Runs)
}

// List is a bulleted block built from a list container.
type List struct {
	Position Position
	Items    []ListItem
	Style    Style
	IndentPt float64 // bullet indent derived from the source padding
}

func (l *List) Kind() ElementKind { return KindList }
func (l *List) Frame() Position   { return l.Position }

// ListItem is one bulleted entry.
type ListItem struct {
	Runs []TextRun
}

// Image is a raster image placed by reference.
type Image struct {
	Position Position
	Path     string // local path or data: URI
	// ObjectPosition controls how the aspect-fitted image aligns inside
	// its frame.
	ObjectPosition css.ObjectPosition
}

func (i *Image) Kind() ElementKind { return KindImage }
func (i *Image) Frame() Position   { return i.Position }

// Shape is a filled or outlined rectangle, optionally rounded, with an
// optional shadow and optional inline text.
type Shape struct {
	Position     Position
	Fill         string // RRGGBB; empty means no fill
	Transparency float64
	RadiusIn     float64 // corner radius in inches
	FullyRound   bool
	Border       *Border
	Shadow       *Shadow
	Runs         []TextRun
	TextStyle    Style
}

func (s *Shape) Kind() ElementKind { return KindShape }
func (s *Shape) Frame() Position   { return s.Position }

// Border is a uniform shape outline.
type Border struct {
	Color   string // RRGGBB
	WidthPt float64
}

// Shadow is an outer drop shadow.
type Shadow struct {
	AngleDeg float64
	OffsetPt float64
	BlurPt   float64
	Color    string // RRGGBB
	Opacity  float64
}

// Line is an explicit two-endpoint segment, used for decorative rules
// and for decomposed non-uniform borders. Endpoints are in inches.
type Line struct {
	X1, Y1, X2, Y2 float64
	Color          string // RRGGBB
	WidthPt        float64
}

func (l *Line) Kind() ElementKind { return KindLine }
func (l *Line) Frame() Position {
	x, w := l.X1, l.X2-l.X1
	if w < 0 {
		x, w = l.X2, -w
	}
	y, h := l.Y1, l.Y2-l.Y1
	if h < 0 {
		y, h = l.Y2, -h
	}
	return Position{X: x, Y: y, W: w, H: h}
}

// Table is a row-major grid of cells.
type Table struct {
	Position Position
	Rows     [][]Cell
	Style    Style
}

func (t *Table) Kind() ElementKind { return KindTable }
func (t *Table) Frame() Position   { return t.Position }

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return len(t.Rows) }

// FirstRowCellCount returns the number of cells in the first row, the
// reference column count for span validation.
func (t *Table) FirstRowCellCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// EffectiveColumns returns a row's column contribution: the sum of its
// cells' colspans.
func EffectiveColumns(row []Cell) int {
	n := 0
	for _, c := range row {
		span := c.Options.ColSpan
		if span < 1 {
			span = 1
		}
		n += span
	}
	return n
}

// Placeholder is a named, empty box reserved for later injection by an
// external layer. Placeholders are recorded but never emitted.
type Placeholder struct {
	ID       string
	Position Position
}
