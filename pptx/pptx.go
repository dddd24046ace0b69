// Package pptx defines the abstract presentation-building API the
// emitter targets: slides accepting background, image, shape, line,
// text, and table calls, with geometry in EMUs (914,400 per inch).
// Writing the binary container is a concern of the assembly layer, not
// this module; the Recorder implementation captures the call stream for
// tests and tooling.
package pptx

import (
	"github.com/ktzy0305/SlideWeaver/css"
	"github.com/ktzy0305/SlideWeaver/model"
)

// Layout is a presentation-wide canvas size in inches. Every slide's
// measured geometry must match the layout.
type Layout struct {
	Name string  `json:"name"`
	WIn  float64 `json:"widthIn"`
	HIn  float64 `json:"heightIn"`
}

// The standard layouts of the target format.
var (
	Layout16x9  = Layout{Name: "LAYOUT_16x9", WIn: 10, HIn: 5.625}
	Layout16x10 = Layout{Name: "LAYOUT_16x10", WIn: 10, HIn: 6.25}
	Layout4x3   = Layout{Name: "LAYOUT_4x3", WIn: 10, HIn: 7.5}
	LayoutWide  = Layout{Name: "LAYOUT_WIDE", WIn: 13.333, HIn: 7.5}
)

// LayoutByName resolves a layout name, defaulting to wide 16:9.
func LayoutByName(name string) Layout {
	switch name {
	case Layout16x9.Name:
		return Layout16x9
	case Layout16x10.Name:
		return Layout16x10
	case Layout4x3.Name:
		return Layout4x3
	default:
		return LayoutWide
	}
}

// Box is a frame in EMUs.
type Box struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
	W int64 `json:"w"`
	H int64 `json:"h"`
}

// Background sets a slide background; exactly one field is populated.
type Background struct {
	Color     string `json:"color,omitempty"`
	ImagePath string `json:"imagePath,omitempty"`
}

// ShapeKind selects the shape geometry.
type ShapeKind string

const (
	ShapeRect      ShapeKind = "rect"
	ShapeRoundRect ShapeKind = "roundRect"
)

// LineStyle is a shape outline.
type LineStyle struct {
	Color   string  `json:"color"`
	WidthPt float64 `json:"widthPt"`
}

// ShadowStyle is an outer shadow.
type ShadowStyle struct {
	AngleDeg float64 `json:"angleDeg"`
	OffsetPt float64 `json:"offsetPt"`
	BlurPt   float64 `json:"blurPt"`
	Color    string  `json:"color"`
	Opacity  float64 `json:"opacity"`
}

// ImageOptions places an aspect-fitted image.
type ImageOptions struct {
	Path string `json:"path"`
	Box  Box    `json:"box"`
}

// ShapeOptions places a rectangle or rounded rectangle.
type ShapeOptions struct {
	Box          Box             `json:"box"`
	RotationDeg  float64         `json:"rotationDeg,omitempty"`
	Fill         string          `json:"fill,omitempty"`
	Transparency float64         `json:"transparency,omitempty"`
	RadiusEMU    int64           `json:"radiusEMU,omitempty"`
	Line         *LineStyle      `json:"line,omitempty"`
	Shadow       *ShadowStyle    `json:"shadow,omitempty"`
	Text         []model.TextRun `json:"text,omitempty"`
	TextOptions  *TextOptions    `json:"textOptions,omitempty"`
}

// LineOptions places an explicit two-endpoint segment.
type LineOptions struct {
	X1      int64   `json:"x1"`
	Y1      int64   `json:"y1"`
	X2      int64   `json:"x2"`
	Y2      int64   `json:"y2"`
	Color   string  `json:"color"`
	WidthPt float64 `json:"widthPt"`
}

// TextOptions places a rich text block.
type TextOptions struct {
	Box            Box           `json:"box"`
	RotationDeg    float64       `json:"rotationDeg,omitempty"`
	FontFace       string        `json:"fontFace,omitempty"`
	SizePt         float64       `json:"sizePt,omitempty"`
	Color          string        `json:"color,omitempty"`
	Bold           bool          `json:"bold,omitempty"`
	Italic         bool          `json:"italic,omitempty"`
	Underline      bool          `json:"underline,omitempty"`
	Align          css.Alignment `json:"align,omitempty"`
	LineSpacingPt  float64       `json:"lineSpacingPt,omitempty"`
	Bullet         bool          `json:"bullet,omitempty"`
	BulletIndentPt float64       `json:"bulletIndentPt,omitempty"`
}

// TableOptions places a table. Only position and size are set at the
// table level; column widths are left to native auto-fit.
type TableOptions struct {
	Box Box `json:"box"`
}

// Presentation is the object the emitter commits validated slides to.
type Presentation interface {
	Layout() Layout
	AddSlide() Slide
}

// Slide accepts element-add calls for one slide.
type Slide interface {
	SetBackground(bg Background)
	AddImage(opts ImageOptions)
	AddShape(kind ShapeKind, opts ShapeOptions)
	AddLine(opts LineOptions)
	AddText(runs []model.TextRun, opts TextOptions)
	AddTable(rows [][]model.Cell, opts TableOptions)
}
