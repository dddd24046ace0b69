// Package emit converts a fully validated slide document into calls on
// the abstract presentation API. Emission is deterministic, never
// mutates its input, and runs only after validation passed: the only
// failure it tolerates locally is an unreadable background image, which
// skips that one optional effect.
package emit

import (
	"github.com/ktzy0305/SlideWeaver/model"
	"github.com/ktzy0305/SlideWeaver/pptx"
	"github.com/ktzy0305/SlideWeaver/units"
)

// Widening compensation for systematic width under-measurement of text
// boxes.
const (
	textWidenFraction      = 0.02
	hyperlinkWidenFraction = 0.08
	hyperlinkWidenMinIn    = 0.25
	singleLineFactor       = 1.5
)

// Emitter writes slide documents to a presentation. The zero value is
// not usable; construct with New.
type Emitter struct {
	pres   pptx.Presentation
	layout pptx.Layout
	sizer  ImageSizer
}

// New creates an emitter committing to pres. sizer resolves intrinsic
// image dimensions; pass nil for the default file-based sizer.
func New(pres pptx.Presentation, sizer ImageSizer) *Emitter {
	if sizer == nil {
		sizer = FileImageSizer{}
	}
	return &Emitter{pres: pres, layout: pres.Layout(), sizer: sizer}
}

// Emit adds one slide built from doc. doc must have passed validation;
// Emit does not re-check.
func (e *Emitter) Emit(doc *model.SlideDocument) {
	slide := e.pres.AddSlide()

	e.emitBackground(slide, doc.Background)

	for _, el := range doc.Elements {
		switch t := el.(type) {
		case *model.Image:
			e.emitImage(slide, t)
		case *model.Shape:
			e.emitShape(slide, t)
		case *model.Line:
			e.emitLine(slide, t)
		case *model.List:
			e.emitList(slide, t)
		case *model.Table:
			e.emitTable(slide, t)
		case *model.Text:
			e.emitText(slide, t)
		}
	}
}

// emitBackground sets the slide background. An unreadable image path
// skips the assignment; the slide still emits.
func (e *Emitter) emitBackground(slide pptx.Slide, bg *model.Background) {
	if bg == nil {
		return
	}
	if bg.ImagePath != "" {
		if _, _, err := e.sizer.Size(bg.ImagePath); err != nil {
			return
		}
		slide.SetBackground(pptx.Background{ImagePath: bg.ImagePath})
		return
	}
	if bg.Color != "" {
		slide.SetBackground(pptx.Background{Color: bg.Color})
	}
}

// emitImage aspect-fits the intrinsic image size into the element's
// frame, aligns per the resolved object-position, and clamps the final
// box to the slide.
func (e *Emitter) emitImage(slide pptx.Slide, img *model.Image) {
	frame := img.Position
	fitW, fitH := frame.W, frame.H

	if iw, ih, err := e.sizer.Size(img.Path); err == nil && iw > 0 && ih > 0 {
		imgAspect := float64(iw) / float64(ih)
		frameAspect := frame.W / frame.H
		if imgAspect >= frameAspect {
			fitW = frame.W
			fitH = frame.W / imgAspect
		} else {
			fitH = frame.H
			fitW = frame.H * imgAspect
		}
	}

	x := frame.X + alignOffset(img.ObjectPosition.XPercent, frame.W-fitW)
	y := frame.Y + alignOffset(img.ObjectPosition.YPercent, frame.H-fitH)

	x, fitW = clampSpan(x, fitW, e.layout.WIn)
	y, fitH = clampSpan(y, fitH, e.layout.HIn)

	slide.AddImage(pptx.ImageOptions{
		Path: img.Path,
		Box:  emuBox(x, y, fitW, fitH),
	})
}

// alignOffset distributes leftover space per object-position policy:
// percentages at or below 10 hug the start edge, at or above 90 the end
// edge, anything else centers.
func alignOffset(percent, leftover float64) float64 {
	switch {
	case percent <= 10:
		return 0
	case percent >= 90:
		return leftover
	default:
		return leftover / 2
	}
}

func (e *Emitter) emitShape(slide pptx.Slide, shape *model.Shape) {
	kind := pptx.ShapeRect
	var radiusEMU int64
	if shape.FullyRound || shape.RadiusIn > 0 {
		kind = pptx.ShapeRoundRect
		radius := shape.RadiusIn
		if shape.FullyRound {
			radius = min(shape.Position.W, shape.Position.H) / 2
		}
		radiusEMU = units.InchesToEMU(radius)
	}

	opts := pptx.ShapeOptions{
		Box:          emuBox(shape.Position.X, shape.Position.Y, shape.Position.W, shape.Position.H),
		RotationDeg:  rotation(shape.Position),
		Fill:         shape.Fill,
		Transparency: shape.Transparency,
		RadiusEMU:    radiusEMU,
	}
	if shape.Border != nil {
		opts.Line = &pptx.LineStyle{Color: shape.Border.Color, WidthPt: shape.Border.WidthPt}
	}
	if shape.Shadow != nil {
		opts.Shadow = &pptx.ShadowStyle{
			AngleDeg: shape.Shadow.AngleDeg,
			OffsetPt: shape.Shadow.OffsetPt,
			BlurPt:   shape.Shadow.BlurPt,
			Color:    shape.Shadow.Color,
			Opacity:  shape.Shadow.Opacity,
		}
	}
	if len(shape.Runs) > 0 {
		opts.Text = shape.Runs
		textOpts := textOptions(shape.TextStyle, shape.Position)
		opts.TextOptions = &textOpts
	}

	slide.AddShape(kind, opts)
}

func (e *Emitter) emitLine(slide pptx.Slide, line *model.Line) {
	slide.AddLine(pptx.LineOptions{
		X1:      units.InchesToEMU(line.X1),
		Y1:      units.InchesToEMU(line.Y1),
		X2:      units.InchesToEMU(line.X2),
		Y2:      units.InchesToEMU(line.Y2),
		Color:   line.Color,
		WidthPt: line.WidthPt,
	})
}

// emitList renders the whole list as one bulleted text block with
// forced breaks between items, none after the last.
func (e *Emitter) emitList(slide pptx.Slide, list *model.List) {
	var runs []model.TextRun
	for i, item := range list.Items {
		runs = append(runs, item.Runs...)
		if i < len(list.Items)-1 && len(item.Runs) > 0 {
			brk := model.TextRun{Text: "\n", Options: item.Runs[len(item.Runs)-1].Options}
			// A break is not part of the link it follows.
			brk.Options.Hyperlink = ""
			runs = append(runs, brk)
		}
	}

	opts := textOptions(list.Style, list.Position)
	opts.Bullet = true
	opts.BulletIndentPt = list.IndentPt
	slide.AddText(runs, opts)
}

// emitTable fills unset cell style fields from the table's block style
// so the emitted grid is self-describing, then places it. The input
// rows are copied, never mutated.
func (e *Emitter) emitTable(slide pptx.Slide, table *model.Table) {
	rows := make([][]model.Cell, len(table.Rows))
	for i, row := range table.Rows {
		rows[i] = append([]model.Cell(nil), row...)
		for j := range rows[i] {
			cellDefaults(&rows[i][j].Options, table.Style)
		}
	}

	slide.AddTable(rows, pptx.TableOptions{
		Box: emuBox(table.Position.X, table.Position.Y, table.Position.W, table.Position.H),
	})
}

func cellDefaults(o *model.CellOptions, s model.Style) {
	if o.FontFace == "" {
		o.FontFace = s.FontFace
	}
	if o.SizePt == 0 {
		o.SizePt = s.SizePt
	}
	if o.Color == "" {
		o.Color = s.Color
	}
	if o.Align == "" {
		o.Align = s.Align
	}
}

// emitText widens single-line boxes to compensate for systematic width
// under-measurement, direction chosen by alignment, clamped to the
// slide.
func (e *Emitter) emitText(slide pptx.Slide, text *model.Text) {
	pos := text.Position
	x, w := pos.X, pos.W

	lineHIn := units.PointsToInches(text.Style.LineHeightPt)
	if lineHIn > 0 && pos.H <= singleLineFactor*lineHIn {
		widen := textWidenFraction * w
		if model.HasHyperlink(text.Runs) {
			widen = max(hyperlinkWidenFraction*w, hyperlinkWidenMinIn)
		}
		switch text.Style.Align {
		case "right":
			x -= widen
		case "center":
			x -= widen / 2
		}
		w += widen
		x, w = clampSpan(x, w, e.layout.WIn)
	}

	widened := pos
	widened.X, widened.W = x, w
	slide.AddText(text.Runs, textOptions(text.Style, widened))
}

func textOptions(style model.Style, pos model.Position) pptx.TextOptions {
	return pptx.TextOptions{
		Box:           emuBox(pos.X, pos.Y, pos.W, pos.H),
		RotationDeg:   rotation(pos),
		FontFace:      style.FontFace,
		SizePt:        style.SizePt,
		Color:         style.Color,
		Bold:          style.Bold,
		Italic:        style.Italic,
		Underline:     style.Underline,
		Align:         style.Align,
		LineSpacingPt: style.LineHeightPt,
	}
}

func rotation(pos model.Position) float64 {
	if pos.Rotation == nil {
		return 0
	}
	return *pos.Rotation
}

func emuBox(x, y, w, h float64) pptx.Box {
	return pptx.Box{
		X: units.InchesToEMU(x),
		Y: units.InchesToEMU(y),
		W: units.InchesToEMU(w),
		H: units.InchesToEMU(h),
	}
}

// clampSpan clips an interval to [0, limit].
func clampSpan(start, length, limit float64) (float64, float64) {
	if start < 0 {
		length += start
		start = 0
	}
	if start+length > limit {
		length = limit - start
	}
	if length < 0 {
		length = 0
	}
	return start, length
}
