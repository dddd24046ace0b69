package emit

import (
	"errors"
	"testing"

	"github.com/ktzy0305/SlideWeaver/css"
	"github.com/ktzy0305/SlideWeaver/model"
	"github.com/ktzy0305/SlideWeaver/pptx"
	"github.com/ktzy0305/SlideWeaver/units"
)

func emitOne(t *testing.T, doc *model.SlideDocument, sizer ImageSizer) *pptx.RecordedSlide {
	t.Helper()
	rec := pptx.NewRecorder(pptx.Layout16x9)
	New(rec, sizer).Emit(doc)
	if len(rec.Slides) != 1 {
		t.Fatalf("got %d slides, want 1", len(rec.Slides))
	}
	return rec.Slides[0]
}

func inEMU(in float64) int64 { return units.InchesToEMU(in) }

func TestEmitImageAspectFit(t *testing.T) {
	tests := []struct {
		name       string
		imgW, imgH int
		xPct, yPct float64
		wantBox    pptx.Box
	}{
		{
			// 400x200 into a 2x2in frame is wider than the frame, so it
			// fits to width and centers vertically.
			name: "wide image fits to width",
			imgW: 400, imgH: 200,
			xPct: 50, yPct: 50,
			wantBox: pptx.Box{X: inEMU(1), Y: inEMU(1.5), W: inEMU(2), H: inEMU(1)},
		},
		{
			name: "tall image fits to height",
			imgW: 100, imgH: 400,
			xPct: 50, yPct: 50,
			wantBox: pptx.Box{X: inEMU(1.75), Y: inEMU(1), W: inEMU(0.5), H: inEMU(2)},
		},
		{
			name: "top aligned",
			imgW: 400, imgH: 200,
			xPct: 50, yPct: 0,
			wantBox: pptx.Box{X: inEMU(1), Y: inEMU(1), W: inEMU(2), H: inEMU(1)},
		},
		{
			name: "bottom aligned",
			imgW: 400, imgH: 200,
			xPct: 50, yPct: 100,
			wantBox: pptx.Box{X: inEMU(1), Y: inEMU(2), W: inEMU(2), H: inEMU(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &model.SlideDocument{}
			doc.AddElement(&model.Image{
				Position:       model.Position{X: 1, Y: 1, W: 2, H: 2},
				Path:           "img.png",
				ObjectPosition: css.ObjectPosition{XPercent: tt.xPct, YPercent: tt.yPct},
			})

			slide := emitOne(t, doc, FixedSizer{W: tt.imgW, H: tt.imgH})
			if len(slide.Calls) != 1 || slide.Calls[0].Op != "addImage" {
				t.Fatalf("calls = %v", slide.Ops())
			}
			opts := slide.Calls[0].Args.(pptx.ImageOptions)
			if opts.Box != tt.wantBox {
				t.Errorf("box = %+v, want %+v", opts.Box, tt.wantBox)
			}
		})
	}
}

func TestEmitImageUnknownSizeKeepsFrame(t *testing.T) {
	doc := &model.SlideDocument{}
	doc.AddElement(&model.Image{
		Position: model.Position{X: 1, Y: 1, W: 2, H: 2},
		Path:     "missing.png",
	})

	slide := emitOne(t, doc, FixedSizer{Err: errors.New("no such file")})
	opts := slide.Calls[0].Args.(pptx.ImageOptions)
	want := pptx.Box{X: inEMU(1), Y: inEMU(1), W: inEMU(2), H: inEMU(2)}
	if opts.Box != want {
		t.Errorf("box = %+v, want the untouched frame %+v", opts.Box, want)
	}
}

func TestEmitImageClampsToSlide(t *testing.T) {
	doc := &model.SlideDocument{}
	doc.AddElement(&model.Image{
		Position: model.Position{X: 9, Y: 1, W: 2, H: 1},
		Path:     "img.png",
	})

	slide := emitOne(t, doc, FixedSizer{W: 200, H: 100})
	opts := slide.Calls[0].Args.(pptx.ImageOptions)
	if opts.Box.X+opts.Box.W > inEMU(10) {
		t.Errorf("box %+v extends past the 10in slide edge", opts.Box)
	}
}

func TestEmitBackgroundSkipsUnreadableImage(t *testing.T) {
	doc := &model.SlideDocument{
		Background: &model.Background{ImagePath: "gone.png"},
	}
	doc.AddElement(&model.Text{
		Position: model.Position{X: 1, Y: 1, W: 2, H: 2},
		Runs:     []model.TextRun{{Text: "still here"}},
	})

	slide := emitOne(t, doc, FixedSizer{Err: errors.New("unreadable")})
	for _, op := range slide.Ops() {
		if op == "background" {
			t.Error("unreadable background image must be skipped")
		}
	}
	if len(slide.Calls) != 1 || slide.Calls[0].Op != "addText" {
		t.Errorf("calls = %v, want the text to emit anyway", slide.Ops())
	}
}

func TestEmitBackgroundColor(t *testing.T) {
	doc := &model.SlideDocument{Background: &model.Background{Color: "112233"}}
	slide := emitOne(t, doc, FixedSizer{W: 1, H: 1})
	if len(slide.Calls) != 1 || slide.Calls[0].Op != "background" {
		t.Fatalf("calls = %v", slide.Ops())
	}
	bg := slide.Calls[0].Args.(pptx.Background)
	if bg.Color != "112233" {
		t.Errorf("color = %q", bg.Color)
	}
}

func TestEmitShapeRounding(t *testing.T) {
	doc := &model.SlideDocument{}
	doc.AddElement(&model.Shape{
		Position: model.Position{X: 0, Y: 0, W: 2, H: 1},
		Fill:     "FF0000",
		RadiusIn: 0.1,
	})
	doc.AddElement(&model.Shape{
		Position:   model.Position{X: 0, Y: 2, W: 2, H: 1},
		Fill:       "00FF00",
		FullyRound: true,
	})
	doc.AddElement(&model.Shape{
		Position: model.Position{X: 0, Y: 4, W: 2, H: 1},
		Fill:     "0000FF",
	})

	slide := emitOne(t, doc, FixedSizer{W: 1, H: 1})
	if len(slide.Calls) != 3 {
		t.Fatalf("calls = %v", slide.Ops())
	}

	first := slide.Calls[0].Args.(pptx.ShapeCall)
	if first.Kind != pptx.ShapeRoundRect || first.Opts.RadiusEMU != inEMU(0.1) {
		t.Errorf("radius shape = %v %d", first.Kind, first.Opts.RadiusEMU)
	}

	// Fully round resolves to half the shorter side (0.5in).
	second := slide.Calls[1].Args.(pptx.ShapeCall)
	if second.Kind != pptx.ShapeRoundRect || second.Opts.RadiusEMU != inEMU(0.5) {
		t.Errorf("pill shape = %v %d, want radius %d", second.Kind, second.Opts.RadiusEMU, inEMU(0.5))
	}

	third := slide.Calls[2].Args.(pptx.ShapeCall)
	if third.Kind != pptx.ShapeRect || third.Opts.RadiusEMU != 0 {
		t.Errorf("plain shape = %v %d", third.Kind, third.Opts.RadiusEMU)
	}
}

func TestEmitShapeWithInlineText(t *testing.T) {
	doc := &model.SlideDocument{}
	doc.AddElement(&model.Shape{
		Position:  model.Position{X: 1, Y: 1, W: 3, H: 1},
		Fill:      "336699",
		Runs:      []model.TextRun{{Text: "label"}},
		TextStyle: model.Style{SizePt: 18, Color: "FFFFFF"},
	})

	slide := emitOne(t, doc, FixedSizer{W: 1, H: 1})
	call := slide.Calls[0].Args.(pptx.ShapeCall)
	if len(call.Opts.Text) != 1 || call.Opts.Text[0].Text != "label" {
		t.Fatalf("text runs = %+v", call.Opts.Text)
	}
	if call.Opts.TextOptions == nil || call.Opts.TextOptions.SizePt != 18 {
		t.Errorf("text options = %+v", call.Opts.TextOptions)
	}
}

func TestEmitLine(t *testing.T) {
	doc := &model.SlideDocument{}
	doc.AddElement(&model.Line{X1: 1, Y1: 2, X2: 6, Y2: 2, Color: "FF0000", WidthPt: 1.5})

	slide := emitOne(t, doc, FixedSizer{W: 1, H: 1})
	call := slide.Calls[0].Args.(pptx.LineOptions)
	if call.X1 != inEMU(1) || call.X2 != inEMU(6) || call.Y1 != call.Y2 {
		t.Errorf("endpoints = %+v", call)
	}
	if call.Color != "FF0000" || call.WidthPt != 1.5 {
		t.Errorf("style = %+v", call)
	}
}

func TestEmitListJoinsItemsWithBreaks(t *testing.T) {
	doc := &model.SlideDocument{}
	doc.AddElement(&model.List{
		Position: model.Position{X: 1, Y: 1, W: 4, H: 2},
		Items: []model.ListItem{
			{Runs: []model.TextRun{{Text: "first"}}},
			{Runs: []model.TextRun{{Text: "second"}}},
			{Runs: []model.TextRun{{Text: "third"}}},
		},
		IndentPt: 18,
	})

	slide := emitOne(t, doc, FixedSizer{W: 1, H: 1})
	call := slide.Calls[0].Args.(pptx.TextCall)

	if !call.Opts.Bullet || call.Opts.BulletIndentPt != 18 {
		t.Errorf("bullet opts = %+v", call.Opts)
	}
	if got := model.JoinRuns(call.Runs); got != "first\nsecond\nthird" {
		t.Errorf("joined = %q, want breaks between items and none after the last", got)
	}
}

func TestEmitListBreakInheritsRunStyle(t *testing.T) {
	doc := &model.SlideDocument{}
	doc.AddElement(&model.List{
		Position: model.Position{X: 1, Y: 1, W: 4, H: 2},
		Items: []model.ListItem{
			{Runs: []model.TextRun{{Text: "docs", Options: model.RunOptions{Bold: true, Hyperlink: "https://x"}}}},
			{Runs: []model.TextRun{{Text: "plain"}}},
		},
	})

	slide := emitOne(t, doc, FixedSizer{W: 1, H: 1})
	call := slide.Calls[0].Args.(pptx.TextCall)
	if len(call.Runs) != 3 {
		t.Fatalf("got %d runs, want 3: %+v", len(call.Runs), call.Runs)
	}
	brk := call.Runs[1]
	if brk.Text != "\n" || !brk.Options.Bold {
		t.Errorf("break run = %+v, want newline styled like the preceding run", brk)
	}
	if brk.Options.Hyperlink != "" {
		t.Errorf("break run carries hyperlink %q; the link must end with its item", brk.Options.Hyperlink)
	}
}

func TestEmitTextWidening(t *testing.T) {
	link := []model.TextRun{{Text: "docs", Options: model.RunOptions{Hyperlink: "https://x"}}}
	plain := []model.TextRun{{Text: "plain"}}

	tests := []struct {
		name  string
		runs  []model.TextRun
		align css.Alignment
		h     float64
		wantX float64
		wantW float64
	}{
		{"single line widens right", plain, css.AlignLeft, 0.25, 1, 2.04},
		{"right aligned widens left", plain, css.AlignRight, 0.25, 0.96, 2.04},
		{"centered widens both ways", plain, css.AlignCenter, 0.25, 0.98, 2.04},
		{"hyperlink widens more", link, css.AlignLeft, 0.25, 1, 2.25},
		{"multi line untouched", plain, css.AlignLeft, 2, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &model.SlideDocument{}
			doc.AddElement(&model.Text{
				Position: model.Position{X: 1, Y: 1, W: 2, H: tt.h},
				Runs:     tt.runs,
				Style: model.Style{
					Align:        tt.align,
					LineHeightPt: 14.4, // 0.2in line box
				},
			})

			slide := emitOne(t, doc, FixedSizer{W: 1, H: 1})
			call := slide.Calls[0].Args.(pptx.TextCall)
			if call.Opts.Box.X != inEMU(tt.wantX) {
				t.Errorf("x = %d, want %d", call.Opts.Box.X, inEMU(tt.wantX))
			}
			if call.Opts.Box.W != inEMU(tt.wantW) {
				t.Errorf("w = %d, want %d", call.Opts.Box.W, inEMU(tt.wantW))
			}
		})
	}
}

func TestEmitTableCellDefaults(t *testing.T) {
	rows := [][]model.Cell{{
		{Text: "plain"},
		{Text: "styled", Options: model.CellOptions{FontFace: "Georgia", SizePt: 18, Color: "FF0000"}},
	}}
	table := &model.Table{
		Position: model.Position{X: 1, Y: 1, W: 4, H: 2},
		Rows:     rows,
		Style:    model.Style{FontFace: "Arial", SizePt: 12, Color: "333333", Align: "left"},
	}
	doc := &model.SlideDocument{}
	doc.AddElement(table)

	slide := emitOne(t, doc, FixedSizer{W: 1, H: 1})
	call := slide.Calls[0].Args.(pptx.TableCall)
	if len(call.Rows) != 1 || call.Rows[0][1].Text != "styled" {
		t.Fatalf("rows = %+v", call.Rows)
	}
	if call.Opts.Box.X != inEMU(1) || call.Opts.Box.W != inEMU(4) {
		t.Errorf("box = %+v", call.Opts.Box)
	}

	// Unset cell fields inherit the table's block style; set ones win.
	plain := call.Rows[0][0].Options
	if plain.FontFace != "Arial" || plain.SizePt != 12 || plain.Color != "333333" || plain.Align != "left" {
		t.Errorf("defaulted cell = %+v", plain)
	}
	styled := call.Rows[0][1].Options
	if styled.FontFace != "Georgia" || styled.SizePt != 18 || styled.Color != "FF0000" {
		t.Errorf("styled cell = %+v", styled)
	}

	// The document's own rows stay untouched.
	if table.Rows[0][0].Options.FontFace != "" {
		t.Errorf("emission mutated the input table: %+v", table.Rows[0][0].Options)
	}
}

func TestEmitDeterministic(t *testing.T) {
	build := func() *model.SlideDocument {
		doc := &model.SlideDocument{Background: &model.Background{Color: "FFFFFF"}}
		doc.AddElement(&model.Shape{Position: model.Position{W: 2, H: 1}, Fill: "FF0000"})
		doc.AddElement(&model.Text{
			Position: model.Position{X: 1, Y: 1, W: 2, H: 2},
			Runs:     []model.TextRun{{Text: "body"}},
		})
		return doc
	}

	a := emitOne(t, build(), FixedSizer{W: 1, H: 1})
	b := emitOne(t, build(), FixedSizer{W: 1, H: 1})

	if len(a.Calls) != len(b.Calls) {
		t.Fatalf("call counts differ: %d vs %d", len(a.Calls), len(b.Calls))
	}
	for i := range a.Calls {
		if a.Calls[i].Op != b.Calls[i].Op {
			t.Errorf("call %d op %q vs %q", i, a.Calls[i].Op, b.Calls[i].Op)
		}
	}
}
