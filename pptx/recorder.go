package pptx

import (
	"encoding/json"

	"github.com/ktzy0305/SlideWeaver/model"
)

// Recorder is a Presentation that captures every call in order. Tests
// assert on the call stream; the CLI serializes it as JSON for the
// assembly layer.
type Recorder struct {
	layout Layout
	Slides []*RecordedSlide
}

// NewRecorder creates a recorder for the given layout.
func NewRecorder(layout Layout) *Recorder {
	return &Recorder{layout: layout}
}

// Layout implements Presentation.
func (r *Recorder) Layout() Layout { return r.layout }

// AddSlide implements Presentation.
func (r *Recorder) AddSlide() Slide {
	s := &RecordedSlide{}
	r.Slides = append(r.Slides, s)
	return s
}

// MarshalJSON serializes the layout and the per-slide call streams.
func (r *Recorder) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Layout Layout           `json:"layout"`
		Slides []*RecordedSlide `json:"slides"`
	}{r.layout, r.Slides})
}

// Call is one recorded API call.
type Call struct {
	Op   string `json:"op"`
	Args any    `json:"args"`
}

// RecordedSlide holds one slide's calls in emission order.
type RecordedSlide struct {
	Calls []Call `json:"calls"`
}

func (s *RecordedSlide) add(op string, args any) {
	s.Calls = append(s.Calls, Call{Op: op, Args: args})
}

// SetBackground implements Slide.
func (s *RecordedSlide) SetBackground(bg Background) { s.add("background", bg) }

// AddImage implements Slide.
func (s *RecordedSlide) AddImage(opts ImageOptions) { s.add("addImage", opts) }

// ShapeCall is the recorded argument pair of an AddShape call.
type ShapeCall struct {
	Kind ShapeKind    `json:"kind"`
	Opts ShapeOptions `json:"opts"`
}

// TextCall is the recorded argument pair of an AddText call.
type TextCall struct {
	Runs []model.TextRun `json:"runs"`
	Opts TextOptions     `json:"opts"`
}

// TableCall is the recorded argument pair of an AddTable call.
type TableCall struct {
	Rows [][]model.Cell `json:"rows"`
	Opts TableOptions   `json:"opts"`
}

// AddShape implements Slide.
func (s *RecordedSlide) AddShape(kind ShapeKind, opts ShapeOptions) {
	s.add("addShape", ShapeCall{Kind: kind, Opts: opts})
}

// AddLine implements Slide.
func (s *RecordedSlide) AddLine(opts LineOptions) { s.add("addLine", opts) }

// AddText implements Slide.
func (s *RecordedSlide) AddText(runs []model.TextRun, opts TextOptions) {
	s.add("addText", TextCall{Runs: runs, Opts: opts})
}

// AddTable implements Slide.
func (s *RecordedSlide) AddTable(rows [][]model.Cell, opts TableOptions) {
	s.add("addTable", TableCall{Rows: rows, Opts: opts})
}

// Ops returns the operation names of a slide's calls in order.
func (s *RecordedSlide) Ops() []string {
	ops := make([]string, len(s.Calls))
	for i, c := range s.Calls {
		ops[i] = c.Op
	}
	return ops
}
