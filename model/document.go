package model

import "fmt"

// Background is a slide background: a local image path or a solid color.
// At most one of the two is set.
type Background struct {
	ImagePath string
	Color     string // RRGGBB
}

// SlideDocument is the structured description of one slide: everything
// extraction produced, in document order, together with the problems it
// found. It is built fresh per input document and read-only once built.
type SlideDocument struct {
	Source       string // identifier of the input document, used in errors
	Background   *Background
	Elements     []Element
	Placeholders []Placeholder
	Errors       []ValidationError

	// BodyW and BodyH are the measured root container dimensions in
	// inches, kept for layout validation.
	BodyW, BodyH float64

	// PaddingIn is the root container's own padding in inches (top,
	// right, bottom, left), defining the content area.
	PaddingIn [4]float64
}

// AddElement appends an element in document order.
func (d *SlideDocument) AddElement(e Element) {
	d.Elements = append(d.Elements, e)
}

// AddError records an extraction problem without stopping extraction.
func (d *SlideDocument) AddError(format string, args ...any) {
	d.Errors = append(d.Errors, ValidationError{Message: fmt.Sprintf(format, args...)})
}

// ContentArea returns the slide region inside the root container's
// padding as (left, top, right, bottom) in inches.
func (d *SlideDocument) ContentArea(slideW, slideH float64) (l, t, r, b float64) {
	return d.PaddingIn[3], d.PaddingIn[0], slideW - d.PaddingIn[1], slideH - d.PaddingIn[2]
}

// Messages flattens the document's recorded problems into strings.
func (d *SlideDocument) Messages() []string {
	return Messages(d.Errors)
}

// ValidationError is a single human-actionable problem. A non-empty
// error list blocks emission entirely.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string { return e.Message }

// Messages flattens a validation error list into strings.
func Messages(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Message
	}
	return out
}
