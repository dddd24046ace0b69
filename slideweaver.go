// Package slideweaver converts HTML/CSS slide documents into calls on
// an abstract presentation API.
//
// Basic usage:
//
//	pres := pptx.NewRecorder(pptx.LayoutWide)
//	err := slideweaver.Open("slide.html").Convert(ctx, pres)
//	if err != nil {
//	    // handle error; a *slideweaver.SlideError lists the
//	    // validation problems that blocked the slide
//	}
//
// With options:
//
//	err := slideweaver.Open("slide.html").
//	    MaxHeadingWidth(0.8).
//	    Convert(ctx, pres)
//
// Each source file renders in a layout engine, has over-wide headings
// rewrapped, and is extracted into typed elements that are validated
// against the presentation layout. A slide emits all of its elements or
// none: any validation problem blocks emission and surfaces in the
// returned error.
package slideweaver

import (
	"context"

	"github.com/ktzy0305/SlideWeaver/render"
)

// Open prepares a conversion of one HTML slide file. Configuration
// methods chain; Convert runs the pipeline.
//
// Example:
//
//	err := slideweaver.Open("slide.html").Convert(ctx, pres)
func Open(filename string) *Conversion {
	return &Conversion{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromSession prepares a conversion running inside an already-open
// render session. The caller keeps ownership and closes the session;
// this is how a browser instance is shared across many slides.
//
// Example:
//
//	sess, err := render.NewChrome(ctx)
//	if err != nil {
//	    // handle error
//	}
//	defer sess.Close(ctx)
//	err = slideweaver.FromSession(sess, "slide.html").Convert(ctx, pres)
func FromSession(sess render.Session, filename string) *Conversion {
	return &Conversion{
		filename: filename,
		session:  sess,
		options:  defaultOptions(),
	}
}

// Must wraps a call returning (T, error) and panics on error. Intended
// for scripts and tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// defaultSession opens a headless browser session.
func defaultSession(ctx context.Context) (render.Session, error) {
	return render.NewChrome(ctx)
}
