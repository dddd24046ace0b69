package slideweaver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ktzy0305/SlideWeaver/autowrap"
	"github.com/ktzy0305/SlideWeaver/emit"
	"github.com/ktzy0305/SlideWeaver/extract"
	"github.com/ktzy0305/SlideWeaver/model"
	"github.com/ktzy0305/SlideWeaver/pptx"
	"github.com/ktzy0305/SlideWeaver/render"
	"github.com/ktzy0305/SlideWeaver/validate"
)

// SlideError reports why one slide was not emitted. Every problem found
// on the slide is listed, not just the first.
type SlideError struct {
	Source   string
	Problems []string
}

// Error implements error.
func (e *SlideError) Error() string {
	return fmt.Sprintf("%s: %d problem(s):\n  - %s",
		e.Source, len(e.Problems), strings.Join(e.Problems, "\n  - "))
}

// Conversion provides a fluent interface for converting HTML slides.
// Each configuration method returns a new Conversion instance, making
// it safe to share a configured base across goroutines.
type Conversion struct {
	filename string

	// Session lifecycle: a session given via FromSession or Session is
	// borrowed; one opened by Convert is owned and closed there.
	session render.Session

	options convertOptions
}

// clone creates a copy of the Conversion with its own options.
func (c *Conversion) clone() *Conversion {
	return &Conversion{
		filename: c.filename,
		session:  c.session,
		options:  c.options.clone(),
	}
}

// ============================================================================
// Configuration Methods (return new Conversion instance)
// ============================================================================

// MaxHeadingWidth sets the fraction of the slide width a heading line
// may span before auto-wrapping rewrites it.
//
// Example:
//
//	err := slideweaver.Open("slide.html").MaxHeadingWidth(0.8).Convert(ctx, pres)
func (c *Conversion) MaxHeadingWidth(fraction float64) *Conversion {
	newConv := c.clone()
	newConv.options.maxWidthFraction = fraction
	return newConv
}

// NoAutoWrap disables the heading auto-wrap pass entirely.
func (c *Conversion) NoAutoWrap() *Conversion {
	newConv := c.clone()
	newConv.options.wrapDisabled = true
	return newConv
}

// Session runs the conversion in the given render session instead of
// opening a browser. The caller keeps ownership of the session.
func (c *Conversion) Session(sess render.Session) *Conversion {
	newConv := c.clone()
	newConv.session = sess
	return newConv
}

// ImageSizer overrides how intrinsic image dimensions are resolved.
// Tests use this to pin aspect ratios without fixture files.
func (c *Conversion) ImageSizer(sizer emit.ImageSizer) *Conversion {
	newConv := c.clone()
	newConv.options.sizer = sizer
	return newConv
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Convert runs the full pipeline and emits one slide to pres. The
// slide emits all of its elements or none: any validation problem
// returns a *SlideError and pres is left untouched.
//
// Example:
//
//	pres := pptx.NewRecorder(pptx.LayoutWide)
//	err := slideweaver.Open("slide.html").Convert(ctx, pres)
func (c *Conversion) Convert(ctx context.Context, pres pptx.Presentation) error {
	doc, err := c.Document(ctx, pres.Layout())
	if err != nil {
		return err
	}
	if len(doc.Errors) > 0 {
		return &SlideError{Source: doc.Source, Problems: doc.Messages()}
	}
	emit.New(pres, c.options.sizer).Emit(doc)
	return nil
}

// Document runs the pipeline up to (and including) validation and
// returns the extracted slide document without emitting anything.
// Validation problems are recorded on the document, not returned as an
// error; the error return covers pipeline failures only.
//
// Example:
//
//	doc, err := slideweaver.Open("slide.html").Document(ctx, pptx.LayoutWide)
func (c *Conversion) Document(ctx context.Context, layout pptx.Layout) (*model.SlideDocument, error) {
	sess := c.session
	if sess == nil {
		opened, err := defaultSession(ctx)
		if err != nil {
			return nil, fmt.Errorf("opening render session: %w", err)
		}
		defer opened.Close(ctx)
		sess = opened
	}

	if err := sess.Load(ctx, c.filename); err != nil {
		return nil, fmt.Errorf("loading %s: %w", c.filename, err)
	}

	var wrapErrs []model.ValidationError
	if !c.options.wrapDisabled {
		cfg := autowrap.Config{MaxWidthFraction: c.options.maxWidthFraction}
		errs, err := autowrap.Apply(ctx, sess, cfg)
		if err != nil {
			return nil, fmt.Errorf("wrapping headings in %s: %w", c.filename, err)
		}
		wrapErrs = errs
	}

	body, err := sess.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshotting %s: %w", c.filename, err)
	}

	doc := extract.New(c.filename).Extract(body)
	doc.Errors = append(doc.Errors, wrapErrs...)
	doc.Errors = append(doc.Errors, validate.All(doc, body, layout.WIn, layout.HIn)...)
	return doc, nil
}

// ============================================================================
// Multi-file driver
// ============================================================================

// ConvertAll converts each source file into one slide of pres, in
// order. Slides with validation problems are skipped and their
// *SlideError values joined into the returned error; the remaining
// slides still emit. A pipeline failure aborts the run.
//
// A single browser session is shared across all files.
//
// Example:
//
//	err := slideweaver.ConvertAll(ctx, []string{"01.html", "02.html"}, pres)
//	var slideErr *slideweaver.SlideError
//	if errors.As(err, &slideErr) {
//	    // at least one slide was rejected
//	}
func ConvertAll(ctx context.Context, sources []string, pres pptx.Presentation, opts ...Option) error {
	base := &Conversion{options: defaultOptions()}
	for _, opt := range opts {
		base = opt(base)
	}

	sess := base.session
	if sess == nil {
		opened, err := defaultSession(ctx)
		if err != nil {
			return fmt.Errorf("opening render session: %w", err)
		}
		defer opened.Close(ctx)
		sess = opened
	}

	var errs []error
	for _, source := range sources {
		conv := base.clone()
		conv.filename = source
		conv.session = sess

		err := conv.Convert(ctx, pres)
		if err == nil {
			continue
		}
		var slideErr *SlideError
		if errors.As(err, &slideErr) {
			errs = append(errs, err)
			continue
		}
		return err
	}
	return errors.Join(errs...)
}

// Option configures a ConvertAll run.
type Option func(*Conversion) *Conversion

// WithMaxHeadingWidth sets the heading wrap limit for every slide.
func WithMaxHeadingWidth(fraction float64) Option {
	return func(c *Conversion) *Conversion { return c.MaxHeadingWidth(fraction) }
}

// WithSession runs every slide in the given session.
func WithSession(sess render.Session) Option {
	return func(c *Conversion) *Conversion { return c.Session(sess) }
}

// WithImageSizer overrides image size resolution for every slide.
func WithImageSizer(sizer emit.ImageSizer) Option {
	return func(c *Conversion) *Conversion { return c.ImageSizer(sizer) }
}

// WithoutAutoWrap disables heading auto-wrapping for every slide.
func WithoutAutoWrap() Option {
	return func(c *Conversion) *Conversion { return c.NoAutoWrap() }
}
