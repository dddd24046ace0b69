package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	slideweaver "github.com/ktzy0305/SlideWeaver"
	"github.com/ktzy0305/SlideWeaver/pptx"
	"github.com/ktzy0305/SlideWeaver/render"
)

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	config          string  // config file path
	layout          string  // layout name override
	output          string  // output file path (stdout if empty)
	maxHeadingWidth float64 // heading wrap limit override
	noWrap          bool    // disable heading auto-wrap
	keepGoing       bool    // emit valid slides even when others fail
}

// newConvertCmd creates the convert command. It renders each HTML file
// into one slide and writes the recorded presentation call stream as
// JSON.
func newConvertCmd() *cobra.Command {
	opts := convertOpts{}

	cmd := &cobra.Command{
		Use:   "convert <file.html>...",
		Short: "Convert HTML slide files into a presentation call stream",
		Long: `Convert renders each HTML file in a headless browser, validates the
extracted elements against the target layout, and writes the resulting
presentation API calls as JSON.

A slide emits all of its elements or none: validation problems reject
the whole slide and are reported per file.

Examples:
  slideweaver convert deck/01.html deck/02.html -o deck.json
  slideweaver convert --layout LAYOUT_16x9 slide.html
  slideweaver convert -c slideweaver.toml deck/*.html`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runConvert(c.Context(), &opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "TOML config file")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "target layout (LAYOUT_16x9, LAYOUT_16x10, LAYOUT_4x3, LAYOUT_WIDE)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().Float64Var(&opts.maxHeadingWidth, "max-heading-width", 0, "slide-width fraction a heading line may span")
	cmd.Flags().BoolVar(&opts.noWrap, "no-wrap", false, "disable heading auto-wrapping")
	cmd.Flags().BoolVarP(&opts.keepGoing, "keep-going", "k", false, "write the call stream even if some slides fail")

	return cmd
}

func runConvert(ctx context.Context, opts *convertOpts, sources []string) error {
	logger := loggerFromContext(ctx)
	logger = logger.With("run", uuid.NewString()[:8])

	cfg, err := opts.resolve()
	if err != nil {
		return err
	}

	layout := pptx.LayoutByName(cfg.Layout)
	logger.Infof("Converting %d file(s) to %s (%gx%gin)", len(sources), layout.Name, layout.WIn, layout.HIn)

	sess, err := render.NewChrome(ctx)
	if err != nil {
		return fmt.Errorf("starting browser: %w", err)
	}
	defer sess.Close(ctx)

	prog := newProgress(logger)
	rec := pptx.NewRecorder(layout)

	var convertOptions []slideweaver.Option
	convertOptions = append(convertOptions, slideweaver.WithSession(sess))
	if cfg.MaxHeadingWidth > 0 {
		convertOptions = append(convertOptions, slideweaver.WithMaxHeadingWidth(cfg.MaxHeadingWidth))
	}
	if !cfg.AutoWrap {
		convertOptions = append(convertOptions, slideweaver.WithoutAutoWrap())
	}

	convErr := slideweaver.ConvertAll(ctx, sources, rec, convertOptions...)
	if convErr != nil {
		logSlideErrors(logger, convErr)
		if !opts.keepGoing {
			return fmt.Errorf("%d of %d slide(s) rejected", countSlideErrors(convErr), len(sources))
		}
	}
	prog.done(fmt.Sprintf("Converted %d slide(s)", len(rec.Slides)))

	if err := writeStream(rec, cfg.Output, logger); err != nil {
		return err
	}
	if convErr != nil {
		return fmt.Errorf("%d of %d slide(s) rejected", countSlideErrors(convErr), len(sources))
	}
	return nil
}

// resolve merges the config file with flag overrides.
func (o *convertOpts) resolve() (Config, error) {
	cfg, err := loadConfig(o.config)
	if err != nil {
		return cfg, err
	}
	if o.layout != "" {
		cfg.Layout = o.layout
	}
	if o.output != "" {
		cfg.Output = o.output
	}
	if o.maxHeadingWidth > 0 {
		cfg.MaxHeadingWidth = o.maxHeadingWidth
	}
	if o.noWrap {
		cfg.AutoWrap = false
	}
	return cfg, nil
}

// logSlideErrors unwraps a joined ConvertAll error and logs each
// rejected slide's problems.
func logSlideErrors(logger interface{ Errorf(string, ...any) }, err error) {
	for _, e := range unwrapSlideErrors(err) {
		logger.Errorf("%s rejected:", e.Source)
		for _, p := range e.Problems {
			logger.Errorf("  - %s", p)
		}
	}
}

func countSlideErrors(err error) int {
	return len(unwrapSlideErrors(err))
}

func unwrapSlideErrors(err error) []*slideweaver.SlideError {
	var out []*slideweaver.SlideError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, unwrapSlideErrors(e)...)
		}
		return out
	}
	var slideErr *slideweaver.SlideError
	if errors.As(err, &slideErr) {
		out = append(out, slideErr)
	}
	return out
}

// writeStream serializes the recorded call stream as indented JSON to
// path (or stdout if empty).
func writeStream(rec *pptx.Recorder, path string, logger interface{ Infof(string, ...any) }) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("writing call stream: %w", err)
	}
	if path != "" {
		logger.Infof("Wrote call stream to %s", path)
	}
	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path, or stdout when
// path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
