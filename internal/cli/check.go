package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	slideweaver "github.com/ktzy0305/SlideWeaver"
	"github.com/ktzy0305/SlideWeaver/pptx"
	"github.com/ktzy0305/SlideWeaver/render"
)

// newCheckCmd creates the check command, which validates slides without
// emitting anything. Useful while authoring a deck.
func newCheckCmd() *cobra.Command {
	var (
		configPath string
		layoutName string
		static     bool
	)

	cmd := &cobra.Command{
		Use:   "check <file.html>...",
		Short: "Validate HTML slide files without emitting anything",
		Long: `Check runs the full pipeline up to validation and reports every
problem found, per file. The exit status is non-zero when any slide has
problems.

With --static the files are laid out by the built-in engine instead of
a browser: inline styles only, text measured with system fonts. Useful
on machines without Chrome.

Examples:
  slideweaver check deck/*.html
  slideweaver check --layout LAYOUT_4x3 slide.html
  slideweaver check --static slide.html`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if layoutName != "" {
				cfg.Layout = layoutName
			}
			return runCheck(c.Context(), cfg, static, args)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringVar(&layoutName, "layout", "", "target layout (LAYOUT_16x9, LAYOUT_16x10, LAYOUT_4x3, LAYOUT_WIDE)")
	cmd.Flags().BoolVar(&static, "static", false, "lay out with the built-in engine instead of a browser")

	return cmd
}

func runCheck(ctx context.Context, cfg Config, static bool, sources []string) error {
	logger := loggerFromContext(ctx)
	layout := pptx.LayoutByName(cfg.Layout)

	var sess render.Session
	if static {
		sess = render.NewStaticEmpty(nil)
	} else {
		chrome, err := render.NewChrome(ctx)
		if err != nil {
			return fmt.Errorf("starting browser: %w", err)
		}
		sess = chrome
	}
	defer sess.Close(ctx)

	bad := 0
	for _, source := range sources {
		conv := slideweaver.FromSession(sess, source).
			MaxHeadingWidth(cfg.MaxHeadingWidth)
		if !cfg.AutoWrap {
			conv = conv.NoAutoWrap()
		}

		doc, err := conv.Document(ctx, layout)
		if err != nil {
			return fmt.Errorf("checking %s: %w", source, err)
		}
		if len(doc.Errors) == 0 {
			logger.Infof("%s: ok (%d elements)", source, len(doc.Elements))
			continue
		}
		bad++
		logger.Errorf("%s: %d problem(s)", source, len(doc.Errors))
		for _, msg := range doc.Messages() {
			logger.Errorf("  - %s", msg)
		}
	}

	if bad > 0 {
		return fmt.Errorf("%d of %d file(s) have problems", bad, len(sources))
	}
	return nil
}
