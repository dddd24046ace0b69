package render

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/ktzy0305/SlideWeaver/css"
	"github.com/ktzy0305/SlideWeaver/dom"
)

// Static is a deterministic rendering session that resolves inline
// styles and performs a simplified block layout. It exists for tests
// and for environments without a browser; documents must carry their
// styling in style attributes and explicit geometry where precision
// matters, which the slide authoring contract already guarantees.
type Static struct {
	mu       sync.Mutex
	measurer Measurer
	root     *dom.Node
	loaded   bool
}

// NewStatic creates a session over an already-built snapshot tree whose
// Style fields are populated. Tests use this to inject exact geometry.
// A nil measurer defaults to real font metrics via NewFontMeasurer.
func NewStatic(root *dom.Node, m Measurer) *Static {
	if m == nil {
		m = NewFontMeasurer()
	}
	return &Static{measurer: m, root: root, loaded: root != nil}
}

// NewStaticEmpty creates a session that resolves documents given to
// Load. A nil measurer defaults to real font metrics via
// NewFontMeasurer.
func NewStaticEmpty(m Measurer) *Static {
	if m == nil {
		m = NewFontMeasurer()
	}
	return &Static{measurer: m}
}

// Load parses the HTML file and resolves inline styles and layout.
func (s *Static) Load(ctx context.Context, source string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	root, err := dom.ParseFile(source)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = root
	s.resolve()
	s.loaded = true
	return nil
}

// Snapshot returns the current tree. Mutations applied through SetText
// are visible in subsequent snapshots.
func (s *Static) Snapshot(ctx context.Context) (*dom.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, fmt.Errorf("static session: no document loaded")
	}
	return s.root, nil
}

// MeasureText measures through the injected measurer.
func (s *Static) MeasureText(ctx context.Context, text string, font FontSpec) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.measurer.MeasureText(text, font)
}

// SetText replaces the referenced element's content with the given
// lines separated by line breaks and refreshes its box height.
func (s *Static) SetText(ctx context.Context, ref string, lines []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.root == nil {
		return fmt.Errorf("static session: no document loaded")
	}

	target := s.root.Find(func(n *dom.Node) bool { return n.Ref == ref })
	if target == nil {
		return fmt.Errorf("static session: no node with ref %q", ref)
	}

	var children []*dom.Node
	for i, line := range lines {
		if i > 0 {
			children = append(children, &dom.Node{
				Kind: dom.ElementNode, Tag: "br", Parent: target,
			})
		}
		children = append(children, &dom.Node{
			Kind: dom.TextNode, Text: line, Parent: target,
		})
	}
	target.Children = children

	if target.Style != nil {
		target.Style.Box.H = float64(len(lines)) * target.Style.LineHeightPx
		widest := 0.0
		for _, line := range lines {
			w, err := s.measurer.MeasureText(line, FontSpec{
				Family: target.Style.FontFamily,
				SizePx: target.Style.FontSizePx,
				Weight: target.Style.FontWeight,
			})
			if err == nil && w > widest {
				widest = w
			}
		}
		target.Style.ScrollW = widest
		target.Style.ScrollH = target.Style.Box.H
	}
	return nil
}

// Close releases nothing; the static session holds no external
// resources.
func (s *Static) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = nil
	s.loaded = false
	return nil
}

// resolve computes style and layout for the whole tree. The layout is a
// simplified flow: blocks stack vertically inside their parent's
// content box, absolutely positioned elements honor left/top, and text
// height is estimated from measured width and the line height.
func (s *Static) resolve() {
	body := s.root
	decls := declarations(body.Attr("style"))
	c := inheritedDefaults(nil)
	geom := applyDeclarations(c, decls)

	w := geomPx(geom, "width", 1280)
	h := geomPx(geom, "height", 720)
	c.Box = dom.Rect{X: 0, Y: 0, W: w, H: h}
	c.ScrollW, c.ScrollH = w, h
	body.Style = c

	content := contentBox(c)
	cursorY := content.Y
	for _, child := range body.Children {
		cursorY += s.layoutNode(child, c, content, cursorY)
	}
}

// layoutNode resolves one node and returns the vertical space it
// consumes in normal flow (zero for absolute positioning and text
// nodes, which contribute through their parent).
func (s *Static) layoutNode(n *dom.Node, parent *dom.Computed, content dom.Rect, cursorY float64) float64 {
	if n.IsText() {
		return 0
	}

	c := inheritedDefaults(parent)
	geom := applyDeclarations(c, declarations(n.Attr("style")))

	w := geomPx(geom, "width", content.W-c.Margin.Left-c.Margin.Right)
	x := content.X + c.Margin.Left
	y := cursorY + c.Margin.Top
	absolute := c.Position == "absolute" || c.Position == "fixed"
	if absolute {
		x = parent.Box.X + geomPx(geom, "left", 0)
		y = parent.Box.Y + geomPx(geom, "top", 0)
	}

	c.Box = dom.Rect{X: x, Y: y, W: w}
	n.Style = c

	inner := contentBox(c)
	childY := inner.Y
	flowH := 0.0
	maxChildRight := inner.X
	for _, child := range n.Children {
		used := s.layoutNode(child, c, inner, childY)
		childY += used
		flowH += used
		if child.IsElement() && child.Style != nil {
			if r := child.Style.Box.Right(); r > maxChildRight {
				maxChildRight = r
			}
		}
	}

	textH := s.textHeight(n, c, inner.W)

	h := geomPx(geom, "height", 0)
	if h == 0 {
		h = flowH + textH + c.Padding.Top + c.Padding.Bottom
	}
	c.Box.H = h

	c.ScrollW = math.Max(w, maxChildRight-c.Box.X)
	c.ScrollH = math.Max(h, (childY-inner.Y)+textH+c.Padding.Top+c.Padding.Bottom)

	if absolute {
		return 0
	}
	return c.Margin.Top + h + c.Margin.Bottom
}

// textHeight estimates the height of a node's direct inline text by
// measuring it and dividing into line boxes.
func (s *Static) textHeight(n *dom.Node, c *dom.Computed, availW float64) float64 {
	var sb strings.Builder
	breaks := 0
	for _, child := range n.Children {
		if child.IsText() {
			sb.WriteString(child.Text)
		} else if child.Tag == "br" {
			breaks++
		} else if inlineTag(child.Tag) {
			sb.WriteString(child.TextContent())
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" && breaks == 0 {
		return 0
	}

	lines := 1 + breaks
	if availW > 0 && text != "" {
		width, err := s.measurer.MeasureText(text, FontSpec{
			Family: c.FontFamily,
			SizePx: c.FontSizePx,
			Weight: c.FontWeight,
		})
		if err == nil && width > availW {
			lines = breaks + int(math.Ceil(width/availW))
		}
	}
	return float64(lines) * c.LineHeightPx
}

func inlineTag(tag string) bool {
	switch tag {
	case "span", "b", "strong", "i", "em", "u", "a", "code", "sub", "sup", "small", "mark":
		return true
	}
	return false
}

func contentBox(c *dom.Computed) dom.Rect {
	return dom.Rect{
		X: c.Box.X + c.Padding.Left,
		Y: c.Box.Y + c.Padding.Top,
		W: c.Box.W - c.Padding.Left - c.Padding.Right,
		H: c.Box.H - c.Padding.Top - c.Padding.Bottom,
	}
}

func geomPx(geom map[string]string, key string, fallback float64) float64 {
	v, ok := geom[key]
	if !ok {
		return fallback
	}
	px, err := css.ParsePx(v)
	if err != nil {
		return fallback
	}
	return px
}
