package render

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"path/filepath"
	"strings"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/ktzy0305/SlideWeaver/css"
	"github.com/ktzy0305/SlideWeaver/dom"
)

// Chrome is a rendering session backed by a headless Chrome instance
// driven through chromedp. Each Chrome owns its own browser tab; create
// one per slide conversion and close it on every exit path.
type Chrome struct {
	id          string
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
}

// NewChrome starts a headless browser tab. The parent context bounds
// the session's lifetime; canceling it tears the browser down.
func NewChrome(parent context.Context) (*Chrome, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, chromedp.DefaultExecAllocatorOptions[:]...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// Force the browser to start now so failures surface here rather
	// than on first use.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &Chrome{
		id:          uuid.NewString(),
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
	}, nil
}

// ID returns the session's correlation id.
func (c *Chrome) ID() string { return c.id }

// Load navigates the tab to a local slide document.
func (c *Chrome) Load(ctx context.Context, source string) error {
	abs, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", source, err)
	}
	url := "file://" + filepath.ToSlash(abs)

	return c.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// Snapshot captures the style-annotated DOM tree. Element refs are
// assigned on first capture and remain stable across snapshots of the
// same document.
func (c *Chrome) Snapshot(ctx context.Context) (*dom.Node, error) {
	var raw json.RawMessage
	if err := c.run(ctx, chromedp.Evaluate(snapshotJS, &raw)); err != nil {
		return nil, fmt.Errorf("capturing snapshot: %w", err)
	}

	var jn jsonNode
	if err := json.Unmarshal(raw, &jn); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	root := jn.toDOM(nil)
	if root == nil {
		return nil, fmt.Errorf("snapshot produced no body")
	}
	return root, nil
}

// MeasureText measures text width with the page's canvas, so the
// document's own loaded fonts apply.
func (c *Chrome) MeasureText(ctx context.Context, text string, font FontSpec) (float64, error) {
	style := ""
	if font.Italic {
		style = "italic "
	}
	fontCSS := fmt.Sprintf("%s%d %.2fpx %s", style, font.Weight, font.SizePx, font.Family)

	textArg, _ := json.Marshal(text)
	fontArg, _ := json.Marshal(fontCSS)
	js := fmt.Sprintf(measureJS, fontArg, textArg)

	var width float64
	if err := c.run(ctx, chromedp.Evaluate(js, &width)); err != nil {
		return 0, fmt.Errorf("measuring text: %w", err)
	}
	return width, nil
}

// SetText rewrites the referenced element's content as escaped lines
// joined by <br>, letting the engine re-layout before the next snapshot.
func (c *Chrome) SetText(ctx context.Context, ref string, lines []string) error {
	escaped := make([]string, len(lines))
	for i, line := range lines {
		escaped[i] = html.EscapeString(line)
	}
	content, _ := json.Marshal(strings.Join(escaped, "<br>"))
	refArg, _ := json.Marshal(ref)
	js := fmt.Sprintf(setTextJS, refArg, content)

	var ok bool
	if err := c.run(ctx, chromedp.Evaluate(js, &ok)); err != nil {
		return fmt.Errorf("rewriting node %s: %w", ref, err)
	}
	if !ok {
		return fmt.Errorf("no element with ref %q", ref)
	}
	return nil
}

// Close tears down the tab and the browser.
func (c *Chrome) Close(ctx context.Context) error {
	c.tabCancel()
	c.allocCancel()
	return nil
}

// run executes actions on the tab while honoring the caller's context.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		done <- chromedp.Run(c.tabCtx, actions...)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// jsonNode mirrors the object tree snapshotJS produces.
type jsonNode struct {
	Kind     string            `json:"kind"`
	Tag      string            `json:"tag"`
	Ref      string            `json:"ref"`
	Text     string            `json:"text"`
	Attrs    map[string]string `json:"attrs"`
	Style    *jsonStyle        `json:"style"`
	Children []jsonNode        `json:"children"`
}

type jsonStyle struct {
	X                float64 `json:"x"`
	Y                float64 `json:"y"`
	W                float64 `json:"w"`
	H                float64 `json:"h"`
	ScrollW          float64 `json:"scrollW"`
	ScrollH          float64 `json:"scrollH"`
	Display          string  `json:"display"`
	Position         string  `json:"position"`
	FontFamily       string  `json:"fontFamily"`
	FontSize         float64 `json:"fontSize"`
	FontWeight       int     `json:"fontWeight"`
	FontStyle        string  `json:"fontStyle"`
	Color            string  `json:"color"`
	BackgroundColor  string  `json:"backgroundColor"`
	BackgroundImage  string  `json:"backgroundImage"`
	TextAlign        string  `json:"textAlign"`
	VerticalAlign    string  `json:"verticalAlign"`
	TextTransform    string  `json:"textTransform"`
	TextDecoration   string  `json:"textDecoration"`
	LineHeight       float64 `json:"lineHeight"`
	LetterSpacing    string  `json:"letterSpacing"`
	Opacity          float64 `json:"opacity"`
	Transform        string  `json:"transform"`
	MarginTop        float64 `json:"marginTop"`
	MarginRight      float64 `json:"marginRight"`
	MarginBottom     float64 `json:"marginBottom"`
	MarginLeft       float64 `json:"marginLeft"`
	PaddingTop       float64 `json:"paddingTop"`
	PaddingRight     float64 `json:"paddingRight"`
	PaddingBottom    float64 `json:"paddingBottom"`
	PaddingLeft      float64 `json:"paddingLeft"`
	BorderTopW       float64 `json:"borderTopW"`
	BorderTopStyle   string  `json:"borderTopStyle"`
	BorderTopColor   string  `json:"borderTopColor"`
	BorderRightW     float64 `json:"borderRightW"`
	BorderRightStyle string  `json:"borderRightStyle"`
	BorderRightColor string  `json:"borderRightColor"`
	BorderBotW       float64 `json:"borderBottomW"`
	BorderBotStyle   string  `json:"borderBottomStyle"`
	BorderBotColor   string  `json:"borderBottomColor"`
	BorderLeftW      float64 `json:"borderLeftW"`
	BorderLeftStyle  string  `json:"borderLeftStyle"`
	BorderLeftColor  string  `json:"borderLeftColor"`
	BorderRadius     string  `json:"borderRadius"`
	BoxShadow        string  `json:"boxShadow"`
	ObjectPosition   string  `json:"objectPosition"`
}

func (j *jsonNode) toDOM(parent *dom.Node) *dom.Node {
	switch j.Kind {
	case "text":
		return &dom.Node{Kind: dom.TextNode, Text: j.Text, Parent: parent}
	case "element":
	default:
		return nil
	}

	n := &dom.Node{
		Kind:   dom.ElementNode,
		Tag:    j.Tag,
		Attrs:  j.Attrs,
		Parent: parent,
		Ref:    j.Ref,
	}
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	if s := j.Style; s != nil {
		n.Style = &dom.Computed{
			Box:             dom.Rect{X: s.X, Y: s.Y, W: s.W, H: s.H},
			ScrollW:         s.ScrollW,
			ScrollH:         s.ScrollH,
			Display:         s.Display,
			Position:        s.Position,
			FontFamily:      s.FontFamily,
			FontSizePx:      s.FontSize,
			FontWeight:      s.FontWeight,
			FontStyle:       s.FontStyle,
			Color:           s.Color,
			BackgroundColor: s.BackgroundColor,
			BackgroundImage: s.BackgroundImage,
			TextAlign:       s.TextAlign,
			VerticalAlign:   s.VerticalAlign,
			TextTransform:   s.TextTransform,
			TextDecoration:  s.TextDecoration,
			LineHeightPx:    s.LineHeight,
			LetterSpacing:   s.LetterSpacing,
			Opacity:         s.Opacity,
			Rotation:        css.ParseRotation(s.Transform),
			Margin:          dom.Edges{Top: s.MarginTop, Right: s.MarginRight, Bottom: s.MarginBottom, Left: s.MarginLeft},
			Padding:         dom.Edges{Top: s.PaddingTop, Right: s.PaddingRight, Bottom: s.PaddingBottom, Left: s.PaddingLeft},
			BorderTop:       dom.BorderEdge{WidthPx: s.BorderTopW, Style: s.BorderTopStyle, Color: s.BorderTopColor},
			BorderRight:     dom.BorderEdge{WidthPx: s.BorderRightW, Style: s.BorderRightStyle, Color: s.BorderRightColor},
			BorderBottom:    dom.BorderEdge{WidthPx: s.BorderBotW, Style: s.BorderBotStyle, Color: s.BorderBotColor},
			BorderLeft:      dom.BorderEdge{WidthPx: s.BorderLeftW, Style: s.BorderLeftStyle, Color: s.BorderLeftColor},
			BorderRadius:    s.BorderRadius,
			BoxShadow:       s.BoxShadow,
			ObjectPosition:  s.ObjectPosition,
		}
	}

	for i := range j.Children {
		child := &j.Children[i]
		if child.Kind == "text" && strings.TrimSpace(child.Text) == "" {
			// Whitespace between inline siblings is a word separator;
			// formatting whitespace at the edges is not.
			if i == 0 || i == len(j.Children)-1 {
				continue
			}
			n.Children = append(n.Children, &dom.Node{Kind: dom.TextNode, Text: " ", Parent: n})
			continue
		}
		if converted := child.toDOM(n); converted != nil {
			n.Children = append(n.Children, converted)
		}
	}
	return n
}

const snapshotJS = `(() => {
  if (!window.__swRefs) window.__swRefs = 0;
  const snap = (node) => {
    if (node.nodeType === Node.TEXT_NODE) {
      return { kind: 'text', text: node.nodeValue };
    }
    if (node.nodeType !== Node.ELEMENT_NODE) return null;
    const el = node;
    const skip = { SCRIPT: 1, STYLE: 1, NOSCRIPT: 1, TEMPLATE: 1 };
    if (skip[el.tagName]) return null;
    if (!el.dataset.swRef) el.dataset.swRef = 'sw-' + (++window.__swRefs);
    const cs = getComputedStyle(el);
    const r = el.getBoundingClientRect();
    const attrs = {};
    for (const a of el.attributes) attrs[a.name.toLowerCase()] = a.value;
    const num = (v) => { const n = parseFloat(v); return isNaN(n) ? 0 : n; };
    const out = {
      kind: 'element',
      tag: el.tagName.toLowerCase(),
      ref: el.dataset.swRef,
      attrs: attrs,
      style: {
        x: r.x + window.scrollX, y: r.y + window.scrollY, w: r.width, h: r.height,
        scrollW: el.scrollWidth, scrollH: el.scrollHeight,
        display: cs.display, position: cs.position,
        fontFamily: cs.fontFamily, fontSize: num(cs.fontSize),
        fontWeight: parseInt(cs.fontWeight, 10) || 400, fontStyle: cs.fontStyle,
        color: cs.color, backgroundColor: cs.backgroundColor, backgroundImage: cs.backgroundImage,
        textAlign: cs.textAlign, verticalAlign: cs.verticalAlign,
        textTransform: cs.textTransform, textDecoration: cs.textDecorationLine || cs.textDecoration,
        lineHeight: num(cs.lineHeight) || num(cs.fontSize) * 1.2,
        letterSpacing: cs.letterSpacing,
        opacity: num(cs.opacity),
        transform: cs.transform,
        marginTop: num(cs.marginTop), marginRight: num(cs.marginRight),
        marginBottom: num(cs.marginBottom), marginLeft: num(cs.marginLeft),
        paddingTop: num(cs.paddingTop), paddingRight: num(cs.paddingRight),
        paddingBottom: num(cs.paddingBottom), paddingLeft: num(cs.paddingLeft),
        borderTopW: num(cs.borderTopWidth), borderTopStyle: cs.borderTopStyle, borderTopColor: cs.borderTopColor,
        borderRightW: num(cs.borderRightWidth), borderRightStyle: cs.borderRightStyle, borderRightColor: cs.borderRightColor,
        borderBottomW: num(cs.borderBottomWidth), borderBottomStyle: cs.borderBottomStyle, borderBottomColor: cs.borderBottomColor,
        borderLeftW: num(cs.borderLeftWidth), borderLeftStyle: cs.borderLeftStyle, borderLeftColor: cs.borderLeftColor,
        borderRadius: cs.borderTopLeftRadius,
        boxShadow: cs.boxShadow,
        objectPosition: cs.objectPosition,
      },
      children: [],
    };
    for (const child of el.childNodes) {
      const c = snap(child);
      if (c) out.children.push(c);
    }
    return out;
  };
  return snap(document.body);
})()`

const measureJS = `(() => {
  const canvas = window.__swCanvas || (window.__swCanvas = document.createElement('canvas'));
  const ctx = canvas.getContext('2d');
  ctx.font = %s;
  return ctx.measureText(%s).width;
})()`

const setTextJS = `(() => {
  const el = document.querySelector('[data-sw-ref=' + JSON.stringify(%s) + ']');
  if (!el) return false;
  el.innerHTML = %s;
  return true;
})()`
