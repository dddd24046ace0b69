// Package extract walks a slide's style-annotated DOM once, in document
// order, classifying every node into a slide element or an extraction
// error. Each node maps to exactly one element or is explicitly
// consumed by a containing element; nothing is extracted twice.
package extract

import (
	"strings"

	"github.com/ktzy0305/SlideWeaver/css"
	"github.com/ktzy0305/SlideWeaver/dom"
	"github.com/ktzy0305/SlideWeaver/model"
	"github.com/ktzy0305/SlideWeaver/richtext"
	"github.com/ktzy0305/SlideWeaver/tables"
	"github.com/ktzy0305/SlideWeaver/units"
)

// textTags are the block-level tags recognized as text-bearing. All
// visible text must live inside one of these (or a list/table); bare
// text in a generic container is an authoring error.
var textTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "blockquote": true, "figcaption": true, "pre": true,
}

// containerTags are the generic containers that may carry decoration
// (fill, border, shadow) and become shapes.
var containerTags = map[string]bool{
	"div": true, "section": true, "article": true, "main": true,
	"header": true, "footer": true, "aside": true, "nav": true,
	"figure": true,
}

// bulletGlyphs are characters that indicate a hand-written bullet; text
// starting with one must be authored as a list instead.
const bulletGlyphs = "•◦▪‣·∙●○"

// PlaceholderClass marks a node as a named placeholder box.
const PlaceholderClass = "placeholder"

// Extractor performs one slide's extraction. The consumed set is owned
// by the instance and scoped to a single conversion; create a fresh
// Extractor per document.
type Extractor struct {
	doc      *model.SlideDocument
	consumed map[*dom.Node]bool
}

// New creates an extractor for one slide identified by source.
func New(source string) *Extractor {
	return &Extractor{
		doc:      &model.SlideDocument{Source: source},
		consumed: make(map[*dom.Node]bool),
	}
}

// Extract classifies the document rooted at body and returns the slide
// description. Errors accumulate on the document; extraction always
// runs to completion.
func (e *Extractor) Extract(body *dom.Node) *model.SlideDocument {
	root := rootContainer(body)

	if style := root.Style; style != nil {
		e.doc.BodyW = units.PxToInches(style.Box.W)
		e.doc.BodyH = units.PxToInches(style.Box.H)
		e.doc.PaddingIn = [4]float64{
			units.PxToInches(style.Padding.Top),
			units.PxToInches(style.Padding.Right),
			units.PxToInches(style.Padding.Bottom),
			units.PxToInches(style.Padding.Left),
		}
		e.doc.Background = background(style)
	}

	e.consumed[root] = true
	for _, child := range root.Children {
		e.visit(child)
	}
	return e.doc
}

// rootContainer locates the designated root container: the element
// carrying the "slide" class, falling back to the body's sole element
// child, then the body itself.
func rootContainer(body *dom.Node) *dom.Node {
	if slide := body.Find(func(n *dom.Node) bool { return n.HasClass("slide") }); slide != nil {
		return slide
	}
	if kids := body.ElementChildren(); len(kids) == 1 {
		return kids[0]
	}
	return body
}

// background derives the slide background from the root container's
// computed style.
func background(style *dom.Computed) *model.Background {
	if style.HasBackgroundImage() {
		if path := imageURL(style.BackgroundImage); path != "" {
			return &model.Background{ImagePath: path}
		}
	}
	if c, err := css.ParseColor(style.BackgroundColor); err == nil && !c.IsTransparent() {
		return &model.Background{Color: c.Hex}
	}
	return nil
}

// visit classifies one node in document order, skipping anything a
// container already consumed.
func (e *Extractor) visit(n *dom.Node) {
	if e.consumed[n] || !n.IsElement() {
		return
	}

	style := n.Style
	if style == nil {
		// Nodes without computed style carry no geometry; descend in
		// case children were measured independently.
		for _, c := range n.Children {
			e.visit(c)
		}
		return
	}

	switch {
	case textTags[n.Tag] && hasDecoration(style):
		e.doc.AddError("<%s> carries decoration (background, border, or shadow); decoration is only supported on generic containers", n.Tag)
		e.consumeSubtree(n)

	case n.HasClass(PlaceholderClass):
		e.extractPlaceholder(n)

	case n.Tag == "img":
		e.extractImage(n)

	case containerTags[n.Tag]:
		e.extractContainer(n)

	case n.Tag == "ul" || n.Tag == "ol":
		e.extractList(n)

	case n.Tag == "table":
		e.extractTable(n)

	case textTags[n.Tag]:
		e.extractText(n)

	default:
		for _, c := range n.Children {
			e.visit(c)
		}
	}
}

func (e *Extractor) extractPlaceholder(n *dom.Node) {
	defer e.consumeSubtree(n)

	pos := position(n.Style)
	if pos.IsEmpty() {
		e.doc.AddError("placeholder %q has zero rendered size", placeholderID(n))
		return
	}
	e.doc.Placeholders = append(e.doc.Placeholders, model.Placeholder{
		ID:       placeholderID(n),
		Position: pos,
	})
}

func placeholderID(n *dom.Node) string {
	if id := n.Attr("id"); id != "" {
		return id
	}
	if name := n.Attr("data-name"); name != "" {
		return name
	}
	return PlaceholderClass
}

func (e *Extractor) extractImage(n *dom.Node) {
	defer e.consumeSubtree(n)

	pos := position(n.Style)
	if pos.IsEmpty() {
		return
	}
	src := n.Attr("src")
	if src == "" {
		return
	}

	objPos, err := css.ParseObjectPosition(n.Style.ObjectPosition)
	if err != nil {
		objPos = css.ObjectPosition{XPercent: 50, YPercent: 50}
	}

	e.doc.AddElement(&model.Image{
		Position:       pos,
		Path:           src,
		ObjectPosition: objPos,
	})
}

func (e *Extractor) extractContainer(n *dom.Node) {
	style := n.Style

	if style.HasBackgroundImage() {
		e.doc.AddError("<%s> has a background image; background images are only supported on the slide root", n.Tag)
		e.consumeSubtree(n)
		return
	}

	if bare := bareText(n); bare != "" {
		e.doc.AddError("container <%s> holds bare text %q; wrap visible text in a text tag", n.Tag, truncate(bare, 40))
	}

	if hasDecoration(style) {
		e.extractShape(n)
	}

	for _, c := range n.Children {
		e.visit(c)
	}
}

// extractShape turns a decorated container into a Shape element, or
// decomposes a non-uniform border into individual Line elements.
func (e *Extractor) extractShape(n *dom.Node) {
	style := n.Style
	pos := position(style)
	if pos.IsEmpty() {
		return
	}

	fill, err := css.ParseColor(style.BackgroundColor)
	if err != nil || fill.IsTransparent() {
		// Fully transparent backgrounds substitute white at full
		// transparency so the emitted color stays well-formed.
		fill = css.Color{Hex: css.White.Hex, Alpha: 0}
	}

	borders := style.Borders()
	uniform := uniformBorders(borders)

	var border *model.Border
	if uniform && borders[0].Visible() {
		if c, err := css.ParseColor(borders[0].Color); err == nil {
			border = &model.Border{Color: c.Hex, WidthPt: units.PxToPoints(borders[0].WidthPx)}
		}
	}

	var shadow *model.Shadow
	if s, err := css.ParseShadow(style.BoxShadow); err == nil && s != nil {
		shadow = &model.Shadow{
			AngleDeg: s.AngleDeg,
			OffsetPt: units.PxToPoints(s.OffsetPx),
			BlurPt:   units.PxToPoints(s.BlurPx),
			Color:    s.Color,
			Opacity:  s.Opacity,
		}
	}

	radius, _ := css.ResolveRadius(style.BorderRadius, style.Box.W, style.Box.H)

	if uniform {
		e.doc.AddElement(&model.Shape{
			Position:     pos,
			Fill:         fill.Hex,
			Transparency: fill.Transparency(),
			RadiusIn:     units.PxToInches(radius.Px),
			FullyRound:   radius.FullyRound,
			Border:       border,
			Shadow:       shadow,
		})
		return
	}

	// Non-uniform border sides decompose into lines. A visible body
	// (fill or shadow) still becomes a shape, without a border of its
	// own.
	if !fill.IsTransparent() || shadow != nil {
		e.doc.AddElement(&model.Shape{
			Position:     pos,
			Fill:         fill.Hex,
			Transparency: fill.Transparency(),
			RadiusIn:     units.PxToInches(radius.Px),
			FullyRound:   radius.FullyRound,
			Shadow:       shadow,
		})
	}
	e.emitBorderLines(pos, borders)
}

// emitBorderLines decomposes visible border sides into explicit line
// segments in top, right, bottom, left order.
func (e *Extractor) emitBorderLines(pos model.Position, borders [4]dom.BorderEdge) {
	ends := [4][4]float64{
		{pos.X, pos.Y, pos.Right(), pos.Y},                   // top
		{pos.Right(), pos.Y, pos.Right(), pos.Bottom()},      // right
		{pos.X, pos.Bottom(), pos.Right(), pos.Bottom()},     // bottom
		{pos.X, pos.Y, pos.X, pos.Bottom()},                  // left
	}
	for i, b := range borders {
		if !b.Visible() {
			continue
		}
		c, err := css.ParseColor(b.Color)
		if err != nil {
			continue
		}
		e.doc.AddElement(&model.Line{
			X1: ends[i][0], Y1: ends[i][1], X2: ends[i][2], Y2: ends[i][3],
			Color:   c.Hex,
			WidthPt: units.PxToPoints(b.WidthPx),
		})
	}
}

func (e *Extractor) extractList(n *dom.Node) {
	defer e.consumeSubtree(n)

	pos := position(n.Style)
	if pos.IsEmpty() {
		return
	}

	list := &model.List{
		Position: pos,
		Style:    blockStyle(n.Style),
		IndentPt: units.PxToPoints(n.Style.Padding.Left),
	}

	for _, li := range n.ElementChildren() {
		if li.Tag != "li" {
			continue
		}
		runs, errs := richtext.Build(li)
		e.doc.Errors = append(e.doc.Errors, errs...)
		if len(runs) == 0 {
			continue
		}
		list.Items = append(list.Items, model.ListItem{Runs: runs})
	}

	if len(list.Items) > 0 {
		e.doc.AddElement(list)
	}
}

func (e *Extractor) extractTable(n *dom.Node) {
	defer e.consumeSubtree(n)

	pos := position(n.Style)
	if pos.IsEmpty() {
		return
	}

	rows, errs := tables.Extract(n)
	e.doc.Errors = append(e.doc.Errors, errs...)

	e.doc.AddElement(&model.Table{
		Position: pos,
		Rows:     rows,
		Style:    blockStyle(n.Style),
	})
}

func (e *Extractor) extractText(n *dom.Node) {
	defer e.consumeSubtree(n)

	pos := position(n.Style)
	if pos.IsEmpty() {
		return
	}

	runs, errs := richtext.Build(n)
	e.doc.Errors = append(e.doc.Errors, errs...)
	if len(runs) == 0 {
		return
	}

	plain := model.JoinRuns(runs)
	if startsWithBullet(plain) {
		e.doc.AddError("<%s> text %q starts with a manual bullet glyph; author it as a list instead", n.Tag, truncate(plain, 40))
		return
	}

	e.doc.AddElement(&model.Text{
		Position: pos,
		Runs:     runs,
		Style:    blockStyle(n.Style),
	})
}

// position converts a node's border box to slide coordinates in inches,
// normalizing rotation and swapping width/height around the center for
// quarter turns so the reported frame is the rendered bounding box.
func position(style *dom.Computed) model.Position {
	x := units.PxToInches(style.Box.X)
	y := units.PxToInches(style.Box.Y)
	w := units.PxToInches(style.Box.W)
	h := units.PxToInches(style.Box.H)

	rot := units.NormalizeRotation(style.Rotation)
	if units.IsQuarterTurn(rot) {
		x, y, w, h = units.SwapAboutCenter(x, y, w, h)
	}

	pos := model.Position{X: x, Y: y, W: w, H: h}
	if rot != 0 {
		pos.Rotation = &rot
	}
	return pos
}

// blockStyle resolves the block-level text style of an element.
func blockStyle(style *dom.Computed) model.Style {
	s := model.Style{
		FontFace:     css.FirstFontFamily(style.FontFamily),
		SizePt:       units.PxToPoints(style.FontSizePx),
		Align:        css.ParseAlignment(style.TextAlign),
		LineHeightPt: units.PxToPoints(style.LineHeightPx),
		Bold:         style.FontWeight >= richtext.BoldWeight,
		Italic:       style.FontStyle == "italic" || style.FontStyle == "oblique",
		Underline:    strings.Contains(style.TextDecoration, "underline"),
	}
	if c, err := css.ParseColor(style.Color); err == nil && !c.IsTransparent() {
		s.Color = c.Hex
	}
	if style.Opacity < 1 {
		s.Transparency = (1 - style.Opacity) * 100
	}
	return s
}

// hasDecoration reports whether an element paints a background, border,
// or shadow.
func hasDecoration(style *dom.Computed) bool {
	if c, err := css.ParseColor(style.BackgroundColor); err == nil && !c.IsTransparent() {
		return true
	}
	if style.HasVisibleBorder() {
		return true
	}
	return style.BoxShadow != "" && style.BoxShadow != "none"
}

// uniformBorders reports whether all four sides paint with identical
// width, style, and color. A fully border-less box counts as uniform.
func uniformBorders(borders [4]dom.BorderEdge) bool {
	ref := borders[0]
	for _, b := range borders[1:] {
		if b.Visible() != ref.Visible() {
			return false
		}
		if b.Visible() && (b.WidthPx != ref.WidthPx || b.Color != ref.Color || b.Style != ref.Style) {
			return false
		}
	}
	return true
}

// bareText returns the first non-whitespace text sitting directly in a
// container, or "".
func bareText(n *dom.Node) string {
	for _, c := range n.Children {
		if c.IsText() {
			if t := strings.TrimSpace(c.Text); t != "" {
				return t
			}
		}
	}
	return ""
}

func startsWithBullet(s string) bool {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return false
	}
	return strings.ContainsRune(bulletGlyphs, []rune(s)[0])
}

// imageURL unwraps a CSS url(...) value to its target, rejecting
// gradients and other non-url images.
func imageURL(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "url(") || !strings.HasSuffix(v, ")") {
		return ""
	}
	v = strings.TrimSuffix(strings.TrimPrefix(v, "url("), ")")
	v = strings.Trim(v, `"'`)
	v = strings.TrimPrefix(v, "file://")
	return v
}

// consumeSubtree marks a node and all descendants as handled.
func (e *Extractor) consumeSubtree(n *dom.Node) {
	n.Walk(func(cur *dom.Node) bool {
		e.consumed[cur] = true
		return true
	})
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
