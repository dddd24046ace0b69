package extract

import (
	"strings"
	"testing"

	"github.com/ktzy0305/SlideWeaver/dom"
	"github.com/ktzy0305/SlideWeaver/model"
)

func textNode(s string) *dom.Node {
	return &dom.Node{Kind: dom.TextNode, Text: s}
}

func elem(tag string, style *dom.Computed, children ...*dom.Node) *dom.Node {
	n := &dom.Node{Kind: dom.ElementNode, Tag: tag, Style: style, Children: children}
	for _, c := range children {
		c.Parent = n
	}
	return n
}

// box returns a plain computed style with the given geometry in px.
func box(x, y, w, h float64) *dom.Computed {
	return &dom.Computed{
		Box:        dom.Rect{X: x, Y: y, W: w, H: h},
		FontSizePx: 16,
		FontWeight: 400,
		Opacity:    1,
	}
}

// slideBody wraps elements in a body > div.slide scaffold sized
// 960x540px, which is 10x5.625in at the 96dpi reference.
func slideBody(children ...*dom.Node) *dom.Node {
	slide := elem("div", box(0, 0, 960, 540), children...)
	slide.Attrs = map[string]string{"class": "slide"}
	body := elem("body", box(0, 0, 960, 540), slide)
	return body
}

func extractDoc(t *testing.T, body *dom.Node) *model.SlideDocument {
	t.Helper()
	return New("test.html").Extract(body)
}

func TestExtractTextElement(t *testing.T) {
	p := elem("p", box(96, 96, 480, 48), textNode("hello"))
	doc := extractDoc(t, slideBody(p))

	if len(doc.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", doc.Errors)
	}
	if len(doc.Elements) != 1 {
		t.Fatalf("got %d elements, want 1", len(doc.Elements))
	}
	text, ok := doc.Elements[0].(*model.Text)
	if !ok {
		t.Fatalf("element is %T, want *model.Text", doc.Elements[0])
	}
	if text.Position.X != 1 || text.Position.Y != 1 || text.Position.W != 5 || text.Position.H != 0.5 {
		t.Errorf("position = %+v, want 1,1,5x0.5in", text.Position)
	}
	if text.PlainText() != "hello" {
		t.Errorf("text = %q", text.PlainText())
	}
}

func TestExtractBodyDimensions(t *testing.T) {
	doc := extractDoc(t, slideBody())
	if doc.BodyW != 10 || doc.BodyH != 5.625 {
		t.Errorf("body = %vx%vin, want 10x5.625", doc.BodyW, doc.BodyH)
	}
}

func TestExtractZeroSizeDropped(t *testing.T) {
	p := elem("p", box(0, 0, 0, 0), textNode("invisible"))
	doc := extractDoc(t, slideBody(p))
	if len(doc.Elements) != 0 {
		t.Errorf("zero-size text should be dropped, got %+v", doc.Elements)
	}
}

func TestExtractQuarterTurnSwapsAboutCenter(t *testing.T) {
	style := box(96, 96, 384, 192) // 1,1 4x2in
	style.Rotation = 90
	p := elem("p", style, textNode("sideways"))

	doc := extractDoc(t, slideBody(p))
	text := doc.Elements[0].(*model.Text)
	pos := text.Position

	if pos.W != 2 || pos.H != 4 {
		t.Fatalf("size = %vx%v, want 2x4 after quarter turn", pos.W, pos.H)
	}
	// Center (3,2)in must be preserved.
	if cx, cy := pos.X+pos.W/2, pos.Y+pos.H/2; cx != 3 || cy != 2 {
		t.Errorf("center = (%v,%v), want (3,2)", cx, cy)
	}
	if pos.Rotation == nil || *pos.Rotation != 90 {
		t.Errorf("rotation = %v, want 90", pos.Rotation)
	}
}

func TestExtractUnrotatedHasNilRotation(t *testing.T) {
	p := elem("p", box(0, 0, 96, 48), textNode("flat"))
	doc := extractDoc(t, slideBody(p))
	if rot := doc.Elements[0].(*model.Text).Position.Rotation; rot != nil {
		t.Errorf("rotation = %v, want nil", *rot)
	}
}

func TestExtractDecoratedTextTagIsError(t *testing.T) {
	style := box(0, 0, 96, 48)
	style.BackgroundColor = "rgb(255, 0, 0)"
	p := elem("p", style, textNode("boxed"))

	doc := extractDoc(t, slideBody(p))
	if len(doc.Elements) != 0 {
		t.Errorf("decorated <p> must not extract, got %+v", doc.Elements)
	}
	if len(doc.Errors) != 1 || !strings.Contains(doc.Errors[0].Message, "decoration") {
		t.Errorf("errors = %v, want one decoration error", doc.Errors)
	}
}

func TestExtractShapeWithUniformBorder(t *testing.T) {
	style := box(96, 96, 192, 192)
	style.BackgroundColor = "rgb(0, 128, 255)"
	edge := dom.BorderEdge{WidthPx: 2, Style: "solid", Color: "rgb(0, 0, 0)"}
	style.BorderTop, style.BorderRight, style.BorderBottom, style.BorderLeft = edge, edge, edge, edge

	div := elem("div", style)
	doc := extractDoc(t, slideBody(div))

	if len(doc.Elements) != 1 {
		t.Fatalf("got %d elements, want 1 shape", len(doc.Elements))
	}
	shape := doc.Elements[0].(*model.Shape)
	if shape.Fill != "0080FF" {
		t.Errorf("fill = %q", shape.Fill)
	}
	if shape.Border == nil || shape.Border.WidthPt != 1.5 || shape.Border.Color != "000000" {
		t.Errorf("border = %+v, want 1.5pt black", shape.Border)
	}
}

func TestExtractSingleBorderSideBecomesLine(t *testing.T) {
	style := box(96, 192, 480, 96) // 1,2 5x1in
	style.BorderTop = dom.BorderEdge{WidthPx: 2, Style: "solid", Color: "rgb(255, 0, 0)"}

	div := elem("div", style)
	doc := extractDoc(t, slideBody(div))

	if len(doc.Elements) != 1 {
		t.Fatalf("got %d elements, want exactly 1: %+v", len(doc.Elements), doc.Elements)
	}
	line, ok := doc.Elements[0].(*model.Line)
	if !ok {
		t.Fatalf("element is %T, want *model.Line (never a Shape)", doc.Elements[0])
	}
	if line.X1 != 1 || line.Y1 != 2 || line.X2 != 6 || line.Y2 != 2 {
		t.Errorf("line = (%v,%v)-(%v,%v), want (1,2)-(6,2)", line.X1, line.Y1, line.X2, line.Y2)
	}
	if line.Color != "FF0000" || line.WidthPt != 1.5 {
		t.Errorf("line style = %q %vpt, want FF0000 1.5pt", line.Color, line.WidthPt)
	}
}

func TestExtractTransparentFillSubstitutesWhite(t *testing.T) {
	style := box(0, 0, 96, 96)
	style.BackgroundColor = "rgba(0, 0, 0, 0)"
	style.BoxShadow = "rgba(0, 0, 0, 0.4) 2px 2px 4px"

	div := elem("div", style)
	doc := extractDoc(t, slideBody(div))

	shape := doc.Elements[0].(*model.Shape)
	if shape.Fill != "FFFFFF" || shape.Transparency != 100 {
		t.Errorf("fill = %q @%v%%, want FFFFFF @100%%", shape.Fill, shape.Transparency)
	}
	if shape.Shadow == nil {
		t.Error("shadow should survive")
	}
}

func TestExtractContainerBareTextIsError(t *testing.T) {
	div := elem("div", box(0, 0, 96, 96), textNode("stray words"))
	doc := extractDoc(t, slideBody(div))

	if len(doc.Errors) != 1 || !strings.Contains(doc.Errors[0].Message, "bare text") {
		t.Errorf("errors = %v, want one bare-text error", doc.Errors)
	}
}

func TestExtractContainerBackgroundImageConsumesSubtree(t *testing.T) {
	style := box(0, 0, 192, 192)
	style.BackgroundImage = `url("photo.png")`

	inner := elem("p", box(0, 0, 96, 48), textNode("hidden"))
	div := elem("div", style, inner)
	doc := extractDoc(t, slideBody(div))

	if len(doc.Elements) != 0 {
		t.Errorf("subtree should be consumed, got %+v", doc.Elements)
	}
	if len(doc.Errors) != 1 {
		t.Errorf("errors = %v, want exactly one", doc.Errors)
	}
}

func TestExtractRootBackground(t *testing.T) {
	body := slideBody()
	slide := body.ElementChildren()[0]
	slide.Style.BackgroundImage = `url("file:///tmp/bg.jpg")`

	doc := extractDoc(t, body)
	if doc.Background == nil || doc.Background.ImagePath != "/tmp/bg.jpg" {
		t.Errorf("background = %+v, want /tmp/bg.jpg", doc.Background)
	}
}

func TestExtractImage(t *testing.T) {
	style := box(96, 96, 384, 192)
	style.ObjectPosition = "0% 50%"
	img := elem("img", style)
	img.Attrs = map[string]string{"src": "cat.png"}

	doc := extractDoc(t, slideBody(img))
	image := doc.Elements[0].(*model.Image)
	if image.Path != "cat.png" {
		t.Errorf("path = %q", image.Path)
	}
	if image.ObjectPosition.XPercent != 0 || image.ObjectPosition.YPercent != 50 {
		t.Errorf("object-position = %+v, want 0,50", image.ObjectPosition)
	}
}

func TestExtractList(t *testing.T) {
	style := box(96, 96, 384, 192)
	style.Padding = dom.Edges{Left: 24}

	ul := elem("ul", style,
		elem("li", box(0, 0, 384, 32), textNode("first")),
		elem("li", box(0, 0, 384, 32), textNode("second")),
	)

	doc := extractDoc(t, slideBody(ul))
	list := doc.Elements[0].(*model.List)
	if len(list.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(list.Items))
	}
	if list.IndentPt != 18 { // 24px * 0.75
		t.Errorf("indent = %vpt, want 18", list.IndentPt)
	}
}

func TestExtractManualBulletIsError(t *testing.T) {
	p := elem("p", box(0, 0, 192, 48), textNode("• not a list"))
	doc := extractDoc(t, slideBody(p))

	if len(doc.Elements) != 0 {
		t.Errorf("bullet text must not extract, got %+v", doc.Elements)
	}
	if len(doc.Errors) != 1 || !strings.Contains(doc.Errors[0].Message, "bullet") {
		t.Errorf("errors = %v, want one bullet error", doc.Errors)
	}
}

func TestExtractPlaceholder(t *testing.T) {
	div := elem("div", box(96, 96, 192, 96))
	div.Attrs = map[string]string{"class": "placeholder", "id": "chart-area"}

	doc := extractDoc(t, slideBody(div))
	if len(doc.Elements) != 0 {
		t.Errorf("placeholders must not become elements, got %+v", doc.Elements)
	}
	if len(doc.Placeholders) != 1 || doc.Placeholders[0].ID != "chart-area" {
		t.Fatalf("placeholders = %+v, want chart-area", doc.Placeholders)
	}
}

func TestExtractZeroSizePlaceholderIsError(t *testing.T) {
	div := elem("div", box(0, 0, 0, 0))
	div.Attrs = map[string]string{"class": "placeholder", "id": "empty"}

	doc := extractDoc(t, slideBody(div))
	if len(doc.Placeholders) != 0 {
		t.Errorf("zero-size placeholder must not register, got %+v", doc.Placeholders)
	}
	if len(doc.Errors) != 1 {
		t.Errorf("errors = %v, want exactly one", doc.Errors)
	}
}

func TestExtractDocumentOrderPreserved(t *testing.T) {
	first := elem("p", box(0, 0, 96, 48), textNode("first"))
	imgStyle := box(0, 96, 96, 96)
	img := elem("img", imgStyle)
	img.Attrs = map[string]string{"src": "x.png"}
	last := elem("p", box(0, 192, 96, 48), textNode("last"))

	doc := extractDoc(t, slideBody(first, img, last))
	if len(doc.Elements) != 3 {
		t.Fatalf("got %d elements, want 3", len(doc.Elements))
	}
	kinds := []model.ElementKind{doc.Elements[0].Kind(), doc.Elements[1].Kind(), doc.Elements[2].Kind()}
	want := []model.ElementKind{model.KindText, model.KindImage, model.KindText}
	for i := range kinds {
		if kinds[i] != want[i] {
			t.Errorf("element %d kind = %v, want %v", i, kinds[i], want[i])
		}
	}
}
