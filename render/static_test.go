package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ktzy0305/SlideWeaver/dom"
)

func loadStatic(t *testing.T, src string) *Static {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	sess := NewStaticEmpty(FixedWidth(0.5))
	if err := sess.Load(context.Background(), path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return sess
}

func snapshot(t *testing.T, sess *Static) *dom.Node {
	t.Helper()
	root, err := sess.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	return root
}

func TestStaticResolvesBodyGeometry(t *testing.T) {
	sess := loadStatic(t, `<body style="width: 960px; height: 540px"><p>x</p></body>`)
	body := snapshot(t, sess)

	if body.Style == nil {
		t.Fatal("body has no computed style")
	}
	if body.Style.Box.W != 960 || body.Style.Box.H != 540 {
		t.Errorf("body box = %+v", body.Style.Box)
	}
}

func TestStaticAbsolutePositioning(t *testing.T) {
	sess := loadStatic(t, `<body style="width: 960px; height: 540px">
<div style="position: absolute; left: 96px; top: 48px; width: 480px; height: 96px">box</div>
</body>`)
	body := snapshot(t, sess)

	div := body.Find(func(n *dom.Node) bool { return n.Tag == "div" })
	if div == nil || div.Style == nil {
		t.Fatal("div not resolved")
	}
	want := dom.Rect{X: 96, Y: 48, W: 480, H: 96}
	if div.Style.Box != want {
		t.Errorf("box = %+v, want %+v", div.Style.Box, want)
	}
}

func TestStaticInlineStyleResolution(t *testing.T) {
	sess := loadStatic(t, `<body style="width: 960px; height: 540px">
<h1 style="position: absolute; left: 0px; top: 0px; width: 960px; font-size: 32px; font-weight: bold; line-height: 1.5; color: rgb(255, 0, 0)">title</h1>
</body>`)
	body := snapshot(t, sess)

	h := body.Find(func(n *dom.Node) bool { return n.Tag == "h1" })
	s := h.Style
	if s.FontSizePx != 32 || s.FontWeight != 700 {
		t.Errorf("font = %vpx weight %d", s.FontSizePx, s.FontWeight)
	}
	// Numeric line-height multiplies the declared font size, not the
	// inherited one.
	if s.LineHeightPx != 48 {
		t.Errorf("line height = %v, want 48", s.LineHeightPx)
	}
	if s.Color != "rgb(255, 0, 0)" {
		t.Errorf("color = %q", s.Color)
	}
}

func TestStaticSetTextRewritesNode(t *testing.T) {
	sess := loadStatic(t, `<body style="width: 960px; height: 540px">
<h1 style="position: absolute; left: 0px; top: 0px; width: 960px; font-size: 32px; line-height: 38.4px">one long heading</h1>
</body>`)
	body := snapshot(t, sess)
	h := body.Find(func(n *dom.Node) bool { return n.Tag == "h1" })

	if err := sess.SetText(context.Background(), h.Ref, []string{"one long", "heading"}); err != nil {
		t.Fatalf("SetText: %v", err)
	}

	if got := h.TextContent(); got != "one long\nheading" {
		t.Errorf("text = %q", got)
	}
	if h.Style.Box.H != 2*38.4 {
		t.Errorf("height = %v, want two line boxes", h.Style.Box.H)
	}
	// ScrollW tracks the widest line: 8 runes at 16px each.
	if h.Style.ScrollW != 128 {
		t.Errorf("scroll width = %v, want 128", h.Style.ScrollW)
	}
}

func TestStaticSetTextUnknownRef(t *testing.T) {
	sess := loadStatic(t, `<body style="width: 960px; height: 540px"><p>x</p></body>`)
	if err := sess.SetText(context.Background(), "sw-999", []string{"x"}); err == nil {
		t.Error("expected an error for an unknown ref")
	}
}

func TestStaticSnapshotBeforeLoad(t *testing.T) {
	sess := NewStaticEmpty(FixedWidth(0.5))
	if _, err := sess.Snapshot(context.Background()); err == nil {
		t.Error("expected an error before Load")
	}
}

func TestStaticTextOverflowEstimation(t *testing.T) {
	long := strings.Repeat("word ", 19) + "word" // 99 runes, 1584px at 16px per rune
	sess := loadStatic(t, `<body style="width: 960px; height: 540px">
<h1 style="position: absolute; left: 96px; top: 48px; width: 768px; height: 57.6px; font-size: 32px; line-height: 38.4px">`+long+`</h1>
</body>`)
	body := snapshot(t, sess)
	h := body.Find(func(n *dom.Node) bool { return n.Tag == "h1" })

	// 1584px into 768px wraps to 3 estimated lines.
	if h.Style.ScrollH <= h.Style.Box.H {
		t.Errorf("scrollH = %v, box H = %v; overflowing text should exceed the box",
			h.Style.ScrollH, h.Style.Box.H)
	}
}

func TestFixedWidthMeasurer(t *testing.T) {
	m := FixedWidth(0.5)
	got, err := m.MeasureText("abcd", FontSpec{SizePx: 32})
	if err != nil {
		t.Fatalf("MeasureText: %v", err)
	}
	if got != 64 {
		t.Errorf("width = %v, want 4 runes x 16px", got)
	}
}
