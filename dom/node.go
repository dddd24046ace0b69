// Package dom defines the style-annotated document tree that a rendering
// session produces and the extraction pipeline consumes. Every element
// node carries the computed style and layout box the session measured;
// the tree is a snapshot, cheap to walk and safe to share read-only.
package dom

import "strings"

// NodeKind distinguishes element nodes from text nodes.
type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
)

// Rect is a layout box in CSS pixels, origin at the document top-left.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// IsEmpty reports whether the box has no rendered extent.
func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

// Edges holds per-side pixel lengths (margin or padding).
type Edges struct {
	Top, Right, Bottom, Left float64
}

// Any reports whether any side is non-zero.
func (e Edges) Any() bool {
	return e.Top != 0 || e.Right != 0 || e.Bottom != 0 || e.Left != 0
}

// BorderEdge is one side of a computed border.
type BorderEdge struct {
	WidthPx float64
	Style   string // computed border-style; "none" when absent
	Color   string // computed border-color
}

// Visible reports whether the side paints.
func (b BorderEdge) Visible() bool {
	return b.WidthPx > 0 && b.Style != "" && b.Style != "none" && b.Style != "hidden"
}

// Computed is the computed style and geometry snapshot of one element.
type Computed struct {
	Box     Rect
	ScrollW float64 // scrollWidth in px
	ScrollH float64 // scrollHeight in px

	Display  string
	Position string

	FontFamily string
	FontSizePx float64
	FontWeight int
	FontStyle  string

	Color           string
	BackgroundColor string
	BackgroundImage string // computed value; "none" when absent

	TextAlign      string
	VerticalAlign  string
	TextTransform  string
	TextDecoration string
	LineHeightPx   float64
	LetterSpacing  string

	Opacity  float64
	Rotation float64 // degrees extracted from the transform matrix

	Margin  Edges
	Padding Edges

	// Border sides in top, right, bottom, left order.
	BorderTop    BorderEdge
	BorderRight  BorderEdge
	BorderBottom BorderEdge
	BorderLeft   BorderEdge

	BorderRadius   string
	BoxShadow      string
	ObjectPosition string
}

// Borders returns the four border sides in top, right, bottom, left order.
func (c *Computed) Borders() [4]BorderEdge {
	return [4]BorderEdge{c.BorderTop, c.BorderRight, c.BorderBottom, c.BorderLeft}
}

// HasBackgroundImage reports whether a background image is set.
func (c *Computed) HasBackgroundImage() bool {
	return c.BackgroundImage != "" && c.BackgroundImage != "none"
}

// HasVisibleBorder reports whether any border side paints.
func (c *Computed) HasVisibleBorder() bool {
	for _, b := range c.Borders() {
		if b.Visible() {
			return true
		}
	}
	return false
}

// Node is one node of the snapshot tree.
type Node struct {
	Kind     NodeKind
	Tag      string // lower-case tag name, element nodes only
	Text     string // text nodes only
	Attrs    map[string]string
	Children []*Node
	Parent   *Node

	// Style holds computed style and geometry for element nodes. Text
	// nodes inherit from their parent and carry nil.
	Style *Computed

	// Ref identifies the node inside the live rendering session so the
	// auto-wrap pass can mutate it. Empty for detached trees.
	Ref string
}

// IsElement reports whether the node is an element node.
func (n *Node) IsElement() bool { return n.Kind == ElementNode }

// IsText reports whether the node is a text node.
func (n *Node) IsText() bool { return n.Kind == TextNode }

// Attr returns the value of an attribute, or "".
func (n *Node) Attr(name string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// HasClass reports whether the node's class list contains name.
func (n *Node) HasClass(name string) bool {
	for _, c := range strings.Fields(n.Attr("class")) {
		if c == name {
			return true
		}
	}
	return false
}

// SelfOrAncestorHasClass walks up the tree looking for a class.
func (n *Node) SelfOrAncestorHasClass(name string) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.IsElement() && cur.HasClass(name) {
			return true
		}
	}
	return false
}

// TextContent concatenates all descendant text, with <br> elements
// contributing newlines.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.appendText(&sb)
	return sb.String()
}

func (n *Node) appendText(sb *strings.Builder) {
	if n.IsText() {
		sb.WriteString(n.Text)
		return
	}
	if n.Tag == "br" {
		sb.WriteString("\n")
		return
	}
	for _, c := range n.Children {
		c.appendText(sb)
	}
}

// HasElement reports whether any descendant element matches one of the
// given tag names.
func (n *Node) HasElement(tags ...string) bool {
	for _, c := range n.Children {
		if c.IsElement() {
			for _, t := range tags {
				if c.Tag == t {
					return true
				}
			}
			if c.HasElement(tags...) {
				return true
			}
		}
	}
	return false
}

// Walk visits the node and its descendants in document order. The visit
// function returns false to skip a node's children.
func (n *Node) Walk(visit func(*Node) bool) {
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// Find returns the first descendant element (or the node itself)
// satisfying the predicate, in document order.
func (n *Node) Find(pred func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(cur *Node) bool {
		if found != nil {
			return false
		}
		if cur.IsElement() && pred(cur) {
			found = cur
			return false
		}
		return true
	})
	return found
}

// FindAll returns all descendant elements (including the node itself)
// satisfying the predicate, in document order.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(cur *Node) bool {
		if cur.IsElement() && pred(cur) {
			out = append(out, cur)
		}
		return true
	})
	return out
}

// ElementChildren returns the node's direct element children.
func (n *Node) ElementChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.IsElement() {
			out = append(out, c)
		}
	}
	return out
}
