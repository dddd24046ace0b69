package render

import (
	"strings"

	"github.com/ktzy0305/SlideWeaver/css"
	"github.com/ktzy0305/SlideWeaver/dom"
)

// declarations parses an inline style attribute into a property map.
// Later declarations win, matching cascade order within one attribute.
func declarations(style string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return out
}

// inheritedDefaults seeds a Computed from the parent's inheritable
// properties, or from the initial values at the root.
func inheritedDefaults(parent *dom.Computed) *dom.Computed {
	c := &dom.Computed{
		Display:         "block",
		Position:        "static",
		FontFamily:      "Arial",
		FontSizePx:      16,
		FontWeight:      400,
		FontStyle:       "normal",
		Color:           "rgb(0, 0, 0)",
		BackgroundColor: "rgba(0, 0, 0, 0)",
		BackgroundImage: "none",
		TextAlign:       "left",
		VerticalAlign:   "baseline",
		TextTransform:   "none",
		TextDecoration:  "none",
		Opacity:         1,
		BorderRadius:    "0px",
		BoxShadow:       "none",
		ObjectPosition:  "50% 50%",
	}
	if parent != nil {
		c.FontFamily = parent.FontFamily
		c.FontSizePx = parent.FontSizePx
		c.FontWeight = parent.FontWeight
		c.FontStyle = parent.FontStyle
		c.Color = parent.Color
		c.TextAlign = parent.TextAlign
		c.TextTransform = parent.TextTransform
		c.LineHeightPx = parent.LineHeightPx
	}
	if c.LineHeightPx == 0 {
		c.LineHeightPx = c.FontSizePx * 1.2
	}
	return c
}

// applyDeclarations folds parsed declarations into a Computed. Geometry
// properties (left/top/width/height) are returned for the layout pass
// rather than applied, since the box depends on the parent.
func applyDeclarations(c *dom.Computed, decls map[string]string) (geom map[string]string) {
	geom = make(map[string]string)

	// Font size first: numeric line-height multiplies it.
	if v, ok := decls["font-size"]; ok {
		if px, err := css.ParsePx(v); err == nil {
			c.FontSizePx = px
		}
	}

	for k, v := range decls {
		switch k {
		case "left", "top", "right", "bottom", "width", "height":
			geom[k] = v
		case "display":
			c.Display = v
		case "position":
			c.Position = v
		case "font-family":
			c.FontFamily = v
		case "font-size":
			if px, err := css.ParsePx(v); err == nil {
				c.FontSizePx = px
			}
		case "font-weight":
			c.FontWeight = parseWeight(v)
		case "font-style":
			c.FontStyle = v
		case "color":
			c.Color = v
		case "background-color", "background":
			c.BackgroundColor = v
		case "background-image":
			c.BackgroundImage = v
		case "text-align":
			c.TextAlign = v
		case "vertical-align":
			c.VerticalAlign = v
		case "text-transform":
			c.TextTransform = v
		case "text-decoration":
			c.TextDecoration = v
		case "letter-spacing":
			c.LetterSpacing = v
		case "line-height":
			if px, err := css.ParsePx(v); err == nil {
				c.LineHeightPx = px
			} else if n, err := css.ParseNumber(v); err == nil {
				c.LineHeightPx = n * c.FontSizePx
			}
		case "opacity":
			if n, err := css.ParseNumber(v); err == nil {
				c.Opacity = n
			}
		case "transform":
			c.Rotation = parseTransformRotation(v)
		case "border-radius":
			c.BorderRadius = v
		case "box-shadow":
			c.BoxShadow = v
		case "object-position":
			c.ObjectPosition = v
		case "margin":
			c.Margin = parseEdges(v)
		case "margin-top":
			c.Margin.Top = pxOrZero(v)
		case "margin-right":
			c.Margin.Right = pxOrZero(v)
		case "margin-bottom":
			c.Margin.Bottom = pxOrZero(v)
		case "margin-left":
			c.Margin.Left = pxOrZero(v)
		case "padding":
			c.Padding = parseEdges(v)
		case "padding-top":
			c.Padding.Top = pxOrZero(v)
		case "padding-right":
			c.Padding.Right = pxOrZero(v)
		case "padding-bottom":
			c.Padding.Bottom = pxOrZero(v)
		case "padding-left":
			c.Padding.Left = pxOrZero(v)
		case "border":
			edge := parseBorderEdge(v)
			c.BorderTop, c.BorderRight, c.BorderBottom, c.BorderLeft = edge, edge, edge, edge
		case "border-top":
			c.BorderTop = parseBorderEdge(v)
		case "border-right":
			c.BorderRight = parseBorderEdge(v)
		case "border-bottom":
			c.BorderBottom = parseBorderEdge(v)
		case "border-left":
			c.BorderLeft = parseBorderEdge(v)
		}
	}
	return geom
}

func parseWeight(v string) int {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "bold":
		return 700
	case "normal":
		return 400
	case "lighter":
		return 300
	case "bolder":
		return 700
	}
	if n, err := css.ParseNumber(v); err == nil {
		return int(n)
	}
	return 400
}

// parseTransformRotation handles both author-level rotate() and the
// computed matrix() form.
func parseTransformRotation(v string) float64 {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "rotate(") {
		inner := strings.TrimSuffix(strings.TrimPrefix(v, "rotate("), ")")
		inner = strings.TrimSuffix(strings.TrimSpace(inner), "deg")
		if n, err := css.ParseNumber(inner); err == nil {
			return n
		}
		return 0
	}
	return css.ParseRotation(v)
}

// parseEdges expands a 1-4 value margin/padding shorthand.
func parseEdges(v string) dom.Edges {
	parts := strings.Fields(v)
	px := make([]float64, 0, 4)
	for _, p := range parts {
		px = append(px, pxOrZero(p))
	}
	switch len(px) {
	case 1:
		return dom.Edges{Top: px[0], Right: px[0], Bottom: px[0], Left: px[0]}
	case 2:
		return dom.Edges{Top: px[0], Right: px[1], Bottom: px[0], Left: px[1]}
	case 3:
		return dom.Edges{Top: px[0], Right: px[1], Bottom: px[2], Left: px[1]}
	case 4:
		return dom.Edges{Top: px[0], Right: px[1], Bottom: px[2], Left: px[3]}
	}
	return dom.Edges{}
}

// parseBorderEdge parses a "width style color" border shorthand.
func parseBorderEdge(v string) dom.BorderEdge {
	edge := dom.BorderEdge{Style: "none"}
	rest := v

	// The color may contain spaces (rgb(...)); pull it out first.
	if i := strings.Index(rest, "rgb"); i >= 0 {
		if j := strings.IndexByte(rest[i:], ')'); j >= 0 {
			edge.Color = rest[i : i+j+1]
			rest = rest[:i] + rest[i+j+1:]
		}
	}

	for _, part := range strings.Fields(rest) {
		switch {
		case strings.HasSuffix(part, "px"):
			edge.WidthPx = pxOrZero(part)
		case part == "solid" || part == "dashed" || part == "dotted" || part == "double" || part == "none" || part == "hidden":
			edge.Style = part
		default:
			if edge.Color == "" {
				edge.Color = part
			}
		}
	}
	if edge.WidthPx > 0 && edge.Style == "none" {
		edge.Style = "solid"
	}
	return edge
}

func pxOrZero(v string) float64 {
	if px, err := css.ParsePx(v); err == nil {
		return px
	}
	return 0
}
