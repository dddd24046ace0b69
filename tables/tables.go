// Package tables extracts the row/cell grid of an HTML table, including
// spans and per-cell style, into the slide model. Header and body rows
// are enumerated alike, in document order; a row's effective column
// count is the sum of its cells' colspans.
package tables

import (
	"strconv"
	"strings"

	"github.com/ktzy0305/SlideWeaver/css"
	"github.com/ktzy0305/SlideWeaver/dom"
	"github.com/ktzy0305/SlideWeaver/model"
	"github.com/ktzy0305/SlideWeaver/richtext"
	"github.com/ktzy0305/SlideWeaver/units"
)

// Extract builds the cell grid of a table element. The caller owns
// consumption marking for the subtree; Extract only reads.
func Extract(table *dom.Node) ([][]model.Cell, []model.ValidationError) {
	var rows [][]model.Cell
	var errs []model.ValidationError

	for _, tr := range rowElements(table) {
		var row []model.Cell
		for _, cellNode := range tr.ElementChildren() {
			if cellNode.Tag != "td" && cellNode.Tag != "th" {
				continue
			}
			cell, cellErrs := extractCell(cellNode)
			errs = append(errs, cellErrs...)
			row = append(row, cell)
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	return rows, errs
}

// rowElements returns the table's tr elements in document order,
// looking through thead, tbody, and tfoot sections.
func rowElements(table *dom.Node) []*dom.Node {
	var out []*dom.Node
	for _, child := range table.ElementChildren() {
		switch child.Tag {
		case "tr":
			out = append(out, child)
		case "thead", "tbody", "tfoot":
			for _, tr := range child.ElementChildren() {
				if tr.Tag == "tr" {
					out = append(out, tr)
				}
			}
		}
	}
	return out
}

func extractCell(n *dom.Node) (model.Cell, []model.ValidationError) {
	cell := model.Cell{
		Options: cellOptions(n),
	}

	var errs []model.ValidationError
	if richtext.HasInlineFormatting(n) {
		runs, runErrs := richtext.Build(n)
		cell.Runs = runs
		errs = runErrs
	} else {
		cell.Text = strings.TrimSpace(n.TextContent())
	}
	return cell, errs
}

func cellOptions(n *dom.Node) model.CellOptions {
	style := n.Style
	if style == nil {
		style = &dom.Computed{}
	}

	opts := model.CellOptions{
		ColSpan: spanAttr(n, "colspan"),
		RowSpan: spanAttr(n, "rowspan"),
		Align:   css.ParseAlignment(style.TextAlign),
		VAlign:  css.ParseVerticalAlignment(style.VerticalAlign),
	}

	// Header cells default to bold.
	opts.Bold = n.Tag == "th" || style.FontWeight >= richtext.BoldWeight
	opts.Italic = style.FontStyle == "italic" || style.FontStyle == "oblique"
	opts.Underline = strings.Contains(style.TextDecoration, "underline")

	if face := css.FirstFontFamily(style.FontFamily); face != "" {
		opts.FontFace = face
	}
	if style.FontSizePx > 0 {
		opts.SizePt = units.PxToPoints(style.FontSizePx)
	}
	if c, err := css.ParseColor(style.Color); err == nil && !c.IsTransparent() {
		opts.Color = c.Hex
	}
	if fill, err := css.ParseColor(style.BackgroundColor); err == nil && !fill.IsTransparent() {
		opts.Fill = fill.Hex
	}

	if style.Padding.Any() {
		opts.MarginPt = units.PxToPoints(style.Padding.Left)
	}

	if edge := style.BorderTop; edge.Visible() && uniformBorder(style) {
		if c, err := css.ParseColor(edge.Color); err == nil {
			opts.Border = &model.Border{Color: c.Hex, WidthPt: units.PxToPoints(edge.WidthPx)}
		}
	}

	return opts
}

// uniformBorder reports whether all four cell borders paint identically.
func uniformBorder(style *dom.Computed) bool {
	ref := style.BorderTop
	for _, b := range style.Borders() {
		if b.WidthPx != ref.WidthPx || b.Style != ref.Style || b.Color != ref.Color {
			return false
		}
	}
	return true
}

// spanAttr parses a colspan/rowspan attribute as a positive integer,
// defaulting to 1.
func spanAttr(n *dom.Node, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(n.Attr(name)))
	if err != nil || v < 1 {
		return 1
	}
	return v
}
