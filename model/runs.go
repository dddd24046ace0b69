package model

import "strings"

// TextRun is one styled span of text. Runs appear in document order and
// together form the rich content of a text block, list item, or cell.
type TextRun struct {
	Text    string
	Options RunOptions
}

// RunOptions are the per-run style overrides.
type RunOptions struct {
	Bold      bool
	Italic    bool
	Underline bool
	FontFace  string  // empty inherits the block face
	SizePt    float64 // zero inherits the block size
	Color     string  // RRGGBB; empty inherits
	Hyperlink string
}

// HasHyperlink reports whether any run carries a hyperlink.
func HasHyperlink(runs []TextRun) bool {
	for _, r := range runs {
		if r.Options.Hyperlink != "" {
			return true
		}
	}
	return false
}

// JoinRuns flattens runs into one plain string.
func JoinRuns(runs []TextRun) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// TrimRuns trims leading whitespace from the first run and trailing
// whitespace from the last, then drops runs left empty. Interior
// whitespace is significant and preserved.
func TrimRuns(runs []TextRun) []TextRun {
	if len(runs) == 0 {
		return runs
	}
	runs[0].Text = strings.TrimLeft(runs[0].Text, " \t\n\r")
	last := len(runs) - 1
	runs[last].Text = strings.TrimRight(runs[last].Text, " \t\n\r")

	out := runs[:0]
	for _, r := range runs {
		if r.Text != "" {
			out = append(out, r)
		}
	}
	return out
}
