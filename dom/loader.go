package dom

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// ParseFile parses an HTML file into a detached snapshot tree rooted at
// the document body. The tree carries structure and attributes only; a
// rendering session supplies computed style and geometry.
func ParseFile(filename string) (*Node, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return Parse(f, "")
}

// Parse parses HTML from a reader. contentType, when known, drives
// charset detection; pass "" to sniff.
func Parse(r io.Reader, contentType string) (*Node, error) {
	decoded, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}

	doc, err := html.Parse(decoded)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	body := findHTMLElement(doc, "body")
	if body == nil {
		body = doc
	}

	refs := 0
	root := convertNode(body, nil, &refs)
	if root == nil {
		return nil, fmt.Errorf("document has no body content")
	}
	return root, nil
}

// convertNode translates an html.Node subtree into the snapshot form,
// skipping non-content elements and whitespace-only text between blocks.
func convertNode(n *html.Node, parent *Node, refs *int) *Node {
	switch n.Type {
	case html.TextNode:
		return &Node{Kind: TextNode, Text: n.Data, Parent: parent}

	case html.ElementNode, html.DocumentNode:
		tag := strings.ToLower(n.Data)
		if n.Type == html.DocumentNode {
			tag = "body"
		}
		if skipTag(tag) {
			return nil
		}

		node := &Node{
			Kind:  ElementNode,
			Tag:   tag,
			Attrs: make(map[string]string, len(n.Attr)),
		}
		node.Parent = parent
		for _, a := range n.Attr {
			node.Attrs[strings.ToLower(a.Key)] = a.Val
		}
		*refs++
		node.Ref = fmt.Sprintf("sw-%d", *refs)

		pendingSpace := false
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			child := convertNode(c, node, refs)
			if child == nil {
				continue
			}
			// Whitespace-only text between siblings is a word
			// separator; at the edges it is formatting and dropped.
			if child.IsText() && strings.TrimSpace(child.Text) == "" {
				if len(node.Children) > 0 {
					pendingSpace = true
				}
				continue
			}
			if pendingSpace {
				node.Children = append(node.Children, &Node{Kind: TextNode, Text: " ", Parent: node})
				pendingSpace = false
			}
			node.Children = append(node.Children, child)
		}
		return node
	}
	return nil
}

func skipTag(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template", "head", "meta", "link", "title":
		return true
	}
	return false
}

func findHTMLElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findHTMLElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}
