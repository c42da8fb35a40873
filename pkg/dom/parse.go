package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML replaces the children of doc with the parsed document.
func ParseHTML(doc *Document, r io.Reader) error {
	root, err := html.Parse(r)
	if err != nil {
		return err
	}
	for c := doc.firstChild; c != nil; {
		next := c.next
		doc.unlink(c)
		c = next
	}
	for h := root.FirstChild; h != nil; h = h.NextSibling {
		if n := convert(doc, h); n != nil {
			doc.AppendChild(n)
		}
	}
	doc.ResetStats()
	return nil
}

// ParseHTMLString is ParseHTML over a string, returning a new document.
func ParseHTMLString(s string) (*Document, error) {
	doc := NewEmptyDocument()
	if err := ParseHTML(doc, strings.NewReader(s)); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseFragment parses markup as the content of context and returns the
// detached top-level nodes.
func ParseFragment(doc *Document, context *Node, r io.Reader) ([]*Node, error) {
	tag := "body"
	var ns string
	if context != nil && context.Type == ElementNode {
		tag = context.Tag
		switch context.Namespace {
		case NamespaceSVG:
			ns = "svg"
		case NamespaceMathML:
			ns = "math"
		}
	}
	ctx := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag)), Namespace: ns}
	parsed, err := html.ParseFragment(r, ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Node, 0, len(parsed))
	for _, h := range parsed {
		if n := convert(doc, h); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// SetInnerHTML replaces the children of n with parsed markup.
func (n *Node) SetInnerHTML(markup string) error {
	nodes, err := ParseFragment(n.doc, n, strings.NewReader(markup))
	if err != nil {
		return err
	}
	for c := n.firstChild; c != nil; {
		next := c.next
		n.doc.blurWithin(c)
		n.unlink(c)
		c = next
	}
	for _, c := range nodes {
		c.parent = n
		c.prev = n.lastChild
		if n.lastChild != nil {
			n.lastChild.next = c
		} else {
			n.firstChild = c
		}
		n.lastChild = c
	}
	n.doc.stats.TextWrites++
	return nil
}

func convert(doc *Document, h *html.Node) *Node {
	var n *Node
	switch h.Type {
	case html.ElementNode:
		n = doc.CreateElementNS(namespaceURI(h.Namespace), h.Data)
		for _, a := range h.Attr {
			n.setAttr(attrNamespaceURI(a.Namespace), a.Key, a.Val)
		}
	case html.TextNode:
		return doc.CreateTextNode(h.Data)
	case html.CommentNode:
		return doc.CreateComment(h.Data)
	default:
		return nil
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if child := convert(doc, c); child != nil {
			child.parent = n
			child.prev = n.lastChild
			if n.lastChild != nil {
				n.lastChild.next = child
			} else {
				n.firstChild = child
			}
			n.lastChild = child
		}
	}
	return n
}

func namespaceURI(short string) string {
	switch short {
	case "svg":
		return NamespaceSVG
	case "math":
		return NamespaceMathML
	default:
		return NamespaceHTML
	}
}

func attrNamespaceURI(short string) string {
	switch short {
	case "xlink":
		return NamespaceXLink
	case "xml":
		return NamespaceXML
	case "":
		return ""
	default:
		return short
	}
}
