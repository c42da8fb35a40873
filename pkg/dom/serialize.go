package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// voidElements cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// rawTextElements have unescaped text content.
var rawTextElements = map[string]bool{
	"script": true, "style": true,
}

// OuterHTML serializes n and its descendants.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

// InnerHTML serializes the descendants of n.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	for c := n.firstChild; c != nil; c = c.next {
		writeNode(&b, c)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	switch n.Type {
	case TextNode:
		if n.parent != nil && rawTextElements[n.parent.Tag] {
			b.WriteString(n.data)
		} else {
			b.WriteString(html.EscapeString(n.data))
		}
	case CommentNode:
		b.WriteString("<!--")
		b.WriteString(n.data)
		b.WriteString("-->")
	case DocumentNode:
		for c := n.firstChild; c != nil; c = c.next {
			writeNode(b, c)
		}
	case ElementNode:
		b.WriteByte('<')
		b.WriteString(n.Tag)
		for _, a := range n.attrs {
			b.WriteByte(' ')
			switch a.Namespace {
			case NamespaceXLink:
				b.WriteString("xlink:")
			case NamespaceXML:
				b.WriteString("xml:")
			}
			b.WriteString(a.Name)
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(a.Value))
			b.WriteByte('"')
		}
		b.WriteByte('>')
		if n.Namespace == NamespaceHTML && voidElements[n.Tag] {
			return
		}
		for c := n.firstChild; c != nil; c = c.next {
			writeNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Tag)
		b.WriteByte('>')
	}
}
