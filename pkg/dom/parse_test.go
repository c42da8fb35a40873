package dom

import (
	"strings"
	"testing"
)

func TestParseHTMLRoundTrip(t *testing.T) {
	doc, err := ParseHTMLString(`<!DOCTYPE html><html><head></head><body><div id="x">hello<!-- marker --></div></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	div := doc.GetElementByID("x")
	if div == nil {
		t.Fatal("div#x not found")
	}
	if got := div.InnerHTML(); got != "hello<!-- marker -->" {
		t.Errorf("InnerHTML = %q", got)
	}
	if !div.FirstChild().IsText() || !div.LastChild().IsComment() {
		t.Error("expected text then comment children")
	}
	if doc.Stats().Mutations() != 0 {
		t.Error("parsing must not count as mutations")
	}
}

func TestParseSVGNamespaces(t *testing.T) {
	doc, err := ParseHTMLString(`<body><svg viewBox="0 0 10 10"><use xlink:href="#a"></use><foreignObject><p>x</p></foreignObject></svg></body>`)
	if err != nil {
		t.Fatal(err)
	}
	svg := doc.Body().FirstChild()
	if svg.Namespace != NamespaceSVG {
		t.Fatalf("svg namespace = %q", svg.Namespace)
	}
	if v, ok := svg.GetAttribute("viewBox"); !ok || v != "0 0 10 10" {
		t.Errorf("viewBox = %q, %v", v, ok)
	}
	use := svg.FirstChild()
	if v, ok := use.GetAttributeNS(NamespaceXLink, "href"); !ok || v != "#a" {
		t.Errorf("xlink:href = %q, %v", v, ok)
	}
	fo := use.NextSibling()
	if fo.Tag != "foreignObject" {
		t.Errorf("tag = %q, want foreignObject", fo.Tag)
	}
	if p := fo.FirstChild(); p.Namespace != NamespaceHTML {
		t.Errorf("foreignObject child namespace = %q", p.Namespace)
	}
}

func TestSetInnerHTML(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	if err := div.SetInnerHTML("<b>bold</b> text"); err != nil {
		t.Fatal(err)
	}
	if got := div.OuterHTML(); got != "<div><b>bold</b> text</div>" {
		t.Errorf("OuterHTML = %q", got)
	}
}

func TestParseFragment(t *testing.T) {
	doc := NewDocument()
	nodes, err := ParseFragment(doc, doc.Body(), strings.NewReader(`<!-- rmx:h:h1 --><p>a</p><!-- /rmx:h -->`))
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 3 {
		t.Fatalf("len = %d, want 3", len(nodes))
	}
	if nodes[0].Data() != " rmx:h:h1 " {
		t.Errorf("comment data = %q", nodes[0].Data())
	}
}
