package markers

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/rmx/pkg/dom"
)

func TestParse(t *testing.T) {
	tests := []struct {
		text string
		want Marker
		ok   bool
	}{
		{"rmx:h:c1", Marker{Kind: Hydration, ID: "c1"}, true},
		{" rmx:f:sidebar ", Marker{Kind: Frame, ID: "sidebar"}, true},
		{"/rmx:h", Marker{Kind: Hydration, End: true}, true},
		{"/rmx:f", Marker{Kind: Frame, End: true}, true},
		{"rmx:h:", Marker{}, false},
		{"rmx:h", Marker{}, false},
		{"rmx:x:1", Marker{}, false},
		{"/rmx:h:1", Marker{}, false},
		{"rmx:h:has space", Marker{}, false},
		{"", Marker{}, false},
		{"just a comment", Marker{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := Parse(tt.text)
			if ok != tt.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, kind := range []Kind{Hydration, Frame} {
		m, ok := Parse(StartText(kind, "a-1"))
		if !ok || m.Kind != kind || m.ID != "a-1" || m.End {
			t.Errorf("start %v: got %+v", kind, m)
		}
		m, ok = Parse(EndText(kind))
		if !ok || m.Kind != kind || !m.End {
			t.Errorf("end %v: got %+v", kind, m)
		}
	}
}

func parse(t *testing.T, markup string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseHTMLString(markup)
	if err != nil {
		t.Fatalf("ParseHTMLString: %v", err)
	}
	return doc
}

func TestFindEndNesting(t *testing.T) {
	doc := parse(t, `<body><!--rmx:h:outer--><!--rmx:h:inner--><p>x</p><!--/rmx:h--><!--rmx:f:f1--><!--/rmx:f--><!--/rmx:h--><span></span></body>`)
	body := doc.Body()

	outer := body.FirstChild()
	end := FindEnd(outer)
	if end == nil {
		t.Fatal("FindEnd(outer) = nil")
	}
	if end.NextSibling() == nil || end.NextSibling().Tag != "span" {
		t.Errorf("outer end paired with the wrong marker")
	}

	inner := outer.NextSibling()
	innerEnd := FindEnd(inner)
	if innerEnd == nil || innerEnd.PreviousSibling().Tag != "p" {
		t.Errorf("inner end paired with the wrong marker")
	}

	if FindEnd(body.LastChild()) != nil {
		t.Error("FindEnd on a non-marker should be nil")
	}
}

func TestScan(t *testing.T) {
	doc := parse(t, `<body>
<div><!--rmx:h:a--><button>1</button><!--/rmx:h--></div>
<!--rmx:h:b--><div><!--rmx:h:nested--><i></i><!--/rmx:h--></div><!--/rmx:h-->
<!--rmx:f:feed--><!--rmx:h:insideframe--><b></b><!--/rmx:h--><!--/rmx:f-->
<!--rmx:h:broken--><p></p>
</body>`)

	regions, unpaired := Scan(doc.Body())

	var got []string
	for _, r := range regions {
		got = append(got, r.Kind.String()+":"+r.ID)
	}
	want := []string{"h:a", "h:b", "f:feed"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Scan regions mismatch (-want +got):\n%s", diff)
	}

	if len(unpaired) != 1 || unpaired[0].ID != "broken" {
		t.Errorf("unpaired = %+v, want [broken]", unpaired)
	}

	for _, r := range regions {
		if !r.Connected() {
			t.Errorf("region %s should be connected", r.ID)
		}
	}

	inner, _ := ScanBetween(regions[2].Start, regions[2].End)
	if len(inner) != 1 || inner[0].ID != "insideframe" {
		t.Errorf("ScanBetween(frame) = %+v, want [insideframe]", inner)
	}
}

func TestRegionConnected(t *testing.T) {
	doc := parse(t, `<body><!--rmx:h:a--><p></p><!--/rmx:h--></body>`)
	regions, _ := Scan(doc.Body())
	if len(regions) != 1 {
		t.Fatalf("regions = %d, want 1", len(regions))
	}
	r := regions[0]
	r.End.Remove()
	if r.Connected() {
		t.Error("region with a detached end marker should not be connected")
	}
}
