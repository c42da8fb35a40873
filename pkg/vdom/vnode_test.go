package vdom

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindText, "Text"},
		{KindHost, "Host"},
		{KindComponent, "Component"},
		{KindFragment, "Fragment"},
		{KindCatch, "Catch"},
		{KindFrame, "Frame"},
		{Kind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSameType(t *testing.T) {
	counter := Func("Counter", func(Props) (*Node, error) { return nil, nil })
	other := Func("Counter", func(Props) (*Node, error) { return nil, nil })

	tests := []struct {
		name string
		a, b *Node
		want bool
	}{
		{"same tag", Div(), Div(), true},
		{"different tag", Div(), Span(), false},
		{"text and text", Text("a"), Text("b"), true},
		{"text and host", Text("a"), Div(), false},
		{"same component", C(counter, nil), C(counter, nil), true},
		{"same name different component", C(counter, nil), C(other, nil), false},
		{"fragments", Fragment(), Fragment(), true},
		{"catch and fragment", Catch(nil), Fragment(), false},
		{"nil", nil, Div(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.SameType(tt.b); got != tt.want {
				t.Errorf("SameType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTypeName(t *testing.T) {
	counter := Func("Counter", func(Props) (*Node, error) { return nil, nil })

	tests := []struct {
		node *Node
		want string
	}{
		{nil, "nil"},
		{Div(), "<div>"},
		{Text("x"), "Text"},
		{C(counter, nil), "Counter"},
		{Frame("sidebar", "/sidebar"), "Frame(sidebar)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.node.TypeName(); got != tt.want {
				t.Errorf("TypeName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComponentHydratable(t *testing.T) {
	c := Func("Counter", func(Props) (*Node, error) { return nil, nil })
	if c.IsHydratable() {
		t.Fatal("plain component should not be hydratable")
	}
	if got := c.Hydratable("/js/counter.js", "Counter"); got != c {
		t.Fatal("Hydratable should return the receiver")
	}
	if !c.IsHydratable() {
		t.Error("component with a module reference should be hydratable")
	}
	if c.ExportName != "Counter" {
		t.Errorf("ExportName = %q, want Counter", c.ExportName)
	}

	var nilComp *Component
	if nilComp.IsHydratable() {
		t.Error("nil component should not be hydratable")
	}
}

func TestComponentKeyFromProps(t *testing.T) {
	c := Func("Row", func(Props) (*Node, error) { return nil, nil })

	n := C(c, Props{"key": 7, "label": "seven"})
	if n.Key != "7" {
		t.Errorf("Key = %q, want 7", n.Key)
	}
	if !n.HasKey() {
		t.Error("HasKey() = false")
	}

	if C(c, nil).HasKey() {
		t.Error("component without a key prop should have no key")
	}
}
