package vdom

import (
	"math"
	"testing"

	"github.com/vango-dev/rmx/pkg/dom"
)

func TestAttributeName(t *testing.T) {
	tests := []struct {
		prop   string
		svg    bool
		wantNS string
		want   string
	}{
		{"className", false, "", "class"},
		{"htmlFor", false, "", "for"},
		{"tabIndex", false, "", "tabindex"},
		{"readOnly", false, "", "readonly"},
		{"defaultValue", false, "", "value"},
		{"aria-label", false, "", "aria-label"},
		{"data-userId", false, "", "data-userId"},
		{"DIR", false, "", "dir"},
		{"className", true, "", "class"},
		{"viewBox", true, "", "viewBox"},
		{"strokeWidth", true, "", "stroke-width"},
		{"fill", true, "", "fill"},
		{"xlinkHref", true, dom.NamespaceXLink, "href"},
		{"xmlLang", true, dom.NamespaceXML, "lang"},
	}

	for _, tt := range tests {
		t.Run(tt.prop, func(t *testing.T) {
			ns, name := AttributeName(tt.prop, tt.svg)
			if ns != tt.wantNS || name != tt.want {
				t.Errorf("AttributeName(%q, %v) = (%q, %q), want (%q, %q)",
					tt.prop, tt.svg, ns, name, tt.wantNS, tt.want)
			}
		})
	}
}

func TestAttributeValue(t *testing.T) {
	tests := []struct {
		name   string
		attr   string
		value  any
		want   string
		wantOK bool
	}{
		{"string", "title", "hi", "hi", true},
		{"true is bare", "disabled", true, "", true},
		{"false is absent", "disabled", false, "", false},
		{"aria false", "aria-hidden", false, "false", true},
		{"data true", "data-open", true, "true", true},
		{"int", "width", 10, "10", true},
		{"float", "opacity", 0.5, "0.5", true},
		{"nan", "x", math.NaN(), "", false},
		{"inf", "x", math.Inf(1), "", false},
		{"nil", "title", nil, "", false},
		{"func", "onclick", func() {}, "", false},
		{"style object", "style", Styles{"color": "red"}, "color: red;", true},
		{"empty style", "style", Styles{"hidden": true}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AttributeValue(tt.attr, tt.value)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("AttributeValue(%q, %v) = (%q, %v), want (%q, %v)",
					tt.attr, tt.value, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIsReserved(t *testing.T) {
	for _, name := range []string{"children", "key", "on", "css", "setup", "connect", "animate", "innerHTML"} {
		if !IsReserved(name) {
			t.Errorf("IsReserved(%q) = false", name)
		}
	}
	for _, name := range []string{"style", "className", "id", "value"} {
		if IsReserved(name) {
			t.Errorf("IsReserved(%q) = true", name)
		}
	}
}

func TestPropsEqual(t *testing.T) {
	fn := func() {}
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal strings", "a", "a", true},
		{"different strings", "a", "b", false},
		{"string and int", "1", 1, false},
		{"equal ints", 3, 3, true},
		{"equal bools", true, true, true},
		{"nils", nil, nil, true},
		{"nil and value", nil, "a", false},
		{"functions", fn, fn, false},
		{"equal styles", Styles{"color": "red"}, Styles{"color": "red"}, true},
		{"different styles", Styles{"color": "red"}, Styles{"color": "blue"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PropsEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("PropsEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
