package vdom

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/vango-dev/rmx/pkg/dom"
)

// Framework-reserved prop names. They are never written as DOM attributes.
const (
	PropChildren  = "children"
	PropKey       = "key"
	PropOn        = "on"
	PropCSS       = "css"
	PropSetup     = "setup"
	PropConnect   = "connect"
	PropAnimate   = "animate"
	PropInnerHTML = "innerHTML"
	PropStyle     = "style"
)

var reservedProps = map[string]bool{
	PropChildren:  true,
	PropKey:       true,
	PropOn:        true,
	PropCSS:       true,
	PropSetup:     true,
	PropConnect:   true,
	PropAnimate:   true,
	PropInnerHTML: true,
}

// IsReserved reports whether name is a framework prop.
func IsReserved(name string) bool {
	return reservedProps[name]
}

// htmlAttrNames maps property-style names to HTML attribute names.
var htmlAttrNames = map[string]string{
	"className":       "class",
	"htmlFor":         "for",
	"httpEquiv":       "http-equiv",
	"acceptCharset":   "accept-charset",
	"tabIndex":        "tabindex",
	"readOnly":        "readonly",
	"maxLength":       "maxlength",
	"minLength":       "minlength",
	"colSpan":         "colspan",
	"rowSpan":         "rowspan",
	"contentEditable": "contenteditable",
	"crossOrigin":     "crossorigin",
	"accessKey":       "accesskey",
	"autoComplete":    "autocomplete",
	"autoFocus":       "autofocus",
	"defaultValue":    "value",
	"defaultChecked":  "checked",
	"defaultSelected": "selected",
	"noValidate":      "novalidate",
	"spellCheck":      "spellcheck",
	"srcSet":          "srcset",
	"encType":         "enctype",
}

// svgCamelAttrs keep their case in SVG.
var svgCamelAttrs = map[string]bool{
	"viewBox":             true,
	"preserveAspectRatio": true,
	"gradientUnits":       true,
	"gradientTransform":   true,
	"patternUnits":        true,
	"patternContentUnits": true,
	"patternTransform":    true,
	"clipPathUnits":       true,
	"maskUnits":           true,
	"maskContentUnits":    true,
	"markerUnits":         true,
	"markerWidth":         true,
	"markerHeight":        true,
	"refX":                true,
	"refY":                true,
	"pathLength":          true,
	"textLength":          true,
	"lengthAdjust":        true,
	"spreadMethod":        true,
	"startOffset":         true,
	"stdDeviation":        true,
	"baseFrequency":       true,
	"numOctaves":          true,
	"kernelMatrix":        true,
	"kernelUnitLength":    true,
	"tableValues":         true,
	"filterUnits":         true,
	"primitiveUnits":      true,
	"diffuseConstant":     true,
	"specularConstant":    true,
	"specularExponent":    true,
	"surfaceScale":        true,
	"edgeMode":            true,
	"limitingConeAngle":   true,
	"pointsAtX":           true,
	"pointsAtY":           true,
	"pointsAtZ":           true,
	"keySplines":          true,
	"keyTimes":            true,
	"calcMode":            true,
	"attributeName":       true,
	"repeatCount":         true,
	"repeatDur":           true,
	"xChannelSelector":    true,
	"yChannelSelector":    true,
	"zoomAndPan":          true,
}

// svgNamespacedAttrs live in the XLink or XML namespace.
var svgNamespacedAttrs = map[string][2]string{
	"xlinkHref": {dom.NamespaceXLink, "href"},
	"xmlLang":   {dom.NamespaceXML, "lang"},
	"xmlSpace":  {dom.NamespaceXML, "space"},
}

// AttributeName normalizes a prop name to an attribute namespace and name.
//
// HTML names are lower-cased after mapping property-style names
// (className → class). SVG names keep a fixed set of camelCase attributes
// and are otherwise kebab-cased; xlinkHref, xmlLang and xmlSpace resolve to
// their XLink/XML namespaces.
func AttributeName(prop string, svg bool) (ns, name string) {
	if strings.HasPrefix(prop, "aria-") || strings.HasPrefix(prop, "data-") {
		return "", prop
	}
	if svg {
		if nsAttr, ok := svgNamespacedAttrs[prop]; ok {
			return nsAttr[0], nsAttr[1]
		}
		if prop == "className" {
			return "", "class"
		}
		if svgCamelAttrs[prop] {
			return "", prop
		}
		return "", kebab(prop)
	}
	if mapped, ok := htmlAttrNames[prop]; ok {
		return "", mapped
	}
	return "", strings.ToLower(prop)
}

// kebab converts camelCase to kebab-case.
func kebab(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteByte(c + ('a' - 'A'))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// AttributeValue converts a prop value to an attribute value. ok is false
// when the attribute should be absent: nil, false (outside aria-/data-),
// non-finite numbers, and functions.
func AttributeValue(name string, v any) (value string, ok bool) {
	ariaOrData := strings.HasPrefix(name, "aria-") || strings.HasPrefix(name, "data-")
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case bool:
		if ariaOrData {
			return strconv.FormatBool(val), true
		}
		if val {
			return "", true
		}
		return "", false
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return "", false
		}
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case Styles:
		s := SerializeStyle(val)
		return s, s != ""
	case fmt.Stringer:
		return val.String(), true
	}
	if IsFunc(v) {
		return "", false
	}
	return fmt.Sprintf("%v", v), true
}

// IsFunc reports whether v is a function value.
func IsFunc(v any) bool {
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.Func
}

// PropsEqual compares two prop values for equality.
func PropsEqual(a, b any) bool {
	// Fast path for common types
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	if IsFunc(a) || IsFunc(b) {
		// Functions are not comparable; treat distinct values as changed.
		return false
	}
	return reflect.DeepEqual(a, b)
}
