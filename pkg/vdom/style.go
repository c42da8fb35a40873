package vdom

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Styles is a style object: camelCase CSS property names to values.
type Styles map[string]any

// unitlessProperties never receive a "px" suffix.
var unitlessProperties = map[string]bool{
	"animationIterationCount": true,
	"aspectRatio":             true,
	"borderImageOutset":       true,
	"borderImageSlice":        true,
	"borderImageWidth":        true,
	"boxFlex":                 true,
	"boxFlexGroup":            true,
	"columnCount":             true,
	"columns":                 true,
	"flex":                    true,
	"flexGrow":                true,
	"flexShrink":              true,
	"fontWeight":              true,
	"gridArea":                true,
	"gridColumn":              true,
	"gridColumnEnd":           true,
	"gridColumnStart":         true,
	"gridRow":                 true,
	"gridRowEnd":              true,
	"gridRowStart":            true,
	"lineClamp":               true,
	"lineHeight":              true,
	"opacity":                 true,
	"order":                   true,
	"orphans":                 true,
	"scale":                   true,
	"tabSize":                 true,
	"widows":                  true,
	"zIndex":                  true,
	"zoom":                    true,
	"fillOpacity":             true,
	"floodOpacity":            true,
	"stopOpacity":             true,
	"strokeDasharray":         true,
	"strokeDashoffset":        true,
	"strokeMiterlimit":        true,
	"strokeOpacity":           true,
	"strokeWidth":             true,
}

// CSSPropertyName converts a camelCase style key to a CSS property name.
// Custom properties (--x) pass through; vendor prefixes gain a leading dash
// (WebkitTransform → -webkit-transform, msTransition → -ms-transition).
func CSSPropertyName(key string) string {
	if strings.HasPrefix(key, "--") {
		return key
	}
	if strings.HasPrefix(key, "ms") && len(key) > 2 && key[2] >= 'A' && key[2] <= 'Z' {
		return "-" + kebab(key)
	}
	name := kebab(key)
	if key != "" && key[0] >= 'A' && key[0] <= 'Z' {
		return "-" + name
	}
	return name
}

// StyleValue formats a style value. Numbers of any width gain a px unit
// unless they are zero or the property is unit-less. ok is false for values
// that are dropped: nil, booleans and non-finite numbers.
func StyleValue(key string, v any) (value string, ok bool) {
	var s string
	var zero bool
	switch val := v.(type) {
	case string:
		return val, true
	case int:
		s, zero = strconv.Itoa(val), val == 0
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return "", false
		}
		s, zero = strconv.FormatFloat(val, 'f', -1, 64), val == 0
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n := rv.Int()
			s, zero = strconv.FormatInt(n, 10), n == 0
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			n := rv.Uint()
			s, zero = strconv.FormatUint(n, 10), n == 0
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return "", false
			}
			s, zero = strconv.FormatFloat(f, 'f', -1, rv.Type().Bits()), f == 0
		default:
			return "", false
		}
	}
	if zero || unitlessProperties[key] || strings.HasPrefix(key, "--") {
		return s, true
	}
	return s + "px", true
}

// SerializeStyle renders a style object as a declaration list with keys in
// sorted order.
func SerializeStyle(s Styles) string {
	if len(s) == 0 {
		return ""
	}
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v, ok := StyleValue(k, s[k])
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(CSSPropertyName(k))
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteByte(';')
	}
	return b.String()
}
