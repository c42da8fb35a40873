package dom

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrReadOnlyProperty is returned when assigning a read-only property.
	ErrReadOnlyProperty = errors.New("dom: property is read-only")

	// ErrUnknownProperty is returned when the element has no such property.
	ErrUnknownProperty = errors.New("dom: unknown property")

	// ErrPropertyType is returned when a value cannot be converted to the
	// property's type.
	ErrPropertyType = errors.New("dom: invalid property value")
)

type propKind uint8

const (
	propString  propKind = iota // Reflects to a string attribute
	propBool                    // Reflects to attribute presence
	propInt                     // Reflects to an integer attribute
	propRuntime                 // State held apart from attributes
	propReadOnly                // Getter only
)

type propDef struct {
	attr string
	kind propKind
}

// globalProps exist on every HTML element.
var globalProps = map[string]propDef{
	"id":              {"id", propString},
	"className":       {"class", propString},
	"title":           {"title", propString},
	"lang":            {"lang", propString},
	"dir":             {"dir", propString},
	"hidden":          {"hidden", propBool},
	"tabIndex":        {"tabindex", propInt},
	"accessKey":       {"accesskey", propString},
	"draggable":       {"draggable", propString},
	"contentEditable": {"contenteditable", propString},
	"role":            {"role", propString},
	"popover":         {"popover", propString},
	"slot":            {"slot", propString},
	"nodeName":        {"", propReadOnly},
	"tagName":         {"", propReadOnly},
}

// tagProps are element-specific properties.
var tagProps = map[string]map[string]propDef{
	"input": {
		"value":          {"", propRuntime},
		"defaultValue":   {"value", propString},
		"checked":        {"", propRuntime},
		"defaultChecked": {"checked", propBool},
		"type":           {"type", propString},
		"name":           {"name", propString},
		"disabled":       {"disabled", propBool},
		"placeholder":    {"placeholder", propString},
		"readOnly":       {"readonly", propBool},
		"required":       {"required", propBool},
		"min":            {"min", propString},
		"max":            {"max", propString},
		"step":           {"step", propString},
		"multiple":       {"multiple", propBool},
		"autofocus":      {"autofocus", propBool},
		"width":          {"width", propInt},
		"height":         {"height", propInt},
		"list":           {"", propReadOnly},
		"form":           {"", propReadOnly},
		"selectionStart": {"", propRuntime},
		"selectionEnd":   {"", propRuntime},
	},
	"textarea": {
		"value":          {"", propRuntime},
		"defaultValue":   {"", propRuntime},
		"name":           {"name", propString},
		"disabled":       {"disabled", propBool},
		"placeholder":    {"placeholder", propString},
		"readOnly":       {"readonly", propBool},
		"required":       {"required", propBool},
		"rows":           {"rows", propInt},
		"cols":           {"cols", propInt},
		"form":           {"", propReadOnly},
		"selectionStart": {"", propRuntime},
		"selectionEnd":   {"", propRuntime},
	},
	"select": {
		"value":         {"", propRuntime},
		"selectedIndex": {"", propRuntime},
		"multiple":      {"multiple", propBool},
		"disabled":      {"disabled", propBool},
		"name":          {"name", propString},
		"required":      {"required", propBool},
		"form":          {"", propReadOnly},
	},
	"option": {
		"value":           {"value", propString},
		"selected":        {"", propRuntime},
		"defaultSelected": {"selected", propBool},
		"disabled":        {"disabled", propBool},
		"label":           {"label", propString},
		"form":            {"", propReadOnly},
	},
	"a": {
		"href":     {"href", propString},
		"target":   {"target", propString},
		"download": {"download", propString},
		"rel":      {"rel", propString},
		"hreflang": {"hreflang", propString},
	},
	"img": {
		"src":    {"src", propString},
		"alt":    {"alt", propString},
		"width":  {"width", propInt},
		"height": {"height", propInt},
	},
	"button": {
		"disabled": {"disabled", propBool},
		"type":     {"type", propString},
		"name":     {"name", propString},
		"value":    {"value", propString},
		"form":     {"", propReadOnly},
	},
	"form": {
		"action":     {"action", propString},
		"method":     {"method", propString},
		"target":     {"target", propString},
		"noValidate": {"novalidate", propBool},
	},
	"label": {
		"htmlFor": {"for", propString},
		"form":    {"", propReadOnly},
	},
	"td": {
		"colSpan": {"colspan", propInt},
		"rowSpan": {"rowspan", propInt},
	},
	"th": {
		"colSpan": {"colspan", propInt},
		"rowSpan": {"rowspan", propInt},
	},
	"video": {
		"src":         {"src", propString},
		"controls":    {"controls", propBool},
		"autoplay":    {"autoplay", propBool},
		"loop":        {"loop", propBool},
		"muted":       {"", propRuntime},
		"currentTime": {"", propRuntime},
		"width":       {"width", propInt},
		"height":      {"height", propInt},
	},
	"audio": {
		"src":         {"src", propString},
		"controls":    {"controls", propBool},
		"autoplay":    {"autoplay", propBool},
		"loop":        {"loop", propBool},
		"muted":       {"", propRuntime},
		"currentTime": {"", propRuntime},
	},
	"canvas": {
		"width":  {"width", propInt},
		"height": {"height", propInt},
	},
	"iframe": {
		"src":    {"src", propString},
		"name":   {"name", propString},
		"width":  {"width", propString},
		"height": {"height", propString},
	},
	"details": {
		"open": {"open", propBool},
	},
	"dialog": {
		"open": {"open", propBool},
	},
}

func (n *Node) lookupProp(name string) (propDef, bool) {
	if n.Type != ElementNode || n.Namespace != NamespaceHTML {
		return propDef{}, false
	}
	if def, ok := tagProps[n.Tag][name]; ok {
		return def, true
	}
	def, ok := globalProps[name]
	return def, ok
}

// HasProperty reports whether the element exposes a property with this name.
// SVG and MathML elements expose none.
func (n *Node) HasProperty(name string) bool {
	_, ok := n.lookupProp(name)
	return ok
}

// Property returns the current value of a property.
func (n *Node) Property(name string) any {
	def, ok := n.lookupProp(name)
	if !ok {
		return nil
	}
	switch def.kind {
	case propString:
		v, _ := n.GetAttribute(def.attr)
		return v
	case propBool:
		return n.HasAttribute(def.attr)
	case propInt:
		v, ok := n.GetAttribute(def.attr)
		if !ok {
			return 0
		}
		i, _ := strconv.Atoi(v)
		return i
	case propReadOnly:
		switch name {
		case "nodeName", "tagName":
			return n.Tag
		}
		return nil
	}

	if v, ok := n.props[name]; ok {
		return v
	}
	return n.runtimeDefault(name)
}

// runtimeDefault derives a runtime property from attributes when it has never
// been assigned.
func (n *Node) runtimeDefault(name string) any {
	switch name {
	case "value":
		switch n.Tag {
		case "textarea":
			return n.TextContent()
		case "select":
			for _, opt := range n.options() {
				if opt.Property("selected") == true {
					return opt.Property("value")
				}
			}
			return ""
		}
		v, _ := n.GetAttribute("value")
		return v
	case "defaultValue":
		return n.TextContent()
	case "checked":
		return n.HasAttribute("checked")
	case "selected":
		return n.HasAttribute("selected")
	case "selectedIndex":
		for i, opt := range n.options() {
			if opt.Property("selected") == true {
				return i
			}
		}
		return -1
	case "muted":
		return false
	case "currentTime":
		return 0.0
	case "selectionStart", "selectionEnd":
		v, _ := n.Property("value").(string)
		return len(v)
	}
	return nil
}

func (n *Node) options() []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.Type == ElementNode && c.Tag == "option" {
			out = append(out, c)
			return false
		}
		return true
	})
	return out
}

// SetProperty assigns a property. Reflected properties write their
// attribute; runtime properties keep their own state.
func (n *Node) SetProperty(name string, value any) error {
	def, ok := n.lookupProp(name)
	if !ok {
		return ErrUnknownProperty
	}
	switch def.kind {
	case propReadOnly:
		return ErrReadOnlyProperty
	case propString:
		s, err := toPropString(value)
		if err != nil {
			return err
		}
		n.setAttr("", def.attr, s)
	case propBool:
		if truthy(value) {
			n.setAttr("", def.attr, "")
		} else {
			n.removeAttr("", def.attr)
		}
	case propInt:
		i, err := toPropInt(value)
		if err != nil {
			return err
		}
		n.setAttr("", def.attr, strconv.Itoa(i))
	case propRuntime:
		v, err := n.convertRuntime(name, value)
		if err != nil {
			return err
		}
		if n.props == nil {
			n.props = make(map[string]any)
		}
		n.props[name] = v
		n.applyRuntime(name, v)
	}
	if n.doc != nil {
		n.doc.stats.PropSets++
	}
	return nil
}

func (n *Node) convertRuntime(name string, value any) (any, error) {
	switch name {
	case "checked", "selected", "muted":
		return truthy(value), nil
	case "selectedIndex", "selectionStart", "selectionEnd":
		return toPropInt(value)
	case "currentTime":
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		}
		return nil, ErrPropertyType
	default:
		return toPropString(value)
	}
}

// applyRuntime keeps select/option state consistent.
func (n *Node) applyRuntime(name string, v any) {
	switch {
	case n.Tag == "select" && name == "selectedIndex":
		idx := v.(int)
		for i, opt := range n.options() {
			if opt.props == nil {
				opt.props = make(map[string]any)
			}
			opt.props["selected"] = i == idx
		}
		delete(n.props, "value")
	case n.Tag == "select" && name == "value":
		s := v.(string)
		for _, opt := range n.options() {
			if opt.props == nil {
				opt.props = make(map[string]any)
			}
			opt.props["selected"] = opt.Property("value") == s
		}
		delete(n.props, "value")
		delete(n.props, "selectedIndex")
	}
}

// SetSelectionRange sets the selection of a text control.
func (n *Node) SetSelectionRange(start, end int) {
	if !n.HasProperty("selectionStart") {
		return
	}
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props["selectionStart"] = start
	n.props["selectionEnd"] = end
}

// SelectionRange returns the selection of a text control.
func (n *Node) SelectionRange() (start, end int, ok bool) {
	if !n.HasProperty("selectionStart") {
		return 0, 0, false
	}
	s, _ := n.Property("selectionStart").(int)
	e, _ := n.Property("selectionEnd").(int)
	return s, e, true
}

func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != ""
	case int:
		return b != 0
	case float64:
		return b != 0 && !math.IsNaN(b)
	default:
		return true
	}
}

func toPropString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case nil:
		return "", nil
	case bool:
		return strconv.FormatBool(s), nil
	case int:
		return strconv.Itoa(s), nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	case fmt.Stringer:
		return s.String(), nil
	}
	return "", ErrPropertyType
}

func toPropInt(v any) (int, error) {
	switch i := v.(type) {
	case int:
		return i, nil
	case int64:
		return int(i), nil
	case float64:
		if math.IsNaN(i) || math.IsInf(i, 0) {
			return 0, ErrPropertyType
		}
		return int(i), nil
	case string:
		n, err := strconv.Atoi(i)
		if err != nil {
			return 0, ErrPropertyType
		}
		return n, nil
	}
	return 0, ErrPropertyType
}
