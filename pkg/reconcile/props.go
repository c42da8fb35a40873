package reconcile

import (
	"sort"

	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/vdom"
)

// attributeOnly names are written as attributes even when the element has a
// matching property, because property assignment is inconsistent for them.
var attributeOnly = map[string]bool{
	"width":    true,
	"height":   true,
	"href":     true,
	"list":     true,
	"form":     true,
	"tabIndex": true,
	"download": true,
	"rowSpan":  true,
	"colSpan":  true,
	"role":     true,
	"popover":  true,
}

// runtimeReset is the value that clears a property's state beyond its
// attribute when the prop is removed.
var runtimeReset = map[string]any{
	"value":           "",
	"defaultValue":    "",
	"checked":         false,
	"defaultChecked":  false,
	"selected":        false,
	"defaultSelected": false,
	"selectedIndex":   -1,
}

// diffHostProps applies the difference between prev and next to el. When
// hydrating, values the element already has are left untouched.
func (r *Root) diffHostProps(el *dom.Node, prev, next vdom.Props, svg, hydrating bool) {
	for _, name := range sortedKeys(prev) {
		if vdom.IsReserved(name) {
			continue
		}
		if _, ok := next[name]; !ok {
			removeProp(el, name, svg)
		}
	}
	for _, name := range sortedKeys(next) {
		if vdom.IsReserved(name) {
			continue
		}
		v := next[name]
		if old, ok := prev[name]; ok && vdom.PropsEqual(old, v) {
			continue
		}
		setProp(el, name, v, svg, hydrating)
	}
}

func setProp(el *dom.Node, name string, v any, svg, hydrating bool) {
	if name != vdom.PropStyle && !svg && !attributeOnly[name] && el.HasProperty(name) && !vdom.IsFunc(v) && v != nil {
		if hydrating && vdom.PropsEqual(el.Property(name), v) {
			return
		}
		if err := el.SetProperty(name, v); err == nil {
			return
		}
	}

	ns, attr := vdom.AttributeName(name, svg)
	value, ok := vdom.AttributeValue(attr, v)
	if !ok {
		if _, present := el.GetAttributeNS(ns, attr); present {
			el.RemoveAttributeNS(ns, attr)
		}
		return
	}
	if hydrating {
		if cur, present := el.GetAttributeNS(ns, attr); present && cur == value {
			return
		}
	}
	el.SetAttributeNS(ns, attr, value)
}

func removeProp(el *dom.Node, name string, svg bool) {
	if !svg {
		if reset, ok := runtimeReset[name]; ok && el.HasProperty(name) {
			_ = el.SetProperty(name, reset)
		}
	}
	ns, attr := vdom.AttributeName(name, svg)
	el.RemoveAttributeNS(ns, attr)
}

func sortedKeys(p vdom.Props) []string {
	if len(p) == 0 {
		return nil
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
