package vdom

import (
	"strings"

	"github.com/vango-dev/rmx/pkg/dom"
)

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Prop sets an arbitrary prop.
func Prop(key string, value any) Attr { return attr(key, value) }

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("className", strings.Join(classes, " ")) }

// StyleAttr sets the style attribute from a literal CSS declaration list.
func StyleAttr(style string) Attr { return attr(PropStyle, style) }

// Styled sets the style attribute from a style object.
func Styled(s Styles) Attr { return attr(PropStyle, s) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaHidden sets the aria-hidden attribute.
func AriaHidden(hidden bool) Attr { return attr("aria-hidden", hidden) }

// TabIndex sets the tabIndex property.
func TabIndex(index int) Attr { return attr("tabIndex", index) }

// Hidden sets the hidden attribute.
func Hidden() Attr { return attr("hidden", true) }

// TitleAttr sets the title attribute (named to avoid conflict with Title element).
func TitleAttr(title string) Attr { return attr("title", title) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// For sets the htmlFor property (for labels).
func For(id string) Attr { return attr("htmlFor", id) }

// Width sets the width attribute.
func Width(w int) Attr { return attr("width", w) }

// Height sets the height attribute.
func Height(h int) Attr { return attr("height", h) }

// Popover sets the popover attribute. Popover(true) renders a bare attribute.
func Popover(value any) Attr { return attr("popover", value) }

// Form state

// Value sets the value property.
func Value(value string) Attr { return attr("value", value) }

// TextareaValue returns the text a textarea carries as content: its value,
// or its defaultValue when no value is set.
func TextareaValue(n *Node) (string, bool) {
	if n == nil || n.Kind != KindHost || n.Tag != "textarea" {
		return "", false
	}
	for _, key := range []string{"value", "defaultValue"} {
		if v, ok := n.Props[key]; ok && v != nil && !IsFunc(v) {
			return AttributeValue(key, v)
		}
	}
	return "", false
}

// DefaultValue sets the defaultValue property.
func DefaultValue(value string) Attr { return attr("defaultValue", value) }

// Checked sets the checked property.
func Checked(checked bool) Attr { return attr("checked", checked) }

// DefaultChecked sets the defaultChecked property.
func DefaultChecked(checked bool) Attr { return attr("defaultChecked", checked) }

// Selected sets the selected property.
func Selected(selected bool) Attr { return attr("selected", selected) }

// SelectedIndex sets the selectedIndex property.
func SelectedIndex(index int) Attr { return attr("selectedIndex", index) }

// Disabled sets the disabled attribute.
func Disabled(disabled bool) Attr { return attr("disabled", disabled) }

// SVG attributes

// ViewBox sets the viewBox attribute.
func ViewBox(box string) Attr { return attr("viewBox", box) }

// XlinkHref sets the xlink:href attribute.
func XlinkHref(ref string) Attr { return attr("xlinkHref", ref) }

// Framework props

// On registers an event listener.
func On(event string, fn dom.Listener) Attr {
	return attr(PropOn, Listeners{event: fn})
}

// Connect registers a callback that runs after the element is inserted.
func Connect(fn ConnectFunc) Attr { return attr(PropConnect, fn) }

// WithAnimate configures enter, exit and layout animations.
func WithAnimate(a Animate) Attr { return attr(PropAnimate, &a) }

// InnerHTML sets raw inner HTML. The content is not escaped.
func InnerHTML(html string) Attr { return attr(PropInnerHTML, html) }

// CSS attaches a style object processed by the configured style processor.
func CSS(s Styles) Attr { return attr(PropCSS, s) }

// Conditional attributes

// ClassIf adds a class conditionally.
func ClassIf(condition bool, class string) Attr {
	if condition {
		return Class(class)
	}
	return Attr{} // Empty attr, will be ignored
}

// AttrIf adds any attribute conditionally.
func AttrIf(condition bool, a Attr) Attr {
	if condition {
		return a
	}
	return Attr{}
}
