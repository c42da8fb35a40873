package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *Node {
	return &Node{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *Node {
	node := &Node{Kind: KindFragment}
	node.Children = appendChildren(node.Children, children)
	return node
}

// C creates a component node. A "key" entry in props becomes the node key.
func C(comp *Component, props Props) *Node {
	if props == nil {
		props = Props{}
	}
	node := &Node{
		Kind:  KindComponent,
		Comp:  comp,
		Props: props,
	}
	if k, ok := props[PropKey]; ok && k != nil {
		node.Key = fmt.Sprintf("%v", k)
	}
	return node
}

// Catch creates an error boundary. If rendering any descendant fails, the
// children are unmounted and fallback(err) is mounted instead.
func Catch(fallback Fallback, children ...any) *Node {
	node := &Node{Kind: KindCatch, Fallback: fallback}
	node.Children = appendChildren(node.Children, children)
	return node
}

// Frame creates an independently hydrated region. children are rendered as
// placeholder content until the frame resolves.
func Frame(name, src string, children ...any) *Node {
	node := &Node{
		Kind:  KindFrame,
		Frame: &FrameSpec{Name: name, Src: src},
	}
	node.Children = appendChildren(node.Children, children)
	return node
}

func appendChildren(dst []*Node, children []any) []*Node {
	for _, child := range children {
		switch v := child.(type) {
		case nil:
			continue
		case *Node:
			if v != nil {
				dst = append(dst, v)
			}
		case []*Node:
			for _, c := range v {
				if c != nil {
					dst = append(dst, c)
				}
			}
		case string:
			dst = append(dst, Text(v))
		}
	}
	return dst
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *Node) *Node {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *Node) *Node {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When(condition bool, fn func() *Node) *Node {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to nodes.
func Range[T any](items []T, fn func(item T, index int) *Node) []*Node {
	result := make([]*Node, 0, len(items))
	for i, item := range items {
		node := fn(item, i)
		if node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Key creates a key attribute for reconciliation.
// The key is converted to a string using fmt.Sprintf.
func Key(key any) Attr {
	return attr(PropKey, fmt.Sprintf("%v", key))
}
