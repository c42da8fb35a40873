package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"

	rerrors "github.com/vango-dev/rmx/internal/errors"
	"github.com/vango-dev/rmx/pkg/vdom"
)

// nodeTag marks a serialized virtual node inside props.
const nodeTag = "node"

// descriptor is the JSON form of a virtual node passed as a prop value.
type descriptor struct {
	Rmx      string         `json:"$rmx"`
	Kind     string         `json:"kind"`
	Tag      string         `json:"tag,omitempty"`
	Key      string         `json:"key,omitempty"`
	Text     string         `json:"text,omitempty"`
	Props    map[string]any `json:"props,omitempty"`
	Children []any          `json:"children,omitempty"`
}

// EncodeProps serializes component props for the data blob. Virtual nodes
// become descriptors; functions are dropped. Components, boundaries and
// frames cannot cross the wire and fail.
func EncodeProps(props vdom.Props) (json.RawMessage, error) {
	v, err := encodeMap(props)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func encodeMap(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if k == vdom.PropKey || vdom.IsFunc(v) {
			continue
		}
		ev, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("prop %q: %w", k, err)
		}
		out[k] = ev
	}
	return out, nil
}

func encodeValue(v any) (any, error) {
	switch val := v.(type) {
	case *vdom.Node:
		return encodeNode(val)
	case []*vdom.Node:
		return encodeList(val)
	case vdom.Props:
		return encodeMap(val)
	case vdom.Styles:
		return map[string]any(val), nil
	case map[string]any:
		return encodeMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			if vdom.IsFunc(item) {
				continue
			}
			ev, err := encodeValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	}
	return v, nil
}

func encodeList(nodes []*vdom.Node) ([]any, error) {
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		d, err := encodeNode(n)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func encodeNode(n *vdom.Node) (any, error) {
	if n == nil {
		return nil, nil
	}
	d := descriptor{Rmx: nodeTag, Key: n.Key}
	switch n.Kind {
	case vdom.KindText:
		d.Kind, d.Text = "text", n.Text
	case vdom.KindHost:
		d.Kind, d.Tag = "host", n.Tag
		props := make(vdom.Props, len(n.Props))
		for k, v := range n.Props {
			if vdom.IsReserved(k) && k != vdom.PropInnerHTML {
				continue
			}
			props[k] = v
		}
		if len(props) > 0 {
			p, err := encodeMap(props)
			if err != nil {
				return nil, err
			}
			d.Props = p
		}
	case vdom.KindFragment:
		d.Kind = "fragment"
	default:
		return nil, fmt.Errorf("%s nodes cannot be serialized", n.TypeName())
	}
	if len(n.Children) > 0 {
		children, err := encodeList(n.Children)
		if err != nil {
			return nil, err
		}
		d.Children = children
	}
	return d, nil
}

// ReviveProps decodes serialized props, turning node descriptors back into
// virtual nodes at any depth.
func ReviveProps(raw json.RawMessage) (vdom.Props, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return vdom.Props{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, rerrors.New(rerrors.CodeDataInvalid).Wrap(err).WithDetail("props must be a JSON object")
	}
	props := make(vdom.Props, len(m))
	for k, v := range m {
		rv, err := revive(v)
		if err != nil {
			return nil, rerrors.New(rerrors.CodeDataInvalid).Wrap(err).WithDetailf("prop %q", k)
		}
		props[k] = rv
	}
	return props, nil
}

func revive(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		if tag, _ := val["$rmx"].(string); tag == nodeTag {
			return reviveNode(val)
		}
		out := make(map[string]any, len(val))
		for k, item := range val {
			rv, err := revive(item)
			if err != nil {
				return nil, err
			}
			out[k] = rv
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		allNodes := len(val) > 0
		for i, item := range val {
			rv, err := revive(item)
			if err != nil {
				return nil, err
			}
			out[i] = rv
			if _, ok := rv.(*vdom.Node); !ok {
				allNodes = false
			}
		}
		if allNodes {
			nodes := make([]*vdom.Node, len(out))
			for i, item := range out {
				nodes[i] = item.(*vdom.Node)
			}
			return nodes, nil
		}
		return out, nil
	}
	return v, nil
}

func reviveNode(m map[string]any) (*vdom.Node, error) {
	kind, _ := m["kind"].(string)
	key, _ := m["key"].(string)

	var children []*vdom.Node
	if list, ok := m["children"].([]any); ok {
		for _, item := range list {
			rv, err := revive(item)
			if err != nil {
				return nil, err
			}
			switch c := rv.(type) {
			case *vdom.Node:
				children = append(children, c)
			case string:
				children = append(children, vdom.Text(c))
			case nil:
			default:
				return nil, fmt.Errorf("child of type %T is not a node", rv)
			}
		}
	}

	var n *vdom.Node
	switch kind {
	case "text":
		text, _ := m["text"].(string)
		n = vdom.Text(text)
	case "host":
		tag, _ := m["tag"].(string)
		if tag == "" {
			return nil, fmt.Errorf("host descriptor without a tag")
		}
		props := vdom.Props{}
		if raw, ok := m["props"].(map[string]any); ok {
			for k, v := range raw {
				rv, err := revive(v)
				if err != nil {
					return nil, err
				}
				if s, ok := rv.(map[string]any); ok && k == vdom.PropStyle {
					rv = vdom.Styles(s)
				}
				props[k] = rv
			}
		}
		n = &vdom.Node{Kind: vdom.KindHost, Tag: tag, Props: props, Children: children}
	case "fragment":
		n = &vdom.Node{Kind: vdom.KindFragment, Children: children}
	default:
		return nil, fmt.Errorf("unknown node descriptor kind %q", kind)
	}
	n.Key = key
	return n, nil
}
