package vdom

import "fmt"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement VKind = iota // <div>, <button>, etc.
	KindText                 // Plain text node
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// VNode is a node of an in-memory document tree.
//
// Unlike a render-only tree, a VNode knows its parent so it can be
// detached in place.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes
	Children []*VNode // Child nodes
	Text     string   // For KindText

	parent *VNode
}

// Props holds attributes.
//
// A key mapped to nil is present for attribute queries but carries no value.
type Props map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Parent returns the node's parent, or nil for a root or detached node.
func (v *VNode) Parent() *VNode {
	if v == nil {
		return nil
	}
	return v.parent
}

// HasAttr reports whether the attribute key is present, with or without a value.
func (v *VNode) HasAttr(key string) bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	_, ok := v.Props[key]
	return ok
}

// GetAttr returns the string value of an attribute.
// Boolean true yields "", boolean false and nil values are reported as absent.
func (v *VNode) GetAttr(key string) (string, bool) {
	if v == nil || v.Kind != KindElement {
		return "", false
	}
	raw, ok := v.Props[key]
	if !ok {
		return "", false
	}
	return attrString(raw)
}

// SetAttr sets an attribute on an element.
func (v *VNode) SetAttr(key string, value any) {
	if v == nil || v.Kind != KindElement {
		return
	}
	if v.Props == nil {
		v.Props = make(Props)
	}
	v.Props[key] = value
}

// RemoveAttr deletes an attribute from an element.
func (v *VNode) RemoveAttr(key string) {
	if v == nil {
		return
	}
	delete(v.Props, key)
}

// AppendChild attaches child as the last child of v,
// detaching it from any previous parent first.
func (v *VNode) AppendChild(child *VNode) {
	if v == nil || child == nil {
		return
	}
	child.Detach()
	child.parent = v
	v.Children = append(v.Children, child)
}

// Detach removes v from its parent's children. Detaching a root or an
// already detached node is a no-op.
func (v *VNode) Detach() {
	if v == nil || v.parent == nil {
		return
	}
	p := v.parent
	for i, c := range p.Children {
		if c == v {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	v.parent = nil
}

func attrString(raw any) (string, bool) {
	switch val := raw.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case bool:
		return "", val
	default:
		return fmt.Sprint(val), true
	}
}
