package vdom

import (
	"sort"
	"strings"
)

// Document is a mutable VNode tree that components can be attached to.
// It satisfies component.Document[*VNode].
type Document struct {
	Root *VNode
}

// NewDocument wraps root in a Document.
func NewDocument(root *VNode) *Document {
	return &Document{Root: root}
}

// QueryAll returns the elements under scope that carry attr, in document
// order. The scope itself is not included. A nil scope searches the whole
// document, root included.
func (d *Document) QueryAll(scope *VNode, attr string) []*VNode {
	var out []*VNode
	if scope == nil {
		scope = d.Root
		if scope.HasAttr(attr) {
			out = append(out, scope)
		}
	}
	if scope == nil {
		return out
	}
	for _, child := range scope.Children {
		Walk(child, func(n *VNode) bool {
			if n.HasAttr(attr) {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}

// QueryValue returns the first attached element whose attr equals value.
func (d *Document) QueryValue(attr, value string) (*VNode, bool) {
	var found *VNode
	Walk(d.Root, func(n *VNode) bool {
		if found != nil {
			return false
		}
		if v, ok := n.GetAttr(attr); ok && v == value {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// Contains reports whether node is attached to the document.
func (d *Document) Contains(node *VNode) bool {
	if node == nil || d.Root == nil {
		return false
	}
	for n := node; n != nil; n = n.parent {
		if n == d.Root {
			return true
		}
	}
	return false
}

// Attr returns the value of attr on node.
func (d *Document) Attr(node *VNode, attr string) (string, bool) {
	return node.GetAttr(attr)
}

// Remove detaches node from the tree.
func (d *Document) Remove(node *VNode) {
	node.Detach()
}

// Describe returns a short label for node, used in diagnostics.
func (d *Document) Describe(node *VNode) string {
	return Describe(node)
}

// Describe renders the opening tag of node with its attributes sorted.
func Describe(node *VNode) string {
	if node == nil {
		return "<nil>"
	}
	if node.Kind == KindText {
		return "#text"
	}
	keys := make([]string, 0, len(node.Props))
	for k := range node.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("<")
	b.WriteString(node.Tag)
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(k)
		if v, ok := attrString(node.Props[k]); ok && v != "" {
			b.WriteString(`="`)
			b.WriteString(v)
			b.WriteString(`"`)
		}
	}
	b.WriteString(">")
	return b.String()
}
