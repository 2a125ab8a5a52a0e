package vdom

import (
	"html"
	"io"
	"sort"
	"strings"
)

// Render writes node and its descendants as HTML.
func Render(w io.Writer, node *VNode) error {
	var b strings.Builder
	renderNode(&b, node)
	_, err := io.WriteString(w, b.String())
	return err
}

// String renders the document as HTML.
func (d *Document) String() string {
	var b strings.Builder
	renderNode(&b, d.Root)
	return b.String()
}

func renderNode(b *strings.Builder, node *VNode) {
	if node == nil {
		return
	}
	if node.Kind == KindText {
		b.WriteString(html.EscapeString(node.Text))
		return
	}

	b.WriteString("<")
	b.WriteString(node.Tag)
	renderAttrs(b, node.Props)
	b.WriteString(">")

	if IsVoidElement(node.Tag) {
		return
	}
	for _, child := range node.Children {
		renderNode(b, child)
	}
	b.WriteString("</")
	b.WriteString(node.Tag)
	b.WriteString(">")
}

// renderAttrs writes attributes sorted by name for deterministic output.
func renderAttrs(b *strings.Builder, props Props) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		raw := props[k]
		if v, ok := raw.(bool); ok && !v {
			continue
		}
		b.WriteString(" ")
		b.WriteString(k)
		if s, ok := attrString(raw); ok && s != "" {
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(s))
			b.WriteString(`"`)
		}
	}
}
