package htmldoc

import (
	"bytes"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"

	abserrors "github.com/vango-dev/abs/internal/errors"
)

// Document is a parsed HTML tree. It satisfies component.Document[*html.Node].
type Document struct {
	root *html.Node
}

// Parse reads and parses a complete HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, abserrors.New("A021").Wrap(err)
	}
	return &Document{root: root}, nil
}

// ParseString parses s as a complete HTML document.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// FromNode wraps an existing tree.
func FromNode(root *html.Node) *Document {
	return &Document{root: root}
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// QueryAll returns the elements under scope that carry attr, in document
// order. The scope itself is not included. A nil scope searches the whole
// document.
func (d *Document) QueryAll(scope *html.Node, attr string) []*html.Node {
	if scope == nil {
		scope = d.root
	}
	var out []*html.Node
	for c := scope.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(n *html.Node) bool {
			if _, ok := attrOf(n, attr); ok {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}

// QueryValue returns the first element in the document whose attr equals value.
func (d *Document) QueryValue(attr, value string) (*html.Node, bool) {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if v, ok := attrOf(n, attr); ok && v == value {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// Contains reports whether node is attached to the document.
func (d *Document) Contains(node *html.Node) bool {
	for n := node; n != nil; n = n.Parent {
		if n == d.root {
			return true
		}
	}
	return false
}

// Attr returns the value of attr on an element node.
func (d *Document) Attr(node *html.Node, attr string) (string, bool) {
	return attrOf(node, attr)
}

// Remove detaches node from its parent.
func (d *Document) Remove(node *html.Node) {
	if node != nil && node.Parent != nil {
		node.Parent.RemoveChild(node)
	}
}

// Describe implements component.Describer.
func (d *Document) Describe(node *html.Node) string {
	return Describe(node)
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document as HTML.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Describe renders the opening tag of an element with its attributes sorted.
func Describe(node *html.Node) string {
	if node == nil {
		return "<nil>"
	}
	switch node.Type {
	case html.DocumentNode:
		return "#document"
	case html.TextNode:
		return "#text"
	case html.ElementNode:
	default:
		return "#node"
	}

	attrs := append([]html.Attribute(nil), node.Attr...)
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Key < attrs[j].Key })

	var b strings.Builder
	b.WriteString("<")
	b.WriteString(node.Data)
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(a.Key)
		if a.Val != "" {
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(a.Val))
			b.WriteString(`"`)
		}
	}
	b.WriteString(">")
	return b.String()
}

func attrOf(n *html.Node, key string) (string, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// walk visits n and its descendants in document order.
// Returning false from fn skips the node's children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		walk(c, fn)
		c = next
	}
}
