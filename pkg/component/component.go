package component

// Document is the tree capability a Manager operates on.
//
// N is the node handle type; nodes are compared by identity.
type Document[N comparable] interface {
	// QueryAll returns the nodes under scope that carry attr, in document
	// order, excluding scope itself. A zero scope searches the whole document.
	QueryAll(scope N, attr string) []N

	// QueryValue returns the first attached node whose attr equals value.
	QueryValue(attr, value string) (N, bool)

	// Contains reports whether node is attached to the document.
	Contains(node N) bool

	// Attr returns the value of attr on node.
	Attr(node N, attr string) (string, bool)

	// Remove detaches node from the document. Removing a detached node is a no-op.
	Remove(node N)
}

// Describer is optionally implemented by a Document to label nodes in diagnostics.
type Describer[N comparable] interface {
	Describe(node N) string
}

// Component is a live object bound to exactly one node.
//
// Components are compared by identity, so implementations should be
// pointer types.
type Component[N comparable] interface {
	Node() N
}

// Initializer is implemented by components that need setup right after construction.
type Initializer interface {
	Init()
}

// Readier is implemented by components that need to run once every
// component of the same discovery pass has been constructed.
type Readier interface {
	Ready()
}

// Destroyer is implemented by components that need teardown before their
// node is removed.
type Destroyer interface {
	Destroy()
}

// Constructor builds a component for node. The returned component's Node
// must return node.
type Constructor[N comparable] func(node N) Component[N]

// Base stores the node of a component. Embed it to satisfy Component:
//
//	type Tabs struct {
//	    component.Base[*vdom.VNode]
//	}
//
//	func NewTabs(n *vdom.VNode) component.Component[*vdom.VNode] {
//	    return &Tabs{Base: component.NewBase(n)}
//	}
type Base[N comparable] struct {
	node N
}

// NewBase returns a Base bound to node.
func NewBase[N comparable](node N) Base[N] {
	return Base[N]{node: node}
}

// Node returns the bound node.
func (b Base[N]) Node() N {
	return b.node
}
