// Package vdom provides a small mutable element tree.
//
// A VNode tree can be built in Go with variadic factory functions and then
// used as a document for the component manager:
//
//	root := Body(
//	    Div(Data("abs-component", "Tabs"), ID("main"),
//	        Ul(Li(Text("One")), Li(Text("Two"))),
//	    ),
//	)
//	doc := NewDocument(root)
//	mgr := component.New[*vdom.VNode](doc)
//
// Nodes keep a parent link so Document.Remove can detach them in place.
// Attributes live in Props; a key mapped to nil is present for queries but
// has no value, which mirrors a bare attribute that a caller forgot to fill.
package vdom
