// Package component attaches Go components to nodes of a document tree.
//
// Nodes opt in by carrying a component attribute (by default
// "data-abs-component") whose value names a registered tag. A Manager
// discovers such nodes, constructs one component per node and drives the
// lifecycle:
//
//	mgr := component.New[*vdom.VNode](doc)
//	mgr.Register("Tabs", NewTabs)
//	mgr.InitAll()
//
// # Lifecycle
//
// A discovery pass constructs every component it finds and calls Init on
// each as it goes. Only after the whole pass has constructed its
// components is Ready called, in document order, so Ready may look up
// sibling components found by the same pass.
//
// DestroyComponent tears a component down bottom-up: live components found
// under its node are destroyed first, then its own Destroy hook runs, then
// its node is removed from the document.
//
// # Documents
//
// The manager never touches a concrete tree. It talks to a Document, a
// small capability for attribute queries and node removal. pkg/vdom and
// pkg/htmldoc provide implementations.
//
// # Errors
//
// A node whose component attribute has no value, or names an unregistered
// tag, stops the pass. An empty value is an ordinary tag. The failure is
// logged through the configured slog.Logger and returned on the pass
// Report; nothing panics. WithContinueOnError switches to skipping bad
// nodes instead.
//
// A Manager is not safe for concurrent use.
package component
