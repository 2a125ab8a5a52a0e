// Package htmldoc adapts parsed HTML to the component.Document capability.
//
// Markup is parsed with golang.org/x/net/html; the resulting *html.Node
// tree is queried and mutated in place, then rendered back:
//
//	doc, err := htmldoc.ParseString(page)
//	mgr := component.New[*html.Node](doc)
//	mgr.Register("Banner", NewBanner)
//	mgr.InitAll()
//	out := doc.String()
//
// The HTML parser lowercases attribute names, so selectors are matched
// case-insensitively.
package htmldoc
