// Package errors provides structured, actionable error messages for abs.
//
// Every error carries a code (e.g., "A002") that maps to a short message,
// a longer explanation and a documentation URL. Errors with the same code
// compare equal under errors.Is, so callers can match on a template value:
//
//	err := errors.New("A002").
//	    WithSubject(`tag "Carousel"`).
//	    WithSuggestion(`call Register("Carousel", NewCarousel) before InitComponents`)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR A002: Component is not registered
//	//
//	//   tag "Carousel"
//	//
//	//   A node names a component tag for which no constructor was
//	//   registered. The pass stops at this node.
//	//
//	//   Hint: call Register("Carousel", NewCarousel) before InitComponents
//
// # Error Categories
//
//   - discovery: problems found while walking a document for components
//   - config: abs.json / abs.yaml loading and validation
//   - document: loading or parsing markup
//   - cli: command usage
package errors
