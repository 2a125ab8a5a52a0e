// Package source loads markup documents for inspection.
//
// A reference is one of:
//
//	pages/index.html            local file
//	https://example.com/        fetched over HTTP(S)
//	s3://bucket/path/page.html  read from S3
//
// Expand turns a mix of references and doublestar patterns
// ("site/**/*.html") into a sorted list of concrete references.
package source
