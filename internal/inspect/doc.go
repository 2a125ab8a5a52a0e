// Package inspect binds recording components to an HTML document so the
// CLI and the inspection server can report what a discovery pass found.
package inspect
