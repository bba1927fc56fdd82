// Package diag defines the diagnostic model shared by the checker, the
// collector and the output formatters.
//
// # Data model
//
// Diagnostic is a single finding reported by the type-checker service:
//
//   - Category – Error, Warning, Suggestion or Message (category.go).
//   - Code – compact numeric identifier (codes.go) with a stable string form.
//   - File / Start / Length – the byte range the finding points at.
//   - Line / Column – the same start position, resolved for humans.
//   - Message – compiler text, unchanged.
//
// Diagnostics are values. The collector filters them and never rewrites
// them; formatters in internal/diagfmt render them.
//
// Bag is an ordered container with a soft limit. Items keep the order in
// which the compiler reported them; Sort exists for CLI output only.
package diag
