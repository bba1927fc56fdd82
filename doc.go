// Package inlinecheck type-checks a closure written inline in a test, as if
// it were a standalone piece of source, and reports its type errors.
//
// It is meant for type-level tests: asserting that a construct is, or is not,
// well-typed under some build configuration without a fixture file per case.
//
//	func TestLegacyValue(t *testing.T) {
//		inlinecheck.AssertFails(t, func() {
//			var n int = legacyValue()
//			_ = n
//		}, inlinecheck.WithTags("legacy"))
//	}
//
// The call site is found from the goroutine's traceback, the parenthesised
// argument list of the call is extracted from the test file, and the package
// containing it is type-checked with go/types under the requested options.
// Only diagnostics that fall inside the argument list are reported.
//
// Because a test file must already compile under the ambient toolchain,
// ill-typed snippets are observed under different options: build tags,
// GOOS/GOARCH or cgo. Ambient options come from the nearest inlinecheck.toml
// above the test file.
//
// Lines preceded by a "// @typecheck-ignore" comment are still reported: the
// directive is rewritten to an inert "// #typecheck-ignore" before checking.
package inlinecheck
