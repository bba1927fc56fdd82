//go:build inlinedemo

package inlinecheck_test

// Only the checker loads the package with this tag; the snippets that use
// demoValue as an int do not compile under it.
func demoValue() string { return "1" }
