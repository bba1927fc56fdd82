//go:build !inlinedemo

package inlinecheck_test

// demoValue is an int by default and a string under the inlinedemo tag, so
// code using it as an int is only ill-typed when that tag is set.
func demoValue() int { return 1 }
