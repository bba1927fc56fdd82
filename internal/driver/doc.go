// Package driver runs block checks: it owns the program cache, filters
// diagnostics down to a block and fans batches of checks out to workers.
package driver
