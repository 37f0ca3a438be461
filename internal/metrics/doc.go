// Package metrics exposes prometheus counters for document reads and
// indexing runs under the nudoq_ namespace.
package metrics
