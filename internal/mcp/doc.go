// Package mcp exposes the documentation index as Model Context Protocol tools
// over stdio.
//
// Tools:
//   - index_docs: read and store every .xml documentation file under a directory
//   - lookup_member: fetch a member's stored documentation by identifier
//   - search_docs: BM25 full-text search over member identifiers and summaries
//   - get_status: index statistics and health
//
// Only one index_docs call runs at a time; concurrent calls fail with
// ErrorCodeIndexingInProgress.
//
// Stdout carries the protocol; log to stderr.
package mcp
