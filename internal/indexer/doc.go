// Package indexer walks a directory of documentation files and stores every
// document it reads.
//
// # Basic Usage
//
//	rd := reader.New(index, reader.WithLogger(logger))
//	idx := indexer.New(store, rd, indexer.WithLogger(logger))
//
//	stats, err := idx.IndexDirectory(ctx, "/path/to/docs", &indexer.Config{
//	    Workers:   4,
//	    BatchSize: 20,
//	})
//
//	fmt.Printf("Indexed %d files in %v\n", stats.FilesIndexed, stats.Duration)
//
// # Pipeline
//
//  1. Discovery: every *.xml file under the root, skipping hidden directories
//  2. Incremental decision: files whose SHA-256 matches the stored document are skipped
//  3. Read: changed files are read and resolved concurrently by a bounded worker pool
//  4. Store: documents are written in batches, one transaction per batch
//  5. Prune (optional): stored documents under the root whose files are gone are deleted
//
// Storing a document replaces its members and diagnostics, so a re-indexed
// file never leaves stale rows behind.
//
// A file that cannot be read, or whose envelope is malformed, is counted in
// Statistics.FilesFailed and reported in Statistics.ErrorMessages. It does
// not stop the run. Storage errors and cancellation do.
//
// Each run gets a UUID recorded on every document it writes.
package indexer
