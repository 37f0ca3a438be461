// Package storage provides SQLite-based persistence for parsed documentation.
//
// The storage layer manages:
//   - Documentation files and their content hashes
//   - Documented members with their serialized markup
//   - Read diagnostics
//   - A full-text index over member identifiers and summaries
//
// # Database Schema
//
// Tables:
//   - documents: File paths, assembly names and SHA-256 hashes
//   - members: One row per documented member, in document order
//   - members_fts: FTS5 index over member_id and summary
//   - diagnostics: Diagnostics reported while reading a document
//
// # Transactions
//
// Use transactions for atomic replacement of a document:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	if err := tx.UpsertDocument(ctx, document); err != nil {
//	    return err
//	}
//	if err := tx.ClearDocument(ctx, document.ID); err != nil {
//	    return err
//	}
//	for _, m := range members {
//	    if err := tx.InsertMember(ctx, m); err != nil {
//	        return err
//	    }
//	}
//	return tx.Commit()
//
// # Build Tags
//
// The default build uses modernc.org/sqlite and needs no C compiler.
// Building with the sqlite_cgo tag switches to github.com/mattn/go-sqlite3:
//
//	CGO_ENABLED=1 go build -tags "sqlite_cgo,sqlite_fts5" ./...
package storage
