package storage

import (
	"context"
	"database/sql"
	"errors"
)

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// querier returns the transaction querier
func (t *sqliteTx) querier() querier {
	return t.tx
}

func (t *sqliteTx) UpsertDocument(ctx context.Context, document *Document) error {
	return t.storage.upsertDocumentWithQuerier(ctx, t.querier(), document)
}

func (t *sqliteTx) GetDocument(ctx context.Context, path string) (*Document, error) {
	return t.storage.getDocumentWithQuerier(ctx, t.querier(), path)
}

func (t *sqliteTx) GetDocumentByHash(ctx context.Context, contentHash [32]byte) (*Document, error) {
	return t.storage.getDocumentByHashWithQuerier(ctx, t.querier(), contentHash)
}

func (t *sqliteTx) DeleteDocument(ctx context.Context, documentID int64) error {
	return t.storage.deleteDocumentWithQuerier(ctx, t.querier(), documentID)
}

func (t *sqliteTx) ListDocuments(ctx context.Context) ([]*Document, error) {
	return t.storage.listDocumentsWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) ClearDocument(ctx context.Context, documentID int64) error {
	return t.storage.clearDocumentWithQuerier(ctx, t.querier(), documentID)
}

func (t *sqliteTx) InsertMember(ctx context.Context, member *Member) error {
	return t.storage.insertMemberWithQuerier(ctx, t.querier(), member)
}

func (t *sqliteTx) ListMembers(ctx context.Context, documentID int64) ([]*Member, error) {
	return t.storage.listMembersWithQuerier(ctx, t.querier(), documentID)
}

func (t *sqliteTx) FindMember(ctx context.Context, memberID string) ([]*Member, error) {
	return t.storage.findMemberWithQuerier(ctx, t.querier(), memberID)
}

func (t *sqliteTx) SearchMembers(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	return t.storage.searchMembersWithQuerier(ctx, t.querier(), query, limit)
}

func (t *sqliteTx) InsertDiagnostic(ctx context.Context, diagnostic *Diagnostic) error {
	return t.storage.insertDiagnosticWithQuerier(ctx, t.querier(), diagnostic)
}

func (t *sqliteTx) ListDiagnostics(ctx context.Context, documentID int64) ([]*Diagnostic, error) {
	return t.storage.listDiagnosticsWithQuerier(ctx, t.querier(), documentID)
}

func (t *sqliteTx) GetStatus(ctx context.Context) (*Status, error) {
	return t.storage.getStatusWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	return nil, errors.New("nested transactions not supported")
}
