package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// Document operations

const documentColumns = `id, run_id, path, COALESCE(assembly, ''), content_hash, size_bytes, mod_time,
		       member_count, diagnostic_count, indexed_at, created_at, updated_at`

func scanDocument(row scanner) (*Document, error) {
	var document Document
	var hash []byte
	var modTime sql.NullTime
	err := row.Scan(
		&document.ID, &document.RunID, &document.Path, &document.Assembly,
		&hash, &document.SizeBytes, &modTime,
		&document.MemberCount, &document.DiagnosticCount,
		&document.IndexedAt, &document.CreatedAt, &document.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	copy(document.ContentHash[:], hash)
	if modTime.Valid {
		document.ModTime = modTime.Time
	}
	return &document, nil
}

// upsertDocumentWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) upsertDocumentWithQuerier(ctx context.Context, q querier, document *Document) error {
	query := `
		INSERT INTO documents (run_id, path, assembly, content_hash, size_bytes, mod_time,
		                       member_count, diagnostic_count, indexed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			run_id = excluded.run_id,
			assembly = excluded.assembly,
			content_hash = excluded.content_hash,
			size_bytes = excluded.size_bytes,
			mod_time = excluded.mod_time,
			member_count = excluded.member_count,
			diagnostic_count = excluded.diagnostic_count,
			indexed_at = excluded.indexed_at,
			updated_at = excluded.updated_at
		RETURNING id
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		document.RunID, document.Path, document.Assembly, document.ContentHash[:],
		document.SizeBytes, document.ModTime, document.MemberCount, document.DiagnosticCount,
		now, now, now).Scan(&document.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	document.IndexedAt = now
	document.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpsertDocument(ctx context.Context, document *Document) error {
	return s.upsertDocumentWithQuerier(ctx, s.querier(), document)
}

// getDocumentWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getDocumentWithQuerier(ctx context.Context, q querier, path string) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE path = ?`
	document, err := scanDocument(q.QueryRowContext(ctx, query, path))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return document, err
}

func (s *SQLiteStorage) GetDocument(ctx context.Context, path string) (*Document, error) {
	return s.getDocumentWithQuerier(ctx, s.querier(), path)
}

// getDocumentByHashWithQuerier returns the most recently indexed document with the hash
func (s *SQLiteStorage) getDocumentByHashWithQuerier(ctx context.Context, q querier, contentHash [32]byte) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE content_hash = ? ORDER BY id DESC LIMIT 1`
	document, err := scanDocument(q.QueryRowContext(ctx, query, contentHash[:]))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return document, err
}

func (s *SQLiteStorage) GetDocumentByHash(ctx context.Context, contentHash [32]byte) (*Document, error) {
	return s.getDocumentByHashWithQuerier(ctx, s.querier(), contentHash)
}

// deleteDocumentWithQuerier removes a document; members and diagnostics cascade
func (s *SQLiteStorage) deleteDocumentWithQuerier(ctx context.Context, q querier, documentID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, documentID)
	return err
}

func (s *SQLiteStorage) DeleteDocument(ctx context.Context, documentID int64) error {
	return s.deleteDocumentWithQuerier(ctx, s.querier(), documentID)
}

// listDocumentsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listDocumentsWithQuerier(ctx context.Context, q querier) ([]*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY path`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	documents := make([]*Document, 0)
	for rows.Next() {
		document, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}
	return documents, rows.Err()
}

func (s *SQLiteStorage) ListDocuments(ctx context.Context) ([]*Document, error) {
	return s.listDocumentsWithQuerier(ctx, s.querier())
}

// clearDocumentWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) clearDocumentWithQuerier(ctx context.Context, q querier, documentID int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM members WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("failed to clear members: %w", err)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM diagnostics WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("failed to clear diagnostics: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) ClearDocument(ctx context.Context, documentID int64) error {
	return s.clearDocumentWithQuerier(ctx, s.querier(), documentID)
}

// Member operations

const memberColumns = `m.id, m.document_id, m.position, m.member_id, m.kind,
		       COALESCE(m.namespace, ''), COALESCE(m.summary, ''),
		       COALESCE(m.declaring_type_id, ''), COALESCE(m.extended_type_id, ''),
		       m.resolved, COALESCE(m.body, ''), m.created_at`

func scanMember(row scanner, extra ...interface{}) (*Member, error) {
	var member Member
	dest := []interface{}{
		&member.ID, &member.DocumentID, &member.Position, &member.MemberID, &member.Kind,
		&member.Namespace, &member.Summary, &member.DeclaringTypeID, &member.ExtendedTypeID,
		&member.Resolved, &member.Body, &member.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &member, nil
}

// insertMemberWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) insertMemberWithQuerier(ctx context.Context, q querier, member *Member) error {
	query := `
		INSERT INTO members (document_id, position, member_id, kind, namespace, summary,
		                     declaring_type_id, extended_type_id, resolved, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		member.DocumentID, member.Position, member.MemberID, member.Kind, member.Namespace,
		member.Summary, member.DeclaringTypeID, member.ExtendedTypeID, member.Resolved,
		member.Body, now)
	if err != nil {
		return fmt.Errorf("failed to insert member %s: %w", member.MemberID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	member.ID = id
	member.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) InsertMember(ctx context.Context, member *Member) error {
	return s.insertMemberWithQuerier(ctx, s.querier(), member)
}

func queryMembers(ctx context.Context, q querier, query string, args ...interface{}) ([]*Member, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	members := make([]*Member, 0)
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// listMembersWithQuerier returns a document's members in document order
func (s *SQLiteStorage) listMembersWithQuerier(ctx context.Context, q querier, documentID int64) ([]*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members m WHERE m.document_id = ? ORDER BY m.position`
	return queryMembers(ctx, q, query, documentID)
}

func (s *SQLiteStorage) ListMembers(ctx context.Context, documentID int64) ([]*Member, error) {
	return s.listMembersWithQuerier(ctx, s.querier(), documentID)
}

// findMemberWithQuerier returns every stored member with the identifier, across documents
func (s *SQLiteStorage) findMemberWithQuerier(ctx context.Context, q querier, memberID string) ([]*Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members m
		JOIN documents d ON m.document_id = d.id
		WHERE m.member_id = ?
		ORDER BY d.path, m.position
	`
	return queryMembers(ctx, q, query, memberID)
}

func (s *SQLiteStorage) FindMember(ctx context.Context, memberID string) ([]*Member, error) {
	return s.findMemberWithQuerier(ctx, s.querier(), memberID)
}

// ftsQuery quotes each term so identifier punctuation is not read as FTS5 syntax
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	for i, term := range terms {
		terms[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

// searchMembersWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) searchMembersWithQuerier(ctx context.Context, q querier, query string, limit int) ([]SearchResult, error) {
	match := ftsQuery(query)
	if match == "" {
		return []SearchResult{}, nil
	}

	// bm25 scores are negative; lower is a better match
	sqlQuery := `
		SELECT ` + memberColumns + `, d.path, bm25(members_fts) AS score
		FROM members_fts
		JOIN members m ON m.id = members_fts.rowid
		JOIN documents d ON m.document_id = d.id
		WHERE members_fts MATCH ?
		ORDER BY score, m.id
		LIMIT ?
	`
	rows, err := q.QueryContext(ctx, sqlQuery, match, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]SearchResult, 0)
	for rows.Next() {
		var result SearchResult
		member, err := scanMember(rows, &result.DocumentPath, &result.Score)
		if err != nil {
			return nil, err
		}
		result.Member = member
		results = append(results, result)
	}
	return results, rows.Err()
}

func (s *SQLiteStorage) SearchMembers(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	return s.searchMembersWithQuerier(ctx, s.querier(), query, limit)
}

// Diagnostic operations

// insertDiagnosticWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) insertDiagnosticWithQuerier(ctx context.Context, q querier, diagnostic *Diagnostic) error {
	query := `
		INSERT INTO diagnostics (document_id, code, severity, member_id, message, line, col, byte_offset, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		diagnostic.DocumentID, diagnostic.Code, diagnostic.Severity, diagnostic.MemberID,
		diagnostic.Message, diagnostic.Line, diagnostic.Column, diagnostic.Offset, now)
	if err != nil {
		return fmt.Errorf("failed to insert diagnostic: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	diagnostic.ID = id
	diagnostic.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) InsertDiagnostic(ctx context.Context, diagnostic *Diagnostic) error {
	return s.insertDiagnosticWithQuerier(ctx, s.querier(), diagnostic)
}

// listDiagnosticsWithQuerier returns a document's diagnostics in insertion order
func (s *SQLiteStorage) listDiagnosticsWithQuerier(ctx context.Context, q querier, documentID int64) ([]*Diagnostic, error) {
	query := `
		SELECT id, document_id, code, severity, COALESCE(member_id, ''), COALESCE(message, ''),
		       line, col, byte_offset, created_at
		FROM diagnostics
		WHERE document_id = ?
		ORDER BY id
	`
	rows, err := q.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	diagnostics := make([]*Diagnostic, 0)
	for rows.Next() {
		var d Diagnostic
		err := rows.Scan(&d.ID, &d.DocumentID, &d.Code, &d.Severity, &d.MemberID, &d.Message,
			&d.Line, &d.Column, &d.Offset, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		diagnostics = append(diagnostics, &d)
	}
	return diagnostics, rows.Err()
}

func (s *SQLiteStorage) ListDiagnostics(ctx context.Context, documentID int64) ([]*Diagnostic, error) {
	return s.listDiagnosticsWithQuerier(ctx, s.querier(), documentID)
}

// Status operations

// getStatusWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getStatusWithQuerier(ctx context.Context, q querier) (*Status, error) {
	version, err := SchemaVersion(ctx, q)
	if err != nil {
		return nil, err
	}

	status := &Status{
		SchemaVersion: version.String(),
		BuildMode:     BuildMode,
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM documents", &status.DocumentsCount},
		{"SELECT COUNT(*) FROM members", &status.MembersCount},
		{"SELECT COUNT(*) FROM members WHERE resolved = 1", &status.ResolvedCount},
		{"SELECT COUNT(*) FROM diagnostics", &status.DiagnosticsCount},
	}
	for _, c := range counts {
		if err := q.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, err
		}
	}
	status.Health.DatabaseAccessible = true

	var lastIndexed sql.NullTime
	err = q.QueryRowContext(ctx, "SELECT indexed_at FROM documents ORDER BY indexed_at DESC LIMIT 1").Scan(&lastIndexed)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if lastIndexed.Valid {
		status.LastIndexedAt = lastIndexed.Time
	}

	// Calculate database size
	var pageCount, pageSize int
	if err := q.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		if err := q.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err == nil {
			status.IndexSizeMB = float64(pageCount*pageSize) / (1024 * 1024)
		}
	}

	var ftsCount int
	err = q.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='members_fts'").Scan(&ftsCount)
	if err == nil {
		status.Health.FTSIndexesBuilt = ftsCount > 0
	}

	return status, nil
}

func (s *SQLiteStorage) GetStatus(ctx context.Context) (*Status, error) {
	return s.getStatusWithQuerier(ctx, s.querier())
}
