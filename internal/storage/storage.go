package storage

import (
	"context"
	"time"

	"github.com/devlooped/nudoq/pkg/doc"
	"github.com/devlooped/nudoq/pkg/types"
)

// Storage defines the interface for persisting and querying parsed documentation
type Storage interface {
	// Document operations
	UpsertDocument(ctx context.Context, document *Document) error
	GetDocument(ctx context.Context, path string) (*Document, error)
	GetDocumentByHash(ctx context.Context, contentHash [32]byte) (*Document, error)
	DeleteDocument(ctx context.Context, documentID int64) error
	ListDocuments(ctx context.Context) ([]*Document, error)
	// ClearDocument removes the members and diagnostics of a document
	ClearDocument(ctx context.Context, documentID int64) error

	// Member operations
	InsertMember(ctx context.Context, member *Member) error
	ListMembers(ctx context.Context, documentID int64) ([]*Member, error)
	FindMember(ctx context.Context, memberID string) ([]*Member, error)
	SearchMembers(ctx context.Context, query string, limit int) ([]SearchResult, error)

	// Diagnostic operations
	InsertDiagnostic(ctx context.Context, diagnostic *Diagnostic) error
	ListDiagnostics(ctx context.Context, documentID int64) ([]*Diagnostic, error)

	// Status operations
	GetStatus(ctx context.Context) (*Status, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage
}

// Document is one stored documentation file
type Document struct {
	ID              int64
	RunID           string // ingest run that last wrote the row
	Path            string
	Assembly        string
	ContentHash     [32]byte
	SizeBytes       int64
	ModTime         time.Time
	MemberCount     int
	DiagnosticCount int
	IndexedAt       time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Member is one documented symbol of a stored document
type Member struct {
	ID              int64
	DocumentID      int64
	Position        int // document order
	MemberID        string
	Kind            string
	Namespace       string
	Summary         string
	DeclaringTypeID string
	ExtendedTypeID  string
	Resolved        bool   // metadata matched uniquely
	Body            string // documentation markup
	CreatedAt       time.Time
}

// Diagnostic is a stored read diagnostic
type Diagnostic struct {
	ID         int64
	DocumentID int64
	Code       string
	Severity   string
	MemberID   string
	Message    string
	Line       int
	Column     int
	Offset     int
	CreatedAt  time.Time
}

// SearchResult is a full-text match on member ids and summaries
type SearchResult struct {
	Member       *Member
	DocumentPath string
	Score        float64 // BM25, lower is better
}

// Status contains statistics about the stored index
type Status struct {
	SchemaVersion    string
	BuildMode        string
	DocumentsCount   int
	MembersCount     int
	ResolvedCount    int
	DiagnosticsCount int
	IndexSizeMB      float64
	LastIndexedAt    time.Time
	Health           HealthStatus
}

// HealthStatus represents the health of the index
type HealthStatus struct {
	DatabaseAccessible bool
	FTSIndexesBuilt    bool
}

// FromDocMember converts a tree member for storage
func FromDocMember(m doc.Member, documentID int64, position int) (*Member, error) {
	body, err := doc.MarshalContent(m)
	if err != nil {
		return nil, err
	}

	member := &Member{
		DocumentID: documentID,
		Position:   position,
		MemberID:   m.ID(),
		Kind:       m.Kind().String(),
		Namespace:  m.Namespace(),
		Resolved:   m.Metadata() != nil,
		Body:       body,
	}
	if s := doc.SummaryOf(m); s != nil {
		member.Summary = doc.PlainText(s)
	}
	switch n := m.(type) {
	case *doc.NestedType:
		member.DeclaringTypeID = n.DeclaringTypeID()
	case *doc.ExtensionMethod:
		member.ExtendedTypeID = n.ExtendedTypeID()
	}
	return member, nil
}

// FromDiagnostic converts a read diagnostic for storage
func FromDiagnostic(d types.Diagnostic, documentID int64) *Diagnostic {
	return &Diagnostic{
		DocumentID: documentID,
		Code:       string(d.Code),
		Severity:   string(d.Severity),
		MemberID:   d.MemberID,
		Message:    d.Message,
		Line:       d.Line,
		Column:     d.Column,
		Offset:     d.Offset,
	}
}

// ToDiagnostic converts a stored diagnostic back
func (d *Diagnostic) ToDiagnostic() types.Diagnostic {
	return types.Diagnostic{
		Code:     types.DiagnosticCode(d.Code),
		Severity: types.Severity(d.Severity),
		MemberID: d.MemberID,
		Message:  d.Message,
		Line:     d.Line,
		Column:   d.Column,
		Offset:   d.Offset,
	}
}
