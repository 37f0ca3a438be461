package indexer

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/devlooped/nudoq/internal/metrics"
	"github.com/devlooped/nudoq/internal/storage"
	"github.com/devlooped/nudoq/pkg/reader"
)

// DefaultBatchSize is the number of documents committed per transaction
const DefaultBatchSize = 20

// Indexer coordinates the indexing pipeline: read -> resolve -> store
type Indexer struct {
	reader  *reader.Reader
	storage storage.Storage
	logger  *zap.Logger
	metrics *metrics.Metrics

	// Worker pool configuration
	workers int
}

// Config contains configuration for an indexing run
type Config struct {
	Workers   int  // Number of concurrent readers (default: runtime.NumCPU())
	BatchSize int  // Number of documents to commit per transaction (default: 20)
	Prune     bool // Delete stored documents whose files are gone from the root
}

// Statistics contains statistics about the indexing operation
type Statistics struct {
	RunID             string
	FilesIndexed      int
	FilesSkipped      int
	FilesFailed       int
	FilesPruned       int
	MembersStored     int
	DiagnosticsStored int
	Duration          time.Duration
	ErrorMessages     []string
}

// Option configures an Indexer
type Option func(*Indexer)

// WithLogger sets the logger, zap.NewNop by default
func WithLogger(logger *zap.Logger) Option {
	return func(idx *Indexer) {
		if logger != nil {
			idx.logger = logger
		}
	}
}

// WithMetrics records per-file outcomes
func WithMetrics(m *metrics.Metrics) Option {
	return func(idx *Indexer) { idx.metrics = m }
}

// New creates a new Indexer storing documents read by rd
func New(store storage.Storage, rd *reader.Reader, opts ...Option) *Indexer {
	idx := &Indexer{
		reader:  rd,
		storage: store,
		logger:  zap.NewNop(),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// prepared is a read document waiting to be stored
type prepared struct {
	path    string
	hash    [32]byte
	size    int64
	modTime time.Time
	result  *reader.Result
}

// IndexDirectory indexes every documentation file under rootPath
func (idx *Indexer) IndexDirectory(ctx context.Context, rootPath string, config *Config) (*Statistics, error) {
	if config == nil {
		config = &Config{
			Workers:   runtime.NumCPU(),
			BatchSize: DefaultBatchSize,
		}
	}

	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	idx.workers = config.Workers

	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	root, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", rootPath, err)
	}

	startTime := time.Now()
	stats := &Statistics{
		RunID:         uuid.NewString(),
		ErrorMessages: make([]string, 0),
	}
	logger := idx.logger.With(zap.String("run_id", stats.RunID), zap.String("root", root))
	logger.Info("indexing started", zap.Int("workers", idx.workers))

	files, err := discoverFiles(root)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	docs, err := idx.readFiles(ctx, files, stats, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to read files: %w", err)
	}

	for i := 0; i < len(docs); i += batchSize {
		end := i + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		if err := idx.storeBatch(ctx, docs[i:end], stats); err != nil {
			return nil, fmt.Errorf("failed to store documents: %w", err)
		}
	}

	if config.Prune {
		if err := idx.prune(ctx, root, files, stats); err != nil {
			return nil, fmt.Errorf("failed to prune documents: %w", err)
		}
	}

	sort.Strings(stats.ErrorMessages)
	stats.Duration = time.Since(startTime)
	logger.Info("indexing finished",
		zap.Int("indexed", stats.FilesIndexed),
		zap.Int("skipped", stats.FilesSkipped),
		zap.Int("failed", stats.FilesFailed),
		zap.Int("pruned", stats.FilesPruned),
		zap.Duration("duration", stats.Duration))
	return stats, nil
}

// discoverFiles finds all documentation files under root
func discoverFiles(root string) ([]string, error) {
	var files []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			// Skip hidden directories
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.EqualFold(filepath.Ext(path), ".xml") {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// readFiles reads changed files concurrently. The returned documents keep
// discovery order.
func (idx *Indexer) readFiles(ctx context.Context, files []string, stats *Statistics, logger *zap.Logger) ([]*prepared, error) {
	var (
		skipped int32
		failed  int32
		mu      sync.Mutex // Protect stats.ErrorMessages
	)

	slots := make([]*prepared, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.workers)

	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			p, unchanged, err := idx.readFile(gctx, path)
			switch {
			case err != nil:
				if gctx.Err() != nil {
					return gctx.Err()
				}
				atomic.AddInt32(&failed, 1)
				idx.metrics.RecordFile("failed")
				logger.Warn("failed to read document", zap.String("path", path), zap.Error(err))
				mu.Lock()
				stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", path, err))
				mu.Unlock()
			case unchanged:
				atomic.AddInt32(&skipped, 1)
				idx.metrics.RecordFile("skipped")
			default:
				slots[i] = p
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats.FilesSkipped = int(skipped)
	stats.FilesFailed = int(failed)

	docs := make([]*prepared, 0, len(files))
	for _, p := range slots {
		if p != nil {
			docs = append(docs, p)
		}
	}
	return docs, nil
}

// readFile reads one file unless its stored hash matches
func (idx *Indexer) readFile(ctx context.Context, path string) (*prepared, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	hash := sha256.Sum256(data)

	existing, err := idx.storage.GetDocument(ctx, path)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, false, err
	}
	if existing != nil && existing.ContentHash == hash {
		return nil, true, nil
	}

	res, err := idx.reader.Read(data)
	if err != nil {
		var de *reader.DocumentError
		if errors.As(err, &de) {
			de.Path = path
		}
		return nil, false, err
	}

	return &prepared{
		path:    path,
		hash:    hash,
		size:    info.Size(),
		modTime: info.ModTime(),
		result:  res,
	}, false, nil
}

// storeBatch replaces a batch of documents within a transaction
func (idx *Indexer) storeBatch(ctx context.Context, docs []*prepared, stats *Statistics) error {
	tx, err := idx.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	members, diagnostics := 0, 0
	for _, p := range docs {
		m, d, err := storeDocument(ctx, tx, p, stats.RunID)
		if err != nil {
			return fmt.Errorf("%s: %w", p.path, err)
		}
		members += m
		diagnostics += d
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	for range docs {
		idx.metrics.RecordFile("indexed")
	}
	stats.FilesIndexed += len(docs)
	stats.MembersStored += members
	stats.DiagnosticsStored += diagnostics
	return nil
}

// storeDocument writes a document row and replaces its members and diagnostics
func storeDocument(ctx context.Context, store storage.Storage, p *prepared, runID string) (int, int, error) {
	d := p.result.Document
	document := &storage.Document{
		RunID:           runID,
		Path:            p.path,
		Assembly:        d.Assembly(),
		ContentHash:     p.hash,
		SizeBytes:       p.size,
		ModTime:         p.modTime,
		MemberCount:     d.Len(),
		DiagnosticCount: len(p.result.Diagnostics),
	}
	if err := store.UpsertDocument(ctx, document); err != nil {
		return 0, 0, err
	}
	if err := store.ClearDocument(ctx, document.ID); err != nil {
		return 0, 0, err
	}

	for i, m := range d.Members() {
		member, err := storage.FromDocMember(m, document.ID, i)
		if err != nil {
			return 0, 0, err
		}
		if err := store.InsertMember(ctx, member); err != nil {
			return 0, 0, err
		}
	}

	for _, diag := range p.result.Diagnostics {
		if err := store.InsertDiagnostic(ctx, storage.FromDiagnostic(diag, document.ID)); err != nil {
			return 0, 0, err
		}
	}

	return d.Len(), len(p.result.Diagnostics), nil
}

// prune deletes stored documents under root that were not discovered
func (idx *Indexer) prune(ctx context.Context, root string, files []string, stats *Statistics) error {
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f] = true
	}

	documents, err := idx.storage.ListDocuments(ctx)
	if err != nil {
		return err
	}

	prefix := root + string(filepath.Separator)
	for _, document := range documents {
		if !strings.HasPrefix(document.Path, prefix) || present[document.Path] {
			continue
		}
		if err := idx.storage.DeleteDocument(ctx, document.ID); err != nil {
			return err
		}
		stats.FilesPruned++
		idx.metrics.RecordFile("pruned")
		idx.logger.Debug("pruned document", zap.String("path", document.Path))
	}
	return nil
}
