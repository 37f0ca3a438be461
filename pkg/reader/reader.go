package reader

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/devlooped/nudoq/internal/markup"
	"github.com/devlooped/nudoq/internal/metrics"
	"github.com/devlooped/nudoq/internal/resolver"
	"github.com/devlooped/nudoq/pkg/doc"
	"github.com/devlooped/nudoq/pkg/memberid"
	"github.com/devlooped/nudoq/pkg/metadata"
	"github.com/devlooped/nudoq/pkg/types"
)

// DefaultCacheSize is the number of results kept by content hash
const DefaultCacheSize = 128

// Result is the outcome of reading one document. Results may be shared
// through the cache and must not be modified.
type Result struct {
	Document    *doc.Document
	Diagnostics types.Diagnostics
	Hash        [32]byte
}

// Input is one document of a batch
type Input struct {
	Name string
	Data []byte
}

// Reader turns documentation files into document trees. It is safe for
// concurrent use as long as the metadata index is not mutated.
type Reader struct {
	resolver *resolver.Resolver
	logger   *zap.Logger
	metrics  *metrics.Metrics
	cache    *lru.Cache[[32]byte, *Result]
	workers  int
}

// Option configures a Reader
type Option func(*Reader)

// WithLogger sets the logger, zap.NewNop by default
func WithLogger(logger *zap.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCacheSize sets the number of cached results. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(r *Reader) {
		if n <= 0 {
			r.cache = nil
			return
		}
		cache, err := lru.New[[32]byte, *Result](n)
		if err != nil {
			panic(fmt.Sprintf("failed to create LRU cache: %v", err))
		}
		r.cache = cache
	}
}

// WithWorkers bounds the parallelism of ReadAll, runtime.NumCPU by default
func WithWorkers(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithMetrics records reads into m
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Reader) { r.metrics = m }
}

// New creates a Reader resolving members against index, which may be nil
func New(index metadata.Index, opts ...Option) *Reader {
	r := &Reader{
		resolver: resolver.New(index),
		logger:   zap.NewNop(),
		workers:  runtime.NumCPU(),
	}
	WithCacheSize(DefaultCacheSize)(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadFile reads the document at path
func (r *Reader) ReadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	res, err := r.Read(data)
	if err != nil {
		var de *DocumentError
		if errors.As(err, &de) {
			de.Path = path
		}
		return nil, err
	}
	return res, nil
}

// Read parses one documentation document. Per-member problems are reported
// in Result.Diagnostics; only a malformed envelope returns an error.
func (r *Reader) Read(data []byte) (*Result, error) {
	hash := sha256.Sum256(data)
	if r.cache != nil {
		if res, ok := r.cache.Get(hash); ok {
			r.metrics.RecordCacheHit()
			return res, nil
		}
	}

	start := time.Now()
	res, err := r.read(data)
	if err != nil {
		r.metrics.RecordDocument("malformed", time.Since(start))
		return nil, err
	}
	res.Hash = hash

	r.metrics.RecordDocument("ok", time.Since(start))
	for _, m := range res.Document.Members() {
		r.metrics.RecordMember(m.Kind().String())
	}
	for _, d := range res.Diagnostics {
		r.metrics.RecordDiagnostic(string(d.Code))
	}
	r.logger.Debug("read document",
		zap.String("assembly", res.Document.Assembly()),
		zap.Int("members", res.Document.Len()),
		zap.Int("diagnostics", len(res.Diagnostics)),
		zap.Duration("duration", time.Since(start)))

	if r.cache != nil {
		r.cache.Add(hash, res)
	}
	return res, nil
}

func (r *Reader) read(data []byte) (*Result, error) {
	env, err := scanEnvelope(data)
	if err != nil {
		return nil, err
	}

	// diagnostics are kept per entry so later passes stay in document order
	perEntry := make([]types.Diagnostics, len(env.entries))
	members := make([]doc.Member, 0, len(env.entries))
	owner := make([]int, 0, len(env.entries))

	for i, e := range env.entries {
		ref, err := memberid.Parse(e.name)
		if err != nil {
			perEntry[i] = append(perEntry[i], identifierDiagnostic(e, err))
			continue
		}

		body := string(data[e.bodyStart:e.bodyEnd])
		children, err := markup.Parse(body)
		if err != nil {
			perEntry[i] = append(perEntry[i], markupDiagnostic(e, err))
		}

		m, diag := r.resolver.Resolve(ref, children)
		if diag != nil {
			diag.Line, diag.Column, diag.Offset = e.line, e.column, e.offset
			perEntry[i] = append(perEntry[i], *diag)
		}
		members = append(members, m)
		owner = append(owner, i)
	}

	d := doc.NewDocument(env.assembly, members)

	for j, m := range members {
		e := env.entries[owner[j]]
		for _, cref := range unresolvedRefs(d, m) {
			diag := types.NewDiagnostic(types.CodeUnresolvedCrossReference, m.ID(),
				fmt.Sprintf("cross-reference %q does not name a member of this document", cref))
			diag.Line, diag.Column, diag.Offset = e.line, e.column, e.offset
			perEntry[owner[j]] = append(perEntry[owner[j]], diag)
		}
	}

	var diags types.Diagnostics
	for _, ds := range perEntry {
		diags = append(diags, ds...)
	}
	return &Result{Document: d, Diagnostics: diags}, nil
}

func identifierDiagnostic(e entry, err error) types.Diagnostic {
	code := types.CodeMalformedIdentifier
	if errors.Is(err, types.ErrUnsupportedPrefix) {
		code = types.CodeUnsupportedPrefix
	}
	diag := types.NewDiagnostic(code, e.name, err.Error())
	diag.Line, diag.Column, diag.Offset = e.line, e.column, e.offset
	return diag
}

func markupDiagnostic(e entry, err error) types.Diagnostic {
	diag := types.NewDiagnostic(types.CodeMarkupError, e.name, err.Error())
	diag.Line, diag.Column, diag.Offset = e.bodyLine, e.bodyCol, e.bodyStart

	var merr *markup.Error
	if errors.As(err, &merr) {
		diag.Message = merr.Msg
		diag.Line = e.bodyLine + merr.Line - 1
		diag.Column = merr.Column
		if merr.Line == 1 {
			diag.Column = e.bodyCol + merr.Column - 1
		}
		diag.Offset = e.bodyStart + merr.Offset
	}
	return diag
}

// unresolvedRefs returns see and seealso targets of m missing from d
func unresolvedRefs(d *doc.Document, m doc.Member) []string {
	var missing []string
	check := func(cref string) {
		if _, ok := d.Lookup(cref); !ok {
			missing = append(missing, cref)
		}
	}
	doc.Inspect(m, func(e doc.Element) bool {
		switch n := e.(type) {
		case *doc.See:
			if _, ok := n.Attr("cref"); ok {
				check(n.Cref())
			}
		case *doc.SeeAlso:
			if _, ok := n.Attr("cref"); ok {
				check(n.Cref())
			}
		}
		return true
	})
	return missing
}

// ReadAll reads independent documents in parallel. Results are in input
// order; a failed input leaves a nil result and contributes to the joined
// error. No new reads start once ctx is done.
func (r *Reader) ReadAll(ctx context.Context, inputs []Input) ([]*Result, error) {
	results := make([]*Result, len(inputs))
	errs := make([]error, len(inputs))

	g := new(errgroup.Group)
	g.SetLimit(r.workers)

	for i, in := range inputs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			res, err := r.Read(in.Data)
			if err != nil {
				var de *DocumentError
				if errors.As(err, &de) && de.Path == "" {
					de.Path = in.Name
				}
				r.logger.Warn("failed to read document", zap.String("name", in.Name), zap.Error(err))
				errs[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("read interrupted: %w", err)
	}
	return results, errors.Join(errs...)
}
