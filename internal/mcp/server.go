package mcp

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/devlooped/nudoq/internal/indexer"
	"github.com/devlooped/nudoq/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "nudoq"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	storage storage.Storage
	indexer *indexer.Indexer
	lock    indexer.IndexLock
	config  indexer.Config
	logger  *zap.Logger
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger, zap.NewNop by default
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIndexConfig sets the worker and batch settings used by index_docs
func WithIndexConfig(cfg indexer.Config) Option {
	return func(s *Server) { s.config = cfg }
}

// NewServer creates a new MCP server over store. The caller owns store.
func NewServer(store storage.Storage, idx *indexer.Indexer, opts ...Option) *Server {
	s := &Server{
		mcp:     server.NewMCPServer(ServerName, ServerVersion, server.WithToolCapabilities(false)),
		storage: store,
		indexer: idx,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()
	return s
}

// Serve runs the MCP protocol on stdio until ctx is done or stdin closes
func (s *Server) Serve(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))
	s.logger.Info("MCP server ready, listening on stdio")
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(indexDocsTool(), s.handleIndexDocs)
	s.mcp.AddTool(lookupMemberTool(), s.handleLookupMember)
	s.mcp.AddTool(searchDocsTool(), s.handleSearchDocs)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
