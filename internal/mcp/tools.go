package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/devlooped/nudoq/internal/storage"
	"github.com/devlooped/nudoq/pkg/memberid"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeMemberNotFound     = -32001 // No stored document documents the member
	ErrorCodeIndexingInProgress = -32002 // Another indexing operation is already running
	ErrorCodeEmptyQuery         = -32004 // Query parameter is empty
)

// handleIndexDocs handles the index_docs tool invocation
func (s *Server) handleIndexDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	if !s.lock.TryAcquire() {
		return nil, newMCPError(ErrorCodeIndexingInProgress, "indexing already in progress", nil)
	}
	defer s.lock.Release()

	config := s.config
	config.Prune = getBoolDefault(args, "prune", false)

	stats, err := s.indexer.IndexDirectory(ctx, path, &config)
	if err != nil {
		s.logger.Error("indexing failed", zap.String("path", path), zap.Error(err))
		return nil, newMCPError(ErrorCodeInternalError, "indexing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed":            true,
		"run_id":             stats.RunID,
		"files_indexed":      stats.FilesIndexed,
		"files_skipped":      stats.FilesSkipped,
		"files_failed":       stats.FilesFailed,
		"files_pruned":       stats.FilesPruned,
		"members_stored":     stats.MembersStored,
		"diagnostics_stored": stats.DiagnosticsStored,
		"duration_ms":        stats.Duration.Milliseconds(),
	}

	if len(stats.ErrorMessages) > 0 {
		// Include first few errors
		errorCount := len(stats.ErrorMessages)
		if errorCount > 5 {
			response["errors"] = stats.ErrorMessages[:5]
			response["error_count"] = errorCount
		} else {
			response["errors"] = stats.ErrorMessages
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleLookupMember handles the lookup_member tool invocation
func (s *Server) handleLookupMember(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	id, ok := args["id"].(string)
	if !ok || id == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "id parameter is required", map[string]interface{}{
			"param":  "id",
			"reason": "missing or empty",
		})
	}

	ref, err := memberid.Parse(id)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid member identifier", map[string]interface{}{
			"param":  "id",
			"reason": err.Error(),
		})
	}

	members, err := s.storage.FindMember(ctx, id)
	if err == nil && len(members) == 0 && ref.String() != id {
		members, err = s.storage.FindMember(ctx, ref.String())
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "lookup failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if len(members) == 0 {
		return nil, newMCPError(ErrorCodeMemberNotFound, "member not found", map[string]interface{}{
			"id": ref.String(),
		})
	}

	paths, err := s.documentPaths(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "lookup failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	includeBody := getBoolDefault(args, "include_body", true)
	matches := make([]map[string]interface{}, 0, len(members))
	for _, m := range members {
		match := memberJSON(m)
		match["document"] = paths[m.DocumentID]
		if includeBody {
			match["body"] = m.Body
		}
		matches = append(matches, match)
	}

	response := map[string]interface{}{
		"id":      ref.String(),
		"matches": matches,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchDocs handles the search_docs tool invocation
func (s *Server) handleSearchDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	results, err := s.storage.SearchMembers(ctx, query, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	items := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		item := memberJSON(r.Member)
		item["document"] = r.DocumentPath
		item["score"] = r.Score
		items = append(items, item)
	}

	response := map[string]interface{}{
		"query":   query,
		"count":   len(items),
		"results": items,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.storage.GetStatus(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed":        status.DocumentsCount > 0,
		"schema_version": status.SchemaVersion,
		"build_mode":     status.BuildMode,
		"statistics": map[string]interface{}{
			"documents_count":   status.DocumentsCount,
			"members_count":     status.MembersCount,
			"resolved_count":    status.ResolvedCount,
			"diagnostics_count": status.DiagnosticsCount,
			"index_size_mb":     fmt.Sprintf("%.2f", status.IndexSizeMB),
		},
		"health": map[string]interface{}{
			"database_accessible": status.Health.DatabaseAccessible,
			"fts_indexes_built":   status.Health.FTSIndexesBuilt,
		},
	}
	if !status.LastIndexedAt.IsZero() {
		response["last_indexed_at"] = status.LastIndexedAt.Format("2006-01-02T15:04:05Z07:00")
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

func (s *Server) documentPaths(ctx context.Context) (map[int64]string, error) {
	documents, err := s.storage.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	paths := make(map[int64]string, len(documents))
	for _, d := range documents {
		paths[d.ID] = d.Path
	}
	return paths, nil
}

func memberJSON(m *storage.Member) map[string]interface{} {
	out := map[string]interface{}{
		"id":        m.MemberID,
		"kind":      m.Kind,
		"namespace": m.Namespace,
		"summary":   m.Summary,
		"resolved":  m.Resolved,
	}
	if m.DeclaringTypeID != "" {
		out["declaring_type_id"] = m.DeclaringTypeID
	}
	if m.ExtendedTypeID != "" {
		out["extended_type_id"] = m.ExtendedTypeID
	}
	return out
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks that path is a readable directory holding documentation files
func validatePath(path string) error {
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}
	if !info.IsDir() {
		return ErrNotDirectory
	}

	found := false
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".xml") {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return ErrPathNotReadable
	}
	if !found {
		return ErrNoDocumentationFiles
	}

	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// Validation errors

var (
	ErrPathNotAbsolute      = errors.New("path must be absolute")
	ErrPathNotFound         = errors.New("path does not exist")
	ErrPathNotReadable      = errors.New("path is not readable")
	ErrNotDirectory         = errors.New("path is not a directory")
	ErrNoDocumentationFiles = errors.New("directory does not contain documentation .xml files")
)
