package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// indexDocsTool returns the tool definition for index_docs
func indexDocsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_docs",
		Description: "Index the XML documentation files under a directory so members can be looked up and searched",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a directory containing documentation .xml files",
				},
				"prune": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, drop stored documents under path whose files no longer exist",
					"default":     false,
				},
			},
			Required: []string{"path"},
		},
	}
}

// lookupMemberTool returns the tool definition for lookup_member
func lookupMemberTool() mcp.Tool {
	return mcp.Tool{
		Name:        "lookup_member",
		Description: "Get the documentation of a member by its identifier, e.g. M:System.String.Join(System.String,System.String[])",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Member identifier with its N:, T:, M:, P:, F: or E: prefix",
				},
				"include_body": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, include the documentation markup",
					"default":     true,
				},
			},
			Required: []string{"id"},
		},
	}
}

// searchDocsTool returns the tool definition for search_docs
func searchDocsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_docs",
		Description: "Full-text search over indexed member identifiers and summaries",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search terms; all terms must match",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query statistics and health of the documentation index",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
