package drive

import (
	"context"

	"github.com/jleacox/mcp-gateway/internal/registry"
)

type handlerFunc func(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error)

func schema(required []string, properties map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": properties, "required": required}
}

func str(desc string) map[string]interface{} { return map[string]interface{}{"type": "string", "description": desc} }

func entries(p *Provider) []struct {
	name    string
	desc    string
	schema  map[string]interface{}
	handler handlerFunc
} {
	return []struct {
		name    string
		desc    string
		schema  map[string]interface{}
		handler handlerFunc
	}{
		{"read_file", "Read a Drive file's contents, exporting Google Docs to markdown", schema([]string{"file_id"}, map[string]interface{}{
			"file_id": str("Drive file id"),
		}), p.readFile},
		{"write_file", "Create or update a Drive file's contents", schema([]string{"name", "content"}, map[string]interface{}{
			"name": str("file name"), "content": str("file content"), "mime_type": str("content MIME type, defaults to text/plain"),
			"parent_id": str("folder id to create the file under"), "file_id": str("existing file id to update instead of creating"),
		}), p.writeFile},
		{"list_files", "List files, optionally within a folder", schema(nil, map[string]interface{}{
			"folder_id": str("folder id to list within"),
		}), p.listFiles},
		{"search", "Search files by name", schema([]string{"query"}, map[string]interface{}{
			"query": str("substring to search for in file names"),
		}), p.search},
		{"createFolder", "Create a folder", schema([]string{"name"}, map[string]interface{}{
			"name": str("folder name"), "parent_id": str("parent folder id"),
		}), p.createFolder},
		{"moveItem", "Move a file or folder to a new parent", schema([]string{"file_id", "new_parent_id"}, map[string]interface{}{
			"file_id": str("item id"), "new_parent_id": str("destination folder id"),
		}), p.moveItem},
		{"renameItem", "Rename a file or folder", schema([]string{"file_id", "new_name"}, map[string]interface{}{
			"file_id": str("item id"), "new_name": str("new name"),
		}), p.renameItem},
	}
}

// ListTools implements registry.Provider.
func (p *Provider) ListTools() []registry.Tool {
	es := entries(p)
	tools := make([]registry.Tool, 0, len(es))
	for _, e := range es {
		handler := e.handler
		tools = append(tools, registry.Tool{
			Name:        "drive_" + e.name,
			Description: e.desc,
			InputSchema: e.schema,
			Handler: func(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
				return handler(ctx, a)
			},
		})
	}
	return tools
}

// CallTool implements registry.Provider.
func (p *Provider) CallTool(ctx context.Context, name string, a map[string]interface{}) (registry.CallToolResult, error) {
	for _, e := range entries(p) {
		if "drive_"+e.name == name {
			return e.handler(ctx, a)
		}
	}
	return registry.CallToolResult{}, nil
}
