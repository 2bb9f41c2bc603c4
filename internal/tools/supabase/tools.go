package supabase

import (
	"context"

	"github.com/jleacox/mcp-gateway/internal/registry"
)

type handlerFunc func(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error)

func schema(required []string, properties map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": properties, "required": required}
}

func str(desc string) map[string]interface{} { return map[string]interface{}{"type": "string", "description": desc} }

func obj(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "object", "description": desc}
}

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
		{"query", "Select rows from a table", schema([]string{"table"}, map[string]interface{}{
			"table": str("table name"), "select": str("comma-separated columns, defaults to *"),
			"filter": str("PostgREST filter string, e.g. id=eq.5"), "limit": map[string]interface{}{"type": "integer"},
		}), p.query},
		{"insert", "Insert a row into a table", schema([]string{"table", "values"}, map[string]interface{}{
			"table": str("table name"), "values": obj("column/value pairs to insert"),
		}), p.insert},
		{"update", "Update rows matching a filter", schema([]string{"table", "values", "filter"}, map[string]interface{}{
			"table": str("table name"), "values": obj("column/value pairs to set"), "filter": str("PostgREST filter string, e.g. id=eq.5"),
		}), p.update},
		{"delete", "Delete rows matching a filter", schema([]string{"table", "filter"}, map[string]interface{}{
			"table": str("table name"), "filter": str("PostgREST filter string, e.g. id=eq.5"),
		}), p.delete},
		{"list_tables", "List tables via the list_tables RPC", schema(nil, nil), p.listTables},
	}
}

// ListTools implements registry.Provider.
func (p *Provider) ListTools() []registry.Tool {
	es := entries(p)
	tools := make([]registry.Tool, 0, len(es))
	for _, e := range es {
		handler := e.handler
		tools = append(tools, registry.Tool{
			Name:        "supabase_" + e.name,
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
		if "supabase_"+e.name == name {
			return e.handler(ctx, a)
		}
	}
	return registry.CallToolResult{}, nil
}
