package gmail

import (
	"context"

	"github.com/jleacox/mcp-gateway/internal/registry"
)

type handlerFunc func(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error)

func schema(required []string, properties map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": properties, "required": required}
}

func str(desc string) map[string]interface{} { return map[string]interface{}{"type": "string", "description": desc} }

func strArray(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}, "description": desc}
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
		{"search_emails", "Search messages by Gmail query syntax", schema([]string{"query"}, map[string]interface{}{
			"query": str("Gmail search query, e.g. from:someone@example.com"),
		}), p.searchEmails},
		{"read_email", "Read a full message", schema([]string{"message_id"}, map[string]interface{}{
			"message_id": str("message id"),
		}), p.readEmail},
		{"send_email", "Send an email", schema([]string{"to", "subject"}, map[string]interface{}{
			"to": strArray("recipient addresses"), "cc": strArray("cc addresses"), "bcc": strArray("bcc addresses"),
			"subject": str("subject line"), "body": str("plain-text body"), "html_body": str("HTML body"),
			"thread_id": str("thread id to reply within"),
		}), p.sendEmail},
		{"draft_email", "Create a draft", schema([]string{"to", "subject"}, map[string]interface{}{
			"to": strArray("recipient addresses"), "cc": strArray("cc addresses"), "bcc": strArray("bcc addresses"),
			"subject": str("subject line"), "body": str("plain-text body"), "html_body": str("HTML body"),
			"thread_id": str("thread id to reply within"),
		}), p.draftEmail},
		{"modify_email", "Add or remove labels on a message", schema([]string{"message_id"}, map[string]interface{}{
			"message_id": str("message id"), "add_label_ids": strArray("label ids to add"), "remove_label_ids": strArray("label ids to remove"),
		}), p.modifyEmail},
		{"delete_email", "Archive a message (removes it from the inbox)", schema([]string{"message_id"}, map[string]interface{}{
			"message_id": str("message id"),
		}), p.deleteEmail},

		{"list_labels", "List labels", schema(nil, nil), p.listLabels},
		{"create_label", "Create a label", schema([]string{"name"}, map[string]interface{}{
			"name": str("label name"),
		}), p.createLabel},
		{"update_label", "Rename a label", schema([]string{"label_id"}, map[string]interface{}{
			"label_id": str("label id"), "name": str("new name"),
		}), p.updateLabel},
		{"delete_label", "Delete a label", schema([]string{"label_id"}, map[string]interface{}{
			"label_id": str("label id"),
		}), p.deleteLabel},
		{"get_or_create_label", "Look up a label by name, creating it if absent", schema([]string{"name"}, map[string]interface{}{
			"name": str("label name"),
		}), p.getOrCreateLabel},

		{"list_filters", "List inbox filters", schema(nil, nil), p.listFilters},
		{"create_filter", "Create an inbox filter from criteria and action objects", schema([]string{"criteria", "action"}, map[string]interface{}{
			"criteria": map[string]interface{}{"type": "object", "description": "filter match criteria"},
			"action":   map[string]interface{}{"type": "object", "description": "filter action"},
		}), p.createFilter},
		{"get_filter", "Get a single filter", schema([]string{"filter_id"}, map[string]interface{}{
			"filter_id": str("filter id"),
		}), p.getFilter},
		{"delete_filter", "Delete a filter", schema([]string{"filter_id"}, map[string]interface{}{
			"filter_id": str("filter id"),
		}), p.deleteFilter},
		{"create_filter_from_template", "Create a filter from a named template (archive_from_sender, label_by_sender, star_from_sender)", schema([]string{"template"}, map[string]interface{}{
			"template": str("archive_from_sender, label_by_sender, or star_from_sender"),
			"from":     str("sender address to match"), "label_id": str("label id, required by label_by_sender"),
		}), p.createFilterFromTemplate},

		{"extract_dates_from_email", "Extract calendar-relevant dates from a message, via Claude when configured or a regex fallback otherwise", schema([]string{"message_id"}, map[string]interface{}{
			"message_id": str("message id"),
		}), p.extractDatesFromEmail},
	}
}

// ListTools implements registry.Provider.
func (p *Provider) ListTools() []registry.Tool {
	es := entries(p)
	tools := make([]registry.Tool, 0, len(es))
	for _, e := range es {
		handler := e.handler
		tools = append(tools, registry.Tool{
			Name:        "gmail_" + e.name,
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
		if "gmail_"+e.name == name {
			return e.handler(ctx, a)
		}
	}
	return registry.CallToolResult{}, nil
}
