package calendar

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
		{"list_calendars", "List the user's calendars", schema(nil, nil), p.listCalendars},
		{"list_events", "List events on a calendar", schema(nil, map[string]interface{}{
			"calendar_id": str("calendar id, defaults to primary"), "time_min": str("RFC3339 lower bound"), "time_max": str("RFC3339 upper bound"),
		}), p.listEvents},
		{"get_event", "Get a single event", schema([]string{"event_id"}, map[string]interface{}{
			"event_id": str("event id"), "calendar_id": str("calendar id, defaults to primary"),
		}), p.getEvent},
		{"create_event", "Create an event", schema([]string{"summary"}, map[string]interface{}{
			"summary": str("event title"), "calendar_id": str("calendar id, defaults to primary"), "description": str("event description"),
		}), p.createEvent},
		{"update_event", "Update an event", schema([]string{"event_id"}, map[string]interface{}{
			"event_id": str("event id"), "calendar_id": str("calendar id, defaults to primary"), "summary": str("new title"),
		}), p.updateEvent},
		{"delete_event", "Delete an event", schema([]string{"event_id"}, map[string]interface{}{
			"event_id": str("event id"), "calendar_id": str("calendar id, defaults to primary"),
		}), p.deleteEvent},
		{"search_events", "Search events by free-text query", schema([]string{"query"}, map[string]interface{}{
			"query": str("search text"), "calendar_id": str("calendar id, defaults to primary"),
		}), p.searchEvents},
		{"respond_to_event", "RSVP to an event invitation", schema([]string{"event_id", "response_status"}, map[string]interface{}{
			"event_id": str("event id"), "response_status": str("accepted, declined, or tentative"), "calendar_id": str("calendar id, defaults to primary"),
		}), p.respondToEvent},
		{"get_freebusy", "Query free/busy status across calendars", schema([]string{"time_min", "time_max"}, map[string]interface{}{
			"time_min": str("RFC3339 lower bound"), "time_max": str("RFC3339 upper bound"),
		}), p.getFreebusy},
		{"get_current_time", "Get the current time", schema(nil, nil), p.getCurrentTime},
		{"list_colors", "List the calendar/event color palette", schema(nil, nil), p.listColors},
		{"manage_accounts", "Manage connected calendar accounts (method=list)", schema([]string{"method"}, map[string]interface{}{
			"method": str("list"),
		}), p.manageAccounts},
	}
}

// ListTools implements registry.Provider.
func (p *Provider) ListTools() []registry.Tool {
	es := entries(p)
	tools := make([]registry.Tool, 0, len(es))
	for _, e := range es {
		handler := e.handler
		tools = append(tools, registry.Tool{
			Name:        "calendar_" + e.name,
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
		if "calendar_"+e.name == name {
			return e.handler(ctx, a)
		}
	}
	return registry.CallToolResult{}, nil
}
