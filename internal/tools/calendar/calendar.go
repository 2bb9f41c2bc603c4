// Package calendar implements the Google Calendar tool handlers, per
// SPEC_FULL §4.3's catalog, over the plain HTTPS+JSON Calendar v3 API.
// Grounded on the common handler contract in SPEC_FULL §4.3 and the
// teacher's doRequest-shaped authenticated-call helper
// (apps/edge-mcp/internal/core/client.go), generalized into
// internal/tools/httpclient.
package calendar

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jleacox/mcp-gateway/internal/authresolver"
	"github.com/jleacox/mcp-gateway/internal/registry"
	"github.com/jleacox/mcp-gateway/internal/tokenstore"
	"github.com/jleacox/mcp-gateway/internal/tools/args"
	"github.com/jleacox/mcp-gateway/internal/tools/httpclient"
)

const baseURL = "https://www.googleapis.com/calendar/v3"

// Provider implements registry.Provider for Google Calendar tools.
type Provider struct {
	resolver authresolver.Resolver
	userID   string
	client   *httpclient.Client
}

// New builds a Calendar Provider. httpClient may be nil to use the
// default transport.
func New(resolver authresolver.Resolver, userID string, httpClient *http.Client) *Provider {
	return &Provider{resolver: resolver, userID: userID, client: httpclient.New(baseURL, "Calendar", httpClient)}
}

func (p *Provider) Name() string { return "calendar" }

func (p *Provider) token(ctx context.Context) (string, error) {
	return p.resolver.Resolve(ctx, p.userID, tokenstore.ProviderGoogle)
}

func (p *Provider) listCalendars(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	return p.call(ctx, http.MethodGet, "/users/me/calendarList", nil, nil)
}

func (p *Provider) listEvents(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	calID := args.OptStringDefault(a, "calendar_id", "primary")
	q := url.Values{}
	if tmin := args.OptString(a, "time_min"); tmin != "" {
		q.Set("timeMin", tmin)
	}
	if tmax := args.OptString(a, "time_max"); tmax != "" {
		q.Set("timeMax", tmax)
	}
	if max := args.OptInt(a, "max_results", 0); max > 0 {
		q.Set("maxResults", itoa(max))
	}
	return p.call(ctx, http.MethodGet, "/calendars/"+url.PathEscape(calID)+"/events", q, nil)
}

func (p *Provider) getEvent(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	eventID, err := args.String(a, "event_id")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	calID := args.OptStringDefault(a, "calendar_id", "primary")
	return p.call(ctx, http.MethodGet, "/calendars/"+url.PathEscape(calID)+"/events/"+url.PathEscape(eventID), nil, nil)
}

func (p *Provider) createEvent(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	summary, err := args.String(a, "summary")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	calID := args.OptStringDefault(a, "calendar_id", "primary")
	body := map[string]interface{}{"summary": summary}
	if start := args.Map(a, "start"); start != nil {
		body["start"] = start
	}
	if end := args.Map(a, "end"); end != nil {
		body["end"] = end
	}
	if desc := args.OptString(a, "description"); desc != "" {
		body["description"] = desc
	}
	if attendees := args.StringSlice(a, "attendees"); len(attendees) > 0 {
		list := make([]map[string]string, 0, len(attendees))
		for _, email := range attendees {
			list = append(list, map[string]string{"email": email})
		}
		body["attendees"] = list
	}
	return p.call(ctx, http.MethodPost, "/calendars/"+url.PathEscape(calID)+"/events", nil, body)
}

func (p *Provider) updateEvent(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	eventID, err := args.String(a, "event_id")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	calID := args.OptStringDefault(a, "calendar_id", "primary")
	body := map[string]interface{}{}
	if summary := args.OptString(a, "summary"); summary != "" {
		body["summary"] = summary
	}
	if start := args.Map(a, "start"); start != nil {
		body["start"] = start
	}
	if end := args.Map(a, "end"); end != nil {
		body["end"] = end
	}
	return p.call(ctx, http.MethodPatch, "/calendars/"+url.PathEscape(calID)+"/events/"+url.PathEscape(eventID), nil, body)
}

func (p *Provider) deleteEvent(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	eventID, err := args.String(a, "event_id")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	calID := args.OptStringDefault(a, "calendar_id", "primary")
	return p.call(ctx, http.MethodDelete, "/calendars/"+url.PathEscape(calID)+"/events/"+url.PathEscape(eventID), nil, nil)
}

func (p *Provider) searchEvents(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	query, err := args.String(a, "query")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	calID := args.OptStringDefault(a, "calendar_id", "primary")
	q := url.Values{"q": []string{query}}
	return p.call(ctx, http.MethodGet, "/calendars/"+url.PathEscape(calID)+"/events", q, nil)
}

func (p *Provider) respondToEvent(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	eventID, err := args.String(a, "event_id")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	status, err := args.String(a, "response_status")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	calID := args.OptStringDefault(a, "calendar_id", "primary")
	body := map[string]interface{}{
		"attendees": []map[string]string{{"self": "true", "responseStatus": status}},
	}
	return p.call(ctx, http.MethodPatch, "/calendars/"+url.PathEscape(calID)+"/events/"+url.PathEscape(eventID), nil, body)
}

func (p *Provider) getFreebusy(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	timeMin, err := args.String(a, "time_min")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	timeMax, err := args.String(a, "time_max")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	calendars := args.StringSlice(a, "calendar_ids")
	if len(calendars) == 0 {
		calendars = []string{"primary"}
	}
	items := make([]map[string]string, 0, len(calendars))
	for _, id := range calendars {
		items = append(items, map[string]string{"id": id})
	}
	body := map[string]interface{}{"timeMin": timeMin, "timeMax": timeMax, "items": items}
	return p.call(ctx, http.MethodPost, "/freeBusy", nil, body)
}

func (p *Provider) getCurrentTime(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	return registry.Text(nowRFC3339()), nil
}

func (p *Provider) listColors(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	return p.call(ctx, http.MethodGet, "/colors", nil, nil)
}

func (p *Provider) manageAccounts(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	method, err := args.String(a, "method")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	switch method {
	case "list":
		return registry.Text(p.userID), nil
	default:
		return registry.Errorf("unknown method %q for manage_accounts", method), nil
	}
}

func (p *Provider) call(ctx context.Context, method, path string, query url.Values, body interface{}) (registry.CallToolResult, error) {
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	var out map[string]interface{}
	if err := p.client.Do(ctx, method, path, query, token, body, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return registry.CallToolResult{Content: []registry.Content{{Kind: registry.ContentText, Body: mustJSON(out)}}}, nil
}
