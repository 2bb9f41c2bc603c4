package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jleacox/mcp-gateway/internal/authresolver"
	"github.com/jleacox/mcp-gateway/internal/tokenstore"
	"github.com/jleacox/mcp-gateway/internal/tools/httpclient"
)

func testProvider(t *testing.T, srv *httptest.Server) *Provider {
	t.Helper()
	keys := authresolver.StaticKeys{tokenstore.ProviderGoogle: "ya29.test"}
	resolver := authresolver.NewBound(nil, keys)
	return &Provider{
		resolver: resolver,
		userID:   "jason",
		client:   httpclient.New(srv.URL, "Calendar", srv.Client()),
	}
}

func TestListCalendars_SendsBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"items": []interface{}{}})
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "calendar_list_calendars", nil)
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "Bearer ya29.test", gotAuth)
	require.Equal(t, "/users/me/calendarList", gotPath)
}

func TestGetEvent_MissingEventIDIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called without event_id")
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "calendar_get_event", map[string]interface{}{})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, result.Content[0].Body, "event_id is required")
}

func TestGetEvent_DefaultsToCalendarPrimary(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "evt1"})
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "calendar_get_event", map[string]interface{}{"event_id": "evt1"})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "/calendars/primary/events/evt1", gotPath)
}

func TestCreateEvent_BuildsAttendeesList(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "evt2"})
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "calendar_create_event", map[string]interface{}{
		"summary":   "Standup",
		"attendees": []interface{}{"a@example.com", "b@example.com"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "Standup", body["summary"])
	attendees, ok := body["attendees"].([]interface{})
	require.True(t, ok)
	require.Len(t, attendees, 2)
}

func TestSearchEvents_EncodesQueryParam(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"items": []interface{}{}})
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "calendar_search_events", map[string]interface{}{"query": "dentist"})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "dentist", gotQuery)
}

func TestGetFreebusy_MissingTimeMaxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called without time_max")
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "calendar_get_freebusy", map[string]interface{}{"time_min": "2026-07-29T00:00:00Z"})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, result.Content[0].Body, "time_max is required")
}

func TestGetFreebusy_DefaultsToPrimaryCalendar(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"calendars": map[string]interface{}{}})
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "calendar_get_freebusy", map[string]interface{}{
		"time_min": "2026-07-29T00:00:00Z", "time_max": "2026-07-30T00:00:00Z",
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	items, ok := body["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	first, ok := items[0].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "primary", first["id"])
}

func TestGetCurrentTime_ReturnsRFC3339WithoutNetworkCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("get_current_time must not hit the network")
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "calendar_get_current_time", nil)
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.NotEmpty(t, result.Content[0].Body)
}

func TestManageAccounts_ListReturnsUserID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("manage_accounts(list) must not hit the network")
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "calendar_manage_accounts", map[string]interface{}{"method": "list"})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "jason", result.Content[0].Body)
}

func TestManageAccounts_UnknownMethodIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unknown method must not hit the network")
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "calendar_manage_accounts", map[string]interface{}{"method": "bogus"})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, result.Content[0].Body, "unknown method")
}

func TestListTools_CoversNormativeCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	p := testProvider(t, srv)
	names := make(map[string]bool)
	for _, tl := range p.ListTools() {
		names[tl.Name] = true
	}
	for _, want := range []string{
		"calendar_list_calendars", "calendar_list_events", "calendar_get_event", "calendar_create_event",
		"calendar_update_event", "calendar_delete_event", "calendar_search_events", "calendar_respond_to_event",
		"calendar_get_freebusy", "calendar_get_current_time", "calendar_list_colors", "calendar_manage_accounts",
	} {
		require.True(t, names[want], "missing tool %s", want)
	}
}
