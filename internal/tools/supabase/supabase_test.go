package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jleacox/mcp-gateway/internal/authresolver"
	"github.com/jleacox/mcp-gateway/internal/tokenstore"
)

func testProvider(t *testing.T, srv *httptest.Server) *Provider {
	t.Helper()
	keys := authresolver.StaticKeys{tokenstore.ProviderSupabase: "service-role-key"}
	resolver := authresolver.NewBound(nil, keys)
	return New(resolver, "jason", srv.URL, "service-role-key", srv.Client())
}

func TestQuery_SetsApikeyAndAuthorizationHeaders(t *testing.T) {
	var gotAPIKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]interface{}{})
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "supabase_query", map[string]interface{}{"table": "events"})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "service-role-key", gotAPIKey)
	require.Equal(t, "Bearer service-role-key", gotAuth)
}

func TestQuery_AppliesFilterAndSelectParams(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode([]interface{}{})
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "supabase_query", map[string]interface{}{
		"table": "events", "select": "id,name", "filter": "id=eq.5",
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "id,name", gotQuery["select"][0])
	require.Equal(t, "eq.5", gotQuery["id"][0])
}

func TestInsert_MissingValuesIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called without values")
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "supabase_insert", map[string]interface{}{"table": "events"})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, result.Content[0].Body, "values is required")
}

func TestInsert_SendsPreferReturnRepresentation(t *testing.T) {
	var gotPrefer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrefer = r.Header.Get("Prefer")
		_ = json.NewEncoder(w).Encode([]interface{}{map[string]interface{}{"id": 1}})
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "supabase_insert", map[string]interface{}{
		"table": "events", "values": map[string]interface{}{"name": "launch"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "return=representation", gotPrefer)
}

func TestDelete_RequiresFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called without filter")
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "supabase_delete", map[string]interface{}{"table": "events"})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, result.Content[0].Body, "filter is required")
}

func TestListTables_CallsListTablesRPC(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode([]interface{}{"events", "users"})
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "supabase_list_tables", map[string]interface{}{})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "/rest/v1/rpc/list_tables", gotPath)
}

func TestListTools_CoversNormativeCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	p := testProvider(t, srv)
	names := make(map[string]bool)
	for _, tl := range p.ListTools() {
		names[tl.Name] = true
	}
	for _, want := range []string{"supabase_query", "supabase_insert", "supabase_update", "supabase_delete", "supabase_list_tables"} {
		require.True(t, names[want], "missing tool %s", want)
	}
}
