// Package supabase implements the Supabase tool handlers, per SPEC_FULL
// §4.3's catalog, over Supabase's PostgREST-compatible REST API. Unlike
// GitHub/Calendar/Drive/Gmail, Supabase is not an OAuth provider: the
// Auth Resolver short-circuits straight to an operator-configured API
// key (SPEC_FULL §4.4), carried here as both the `apikey` header and the
// bearer token PostgREST expects.
package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/jleacox/mcp-gateway/internal/authresolver"
	"github.com/jleacox/mcp-gateway/internal/registry"
	"github.com/jleacox/mcp-gateway/internal/tokenstore"
	"github.com/jleacox/mcp-gateway/internal/tools/args"
	"github.com/jleacox/mcp-gateway/internal/tools/httpclient"
)

// Provider implements registry.Provider for Supabase tools.
type Provider struct {
	resolver authresolver.Resolver
	userID   string
	apiKey   string
	client   *httpclient.Client
}

// New builds a Supabase Provider against projectURL's REST endpoint
// (projectURL + "/rest/v1"). httpClient may be nil to use the default
// transport.
func New(resolver authresolver.Resolver, userID, projectURL, apiKey string, httpClient *http.Client) *Provider {
	client := httpclient.New(strings.TrimRight(projectURL, "/")+"/rest/v1", "Supabase", httpClient)
	client.ExtraHeaders = map[string]string{"apikey": apiKey}
	return &Provider{resolver: resolver, userID: userID, apiKey: apiKey, client: client}
}

func (p *Provider) Name() string { return "supabase" }

func (p *Provider) token(ctx context.Context) (string, error) {
	return p.resolver.Resolve(ctx, p.userID, tokenstore.ProviderSupabase)
}

// doREST issues a PostgREST request, attaching both the apikey header
// (set once on the Client as ExtraHeaders) and the Authorization bearer
// token the shared httpclient.Client sets, plus an optional Prefer
// header for write operations that should echo the affected rows back.
func (p *Provider) doREST(ctx context.Context, method, path string, query url.Values, body interface{}, prefer string) (registry.CallToolResult, error) {
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}

	var out interface{}
	if err := p.client.DoWithPrefer(ctx, method, path, query, token, body, prefer, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return textJSON(out), nil
}

func (p *Provider) query(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	table, err := args.String(a, "table")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	q := url.Values{"select": {args.OptStringDefault(a, "select", "*")}}
	if filter := args.OptString(a, "filter"); filter != "" {
		applyFilterString(q, filter)
	}
	if limit := args.OptInt(a, "limit", 0); limit > 0 {
		q.Set("limit", itoa(limit))
	}
	return p.doREST(ctx, http.MethodGet, "/"+table, q, nil, "")
}

func (p *Provider) insert(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	table, err := args.String(a, "table")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	values := args.Map(a, "values")
	if values == nil {
		return registry.Errorf("argument values is required"), nil
	}
	return p.doREST(ctx, http.MethodPost, "/"+table, nil, values, "return=representation")
}

func (p *Provider) update(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	table, err := args.String(a, "table")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	values := args.Map(a, "values")
	if values == nil {
		return registry.Errorf("argument values is required"), nil
	}
	filter, err := args.String(a, "filter")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	q := url.Values{}
	applyFilterString(q, filter)
	return p.doREST(ctx, http.MethodPatch, "/"+table, q, values, "return=representation")
}

func (p *Provider) delete(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	table, err := args.String(a, "table")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	filter, err := args.String(a, "filter")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	q := url.Values{}
	applyFilterString(q, filter)
	return p.doREST(ctx, http.MethodDelete, "/"+table, q, nil, "return=representation")
}

func (p *Provider) listTables(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	return p.doREST(ctx, http.MethodPost, "/rpc/list_tables", nil, map[string]interface{}{}, "")
}

// applyFilterString parses a "column=eq.value,column2=gt.value2"-shaped
// filter string into PostgREST query params.
func applyFilterString(q url.Values, filter string) {
	for _, clause := range strings.Split(filter, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		parts := strings.SplitN(clause, "=", 2)
		if len(parts) != 2 {
			continue
		}
		q.Set(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	}
}
