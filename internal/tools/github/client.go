// Package github implements the GitHub tool handlers, per SPEC_FULL
// §4.3's catalog, built on google/go-github/v74. Grounded on
// pkg/tools/providers/github/github_client.go's REST-client construction
// (oauth2.StaticTokenSource → oauth2.NewClient → github.NewClient,
// GitHub Enterprise host branching); this system drops the teacher's
// GraphQL/Raw client trio since the catalog only ever needs REST calls.
package github

import (
	"context"
	"errors"
	"fmt"

	ghsdk "github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"

	"github.com/jleacox/mcp-gateway/internal/authresolver"
	"github.com/jleacox/mcp-gateway/internal/resilience"
	"github.com/jleacox/mcp-gateway/internal/tokenstore"
)

func newClient(ctx context.Context, token, host string) *ghsdk.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(ctx, ts)
	client := ghsdk.NewClient(httpClient)
	client.UserAgent = "mcp-gateway-github/1.0"
	if host != "" && host != "github.com" {
		client.BaseURL, _ = client.BaseURL.Parse(fmt.Sprintf("https://%s/api/v3/", host))
	}
	return client
}

// Provider implements registry.Provider for GitHub tools.
type Provider struct {
	resolver authresolver.Resolver
	userID   string
	host     string
}

// New builds a GitHub Provider. host may be empty (github.com) or a
// GitHub Enterprise hostname.
func New(resolver authresolver.Resolver, userID, host string) *Provider {
	return &Provider{resolver: resolver, userID: userID, host: host}
}

func (p *Provider) Name() string { return "github" }

func (p *Provider) client(ctx context.Context) (*ghsdk.Client, error) {
	token, err := p.resolver.Resolve(ctx, p.userID, tokenstore.ProviderGitHub)
	if err != nil {
		return nil, err
	}
	return newClient(ctx, token, p.host), nil
}

// retryGet wraps a read-only GitHub SDK call with the shared exponential
// backoff policy, discarding the SDK's *ghsdk.Response (handlers only
// need the decoded value and the error) and retrying only transient
// failures — network errors and 5xx responses — never a 4xx, which
// retrying would not fix. Only list_*/get_*/search_* handlers call this;
// the catalog's write operations must not be silently retried per
// SPEC_FULL §7.
func retryGet[T any](ctx context.Context, call func() (T, *ghsdk.Response, error)) (T, error) {
	config := resilience.DefaultRetryConfig()
	config.RetryIfFn = func(err error) bool {
		var ghErr *ghsdk.ErrorResponse
		if errors.As(err, &ghErr) {
			return ghErr.Response != nil && ghErr.Response.StatusCode >= 500
		}
		return true
	}
	return resilience.RetryWithResult(ctx, config, func() (T, error) {
		v, _, err := call()
		return v, err
	})
}
