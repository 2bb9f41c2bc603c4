// Package gmail implements the Gmail tool handlers, per SPEC_FULL
// §4.3's catalog, over the Gmail v1 REST API
// (https://gmail.googleapis.com/gmail/v1/users/me). Shares the Google
// OAuth token with Calendar and Drive. extract_dates_from_email is the
// one handler with non-trivial internal algorithm; see extractdates.go.
package gmail

import (
	"context"
	"net/http"

	"github.com/jleacox/mcp-gateway/internal/anthropic"
	"github.com/jleacox/mcp-gateway/internal/authresolver"
	"github.com/jleacox/mcp-gateway/internal/tokenstore"
	"github.com/jleacox/mcp-gateway/internal/tools/httpclient"
)

const gmailBaseURL = "https://gmail.googleapis.com/gmail/v1/users/me"

// Provider implements registry.Provider for Gmail tools.
type Provider struct {
	resolver  authresolver.Resolver
	userID    string
	client    *httpclient.Client
	anthropic *anthropic.Client // nil if no Anthropic API key is configured
}

// New builds a Gmail Provider. httpClient may be nil to use the default
// transport. anthropicClient may be nil: extract_dates_from_email falls
// back to its regex algorithm when no AI client is configured.
func New(resolver authresolver.Resolver, userID string, httpClient *http.Client, anthropicClient *anthropic.Client) *Provider {
	return &Provider{
		resolver:  resolver,
		userID:    userID,
		client:    httpclient.New(gmailBaseURL, "Gmail", httpClient),
		anthropic: anthropicClient,
	}
}

func (p *Provider) Name() string { return "gmail" }

func (p *Provider) token(ctx context.Context) (string, error) {
	return p.resolver.Resolve(ctx, p.userID, tokenstore.ProviderGoogle)
}
