// Package authresolver implements the Auth Resolver: the single
// resolve(user_id, provider) -> access_token call that hides whether the
// Broker is reachable in-process or over HTTPS, per SPEC_FULL §4.4.
package authresolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jleacox/mcp-gateway/internal/broker"
	"github.com/jleacox/mcp-gateway/internal/tokenstore"
)

// Resolver hides the bound-vs-HTTP transport choice from tool handlers.
type Resolver interface {
	Resolve(ctx context.Context, userID string, provider tokenstore.Provider) (string, error)
}

// StaticKeys short-circuits resolution for non-OAuth providers (Supabase,
// Anthropic) straight to an operator-configured API key, bypassing the
// Broker entirely.
type StaticKeys map[tokenstore.Provider]string

// bound calls the embedded Broker directly: no serialization, no network.
// This is the preferred transport, used whenever the gateway process
// embeds its own Broker.
type bound struct {
	b    *broker.Broker
	keys StaticKeys
}

// NewBound returns a Resolver that calls b in-process.
func NewBound(b *broker.Broker, keys StaticKeys) Resolver {
	return &bound{b: b, keys: keys}
}

func (r *bound) Resolve(ctx context.Context, userID string, provider tokenstore.Provider) (string, error) {
	if key, ok := r.keys[provider]; ok {
		return key, nil
	}
	rec, err := r.b.IssueToken(ctx, userID, provider)
	if err != nil {
		return "", err
	}
	return rec.AccessToken, nil
}

// httpResolver is the fallback transport: it POSTs {user_id} to
// <brokerBaseURL>/token/{provider} and expects {access_token, expires_at}
// back. Used only when this process does not embed its own Broker — e.g.
// a tool-handler-only deployment pointed at a separately-run broker
// process via OAUTH_BROKER_URL.
type httpResolver struct {
	baseURL string
	client  *http.Client
	keys    StaticKeys
}

// NewHTTP returns a Resolver that calls a Broker running in a separate
// process at brokerBaseURL. If httpClient is nil, http.DefaultClient with
// a bounded timeout is used.
func NewHTTP(brokerBaseURL string, httpClient *http.Client, keys StaticKeys) Resolver {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &httpResolver{baseURL: brokerBaseURL, client: httpClient, keys: keys}
}

type tokenRequest struct {
	UserID string `json:"user_id"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
	Error       string `json:"error"`
}

func (r *httpResolver) Resolve(ctx context.Context, userID string, provider tokenstore.Provider) (string, error) {
	if key, ok := r.keys[provider]; ok {
		return key, nil
	}

	body, err := json.Marshal(tokenRequest{UserID: userID})
	if err != nil {
		return "", fmt.Errorf("authresolver: encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/token/%s", r.baseURL, provider)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("authresolver: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("authresolver: calling broker: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("authresolver: reading broker response: %w", err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(data, &tr); err != nil {
		return "", fmt.Errorf("authresolver: decoding broker response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if tr.Error != "" {
			return "", fmt.Errorf("authresolver: broker returned %s", tr.Error)
		}
		return "", fmt.Errorf("authresolver: broker returned status %d", resp.StatusCode)
	}
	return tr.AccessToken, nil
}
