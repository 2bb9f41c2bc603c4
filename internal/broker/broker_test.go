package broker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jleacox/mcp-gateway/internal/logging"
	"github.com/jleacox/mcp-gateway/internal/tokenstore"
)

func newTestTokenServer(t *testing.T, accessToken string, refreshToken string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "refresh_token", r.Form.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"access_token": accessToken,
			"expires_in":   3600,
		}
		if refreshToken != "" {
			resp["refresh_token"] = refreshToken
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestBroker_IssueToken_NoCredentials(t *testing.T) {
	store, err := tokenstore.New("", "")
	require.NoError(t, err)
	b := New(store, nil, logging.NewNoop())

	_, err = b.IssueToken(context.Background(), "jason", tokenstore.ProviderGitHub)
	require.ErrorIs(t, err, ErrNoCredentials)
}

func TestBroker_IssueToken_GitHubSkipsRefreshWhenFresh(t *testing.T) {
	store, err := tokenstore.New("", "")
	require.NoError(t, err)
	require.NoError(t, store.Put(tokenstore.Record{
		UserID: "jason", Provider: tokenstore.ProviderGitHub,
		AccessToken: "ghp_live", ExpiresAtMS: time.Now().Add(time.Hour).UnixMilli(),
	}))
	b := New(store, nil, logging.NewNoop())

	rec, err := b.IssueToken(context.Background(), "jason", tokenstore.ProviderGitHub)
	require.NoError(t, err)
	require.Equal(t, "ghp_live", rec.AccessToken)
}

func TestBroker_IssueToken_RefreshesExpiredToken(t *testing.T) {
	srv := newTestTokenServer(t, "new-access", "new-refresh")
	defer srv.Close()

	store, err := tokenstore.New("", "")
	require.NoError(t, err)
	require.NoError(t, store.Put(tokenstore.Record{
		UserID: "jason", Provider: tokenstore.ProviderGitHub,
		AccessToken: "old-access", RefreshToken: "old-refresh",
		ExpiresAtMS: time.Now().Add(-time.Minute).UnixMilli(),
	}))

	providers := map[tokenstore.Provider]ProviderConfig{
		tokenstore.ProviderGitHub: {TokenEndpoint: srv.URL, ClientID: "id", ClientSecret: "secret"},
	}
	b := New(store, providers, logging.NewNoop())
	ctx := HTTPClient(context.Background(), srv.Client())

	rec, err := b.IssueToken(ctx, "jason", tokenstore.ProviderGitHub)
	require.NoError(t, err)
	require.Equal(t, "new-access", rec.AccessToken)
	require.True(t, rec.ExpiresAtMS > time.Now().UnixMilli())
}

func TestBroker_IssueToken_GoogleAlwaysRefreshesEvenWhenFresh(t *testing.T) {
	srv := newTestTokenServer(t, "rotated-access", "")
	defer srv.Close()

	store, err := tokenstore.New("", "")
	require.NoError(t, err)
	require.NoError(t, store.Put(tokenstore.Record{
		UserID: "jason", Provider: tokenstore.ProviderGoogle,
		AccessToken: "still-valid", RefreshToken: "refresh-tok",
		ExpiresAtMS: time.Now().Add(time.Hour).UnixMilli(),
	}))

	providers := map[tokenstore.Provider]ProviderConfig{
		tokenstore.ProviderGoogle: {TokenEndpoint: srv.URL, ClientID: "id", ClientSecret: "secret"},
	}
	b := New(store, providers, logging.NewNoop())
	ctx := HTTPClient(context.Background(), srv.Client())

	rec, err := b.IssueToken(ctx, "jason", tokenstore.ProviderGoogle)
	require.NoError(t, err)
	require.Equal(t, "rotated-access", rec.AccessToken)
}

func TestBroker_BeginAuth_GoogleRequestsOfflineAndConsent(t *testing.T) {
	providers := map[tokenstore.Provider]ProviderConfig{
		tokenstore.ProviderGoogle: {AuthEndpoint: "https://accounts.google.com/o/oauth2/auth", ClientID: "id", Scope: "cal"},
	}
	b := New(nil, providers, logging.NewNoop())

	authURL, err := b.BeginAuth("jason", tokenstore.ProviderGoogle)
	require.NoError(t, err)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	q := u.Query()
	require.Equal(t, "jason", q.Get("state"))
	require.Equal(t, "offline", q.Get("access_type"))
	require.Equal(t, "consent", q.Get("prompt"))
}

func TestBroker_BeginAuth_GitHubOmitsGoogleOnlyParams(t *testing.T) {
	providers := map[tokenstore.Provider]ProviderConfig{
		tokenstore.ProviderGitHub: {AuthEndpoint: "https://github.com/login/oauth/authorize", ClientID: "id", Scope: "repo"},
	}
	b := New(nil, providers, logging.NewNoop())

	authURL, err := b.BeginAuth("jason", tokenstore.ProviderGitHub)
	require.NoError(t, err)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	q := u.Query()
	require.Equal(t, "jason", q.Get("state"))
	require.Empty(t, q.Get("access_type"))
	require.Empty(t, q.Get("prompt"))
}
