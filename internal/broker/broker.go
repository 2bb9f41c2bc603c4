// Package broker implements the OAuth Broker: custodian of TokenRecords,
// issuer of valid access tokens on demand, and runner of the authorization-
// code OAuth flow, per SPEC_FULL §4.5.
package broker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/jleacox/mcp-gateway/internal/logging"
	"github.com/jleacox/mcp-gateway/internal/tokenstore"
)

// Sentinel errors matching the "no_credentials" / "refresh_failed" kinds
// named in SPEC_FULL §4.5.
var (
	ErrNoCredentials = errors.New("no_credentials")
	ErrRefreshFailed = errors.New("refresh_failed")
)

// ProviderConfig is the static per-provider OAuth metadata loaded from
// operator-supplied secrets at startup. Immutable once built.
type ProviderConfig struct {
	AuthEndpoint  string
	TokenEndpoint string
	ClientID      string
	ClientSecret  string
	Scope         string
	RedirectURI   string
}

func (pc ProviderConfig) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     pc.ClientID,
		ClientSecret: pc.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  pc.AuthEndpoint,
			TokenURL: pc.TokenEndpoint,
		},
		RedirectURL: pc.RedirectURI,
		Scopes:      []string{pc.Scope},
	}
}

// Broker is the OAuth credential custodian. One Broker is constructed at
// startup and either embedded directly in the gateway process (bound
// transport) or run standalone behind its own HTTP routes (internal/
// oauthflow).
type Broker struct {
	store     *tokenstore.Store
	providers map[tokenstore.Provider]ProviderConfig
	log       logging.Logger

	// lockTable serializes refreshes per (user_id, provider): SPEC_FULL §5
	// resolves the refresh race to a per-key mutex rather than idempotent
	// refresh, to avoid two concurrent Google refreshes each discarding the
	// other's rotated refresh_token.
	lockTableMu sync.Mutex
	lockTable   map[string]*sync.Mutex
}

// New builds a Broker backed by store, with the given per-provider
// configuration.
func New(store *tokenstore.Store, providers map[tokenstore.Provider]ProviderConfig, log logging.Logger) *Broker {
	return &Broker{
		store:     store,
		providers: providers,
		log:       log,
		lockTable: make(map[string]*sync.Mutex),
	}
}

func (b *Broker) keyLock(key string) *sync.Mutex {
	b.lockTableMu.Lock()
	defer b.lockTableMu.Unlock()
	m, ok := b.lockTable[key]
	if !ok {
		m = &sync.Mutex{}
		b.lockTable[key] = m
	}
	return m
}

// IssueToken returns a currently-valid access token for (userID, provider),
// refreshing first if the stored token is stale or if provider is Google
// (Google's scope/refresh-token rotation means every issuance needs a fresh
// refresh, per SPEC_FULL §4.5's Google quirk).
func (b *Broker) IssueToken(ctx context.Context, userID string, provider tokenstore.Provider) (tokenstore.Record, error) {
	key := tokenstore.Key(userID, provider)
	lock := b.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	rec, ok := b.store.Get(userID, provider)
	if !ok {
		return tokenstore.Record{}, ErrNoCredentials
	}

	needsRefresh := rec.RefreshToken != "" && (provider == tokenstore.ProviderGoogle || msUntilExpiry(rec.ExpiresAtMS) <= 60*time.Second)
	if !needsRefresh {
		return rec, nil
	}

	refreshed, err := b.refresh(ctx, rec)
	if err != nil {
		b.log.Error("token refresh failed", logging.Fields{"provider": provider, "user_id": userID, "error": err.Error()})
		return tokenstore.Record{}, fmt.Errorf("%w: %s", ErrRefreshFailed, err)
	}
	if err := b.store.Put(refreshed); err != nil {
		return tokenstore.Record{}, fmt.Errorf("%w: persisting refreshed token: %s", ErrRefreshFailed, err)
	}
	return refreshed, nil
}

func msUntilExpiry(expiresAtMS int64) time.Duration {
	return time.Until(time.UnixMilli(expiresAtMS))
}

// refresh exchanges rec's refresh_token for a new access token using the
// provider's token endpoint via golang.org/x/oauth2. Forcing a refresh
// through the library (rather than letting it decide the token is still
// valid) is done by handing TokenSource an already-expired oauth2.Token, so
// the very first Token() call performs the network round trip.
func (b *Broker) refresh(ctx context.Context, rec tokenstore.Record) (tokenstore.Record, error) {
	pc, ok := b.providers[rec.Provider]
	if !ok {
		return tokenstore.Record{}, fmt.Errorf("no provider config for %s", rec.Provider)
	}

	cfg := pc.oauth2Config()
	stale := &oauth2.Token{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		Expiry:       time.Now().Add(-time.Hour),
	}
	tok, err := cfg.TokenSource(ctx, stale).Token()
	if err != nil {
		return tokenstore.Record{}, err
	}

	newRefresh := rec.RefreshToken
	if tok.RefreshToken != "" {
		// Google may rotate the refresh token on any issuance. When the
		// provider returns no new one, the branch is skipped and the
		// original (non-empty) refresh_token is kept.
		newRefresh = tok.RefreshToken
	}

	return tokenstore.Record{
		UserID:       rec.UserID,
		Provider:     rec.Provider,
		AccessToken:  tok.AccessToken,
		RefreshToken: newRefresh,
		ExpiresAtMS:  tok.Expiry.UnixMilli(),
		Scope:        rec.Scope,
	}, nil
}

// BeginAuth builds the authorization URL a user visits to consent, per
// SPEC_FULL §4.5. Google additionally requests offline access and forces
// the consent screen so a refresh token is issued on every authorization;
// GitHub omits both since it never issues refresh tokens.
func (b *Broker) BeginAuth(userID string, provider tokenstore.Provider) (string, error) {
	pc, ok := b.providers[provider]
	if !ok {
		return "", fmt.Errorf("unknown provider %q", provider)
	}
	cfg := pc.oauth2Config()

	opts := []oauth2.AuthCodeOption{}
	if provider == tokenstore.ProviderGoogle {
		opts = append(opts, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	}
	return cfg.AuthCodeURL(userID, opts...), nil
}

// CompleteAuth exchanges an authorization code for tokens and persists the
// resulting TokenRecord under (state, provider), where state is the user_id
// echoed back by the upstream provider's redirect.
func (b *Broker) CompleteAuth(ctx context.Context, provider tokenstore.Provider, code string, state string) error {
	pc, ok := b.providers[provider]
	if !ok {
		return fmt.Errorf("unknown provider %q", provider)
	}
	if state == "" {
		return fmt.Errorf("missing state")
	}

	cfg := pc.oauth2Config()
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchanging code: %w", err)
	}

	rec := tokenstore.Record{
		UserID:       state,
		Provider:     provider,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAtMS:  tok.Expiry.UnixMilli(),
		Scope:        pc.Scope,
	}
	return b.store.Put(rec)
}

// HTTPClient exposes the client used for outbound OAuth calls, so tests can
// swap it via oauth2's context-embedded client (context.WithValue(ctx,
// oauth2.HTTPClient, client)) without touching Broker internals.
func HTTPClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, client)
}
