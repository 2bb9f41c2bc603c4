package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jleacox/mcp-gateway/internal/toolerr"
)

func TestDo_SendsFullBearerTokenUnmodified(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "Test", srv.Client())
	var out map[string]bool
	err := c.Do(context.Background(), http.MethodGet, "/x", nil, "full-token-value-123", nil, &out)
	require.NoError(t, err)
	require.Equal(t, "Bearer full-token-value-123", gotAuth)
	require.True(t, out["ok"])
}

func TestDo_NonSuccessStatusReturnsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid credentials"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "Gmail", srv.Client())
	err := c.Do(context.Background(), http.MethodGet, "/x", nil, "tok", nil, nil)
	require.Error(t, err)

	var te *toolerr.Error
	require.ErrorAs(t, err, &te)
	require.Equal(t, toolerr.KindAuth, te.Kind)
	require.Equal(t, "Gmail API error: 401 Invalid credentials", te.Error())
}

func TestDo_RetriesTransientServerErrorOnGET(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "Test", srv.Client())
	var out map[string]bool
	err := c.Do(context.Background(), http.MethodGet, "/x", nil, "tok", nil, &out)
	require.NoError(t, err)
	require.True(t, out["ok"])
	require.Equal(t, 3, attempts)
}

func TestDo_DoesNotRetryNonGETOnServerError(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, "Test", srv.Client())
	err := c.Do(context.Background(), http.MethodPost, "/x", nil, "tok", map[string]string{"a": "b"}, nil)
	require.Error(t, err)
	require.Equal(t, 1, attempts)
}

func TestDo_EncodesQueryParams(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "Test", srv.Client())
	q := url.Values{"q": []string{"is:unread"}}
	err := c.Do(context.Background(), http.MethodGet, "/search", q, "tok", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "is:unread", gotQuery.Get("q"))
}
