package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	ghsdk "github.com/google/go-github/v74/github"
	"github.com/stretchr/testify/require"
)

func testClientAgainst(srv *httptest.Server) *ghsdk.Client {
	client := ghsdk.NewClient(srv.Client())
	client.BaseURL, _ = client.BaseURL.Parse(srv.URL + "/")
	return client
}

func TestRetryGet_RetriesTransientServerError(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"id":1,"full_name":"jason/mcp-gateway"}`)
	}))
	defer srv.Close()

	client := testClientAgainst(srv)
	repo, err := retryGet(context.Background(), func() (*ghsdk.Repository, *ghsdk.Response, error) {
		return client.Repositories.Get(context.Background(), "jason", "mcp-gateway")
	})
	require.NoError(t, err)
	require.Equal(t, "jason/mcp-gateway", repo.GetFullName())
	require.Equal(t, 3, attempts)
}

func TestRetryGet_DoesNotRetryClientError(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	}))
	defer srv.Close()

	client := testClientAgainst(srv)
	_, err := retryGet(context.Background(), func() (*ghsdk.Repository, *ghsdk.Response, error) {
		return client.Repositories.Get(context.Background(), "jason", "mcp-gateway")
	})
	require.Error(t, err)
	require.Equal(t, 1, attempts)
}
