// Package httpclient is the shared authenticated-JSON-REST helper tool
// handlers build on: Google Calendar, Drive, Gmail, and Supabase all
// speak plain HTTPS+JSON, so the per-handler code only needs to supply a
// method, path, query, and body. Grounded on the teacher's
// apps/edge-mcp/internal/core/client.go doRequest helper (context-aware,
// authenticated HTTP call with status-code interpretation).
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jleacox/mcp-gateway/internal/resilience"
	"github.com/jleacox/mcp-gateway/internal/toolerr"
)

// rawResponse holds a round trip's raw result, before status-code
// interpretation, so the GET retry wrapper below can decide whether a
// 5xx is worth retrying without re-parsing it at each call site.
type rawResponse struct {
	status int
	data   []byte
}

// doRoundTrip issues req once and, for GET requests only, retries
// transient failures (network errors and 5xx responses) per SPEC_FULL
// §7 — idempotent reads are safe to retry automatically; writes are not
// and must never pass through this wrapper.
func doRoundTrip(ctx context.Context, httpClient *http.Client, req *http.Request) (rawResponse, error) {
	roundTrip := func() (rawResponse, error) {
		resp, err := httpClient.Do(req)
		if err != nil {
			return rawResponse{}, resilience.NewRetryableError(err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return rawResponse{}, resilience.NewRetryableError(err)
		}
		if resp.StatusCode >= 500 {
			return rawResponse{status: resp.StatusCode, data: data}, resilience.NewRetryableError(
				fmt.Errorf("%s %d", req.URL.Path, resp.StatusCode))
		}
		return rawResponse{status: resp.StatusCode, data: data}, nil
	}

	if req.Method != http.MethodGet {
		return roundTrip()
	}
	return resilience.RetryWithResult(ctx, resilience.DefaultRetryConfig(), roundTrip)
}

// Client issues bearer-authenticated JSON requests against a single base
// URL.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	// Service names the upstream in error messages ("Gmail API error: ...").
	Service string
	// ExtraHeaders are set on every request this Client issues, after the
	// Authorization header — for upstreams that need more than bearer
	// auth (Supabase's PostgREST also requires an apikey header).
	ExtraHeaders map[string]string
}

// New builds a Client. If httpClient is nil, http.DefaultClient is used.
func New(baseURL, service string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{BaseURL: baseURL, HTTP: httpClient, Service: service}
}

// Do issues method to path (joined to BaseURL) with query params, a JSON
// body (nil for none), and the given bearer token. It unmarshals a 2xx
// response body into out (nil to discard) and returns a *toolerr.Error
// for any non-2xx status, per SPEC_FULL §4.3's common handler contract
// step 4.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, token string, body interface{}, out interface{}) error {
	return c.DoWithPrefer(ctx, method, path, query, token, body, "", out)
}

// DoWithPrefer behaves like Do but additionally sets a Prefer header when
// prefer is non-empty, the mechanism PostgREST uses to ask for affected
// rows to be echoed back on writes.
func (c *Client) DoWithPrefer(ctx context.Context, method, path string, query url.Values, token string, body interface{}, prefer string, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("httpclient: encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	full := c.BaseURL + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, full, reader)
	if err != nil {
		return fmt.Errorf("httpclient: building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// The full, untruncated token must be sent: truncating it (even for
	// logging) is a breaking bug per SPEC_FULL §4.3.
	req.Header.Set("Authorization", "Bearer "+token)
	for k, v := range c.ExtraHeaders {
		req.Header.Set(k, v)
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	raw, err := doRoundTrip(ctx, c.HTTP, req)
	if raw.status == 0 {
		return fmt.Errorf("httpclient: calling %s: %w", c.Service, err)
	}

	if raw.status < 200 || raw.status >= 300 {
		return toolerr.Upstream(c.Service, raw.status, upstreamMessage(raw.data))
	}
	if out == nil || len(raw.data) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw.data, out); err != nil {
		return fmt.Errorf("httpclient: decoding %s response: %w", c.Service, err)
	}
	return nil
}

// DoRaw behaves like Do but returns the raw response body bytes instead
// of JSON-decoding them, for endpoints that return binary or non-JSON
// payloads (Drive media downloads and exports).
func (c *Client) DoRaw(ctx context.Context, method, path string, query url.Values, token string, out *[]byte) error {
	full := c.BaseURL + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, full, nil)
	if err != nil {
		return fmt.Errorf("httpclient: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	raw, err := doRoundTrip(ctx, c.HTTP, req)
	if raw.status == 0 {
		return fmt.Errorf("httpclient: calling %s: %w", c.Service, err)
	}
	if raw.status < 200 || raw.status >= 300 {
		return toolerr.Upstream(c.Service, raw.status, upstreamMessage(raw.data))
	}
	*out = raw.data
	return nil
}

// DoMultipart issues a multipart/related request (Drive's upload
// protocol): the caller has already assembled the multipart body and
// boundary; DoMultipart just sets headers and decodes the JSON response.
func (c *Client) DoMultipart(ctx context.Context, method, path string, query url.Values, token, boundary, body string, out interface{}) error {
	full := c.BaseURL + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, full, bytes.NewReader([]byte(body)))
	if err != nil {
		return fmt.Errorf("httpclient: building request: %w", err)
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+boundary)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: calling %s: %w", c.Service, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: reading %s response: %w", c.Service, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return toolerr.Upstream(c.Service, resp.StatusCode, upstreamMessage(data))
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("httpclient: decoding %s response: %w", c.Service, err)
	}
	return nil
}

func upstreamMessage(data []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		if envelope.Error.Message != "" {
			return envelope.Error.Message
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	if len(data) > 300 {
		data = data[:300]
	}
	return string(data)
}
