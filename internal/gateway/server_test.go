package gateway

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jleacox/mcp-gateway/internal/logging"
)

func serverWithNoopLog(t *testing.T) *Server {
	t.Helper()
	return NewServer(testHandler(t), logging.NewNoop())
}

func TestHealthz_ReturnsOK(t *testing.T) {
	s := serverWithNoopLog(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"ok"`)
}

func TestRPC_DispatchesValidRequest(t *testing.T) {
	s := serverWithNoopLog(t)
	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"jsonrpc":"2.0"`)
}

func TestRPC_MalformedBodyReturnsInvalidRequestError(t *testing.T) {
	s := serverWithNoopLog(t)
	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewBufferString(`not json`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), `"code":-32600`)
}

func TestRPC_SetsCORSHeaders(t *testing.T) {
	s := serverWithNoopLog(t)
	req := httptest.NewRequest(http.MethodOptions, "/rpc", nil)
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRPC_GeneratesRequestIDWhenAbsent(t *testing.T) {
	s := serverWithNoopLog(t)
	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRPC_EchoesInboundRequestID(t *testing.T) {
	s := serverWithNoopLog(t)
	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "caller-supplied-id")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	require.Equal(t, "caller-supplied-id", w.Header().Get("X-Request-ID"))
}

func TestRPC_DisallowedMethodReturnsJSONRPCError(t *testing.T) {
	s := serverWithNoopLog(t)
	req := httptest.NewRequest(http.MethodGet, "/rpc", nil)
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	require.Contains(t, w.Body.String(), `"code":-32600`)
}
