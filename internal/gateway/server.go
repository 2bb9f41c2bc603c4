package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jleacox/mcp-gateway/internal/jsonrpc"
	"github.com/jleacox/mcp-gateway/internal/logging"
)

// Server is the Gateway's HTTP surface: one JSON-RPC endpoint plus health
// and metrics, per SPEC_FULL §6. Grounded on
// apps/edge-mcp/cmd/server/main.go's gin wiring, trimmed of the WebSocket
// upgrade path this system has no use for — the gateway is a plain
// request/response POST endpoint, not a long-lived session transport.
type Server struct {
	handler *Handler
	log     logging.Logger
	engine  *gin.Engine
}

// NewServer builds a gin.Engine wired with the gateway's routes.
func NewServer(handler *Handler, log logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, jsonrpc.Response{
			JSONRPC: jsonrpc.Version,
			ID:      jsonrpc.NullID,
			Error:   jsonrpc.NewError(jsonrpc.CodeInternalError, "internal error"),
		})
	}))

	s := &Server{handler: handler, log: log, engine: engine}

	engine.GET("/healthz", s.handleHealthz)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.POST("/rpc", s.handleRPC)
	engine.OPTIONS("/rpc", s.handleOptions)
	engine.NoMethod(func(c *gin.Context) {
		if c.Request.URL.Path != "/rpc" {
			c.Status(http.StatusMethodNotAllowed)
			return
		}
		c.Header("Content-Type", "application/json")
		c.JSON(http.StatusMethodNotAllowed, jsonrpc.Response{
			JSONRPC: jsonrpc.Version,
			ID:      jsonrpc.NullID,
			Error:   jsonrpc.NewError(jsonrpc.CodeInvalidRequest, "only POST and OPTIONS are supported on /rpc"),
		})
	})

	return s
}

// Engine returns the underlying gin.Engine, for tests and for
// cmd/gateway to mount additional route groups (the oauthflow routes,
// when the broker is co-resident).
func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleOptions(c *gin.Context) {
	s.setCORSHeaders(c)
	c.Status(http.StatusNoContent)
}

func (s *Server) setCORSHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func (s *Server) handleRPC(c *gin.Context) {
	s.setCORSHeaders(c)

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
	}
	c.Header("X-Request-ID", requestID)

	var req jsonrpc.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, jsonrpc.Response{
			JSONRPC: jsonrpc.Version,
			ID:      jsonrpc.NullID,
			Error:   jsonrpc.NewError(jsonrpc.CodeInvalidRequest, "invalid JSON-RPC request: "+err.Error()),
		})
		return
	}
	if req.JSONRPC != jsonrpc.Version {
		c.JSON(http.StatusBadRequest, jsonrpc.Fail(req, jsonrpc.NewError(jsonrpc.CodeInvalidRequest, "unsupported jsonrpc version: "+req.JSONRPC)))
		return
	}

	ctx := WithRequestID(c.Request.Context(), requestID)
	resp := s.handler.Handle(ctx, req)
	c.JSON(http.StatusOK, resp)
}

// NewHTTPServer wraps engine in a hardened http.Server, per the teacher's
// Slowloris-resistant timeout set.
func NewHTTPServer(addr string, engine http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Shutdown performs a staged graceful shutdown of srv, per SPEC_FULL §2.1:
// this system has no connection pool or cache to drain beyond the HTTP
// server itself, so the teacher's multi-phase drain collapses to one
// bounded http.Server.Shutdown call.
func Shutdown(ctx context.Context, srv *http.Server, log logging.Logger) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	log.Info("shutting down HTTP server", nil)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", logging.Fields{"error": err.Error()})
		return err
	}
	return nil
}
