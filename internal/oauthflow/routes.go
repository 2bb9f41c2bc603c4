// Package oauthflow wires the Broker's authorization-code flow onto HTTP:
// the redirect, the callback, and the internal token endpoint the Auth
// Resolver's HTTP transport calls, per SPEC_FULL §4.5/§6.
package oauthflow

import (
	"html"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jleacox/mcp-gateway/internal/broker"
	"github.com/jleacox/mcp-gateway/internal/logging"
	"github.com/jleacox/mcp-gateway/internal/tokenstore"
)

// Runner registers the Broker's three HTTP routes onto a gin.Engine.
type Runner struct {
	broker *broker.Broker
	log    logging.Logger
}

// New builds a Runner around b.
func New(b *broker.Broker, log logging.Logger) *Runner {
	return &Runner{broker: b, log: log}
}

// Register attaches /auth/:provider, /callback/:provider, and
// /token/:provider to r.
func (run *Runner) Register(r gin.IRouter) {
	r.GET("/auth/:provider", run.beginAuth)
	r.GET("/callback/:provider", run.callback)
	r.POST("/token/:provider", run.issueToken)
}

func (run *Runner) beginAuth(c *gin.Context) {
	provider := tokenstore.Provider(c.Param("provider"))
	userID := c.Query("user_id")
	if userID == "" {
		c.String(http.StatusBadRequest, "missing user_id")
		return
	}

	authURL, err := run.broker.BeginAuth(userID, provider)
	if err != nil {
		run.log.Warn("begin_auth failed", logging.Fields{"provider": provider, "error": err.Error()})
		c.String(http.StatusBadRequest, "unknown provider")
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

func (run *Runner) callback(c *gin.Context) {
	provider := tokenstore.Provider(c.Param("provider"))
	code := c.Query("code")
	state := c.Query("state")

	if err := run.broker.CompleteAuth(c.Request.Context(), provider, code, state); err != nil {
		run.log.Error("complete_auth failed", logging.Fields{"provider": provider, "error": err.Error()})
		c.Data(http.StatusBadGateway, "text/html; charset=utf-8", []byte(
			"<html><body><h1>Authorization failed</h1><p>"+html.EscapeString(err.Error())+"</p></body></html>"))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(
		"<html><body><h1>Success</h1><p>You may close this window.</p></body></html>"))
}

type tokenRequestBody struct {
	UserID string `json:"user_id"`
}

type tokenResponseBody struct {
	AccessToken string `json:"access_token,omitempty"`
	ExpiresAt   int64  `json:"expires_at,omitempty"`
	Error       string `json:"error,omitempty"`
}

// issueToken serves the Auth Resolver's HTTPS fallback transport.
func (run *Runner) issueToken(c *gin.Context) {
	provider := tokenstore.Provider(c.Param("provider"))
	var body tokenRequestBody
	if err := c.ShouldBindJSON(&body); err != nil || body.UserID == "" {
		c.JSON(http.StatusBadRequest, tokenResponseBody{Error: "missing user_id"})
		return
	}

	rec, err := run.broker.IssueToken(c.Request.Context(), body.UserID, provider)
	if err != nil {
		status := http.StatusBadGateway
		if err == broker.ErrNoCredentials {
			status = http.StatusNotFound
		}
		c.JSON(status, tokenResponseBody{Error: errKind(err)})
		return
	}
	c.JSON(http.StatusOK, tokenResponseBody{AccessToken: rec.AccessToken, ExpiresAt: rec.ExpiresAtMS / 1000})
}

func errKind(err error) string {
	switch {
	case err == broker.ErrNoCredentials:
		return "no_credentials"
	default:
		return "refresh_failed"
	}
}
