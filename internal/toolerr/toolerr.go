// Package toolerr formats upstream and handler-level failures into the
// CallToolResult error shape the AI client can read and retry, per
// SPEC_FULL §7's taxonomy. It deliberately does not attempt the teacher's
// full ErrorCode/ErrorSeverity hierarchy (pkg/models/errors.go) — this
// system has one audience (a single MCP client) and five handler-level
// kinds of error are enough to describe everything it can see. The
// protocol and method-unknown kinds are JSON-RPC error codes, defined in
// internal/jsonrpc.
package toolerr

import "fmt"

// Kind tags a failure with the taxonomy bucket it belongs to, for
// logging and metrics labels. It is not sent to the client directly.
type Kind string

const (
	KindInvalidParams Kind = "invalid_params"
	KindUpstream      Kind = "upstream"
	KindAuth          Kind = "auth"
	KindTimeout       Kind = "timeout"
	KindInternal      Kind = "internal"
)

// Error is a handler-level failure carrying enough context to become a
// plain-text CallToolResult message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an Error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Upstream formats a failure returned by an upstream API (GitHub, Google,
// Supabase) as "<service> API error: <status> <message>", the message
// shape SPEC_FULL §7 gives as the example ("Gmail API error: 401 Invalid
// credentials").
func Upstream(service string, status int, message string) *Error {
	return &Error{
		Kind:    classifyStatus(status),
		Message: fmt.Sprintf("%s API error: %d %s", service, status, message),
	}
}

func classifyStatus(status int) Kind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status >= 400 && status < 500:
		return KindUpstream
	default:
		return KindUpstream
	}
}

// AuthRemediation formats a broker auth failure ("no_credentials" or
// "refresh_failed") with a remediation hint pointing the user at the
// authorization URL.
func AuthRemediation(provider string, cause error) *Error {
	return &Error{
		Kind: KindAuth,
		Message: fmt.Sprintf(
			"%s is not connected or its credentials could not be refreshed (%s). Visit /auth/%s to reconnect.",
			provider, cause, provider),
	}
}
