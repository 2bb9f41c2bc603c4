package github

import (
	"encoding/json"

	ghsdk "github.com/google/go-github/v74/github"

	"github.com/jleacox/mcp-gateway/internal/registry"
	"github.com/jleacox/mcp-gateway/internal/toolerr"
)

// asResult formats v as the tool's success payload, or err as a
// CallToolResult error per SPEC_FULL §4.3 step 4 — upstream 4xx/5xx
// become a textual, status-carrying error rather than a Go error
// propagating to the gateway layer.
func asResult(v interface{}, err error) (registry.CallToolResult, error) {
	if err != nil {
		return registry.Errorf("%s", wrapErr(err).Error()), nil
	}
	data, marshalErr := json.MarshalIndent(v, "", "  ")
	if marshalErr != nil {
		return registry.CallToolResult{}, marshalErr
	}
	return registry.Text(string(data)), nil
}

func wrapErr(err error) *toolerr.Error {
	if te, ok := err.(*toolerr.Error); ok {
		return te
	}
	if ghErr, ok := err.(*ghsdk.ErrorResponse); ok {
		status := 0
		if ghErr.Response != nil {
			status = ghErr.Response.StatusCode
		}
		return toolerr.Upstream("GitHub", status, ghErr.Message)
	}
	return toolerr.New(toolerr.KindInternal, "%s", err.Error())
}
