package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name  string
	tools []Tool
}

func (f *fakeProvider) Name() string     { return f.name }
func (f *fakeProvider) ListTools() []Tool { return f.tools }
func (f *fakeProvider) CallTool(ctx context.Context, name string, args map[string]interface{}) (CallToolResult, error) {
	for _, t := range f.tools {
		if t.Name == name {
			return t.Handler(ctx, args)
		}
	}
	return CallToolResult{}, nil
}

func echoTool(name string) Tool {
	return Tool{
		Name: name,
		Handler: func(ctx context.Context, args map[string]interface{}) (CallToolResult, error) {
			return Text(name), nil
		},
	}
}

func TestRegistry_ListIsDeterministicByProviderThenName(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(&fakeProvider{name: "gmail", tools: []Tool{echoTool("gmail_b"), echoTool("gmail_a")}}))
	require.NoError(t, reg.Register(&fakeProvider{name: "github", tools: []Tool{echoTool("github_x")}}))

	names := make([]string, 0)
	for _, tool := range reg.List() {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"github_x", "gmail_a", "gmail_b"}, names)
}

func TestRegistry_RejectsNameCollisionAcrossProviders(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(&fakeProvider{name: "github", tools: []Tool{echoTool("dup")}}))

	err := reg.Register(&fakeProvider{name: "gmail", tools: []Tool{echoTool("dup")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dup")
}

func TestRegistry_CallUnknownToolReportsNotFound(t *testing.T) {
	reg := New()
	_, found, err := reg.Call(context.Background(), "nope", nil)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRegistry_RejectsMalformedInputSchema(t *testing.T) {
	reg := New()
	bad := echoTool("bad_schema")
	bad.InputSchema = map[string]interface{}{"type": 123}

	err := reg.Register(&fakeProvider{name: "github", tools: []Tool{bad}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad_schema")
	assert.False(t, reg.Has("bad_schema"))
}

func TestRegistry_AcceptsWellFormedInputSchema(t *testing.T) {
	reg := New()
	good := echoTool("good_schema")
	good.InputSchema = map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"owner": map[string]interface{}{"type": "string"}},
		"required":   []interface{}{"owner"},
	}

	require.NoError(t, reg.Register(&fakeProvider{name: "github", tools: []Tool{good}}))
	assert.True(t, reg.Has("good_schema"))
}

func TestRegistry_CallDispatchesToRegisteredHandler(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(&fakeProvider{name: "github", tools: []Tool{echoTool("github_ping")}}))

	res, found, err := reg.Call(context.Background(), "github_ping", nil)
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, res.IsError)
	assert.Equal(t, "github_ping", res.Content[0].Body)
}
