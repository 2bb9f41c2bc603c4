// Package registry implements the Handler Registry: a namespaced catalog of
// tools composed from one registry per upstream provider, plus the flat
// name->handler map the gateway dispatches through.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// ContentKind is the kind tag on a CallToolResult content part. Text is the
// only variant today; the type exists so future kinds (e.g. image) don't
// require changing CallToolResult's shape.
type ContentKind string

const ContentText ContentKind = "text"

// Content is one part of a CallToolResult.
type Content struct {
	Kind ContentKind `json:"kind"`
	Body string      `json:"body"`
}

// CallToolResult is the uniform return envelope every tool handler produces.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"is_error"`
}

// Text builds a successful, single-part text result.
func Text(body string) CallToolResult {
	return CallToolResult{Content: []Content{{Kind: ContentText, Body: body}}}
}

// Errorf builds an error result from a formatted message.
func Errorf(format string, args ...interface{}) CallToolResult {
	return CallToolResult{
		Content: []Content{{Kind: ContentText, Body: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// Tool is one declared capability: name, human description, JSON-Schema
// input shape, and the function that implements it.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
	Handler     func(ctx context.Context, args map[string]interface{}) (CallToolResult, error)
}

// Provider is the contract every per-upstream package satisfies: a name,
// its tool catalog, and dispatch by inner (unprefixed) tool name.
type Provider interface {
	Name() string
	ListTools() []Tool
	CallTool(ctx context.Context, name string, args map[string]interface{}) (CallToolResult, error)
}

type entry struct {
	provider Provider
	tool     Tool
}

// Registry is the gateway's process-wide, built-once-at-startup aggregation
// of every provider's tool catalog. Safe for concurrent read after Register
// calls are done; Register itself is not meant to be called concurrently
// with lookups (it runs during startup wiring only).
type Registry struct {
	mu        sync.RWMutex
	providers []Provider
	byName    map[string]entry
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{byName: make(map[string]entry)}
}

// Register adds a provider's entire tool catalog to the registry. It
// returns an error if any tool name collides with one already registered
// — unlike the teacher's registry, which lets a later Register silently
// overwrite an earlier one, this system rejects collisions at startup per
// SPEC_FULL §4.2.
func (r *Registry) Register(p Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tools := p.ListTools()
	for _, t := range tools {
		if existing, ok := r.byName[t.Name]; ok {
			return fmt.Errorf("registry: tool name %q from provider %q collides with provider %q",
				t.Name, p.Name(), existing.provider.Name())
		}
		if err := validateInputSchema(t); err != nil {
			return fmt.Errorf("registry: tool %q from provider %q: %w", t.Name, p.Name(), err)
		}
	}
	for _, t := range tools {
		r.byName[t.Name] = entry{provider: p, tool: t}
	}
	r.providers = append(r.providers, p)
	return nil
}

// validateInputSchema compiles t.InputSchema as a JSON Schema document,
// catching a malformed schema at startup registration time rather than on
// the first tools/call a client happens to make against it.
func validateInputSchema(t Tool) error {
	if len(t.InputSchema) == 0 {
		return nil
	}
	loader := gojsonschema.NewGoLoader(t.InputSchema)
	if _, err := gojsonschema.NewSchema(loader); err != nil {
		return fmt.Errorf("invalid inputSchema: %w", err)
	}
	return nil
}

// List returns every registered tool, ordered deterministically by
// (provider name, tool name) per SPEC_FULL §4.1.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, 0, len(r.byName))
	for _, e := range r.byName {
		out = append(out, e.tool)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := r.byName[out[i].Name].provider.Name(), r.byName[out[j].Name].provider.Name()
		if pi != pj {
			return pi < pj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Call dispatches a fully-qualified tool name to its provider. The inner
// (provider-local) name is recovered by the provider itself from the
// registered Tool.Name, so providers may use whatever internal naming
// convention they like as long as ListTools reports the public name.
func (r *Registry) Call(ctx context.Context, name string, args map[string]interface{}) (CallToolResult, bool, error) {
	r.mu.RLock()
	e, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return CallToolResult{}, false, nil
	}
	res, err := e.provider.CallTool(ctx, name, args)
	return res, true, err
}

// Has reports whether name is a registered tool.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[name]
	return ok
}
