package gmail

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jleacox/mcp-gateway/internal/registry"
	"github.com/jleacox/mcp-gateway/internal/tools/args"
)

func (p *Provider) listLabels(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	var out map[string]interface{}
	if err := p.client.Do(ctx, http.MethodGet, "/labels", nil, token, nil, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return textJSON(out), nil
}

func (p *Provider) createLabel(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	name, err := args.String(a, "name")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	body := map[string]interface{}{
		"name":                  name,
		"labelListVisibility":   "labelShow",
		"messageListVisibility": "show",
	}
	var out map[string]interface{}
	if err := p.client.Do(ctx, http.MethodPost, "/labels", nil, token, body, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return textJSON(out), nil
}

func (p *Provider) updateLabel(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	labelID, err := args.String(a, "label_id")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	body := map[string]interface{}{}
	if name := args.OptString(a, "name"); name != "" {
		body["name"] = name
	}
	var out map[string]interface{}
	if err := p.client.Do(ctx, http.MethodPatch, "/labels/"+url.PathEscape(labelID), nil, token, body, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return textJSON(out), nil
}

func (p *Provider) deleteLabel(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	labelID, err := args.String(a, "label_id")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	if err := p.client.Do(ctx, http.MethodDelete, "/labels/"+url.PathEscape(labelID), nil, token, nil, nil); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return registry.Text("deleted"), nil
}

func (p *Provider) getOrCreateLabel(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	name, err := args.String(a, "name")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	var list map[string]interface{}
	if err := p.client.Do(ctx, http.MethodGet, "/labels", nil, token, nil, &list); err != nil {
		return registry.Errorf("%s", err), nil
	}
	if labels, ok := list["labels"].([]interface{}); ok {
		for _, raw := range labels {
			label, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			if labelName, _ := label["name"].(string); labelName == name {
				return textJSON(label), nil
			}
		}
	}
	return p.createLabel(ctx, a)
}
