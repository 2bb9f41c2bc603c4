package gmail

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jleacox/mcp-gateway/internal/registry"
	"github.com/jleacox/mcp-gateway/internal/tools/args"
)

func (p *Provider) listFilters(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	var out map[string]interface{}
	if err := p.client.Do(ctx, http.MethodGet, "/settings/filters", nil, token, nil, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return textJSON(out), nil
}

func (p *Provider) createFilter(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	criteria := args.Map(a, "criteria")
	if criteria == nil {
		return registry.Errorf("argument criteria is required"), nil
	}
	actionArg := args.Map(a, "action")
	if actionArg == nil {
		return registry.Errorf("argument action is required"), nil
	}
	body := map[string]interface{}{"criteria": criteria, "action": actionArg}
	var out map[string]interface{}
	if err := p.client.Do(ctx, http.MethodPost, "/settings/filters", nil, token, body, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return textJSON(out), nil
}

func (p *Provider) getFilter(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	filterID, err := args.String(a, "filter_id")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	var out map[string]interface{}
	if err := p.client.Do(ctx, http.MethodGet, "/settings/filters/"+url.PathEscape(filterID), nil, token, nil, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return textJSON(out), nil
}

func (p *Provider) deleteFilter(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	filterID, err := args.String(a, "filter_id")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	if err := p.client.Do(ctx, http.MethodDelete, "/settings/filters/"+url.PathEscape(filterID), nil, token, nil, nil); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return registry.Text("deleted"), nil
}

// filterTemplates are the named shortcuts create_filter_from_template
// exposes, so a caller can say "archive newsletters from X" without
// constructing a raw criteria/action pair.
var filterTemplates = map[string]func(a map[string]interface{}) (map[string]interface{}, map[string]interface{}, error){
	"archive_from_sender": func(a map[string]interface{}) (map[string]interface{}, map[string]interface{}, error) {
		from, err := args.String(a, "from")
		if err != nil {
			return nil, nil, err
		}
		return map[string]interface{}{"from": from}, map[string]interface{}{"removeLabelIds": []string{"INBOX"}}, nil
	},
	"label_by_sender": func(a map[string]interface{}) (map[string]interface{}, map[string]interface{}, error) {
		from, err := args.String(a, "from")
		if err != nil {
			return nil, nil, err
		}
		labelID, err := args.String(a, "label_id")
		if err != nil {
			return nil, nil, err
		}
		return map[string]interface{}{"from": from}, map[string]interface{}{"addLabelIds": []string{labelID}}, nil
	},
	"star_from_sender": func(a map[string]interface{}) (map[string]interface{}, map[string]interface{}, error) {
		from, err := args.String(a, "from")
		if err != nil {
			return nil, nil, err
		}
		return map[string]interface{}{"from": from}, map[string]interface{}{"addLabelIds": []string{"STARRED"}}, nil
	},
}

func (p *Provider) createFilterFromTemplate(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	template, err := args.String(a, "template")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	build, ok := filterTemplates[template]
	if !ok {
		return registry.Errorf("unknown filter template %q", template), nil
	}
	criteria, action, err := build(a)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	body := map[string]interface{}{"criteria": criteria, "action": action}
	var out map[string]interface{}
	if err := p.client.Do(ctx, http.MethodPost, "/settings/filters", nil, token, body, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return textJSON(out), nil
}
