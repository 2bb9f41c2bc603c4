package github

import (
	"context"

	ghsdk "github.com/google/go-github/v74/github"

	"github.com/jleacox/mcp-gateway/internal/registry"
	"github.com/jleacox/mcp-gateway/internal/tools/args"
)

func (p *Provider) createIssue(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	title, err := args.String(a, "title")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}

	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	body := args.OptString(a, "body")
	req := &ghsdk.IssueRequest{Title: &title}
	if body != "" {
		req.Body = &body
	}
	if labels := args.StringSlice(a, "labels"); len(labels) > 0 {
		req.Labels = &labels
	}
	issue, _, err := client.Issues.Create(ctx, owner, repo, req)
	return asResult(issue, err)
}

func (p *Provider) listIssues(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	opts := &ghsdk.IssueListByRepoOptions{
		State: args.OptStringDefault(a, "state", "open"),
		ListOptions: ghsdk.ListOptions{
			PerPage: args.OptInt(a, "per_page", 30),
		},
	}
	issues, err := retryGet(ctx, func() ([]*ghsdk.Issue, *ghsdk.Response, error) {
		return client.Issues.ListByRepo(ctx, owner, repo, opts)
	})
	return asResult(issues, err)
}

func (p *Provider) getIssue(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	number, err := args.Int(a, "issue_number")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	issue, err := retryGet(ctx, func() (*ghsdk.Issue, *ghsdk.Response, error) {
		return client.Issues.Get(ctx, owner, repo, number)
	})
	return asResult(issue, err)
}

func (p *Provider) updateIssue(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	number, err := args.Int(a, "issue_number")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}

	req := &ghsdk.IssueRequest{}
	if title := args.OptString(a, "title"); title != "" {
		req.Title = &title
	}
	if body := args.OptString(a, "body"); body != "" {
		req.Body = &body
	}
	if state := args.OptString(a, "state"); state != "" {
		req.State = &state
	}
	issue, _, err := client.Issues.Edit(ctx, owner, repo, number, req)
	return asResult(issue, err)
}

func (p *Provider) addIssueComment(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	number, err := args.Int(a, "issue_number")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	body, err := args.String(a, "body")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	comment, _, err := client.Issues.CreateComment(ctx, owner, repo, number, &ghsdk.IssueComment{Body: &body})
	return asResult(comment, err)
}
