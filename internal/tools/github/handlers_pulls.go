package github

import (
	"context"

	ghsdk "github.com/google/go-github/v74/github"

	"github.com/jleacox/mcp-gateway/internal/registry"
	"github.com/jleacox/mcp-gateway/internal/tools/args"
)

func (p *Provider) createPR(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
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
	head, err := args.String(a, "head")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	base, err := args.String(a, "base")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}

	body := args.OptString(a, "body")
	req := &ghsdk.NewPullRequest{Title: &title, Head: &head, Base: &base}
	if body != "" {
		req.Body = &body
	}
	pr, _, err := client.PullRequests.Create(ctx, owner, repo, req)
	return asResult(pr, err)
}

func (p *Provider) listPullRequests(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
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
	opts := &ghsdk.PullRequestListOptions{
		State:       args.OptStringDefault(a, "state", "open"),
		ListOptions: ghsdk.ListOptions{PerPage: args.OptInt(a, "per_page", 30)},
	}
	prs, err := retryGet(ctx, func() ([]*ghsdk.PullRequest, *ghsdk.Response, error) {
		return client.PullRequests.List(ctx, owner, repo, opts)
	})
	return asResult(prs, err)
}

func (p *Provider) getPullRequest(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, repo, number, client, err := p.ownerRepoNumber(ctx, a, "pull_number")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	pr, err := retryGet(ctx, func() (*ghsdk.PullRequest, *ghsdk.Response, error) {
		return client.PullRequests.Get(ctx, owner, repo, number)
	})
	return asResult(pr, err)
}

func (p *Provider) mergePullRequest(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, repo, number, client, err := p.ownerRepoNumber(ctx, a, "pull_number")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	opts := &ghsdk.PullRequestOptions{MergeMethod: args.OptStringDefault(a, "merge_method", "merge")}
	result, _, err := client.PullRequests.Merge(ctx, owner, repo, number, args.OptString(a, "commit_message"), opts)
	return asResult(result, err)
}

func (p *Provider) getPullRequestDiff(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, repo, number, client, err := p.ownerRepoNumber(ctx, a, "pull_number")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	raw, err := retryGet(ctx, func() (string, *ghsdk.Response, error) {
		return client.PullRequests.GetRaw(ctx, owner, repo, number, ghsdk.RawOptions{Type: ghsdk.Diff})
	})
	if err != nil {
		return asResult(nil, err)
	}
	return registry.Text(raw), nil
}

// ownerRepoNumber extracts the (owner, repo, <numberField>) triple most
// PR/commit handlers share, plus a ready-to-use client.
func (p *Provider) ownerRepoNumber(ctx context.Context, a map[string]interface{}, numberField string) (string, string, int, *ghsdk.Client, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return "", "", 0, nil, err
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return "", "", 0, nil, err
	}
	number, err := args.Int(a, numberField)
	if err != nil {
		return "", "", 0, nil, err
	}
	client, err := p.client(ctx)
	if err != nil {
		return "", "", 0, nil, err
	}
	return owner, repo, number, client, nil
}
