package github

import (
	"context"

	ghsdk "github.com/google/go-github/v74/github"

	"github.com/jleacox/mcp-gateway/internal/registry"
	"github.com/jleacox/mcp-gateway/internal/tools/args"
)

func (p *Provider) listCommits(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
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
	opts := &ghsdk.CommitsListOptions{
		SHA:         args.OptString(a, "sha"),
		Path:        args.OptString(a, "path"),
		ListOptions: ghsdk.ListOptions{PerPage: args.OptInt(a, "per_page", 30)},
	}
	commits, err := retryGet(ctx, func() ([]*ghsdk.RepositoryCommit, *ghsdk.Response, error) {
		return client.Repositories.ListCommits(ctx, owner, repo, opts)
	})
	return asResult(commits, err)
}

func (p *Provider) getCommit(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	sha, err := args.String(a, "sha")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	commit, err := retryGet(ctx, func() (*ghsdk.RepositoryCommit, *ghsdk.Response, error) {
		return client.Repositories.GetCommit(ctx, owner, repo, sha, nil)
	})
	return asResult(commit, err)
}

func (p *Provider) compareCommits(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	base, err := args.String(a, "base")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	head, err := args.String(a, "head")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	comparison, err := retryGet(ctx, func() (*ghsdk.CommitsComparison, *ghsdk.Response, error) {
		return client.Repositories.CompareCommits(ctx, owner, repo, base, head, nil)
	})
	return asResult(comparison, err)
}

func (p *Provider) getCommitDiff(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	sha, err := args.String(a, "sha")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	raw, err := retryGet(ctx, func() (string, *ghsdk.Response, error) {
		return client.Repositories.GetCommitRaw(ctx, owner, repo, sha, ghsdk.RawOptions{Type: ghsdk.Diff})
	})
	if err != nil {
		return asResult(nil, err)
	}
	return registry.Text(raw), nil
}
