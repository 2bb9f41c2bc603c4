package github

import (
	"context"

	ghsdk "github.com/google/go-github/v74/github"

	"github.com/jleacox/mcp-gateway/internal/registry"
	"github.com/jleacox/mcp-gateway/internal/tools/args"
)

func (p *Provider) listRepos(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	opts := &ghsdk.RepositoryListByAuthenticatedUserOptions{
		ListOptions: ghsdk.ListOptions{PerPage: args.OptInt(a, "per_page", 30)},
	}
	repos, err := retryGet(ctx, func() ([]*ghsdk.Repository, *ghsdk.Response, error) {
		return client.Repositories.ListByAuthenticatedUser(ctx, opts)
	})
	return asResult(repos, err)
}

func (p *Provider) getRepo(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
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
	r, err := retryGet(ctx, func() (*ghsdk.Repository, *ghsdk.Response, error) {
		return client.Repositories.Get(ctx, owner, repo)
	})
	return asResult(r, err)
}

func (p *Provider) getFileContents(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	path, err := args.String(a, "path")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	opts := &ghsdk.RepositoryContentGetOptions{Ref: args.OptString(a, "ref")}
	file, err := retryGet(ctx, func() (*ghsdk.RepositoryContent, *ghsdk.Response, error) {
		file, _, resp, err := client.Repositories.GetContents(ctx, owner, repo, path, opts)
		return file, resp, err
	})
	if err != nil {
		return asResult(nil, err)
	}
	content, decodeErr := file.GetContent()
	if decodeErr != nil {
		return registry.Errorf("decoding file content: %s", decodeErr), nil
	}
	return registry.Text(content), nil
}

func (p *Provider) listDirectory(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	path := args.OptString(a, "path")
	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	opts := &ghsdk.RepositoryContentGetOptions{Ref: args.OptString(a, "ref")}
	dir, err := retryGet(ctx, func() ([]*ghsdk.RepositoryContent, *ghsdk.Response, error) {
		_, dir, resp, err := client.Repositories.GetContents(ctx, owner, repo, path, opts)
		return dir, resp, err
	})
	return asResult(dir, err)
}

func (p *Provider) createOrUpdateFile(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	path, err := args.String(a, "path")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	message, err := args.String(a, "message")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	content, err := args.String(a, "content")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}

	opts := &ghsdk.RepositoryContentFileOptions{
		Message: &message,
		Content: []byte(content),
		Branch:  strPtr(args.OptString(a, "branch")),
	}
	if sha := args.OptString(a, "sha"); sha != "" {
		opts.SHA = &sha
	}
	result, _, err := client.Repositories.CreateFile(ctx, owner, repo, path, opts)
	return asResult(result, err)
}

func (p *Provider) deleteFile(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	path, err := args.String(a, "path")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	message, err := args.String(a, "message")
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

	opts := &ghsdk.RepositoryContentFileOptions{Message: &message, SHA: &sha, Branch: strPtr(args.OptString(a, "branch"))}
	result, _, err := client.Repositories.DeleteFile(ctx, owner, repo, path, opts)
	return asResult(result, err)
}

func (p *Provider) getFileTree(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	treeSHA := args.OptStringDefault(a, "ref", "HEAD")
	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	tree, err := retryGet(ctx, func() (*ghsdk.Tree, *ghsdk.Response, error) {
		return client.Git.GetTree(ctx, owner, repo, treeSHA, args.OptBool(a, "recursive", true))
	})
	return asResult(tree, err)
}

func (p *Provider) getRawFileURL(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	path, err := args.String(a, "path")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	ref := args.OptStringDefault(a, "ref", "HEAD")
	return registry.Text("https://raw.githubusercontent.com/" + owner + "/" + repo + "/" + ref + "/" + path), nil
}

func (p *Provider) searchCode(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	query, err := args.String(a, "query")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	opts := &ghsdk.SearchOptions{ListOptions: ghsdk.ListOptions{PerPage: args.OptInt(a, "per_page", 30)}}
	result, err := retryGet(ctx, func() (*ghsdk.CodeSearchResult, *ghsdk.Response, error) {
		return client.Search.Code(ctx, query, opts)
	})
	return asResult(result, err)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
