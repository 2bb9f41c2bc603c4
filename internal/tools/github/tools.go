package github

import (
	"context"

	"github.com/jleacox/mcp-gateway/internal/registry"
)

type handlerFunc func(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error)

func objectSchema(required []string, properties map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func strProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

// catalog is the normative GitHub tool set from SPEC_FULL §4.3. Each
// entry's schema is intentionally minimal — the owner/repo/number
// triple most handlers share plus whatever fields that specific
// operation needs.
func (p *Provider) catalog() []struct {
	name        string
	description string
	schema      map[string]interface{}
	handler     handlerFunc
} {
	ownerRepo := map[string]interface{}{"owner": strProp("repository owner"), "repo": strProp("repository name")}
	withOwnerRepo := func(extra map[string]interface{}) map[string]interface{} {
		merged := map[string]interface{}{}
		for k, v := range ownerRepo {
			merged[k] = v
		}
		for k, v := range extra {
			merged[k] = v
		}
		return merged
	}

	return []struct {
		name        string
		description string
		schema      map[string]interface{}
		handler     handlerFunc
	}{
		{"create_issue", "Create a new issue", objectSchema([]string{"owner", "repo", "title"}, withOwnerRepo(map[string]interface{}{
			"title": strProp("issue title"), "body": strProp("issue body"),
		})), p.createIssue},
		{"list_issues", "List issues in a repository", objectSchema([]string{"owner", "repo"}, withOwnerRepo(map[string]interface{}{
			"state": strProp("open, closed, or all"),
		})), p.listIssues},
		{"get_issue", "Get a single issue", objectSchema([]string{"owner", "repo", "issue_number"}, withOwnerRepo(map[string]interface{}{
			"issue_number": intProp("issue number"),
		})), p.getIssue},
		{"update_issue", "Update an issue's title, body, or state", objectSchema([]string{"owner", "repo", "issue_number"}, withOwnerRepo(map[string]interface{}{
			"issue_number": intProp("issue number"), "title": strProp("new title"), "body": strProp("new body"), "state": strProp("open or closed"),
		})), p.updateIssue},
		{"add_issue_comment", "Add a comment to an issue", objectSchema([]string{"owner", "repo", "issue_number", "body"}, withOwnerRepo(map[string]interface{}{
			"issue_number": intProp("issue number"), "body": strProp("comment body"),
		})), p.addIssueComment},

		{"list_repos", "List repositories for the authenticated user", objectSchema(nil, map[string]interface{}{
			"per_page": intProp("results per page"),
		}), p.listRepos},
		{"get_repo", "Get a repository", objectSchema([]string{"owner", "repo"}, ownerRepo), p.getRepo},

		{"create_pr", "Create a pull request", objectSchema([]string{"owner", "repo", "title", "head", "base"}, withOwnerRepo(map[string]interface{}{
			"title": strProp("PR title"), "head": strProp("source branch"), "base": strProp("target branch"), "body": strProp("PR description"),
		})), p.createPR},
		{"list_pull_requests", "List pull requests", objectSchema([]string{"owner", "repo"}, withOwnerRepo(map[string]interface{}{
			"state": strProp("open, closed, or all"),
		})), p.listPullRequests},
		{"get_pull_request", "Get a pull request", objectSchema([]string{"owner", "repo", "pull_number"}, withOwnerRepo(map[string]interface{}{
			"pull_number": intProp("pull request number"),
		})), p.getPullRequest},
		{"merge_pull_request", "Merge a pull request", objectSchema([]string{"owner", "repo", "pull_number"}, withOwnerRepo(map[string]interface{}{
			"pull_number": intProp("pull request number"), "merge_method": strProp("merge, squash, or rebase"), "commit_message": strProp("merge commit message"),
		})), p.mergePullRequest},
		{"get_pull_request_diff", "Get a pull request's unified diff", objectSchema([]string{"owner", "repo", "pull_number"}, withOwnerRepo(map[string]interface{}{
			"pull_number": intProp("pull request number"),
		})), p.getPullRequestDiff},

		{"actions_list", "List workflows or workflow runs (method=workflows|runs)", objectSchema([]string{"owner", "repo", "method"}, withOwnerRepo(map[string]interface{}{
			"method": strProp("workflows or runs"),
		})), p.actionsList},
		{"actions_get", "Get a workflow or workflow run (method=workflow|run)", objectSchema([]string{"owner", "repo", "method"}, withOwnerRepo(map[string]interface{}{
			"method": strProp("workflow or run"), "workflow_id": strProp("workflow file name"), "run_id": intProp("run id"),
		})), p.actionsGet},
		{"actions_run_trigger", "Dispatch or cancel a workflow run (method=dispatch|cancel)", objectSchema([]string{"owner", "repo", "method"}, withOwnerRepo(map[string]interface{}{
			"method": strProp("dispatch or cancel"), "workflow_id": strProp("workflow file name"), "ref": strProp("branch or tag, required for dispatch"), "run_id": intProp("run id, required for cancel"),
		})), p.actionsRunTrigger},
		{"get_job_logs", "Fetch a workflow job's logs", objectSchema([]string{"owner", "repo", "job_id"}, withOwnerRepo(map[string]interface{}{
			"job_id": intProp("job id"),
		})), p.getJobLogs},

		{"get_file_contents", "Get a file's decoded contents", objectSchema([]string{"owner", "repo", "path"}, withOwnerRepo(map[string]interface{}{
			"path": strProp("file path"), "ref": strProp("branch, tag, or sha"),
		})), p.getFileContents},
		{"list_directory", "List a directory's contents", objectSchema([]string{"owner", "repo"}, withOwnerRepo(map[string]interface{}{
			"path": strProp("directory path"), "ref": strProp("branch, tag, or sha"),
		})), p.listDirectory},
		{"create_or_update_file", "Create or update a file", objectSchema([]string{"owner", "repo", "path", "message", "content"}, withOwnerRepo(map[string]interface{}{
			"path": strProp("file path"), "message": strProp("commit message"), "content": strProp("new file content"), "branch": strProp("target branch"), "sha": strProp("existing file blob sha, required to update"),
		})), p.createOrUpdateFile},
		{"delete_file", "Delete a file", objectSchema([]string{"owner", "repo", "path", "message", "sha"}, withOwnerRepo(map[string]interface{}{
			"path": strProp("file path"), "message": strProp("commit message"), "sha": strProp("existing file blob sha"), "branch": strProp("target branch"),
		})), p.deleteFile},
		{"get_file_tree", "Get a repository's recursive file tree", objectSchema([]string{"owner", "repo"}, withOwnerRepo(map[string]interface{}{
			"ref": strProp("branch, tag, or sha"), "recursive": map[string]interface{}{"type": "boolean"},
		})), p.getFileTree},
		{"get_raw_file_url", "Build a raw.githubusercontent.com URL for a file", objectSchema([]string{"owner", "repo", "path"}, withOwnerRepo(map[string]interface{}{
			"path": strProp("file path"), "ref": strProp("branch, tag, or sha"),
		})), p.getRawFileURL},
		{"search_code", "Search code across GitHub", objectSchema([]string{"query"}, map[string]interface{}{
			"query": strProp("search query"), "per_page": intProp("results per page"),
		}), p.searchCode},

		{"list_commits", "List commits", objectSchema([]string{"owner", "repo"}, withOwnerRepo(map[string]interface{}{
			"sha": strProp("branch or sha to start from"), "path": strProp("filter to commits touching this path"),
		})), p.listCommits},
		{"get_commit", "Get a single commit", objectSchema([]string{"owner", "repo", "sha"}, withOwnerRepo(map[string]interface{}{
			"sha": strProp("commit sha"),
		})), p.getCommit},
		{"compare_commits", "Compare two commits or refs", objectSchema([]string{"owner", "repo", "base", "head"}, withOwnerRepo(map[string]interface{}{
			"base": strProp("base ref"), "head": strProp("head ref"),
		})), p.compareCommits},
		{"get_commit_diff", "Get a commit's unified diff", objectSchema([]string{"owner", "repo", "sha"}, withOwnerRepo(map[string]interface{}{
			"sha": strProp("commit sha"),
		})), p.getCommitDiff},
	}
}

// ListTools implements registry.Provider.
func (p *Provider) ListTools() []registry.Tool {
	entries := p.catalog()
	tools := make([]registry.Tool, 0, len(entries))
	for _, e := range entries {
		handler := e.handler
		tools = append(tools, registry.Tool{
			Name:        "github_" + e.name,
			Description: e.description,
			InputSchema: e.schema,
			Handler: func(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
				return handler(ctx, a)
			},
		})
	}
	return tools
}

// CallTool implements registry.Provider directly, for callers that hold
// a *Provider rather than going through a registry.Registry.
func (p *Provider) CallTool(ctx context.Context, name string, a map[string]interface{}) (registry.CallToolResult, error) {
	for _, e := range p.catalog() {
		if "github_"+e.name == name {
			return e.handler(ctx, a)
		}
	}
	return registry.CallToolResult{}, nil
}
