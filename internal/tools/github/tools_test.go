package github

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jleacox/mcp-gateway/internal/authresolver"
	"github.com/jleacox/mcp-gateway/internal/tokenstore"
)

func testProvider() *Provider {
	keys := authresolver.StaticKeys{tokenstore.ProviderGitHub: "ghp_test"}
	resolver := authresolver.NewBound(nil, keys)
	return New(resolver, "jason", "")
}

func TestListTools_CoversNormativeCatalog(t *testing.T) {
	p := testProvider()
	tools := p.ListTools()

	names := make(map[string]bool, len(tools))
	for _, tl := range tools {
		names[tl.Name] = true
	}

	for _, want := range []string{
		"github_create_issue", "github_list_issues", "github_get_issue", "github_update_issue",
		"github_add_issue_comment", "github_list_repos", "github_get_repo", "github_create_pr",
		"github_list_pull_requests", "github_get_pull_request", "github_merge_pull_request",
		"github_actions_list", "github_actions_get", "github_actions_run_trigger", "github_get_job_logs",
		"github_get_file_contents", "github_list_directory", "github_create_or_update_file",
		"github_delete_file", "github_list_commits", "github_get_commit", "github_compare_commits",
		"github_get_commit_diff", "github_get_pull_request_diff", "github_search_code",
		"github_get_file_tree", "github_get_raw_file_url",
	} {
		require.True(t, names[want], "missing tool %s", want)
	}
}

func TestListTools_NoDuplicateNames(t *testing.T) {
	p := testProvider()
	seen := map[string]bool{}
	for _, tl := range p.ListTools() {
		require.False(t, seen[tl.Name], "duplicate tool name %s", tl.Name)
		seen[tl.Name] = true
	}
}

func TestCreateIssue_MissingTitleIsError(t *testing.T) {
	p := testProvider()
	result, err := p.CallTool(context.Background(), "github_create_issue", map[string]interface{}{
		"owner": "jason", "repo": "mcp-gateway",
	})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, result.Content[0].Body, "title is required")
}

func TestActionsRunTrigger_DispatchWithoutRefIsError(t *testing.T) {
	p := testProvider()
	result, err := p.CallTool(context.Background(), "github_actions_run_trigger", map[string]interface{}{
		"owner": "jason", "repo": "mcp-gateway", "method": "dispatch", "workflow_id": "ci.yml",
	})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, result.Content[0].Body, "ref is required")
}

func TestActionsList_UnknownMethodIsError(t *testing.T) {
	p := testProvider()
	result, err := p.CallTool(context.Background(), "github_actions_list", map[string]interface{}{
		"owner": "jason", "repo": "mcp-gateway", "method": "bogus",
	})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, result.Content[0].Body, "unknown method")
}

func TestGetRawFileURL_BuildsExpectedURL(t *testing.T) {
	p := testProvider()
	result, err := p.CallTool(context.Background(), "github_get_raw_file_url", map[string]interface{}{
		"owner": "jason", "repo": "mcp-gateway", "path": "README.md", "ref": "main",
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "https://raw.githubusercontent.com/jason/mcp-gateway/main/README.md", result.Content[0].Body)
}
