// Consolidated-method GitHub Actions tools, per SPEC_FULL §4.3: each of
// actions_list, actions_get, actions_run_trigger, and get_job_logs
// accepts a `method` discriminator and dispatches flat (switch), not
// nested; an unrecognized method is an error result.
package github

import (
	"context"
	"io"
	"net/url"

	ghsdk "github.com/google/go-github/v74/github"

	"github.com/jleacox/mcp-gateway/internal/registry"
	"github.com/jleacox/mcp-gateway/internal/tools/args"
)

func (p *Provider) actionsList(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	method, err := args.String(a, "method")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}

	listOpts := ghsdk.ListOptions{PerPage: args.OptInt(a, "per_page", 30)}
	switch method {
	case "workflows":
		workflows, err := retryGet(ctx, func() (*ghsdk.Workflows, *ghsdk.Response, error) {
			return client.Actions.ListWorkflows(ctx, owner, repo, &listOpts)
		})
		return asResult(workflows, err)
	case "runs":
		runs, err := retryGet(ctx, func() (*ghsdk.WorkflowRuns, *ghsdk.Response, error) {
			return client.Actions.ListRepositoryWorkflowRuns(ctx, owner, repo, &ghsdk.ListWorkflowRunsOptions{ListOptions: listOpts})
		})
		return asResult(runs, err)
	default:
		return registry.Errorf("unknown method %q for actions_list", method), nil
	}
}

func (p *Provider) actionsGet(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	method, err := args.String(a, "method")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}

	switch method {
	case "workflow":
		workflowID, err := args.String(a, "workflow_id")
		if err != nil {
			return registry.Errorf("%s", err), nil
		}
		wf, err := retryGet(ctx, func() (*ghsdk.Workflow, *ghsdk.Response, error) {
			return client.Actions.GetWorkflowByFileName(ctx, owner, repo, workflowID)
		})
		return asResult(wf, err)
	case "run":
		runID, err := args.Int(a, "run_id")
		if err != nil {
			return registry.Errorf("%s", err), nil
		}
		run, err := retryGet(ctx, func() (*ghsdk.WorkflowRun, *ghsdk.Response, error) {
			return client.Actions.GetWorkflowRunByID(ctx, owner, repo, int64(runID))
		})
		return asResult(run, err)
	default:
		return registry.Errorf("unknown method %q for actions_get", method), nil
	}
}

func (p *Provider) actionsRunTrigger(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	method, err := args.String(a, "method")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}

	switch method {
	case "dispatch":
		workflowID, err := args.String(a, "workflow_id")
		if err != nil {
			return registry.Errorf("%s", err), nil
		}
		// The upstream API 422s unhelpfully without ref, so this is
		// enforced here rather than left to surface as an opaque failure.
		ref, err := args.String(a, "ref")
		if err != nil {
			return registry.Errorf("%s", err), nil
		}
		event := ghsdk.CreateWorkflowDispatchEventRequest{Ref: ref}
		if inputs := args.Map(a, "inputs"); inputs != nil {
			event.Inputs = inputs
		}
		_, err = client.Actions.CreateWorkflowDispatchEventByFileName(ctx, owner, repo, workflowID, event)
		if err != nil {
			return asResult(nil, err)
		}
		return registry.Text("workflow dispatch triggered"), nil
	case "cancel":
		runID, err := args.Int(a, "run_id")
		if err != nil {
			return registry.Errorf("%s", err), nil
		}
		_, err = client.Actions.CancelWorkflowRunByID(ctx, owner, repo, int64(runID))
		if err != nil {
			return asResult(nil, err)
		}
		return registry.Text("workflow run canceled"), nil
	default:
		return registry.Errorf("unknown method %q for actions_run_trigger", method), nil
	}
}

func (p *Provider) getJobLogs(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	owner, err := args.String(a, "owner")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	repo, err := args.String(a, "repo")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	jobID, err := args.Int(a, "job_id")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	client, err := p.client(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}

	logURL, err := retryGet(ctx, func() (*url.URL, *ghsdk.Response, error) {
		return client.Actions.GetWorkflowJobLogs(ctx, owner, repo, int64(jobID), 3)
	})
	if err != nil {
		return asResult(nil, err)
	}
	if logURL == nil {
		return registry.Text(""), nil
	}

	resp, err := client.Client().Get(logURL.String())
	if err != nil {
		return registry.Errorf("fetching job logs: %s", err), nil
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return registry.Errorf("reading job logs: %s", err), nil
	}
	return registry.Text(string(body)), nil
}
