package gmail

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jleacox/mcp-gateway/internal/mime822"
	"github.com/jleacox/mcp-gateway/internal/registry"
	"github.com/jleacox/mcp-gateway/internal/tools/args"
)

func (p *Provider) searchEmails(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	query, err := args.String(a, "query")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	q := url.Values{"q": {query}}
	if max := args.OptInt(a, "max_results", 0); max > 0 {
		q.Set("maxResults", itoa(max))
	}
	var out map[string]interface{}
	if err := p.client.Do(ctx, http.MethodGet, "/messages", q, token, nil, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return textJSON(out), nil
}

func (p *Provider) readEmail(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	messageID, err := args.String(a, "message_id")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	var out map[string]interface{}
	q := url.Values{"format": {"full"}}
	if err := p.client.Do(ctx, http.MethodGet, "/messages/"+url.PathEscape(messageID), q, token, nil, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return textJSON(out), nil
}

func (p *Provider) sendEmail(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	msg, verr := buildOutgoingMessage(a)
	if verr != nil {
		return registry.Errorf("%s", verr), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	raw := mime822.ToURLNoPad([]byte(mime822.Build(msg)))
	body := map[string]interface{}{"raw": raw}
	if threadID := args.OptString(a, "thread_id"); threadID != "" {
		body["threadId"] = threadID
	}
	var out map[string]interface{}
	if err := p.client.Do(ctx, http.MethodPost, "/messages/send", nil, token, body, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return textJSON(out), nil
}

func (p *Provider) draftEmail(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	msg, verr := buildOutgoingMessage(a)
	if verr != nil {
		return registry.Errorf("%s", verr), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	raw := mime822.ToURLNoPad([]byte(mime822.Build(msg)))
	messageBody := map[string]interface{}{"raw": raw}
	if threadID := args.OptString(a, "thread_id"); threadID != "" {
		messageBody["threadId"] = threadID
	}
	body := map[string]interface{}{"message": messageBody}
	var out map[string]interface{}
	if err := p.client.Do(ctx, http.MethodPost, "/drafts", nil, token, body, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return textJSON(out), nil
}

func buildOutgoingMessage(a map[string]interface{}) (mime822.Message, error) {
	to := args.StringSlice(a, "to")
	if len(to) == 0 {
		return mime822.Message{}, &args.MissingRequired{Name: "to"}
	}
	subject, err := args.String(a, "subject")
	if err != nil {
		return mime822.Message{}, err
	}
	return mime822.Message{
		From:     args.OptString(a, "from"),
		To:       to,
		Cc:       args.StringSlice(a, "cc"),
		Bcc:      args.StringSlice(a, "bcc"),
		Subject:  subject,
		TextBody: args.OptString(a, "body"),
		HTMLBody: args.OptString(a, "html_body"),
	}, nil
}

func (p *Provider) modifyEmail(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	messageID, err := args.String(a, "message_id")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	body := map[string]interface{}{}
	if add := args.StringSlice(a, "add_label_ids"); len(add) > 0 {
		body["addLabelIds"] = add
	}
	if remove := args.StringSlice(a, "remove_label_ids"); len(remove) > 0 {
		body["removeLabelIds"] = remove
	}
	var out map[string]interface{}
	if err := p.client.Do(ctx, http.MethodPost, "/messages/"+url.PathEscape(messageID)+"/modify", nil, token, body, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return textJSON(out), nil
}

// deleteEmail is implemented as an archive (INBOX label removal), not a
// true delete, per the Open Question resolution recorded in SPEC_FULL §4.3.
func (p *Provider) deleteEmail(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	messageID, err := args.String(a, "message_id")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	body := map[string]interface{}{"removeLabelIds": []string{"INBOX"}}
	var out map[string]interface{}
	if err := p.client.Do(ctx, http.MethodPost, "/messages/"+url.PathEscape(messageID)+"/modify", nil, token, body, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return textJSON(out), nil
}
