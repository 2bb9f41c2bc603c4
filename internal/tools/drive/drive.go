// Package drive implements the Google Drive tool handlers, per
// SPEC_FULL §4.3's catalog, over the Drive v3 REST API. Grounded on the
// common handler contract and internal/tools/calendar's shape, sharing
// the Google OAuth token with Calendar and Gmail.
package drive

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jleacox/mcp-gateway/internal/authresolver"
	"github.com/jleacox/mcp-gateway/internal/registry"
	"github.com/jleacox/mcp-gateway/internal/tokenstore"
	"github.com/jleacox/mcp-gateway/internal/tools/args"
	"github.com/jleacox/mcp-gateway/internal/tools/httpclient"
)

const (
	filesBaseURL   = "https://www.googleapis.com/drive/v3"
	uploadBaseURL  = "https://www.googleapis.com/upload/drive/v3"
	googleDocMime  = "application/vnd.google-apps.document"
	exportMarkdown = "text/markdown"
)

// Provider implements registry.Provider for Google Drive tools.
type Provider struct {
	resolver authresolver.Resolver
	userID   string
	files    *httpclient.Client
	upload   *httpclient.Client
}

// New builds a Drive Provider. httpClient may be nil to use the default
// transport.
func New(resolver authresolver.Resolver, userID string, httpClient *http.Client) *Provider {
	return &Provider{
		resolver: resolver,
		userID:   userID,
		files:    httpclient.New(filesBaseURL, "Drive", httpClient),
		upload:   httpclient.New(uploadBaseURL, "Drive", httpClient),
	}
}

func (p *Provider) Name() string { return "drive" }

func (p *Provider) token(ctx context.Context) (string, error) {
	return p.resolver.Resolve(ctx, p.userID, tokenstore.ProviderGoogle)
}

func (p *Provider) readFile(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	fileID, err := args.String(a, "file_id")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}

	var meta map[string]interface{}
	if err := p.files.Do(ctx, http.MethodGet, "/files/"+url.PathEscape(fileID), url.Values{"fields": {"id,name,mimeType"}}, token, nil, &meta); err != nil {
		return registry.Errorf("%s", err), nil
	}
	mimeType, _ := meta["mimeType"].(string)

	if mimeType == googleDocMime {
		content, err := p.exportGoogleDoc(ctx, fileID, token)
		if err != nil {
			return registry.Errorf("%s", err), nil
		}
		return registry.Text(content), nil
	}

	content, err := p.downloadMedia(ctx, fileID, token)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	return registry.Text(content), nil
}

func (p *Provider) exportGoogleDoc(ctx context.Context, fileID, token string) (string, error) {
	var out []byte
	if err := p.files.DoRaw(ctx, http.MethodGet, "/files/"+url.PathEscape(fileID)+"/export", url.Values{"mimeType": {exportMarkdown}}, token, &out); err != nil {
		return "", err
	}
	return string(out), nil
}

func (p *Provider) downloadMedia(ctx context.Context, fileID, token string) (string, error) {
	var out []byte
	if err := p.files.DoRaw(ctx, http.MethodGet, "/files/"+url.PathEscape(fileID), url.Values{"alt": {"media"}}, token, &out); err != nil {
		return "", err
	}
	return string(out), nil
}

func (p *Provider) writeFile(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	name, err := args.String(a, "name")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	content, err := args.String(a, "content")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}

	mimeType := args.OptStringDefault(a, "mime_type", "text/plain")
	parentID := args.OptString(a, "parent_id")
	fileID := args.OptString(a, "file_id")

	metadata := map[string]interface{}{"name": name, "mimeType": mimeType}
	if parentID != "" && fileID == "" {
		metadata["parents"] = []string{parentID}
	}

	boundary := "drivemultipart" + base64.RawURLEncoding.EncodeToString([]byte(name))[:8]
	var body strings.Builder
	body.WriteString("--" + boundary + "\r\n")
	body.WriteString("Content-Type: application/json; charset=UTF-8\r\n\r\n")
	body.WriteString(mustJSON(metadata))
	body.WriteString("\r\n--" + boundary + "\r\n")
	body.WriteString("Content-Type: " + mimeType + "\r\n\r\n")
	body.WriteString(content)
	body.WriteString("\r\n--" + boundary + "--")

	method := http.MethodPost
	path := "/files"
	if fileID != "" {
		method = http.MethodPatch
		path = "/files/" + url.PathEscape(fileID)
	}

	var out map[string]interface{}
	if err := p.upload.DoMultipart(ctx, method, path, url.Values{"uploadType": {"multipart"}}, token, boundary, body.String(), &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return registry.CallToolResult{Content: []registry.Content{{Kind: registry.ContentText, Body: mustJSON(out)}}}, nil
}

func (p *Provider) listFiles(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	q := url.Values{"fields": {"files(id,name,mimeType,parents)"}}
	if folderID := args.OptString(a, "folder_id"); folderID != "" {
		q.Set("q", fmt.Sprintf("'%s' in parents", folderID))
	}
	var out map[string]interface{}
	if err := p.files.Do(ctx, http.MethodGet, "/files", q, token, nil, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return registry.CallToolResult{Content: []registry.Content{{Kind: registry.ContentText, Body: mustJSON(out)}}}, nil
}

func (p *Provider) search(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	query, err := args.String(a, "query")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	escaped := strings.ReplaceAll(query, "'", "\\'")
	q := url.Values{
		"q":      {fmt.Sprintf("name contains '%s'", escaped)},
		"fields": {"files(id,name,mimeType,parents)"},
	}
	var out map[string]interface{}
	if err := p.files.Do(ctx, http.MethodGet, "/files", q, token, nil, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return registry.CallToolResult{Content: []registry.Content{{Kind: registry.ContentText, Body: mustJSON(out)}}}, nil
}

func (p *Provider) createFolder(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	name, err := args.String(a, "name")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	body := map[string]interface{}{"name": name, "mimeType": "application/vnd.google-apps.folder"}
	if parentID := args.OptString(a, "parent_id"); parentID != "" {
		body["parents"] = []string{parentID}
	}
	var out map[string]interface{}
	if err := p.files.Do(ctx, http.MethodPost, "/files", nil, token, body, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return registry.CallToolResult{Content: []registry.Content{{Kind: registry.ContentText, Body: mustJSON(out)}}}, nil
}

func (p *Provider) moveItem(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	fileID, err := args.String(a, "file_id")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	newParentID, err := args.String(a, "new_parent_id")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}

	var meta map[string]interface{}
	if err := p.files.Do(ctx, http.MethodGet, "/files/"+url.PathEscape(fileID), url.Values{"fields": {"parents"}}, token, nil, &meta); err != nil {
		return registry.Errorf("%s", err), nil
	}
	var removeParents []string
	if parents, ok := meta["parents"].([]interface{}); ok {
		for _, parent := range parents {
			if s, ok := parent.(string); ok {
				removeParents = append(removeParents, s)
			}
		}
	}

	q := url.Values{"addParents": {newParentID}}
	if len(removeParents) > 0 {
		q.Set("removeParents", strings.Join(removeParents, ","))
	}
	var out map[string]interface{}
	if err := p.files.Do(ctx, http.MethodPatch, "/files/"+url.PathEscape(fileID), q, token, map[string]interface{}{}, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return registry.CallToolResult{Content: []registry.Content{{Kind: registry.ContentText, Body: mustJSON(out)}}}, nil
}

func (p *Provider) renameItem(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	fileID, err := args.String(a, "file_id")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	newName, err := args.String(a, "new_name")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	var out map[string]interface{}
	if err := p.files.Do(ctx, http.MethodPatch, "/files/"+url.PathEscape(fileID), nil, token, map[string]interface{}{"name": newName}, &out); err != nil {
		return registry.Errorf("%s", err), nil
	}
	return registry.CallToolResult{Content: []registry.Content{{Kind: registry.ContentText, Body: mustJSON(out)}}}, nil
}
