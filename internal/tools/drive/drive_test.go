package drive

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jleacox/mcp-gateway/internal/authresolver"
	"github.com/jleacox/mcp-gateway/internal/tokenstore"
	"github.com/jleacox/mcp-gateway/internal/tools/httpclient"
)

func testProvider(t *testing.T, srv *httptest.Server) *Provider {
	t.Helper()
	keys := authresolver.StaticKeys{tokenstore.ProviderGoogle: "ya29.test"}
	resolver := authresolver.NewBound(nil, keys)
	return &Provider{
		resolver: resolver,
		userID:   "jason",
		files:    httpclient.New(srv.URL, "Drive", srv.Client()),
		upload:   httpclient.New(srv.URL, "Drive", srv.Client()),
	}
}

func TestReadFile_ExportsGoogleDocAsMarkdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/files/doc1" && r.URL.Query().Get("fields") != "":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "doc1", "mimeType": googleDocMime})
		case r.URL.Path == "/files/doc1/export":
			require.Equal(t, exportMarkdown, r.URL.Query().Get("mimeType"))
			_, _ = w.Write([]byte("# Heading\n"))
		default:
			t.Fatalf("unexpected request: %s", r.URL)
		}
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "drive_read_file", map[string]interface{}{"file_id": "doc1"})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "# Heading\n", result.Content[0].Body)
}

func TestReadFile_DownloadsMediaForNonDocMimeTypes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/files/txt1" && r.URL.Query().Get("alt") == "":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "txt1", "mimeType": "text/plain"})
		case r.URL.Path == "/files/txt1" && r.URL.Query().Get("alt") == "media":
			_, _ = w.Write([]byte("plain content"))
		default:
			t.Fatalf("unexpected request: %s", r.URL)
		}
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "drive_read_file", map[string]interface{}{"file_id": "txt1"})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "plain content", result.Content[0].Body)
}

func TestReadFile_MissingFileIDIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called without file_id")
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "drive_read_file", map[string]interface{}{})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, result.Content[0].Body, "file_id is required")
}

func TestWriteFile_PostsMultipartWithMetadataAndContent(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.Equal(t, "/files", r.URL.Path)
		require.Equal(t, "multipart", r.URL.Query().Get("uploadType"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "new1"})
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "drive_write_file", map[string]interface{}{
		"name": "notes.txt", "content": "hello",
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Contains(t, gotContentType, "multipart/related")
}

func TestSearch_BuildsNameContainsQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"files": []interface{}{}})
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "drive_search", map[string]interface{}{"query": "budget"})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "name contains 'budget'", gotQuery)
}

func TestCreateFolder_SetsFolderMimeType(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "folder1"})
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "drive_createFolder", map[string]interface{}{"name": "Taxes"})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "application/vnd.google-apps.folder", body["mimeType"])
}

func TestMoveItem_MissingNewParentIDIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called without new_parent_id")
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "drive_moveItem", map[string]interface{}{"file_id": "f1"})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, result.Content[0].Body, "new_parent_id is required")
}

func TestRenameItem_PatchesName(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "f1", "name": "renamed.txt"})
	}))
	defer srv.Close()

	p := testProvider(t, srv)
	result, err := p.CallTool(context.Background(), "drive_renameItem", map[string]interface{}{"file_id": "f1", "new_name": "renamed.txt"})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "renamed.txt", body["name"])
}

func TestListTools_CoversNormativeCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	p := testProvider(t, srv)
	names := make(map[string]bool)
	for _, tl := range p.ListTools() {
		names[tl.Name] = true
	}
	for _, want := range []string{
		"drive_read_file", "drive_write_file", "drive_list_files", "drive_search",
		"drive_createFolder", "drive_moveItem", "drive_renameItem",
	} {
		require.True(t, names[want], "missing tool %s", want)
	}
}
