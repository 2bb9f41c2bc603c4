package supabase

import (
	"encoding/json"
	"strconv"

	"github.com/jleacox/mcp-gateway/internal/registry"
)

func itoa(n int) string { return strconv.Itoa(n) }

func textJSON(v interface{}) registry.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return registry.Errorf("supabase: encoding response: %s", err)
	}
	return registry.Text(string(data))
}
