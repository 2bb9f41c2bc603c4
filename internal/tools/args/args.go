// Package args extracts typed arguments out of the map[string]interface{}
// an MCP tools/call request hands a handler, per SPEC_FULL §4.3's common
// handler contract step 1: a missing required argument is always a
// CallToolResult error, never a panic.
package args

import "fmt"

// MissingRequired is returned by String/Int/etc. when a required
// argument is absent, in the exact wording SPEC_FULL §4.3 specifies.
type MissingRequired struct {
	Name string
}

func (e *MissingRequired) Error() string {
	return fmt.Sprintf("argument %s is required", e.Name)
}

// String returns a required string argument.
func String(m map[string]interface{}, name string) (string, error) {
	v, ok := m[name]
	if !ok {
		return "", &MissingRequired{Name: name}
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", &MissingRequired{Name: name}
	}
	return s, nil
}

// OptString returns an optional string argument, defaulting to "".
func OptString(m map[string]interface{}, name string) string {
	if v, ok := m[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// OptStringDefault returns an optional string argument, defaulting to def.
func OptStringDefault(m map[string]interface{}, name, def string) string {
	if s := OptString(m, name); s != "" {
		return s
	}
	return def
}

// Int returns a required integer argument. JSON numbers decode as
// float64, so this accepts both float64 and int.
func Int(m map[string]interface{}, name string) (int, error) {
	v, ok := m[name]
	if !ok {
		return 0, &MissingRequired{Name: name}
	}
	return toInt(v), nil
}

// OptInt returns an optional integer argument, defaulting to def.
func OptInt(m map[string]interface{}, name string, def int) int {
	v, ok := m[name]
	if !ok {
		return def
	}
	return toInt(v)
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// OptBool returns an optional bool argument, defaulting to def.
func OptBool(m map[string]interface{}, name string, def bool) bool {
	if v, ok := m[name]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// StringSlice returns an optional []string argument from a JSON array,
// skipping any non-string elements.
func StringSlice(m map[string]interface{}, name string) []string {
	v, ok := m[name]
	if !ok {
		return nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Map returns an optional nested object argument.
func Map(m map[string]interface{}, name string) map[string]interface{} {
	if v, ok := m[name]; ok {
		if nested, ok := v.(map[string]interface{}); ok {
			return nested
		}
	}
	return nil
}
