package calendar

import (
	"encoding/json"
	"strconv"
	"time"
)

func itoa(n int) string { return strconv.Itoa(n) }

func nowRFC3339() string { return time.Now().Format(time.RFC3339) }

func mustJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
