package getsafe

import (
	"encoding/json"
	"strconv"
)

func String(payload map[string]any, key string) string {
	if v, ok := payload[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Int accepts the numeric shapes a payload takes after a JSON round trip.
func Int(payload map[string]any, key string) int {
	v, ok := payload[key]
	if !ok {
		return 0
	}

	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float32:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	}

	return 0
}
