package getsafe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	payload := map[string]any{"text": "hello", "n": 3}

	assert.Equal(t, "hello", String(payload, "text"))
	assert.Equal(t, "", String(payload, "n"))
	assert.Equal(t, "", String(payload, "missing"))
	assert.Equal(t, "", String(nil, "text"))
}

func TestInt(t *testing.T) {
	payload := map[string]any{
		"int":     4,
		"int64":   int64(5),
		"float":   float64(6),
		"number":  json.Number("7"),
		"string":  "8",
		"garbage": "eight",
		"bool":    true,
	}

	assert.Equal(t, 4, Int(payload, "int"))
	assert.Equal(t, 5, Int(payload, "int64"))
	assert.Equal(t, 6, Int(payload, "float"))
	assert.Equal(t, 7, Int(payload, "number"))
	assert.Equal(t, 8, Int(payload, "string"))
	assert.Equal(t, 0, Int(payload, "garbage"))
	assert.Equal(t, 0, Int(payload, "bool"))
	assert.Equal(t, 0, Int(payload, "missing"))
}
