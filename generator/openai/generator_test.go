package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/docchat/generator"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "gpt-test", req.Model)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "prefix\nwhat is onboarding?", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  req.Model,
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": "Two weeks.",
					},
				},
			},
		})
	}))
	defer srv.Close()

	g := NewGenerator(
		generator.WithApiKey("test-key"),
		generator.WithModel("gpt-test"),
		generator.WithLocation(srv.URL),
		generator.WithPromptPrefix("prefix"),
	)

	rsp, err := g.Generate(context.Background(), "what is onboarding?")
	require.NoError(t, err)
	assert.Equal(t, "Two weeks.", rsp)
}

func TestGenerate_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	g := NewGenerator(generator.WithApiKey("test-key"), generator.WithLocation(srv.URL))

	_, err := g.Generate(context.Background(), "hi")
	assert.ErrorContains(t, err, "no response from OpenAI")
}
