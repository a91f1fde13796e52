package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/docchat/embedder"
)

func fakeServer(t *testing.T, dimension int) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req.Model)

		// return in reverse order to exercise index sorting
		data := []map[string]any{}
		for i := len(req.Input) - 1; i >= 0; i-- {
			vec := make([]float32, dimension)
			vec[0] = float32(i + 1)
			data = append(data, map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": vec,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  req.Model,
		})
	}))

	t.Cleanup(srv.Close)

	return srv
}

func TestEmbedBatch_OrdersByIndex(t *testing.T) {
	srv := fakeServer(t, 4)

	e := NewEmbedder(
		embedder.WithApiKey("test-key"),
		embedder.WithLocation(srv.URL),
		embedder.WithDimension(4),
	)

	vectors, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	for i, v := range vectors {
		assert.Equal(t, float32(i+1), v[0])
	}
}

func TestEmbed_DimensionMismatch(t *testing.T) {
	srv := fakeServer(t, 3)

	e := NewEmbedder(
		embedder.WithApiKey("test-key"),
		embedder.WithLocation(srv.URL),
		embedder.WithDimension(4),
	)

	_, err := e.Embed(context.Background(), "a")
	assert.ErrorContains(t, err, "dimension mismatch")
}

func TestEmbed_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := NewEmbedder(
		embedder.WithApiKey("test-key"),
		embedder.WithLocation(srv.URL),
	)

	_, err := e.Embed(context.Background(), "a")
	assert.Error(t, err)
}

func TestEmbedBatch_Empty(t *testing.T) {
	e := NewEmbedder(embedder.WithApiKey("test-key"), embedder.WithLocation("http://127.0.0.1:1"))

	vectors, err := e.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
	assert.Equal(t, 1536, e.Dimension())
}
