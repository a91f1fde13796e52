package hash

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/docchat/embedder"
)

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestEmbed_Deterministic(t *testing.T) {
	e := NewEmbedder(embedder.WithDimension(64))

	a, err := e.Embed(context.Background(), "The onboarding lasts two weeks")
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), "the ONBOARDING lasts two weeks!")
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.InDelta(t, 1.0, cosine(a, a), 1e-6)
}

func TestEmbed_SharedVocabularyScoresHigher(t *testing.T) {
	e := NewEmbedder()

	query, err := e.Embed(context.Background(), "how long is onboarding")
	require.NoError(t, err)
	related, err := e.Embed(context.Background(), "onboarding is two weeks long")
	require.NoError(t, err)
	unrelated, err := e.Embed(context.Background(), "parking garage closes at midnight")
	require.NoError(t, err)

	assert.Greater(t, cosine(query, related), cosine(query, unrelated))
}

func TestEmbed_Empty(t *testing.T) {
	e := NewEmbedder(embedder.WithDimension(8))

	v, err := e.Embed(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), v)
}

func TestEmbedBatch(t *testing.T) {
	e := NewEmbedder()
	assert.Equal(t, 384, e.Dimension())

	vectors, err := e.EmbedBatch(context.Background(), []string{"one", "two", "three"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for _, v := range vectors {
		assert.Len(t, v, 384)
	}

	single, err := e.Embed(context.Background(), "two")
	require.NoError(t, err)
	assert.Equal(t, single, vectors[1])
}
