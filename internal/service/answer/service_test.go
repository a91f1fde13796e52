package answer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/docchat/embedder"
	"github.com/w-h-a/docchat/embedder/hash"
	"github.com/w-h-a/docchat/history"
	"github.com/w-h-a/docchat/history/local"
	"github.com/w-h-a/docchat/vectorindex"
	"github.com/w-h-a/docchat/vectorindex/memory"
)

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.response, g.err
}

type brokenIndex struct{}

func (brokenIndex) EnsureCollection(ctx context.Context) error { return nil }

func (brokenIndex) Upsert(ctx context.Context, points []vectorindex.Point) error {
	return errors.New("connection refused")
}

func (brokenIndex) Search(ctx context.Context, vector []float32, topK int) ([]vectorindex.Match, error) {
	return nil, errors.New("connection refused")
}

type brokenEmbedder struct{}

func (brokenEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("model unavailable")
}

func (brokenEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("model unavailable")
}

func (brokenEmbedder) Dimension() int { return 0 }

func seededIndex(t *testing.T, emb embedder.Embedder, texts ...string) vectorindex.Index {
	t.Helper()

	idx := memory.NewIndex()
	vectors, err := emb.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)

	points := []vectorindex.Point{}
	for i, text := range texts {
		points = append(points, vectorindex.NewPoint("doc-1", i, text, vectors[i]))
	}
	require.NoError(t, idx.Upsert(context.Background(), points))

	return idx
}

func TestAnswer_GroundedPrompt(t *testing.T) {
	emb := hash.NewEmbedder()
	idx := seededIndex(t, emb,
		"Onboarding lasts two weeks for every intern.",
		"Interns receive a laptop on the first day of onboarding.",
		"The cafeteria serves lunch at noon.",
		"Parking permits are issued by facilities.",
	)

	hist := local.NewHistory(local.WithJanitorInterval(0))
	defer hist.Close()
	require.NoError(t, hist.Append(context.Background(), "s1", history.RoleUser, "Hi there"))
	require.NoError(t, hist.Append(context.Background(), "s1", history.RoleAssistant, "Hello! How can I help?"))

	gen := &stubGenerator{response: "Onboarding lasts two weeks."}
	s := New(emb, idx, hist, gen, 3, time.Second)

	reply := s.Answer(context.Background(), "How long does intern onboarding last?", "s1")
	assert.Equal(t, "Onboarding lasts two weeks.", reply)

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]

	assert.Contains(t, prompt, "If the answer is not in the documents, state that you cannot answer.")
	assert.Contains(t, prompt, `"message": "Hello! How can I help?"`)
	assert.Contains(t, prompt, "Onboarding lasts two weeks for every intern.")
	assert.True(t, strings.HasSuffix(prompt, "User Query:\nHow long does intern onboarding last?\n"))

	docs := prompt[strings.Index(prompt, "Documents:\n")+len("Documents:\n") : strings.Index(prompt, "\n\n---\nUser Query:")]
	assert.Len(t, strings.Split(docs, "\n"), 3)
	assert.Equal(t, "Onboarding lasts two weeks for every intern.", strings.Split(docs, "\n")[0])
}

func TestAnswer_GenerationFailureFallsBack(t *testing.T) {
	emb := hash.NewEmbedder()
	gen := &stubGenerator{err: errors.New("503")}
	hist := local.NewHistory(local.WithJanitorInterval(0))
	defer hist.Close()

	s := New(emb, memory.NewIndex(), hist, gen, 3, time.Second)

	assert.Equal(t, FallbackMessage, s.Answer(context.Background(), "anything", "s1"))
}

func TestAnswer_DegradedRetrieval(t *testing.T) {
	hist := local.NewHistory(local.WithJanitorInterval(0))
	defer hist.Close()

	for name, tc := range map[string]struct {
		emb embedder.Embedder
		idx vectorindex.Index
	}{
		"index unreachable":    {emb: hash.NewEmbedder(), idx: brokenIndex{}},
		"embedder unavailable": {emb: brokenEmbedder{}, idx: memory.NewIndex()},
	} {
		t.Run(name, func(t *testing.T) {
			gen := &stubGenerator{response: "I cannot answer that from the documents."}
			s := New(tc.emb, tc.idx, hist, gen, 3, time.Second)

			reply := s.Answer(context.Background(), "How long is onboarding?", "s1")
			assert.Equal(t, "I cannot answer that from the documents.", reply)

			require.Len(t, gen.prompts, 1)
			assert.Contains(t, gen.prompts[0], "Documents:\n\n\n---\nUser Query:")
		})
	}
}

func TestBuildPrompt_EmptyHistory(t *testing.T) {
	prompt := BuildPrompt(nil, []string{"a", "b"}, "q")

	assert.Contains(t, prompt, "Chat History:\n[]")
	assert.Contains(t, prompt, "Documents:\na\nb\n")
}
