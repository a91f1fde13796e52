package docchat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	docmemory "github.com/w-h-a/docchat/docstore/memory"
	"github.com/w-h-a/docchat/embedder/hash"
	"github.com/w-h-a/docchat/history/local"
	"github.com/w-h-a/docchat/internal/service/answer"
	"github.com/w-h-a/docchat/internal/service/chat"
	"github.com/w-h-a/docchat/vectorindex/memory"
)

type fakeGenerator struct {
	extract string
	reply   string
	err     error
	closed  bool
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if strings.HasPrefix(prompt, "The user wants to book an interview") {
		return g.extract, nil
	}
	return g.reply, nil
}

func (g *fakeGenerator) Close() error {
	g.closed = true
	return nil
}

func newDocChat(t *testing.T, gen *fakeGenerator, opts ...Option) (*DocChat, interface{ Len() int }) {
	t.Helper()

	idx := memory.NewIndex()
	n := 0

	d := New(
		hash.NewEmbedder(),
		gen,
		idx,
		local.NewHistory(local.WithJanitorInterval(time.Minute)),
		docmemory.NewStore(),
		append([]Option{
			WithTimeout(time.Second),
			WithIdGenerator(func() string {
				n++
				return fmt.Sprintf("doc-%d", n)
			}),
		}, opts...)...,
	)
	t.Cleanup(func() { d.Close() })

	require.NoError(t, d.Start(context.Background()))

	return d, idx
}

func document(n int) string {
	sentences := []string{
		"Interns start onboarding on Monday. ",
		"Every intern is paired with a mentor. ",
		"Demo day happens at the end of the summer. ",
	}
	var b strings.Builder
	for i := 0; b.Len() < n; i++ {
		b.WriteString(sentences[i%len(sentences)])
	}
	return b.String()[:n]
}

func TestScenarioA_IngestFixed(t *testing.T) {
	d, idx := newDocChat(t, &fakeGenerator{})

	result, err := d.Ingest(context.Background(), document(2000), "handbook.txt", "fixed")
	require.NoError(t, err)

	assert.Equal(t, "doc-1", result.DocumentId)
	assert.Equal(t, 5, result.NumChunks)
	assert.Equal(t, 5, idx.Len())

	doc, err := d.Document(context.Background(), result.DocumentId)
	require.NoError(t, err)
	assert.Equal(t, "handbook.txt", doc.Filename)
	assert.Equal(t, "fixed", doc.Strategy)
}

func TestScenarioB_Booking(t *testing.T) {
	gen := &fakeGenerator{extract: `{"name":"John","email":"john@x.com","date":"tomorrow","time":"3pm"}`}
	d, _ := newDocChat(t, gen)

	rsp, err := d.HandleQuery(context.Background(), "s1", "Book an interview for John, john@x.com, tomorrow at 3pm")
	require.NoError(t, err)

	assert.Equal(t, chat.StatusBookingSuccess, rsp.Status)
	require.NotNil(t, rsp.BookingDetails)
	assert.Equal(t, Booking{Name: "John", Email: "john@x.com", Date: "tomorrow", Time: "3pm"}, *rsp.BookingDetails)
	assert.Len(t, d.History(context.Background(), "s1"), 2)
}

func TestScenarioC_GenerationDown(t *testing.T) {
	d, _ := newDocChat(t, &fakeGenerator{err: errors.New("503")})

	_, err := d.Ingest(context.Background(), document(800), "handbook.txt", "recursive")
	require.NoError(t, err)

	rsp, err := d.HandleQuery(context.Background(), "s1", "When does onboarding start?")
	require.NoError(t, err)

	assert.Equal(t, chat.StatusSuccess, rsp.Status)
	assert.Equal(t, answer.FallbackMessage, rsp.Message)
}

func TestIngestTwice(t *testing.T) {
	d, idx := newDocChat(t, &fakeGenerator{})

	first, err := d.Ingest(context.Background(), document(1500), "handbook.txt", "recursive")
	require.NoError(t, err)
	second, err := d.Ingest(context.Background(), document(1500), "handbook.txt", "recursive")
	require.NoError(t, err)

	assert.NotEqual(t, first.DocumentId, second.DocumentId)
	assert.Equal(t, first.NumChunks*2, idx.Len())

	docs, err := d.Documents(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestAnswerUsesIngestedDocument(t *testing.T) {
	gen := &fakeGenerator{extract: "{}", reply: "Onboarding starts on Monday."}
	d, _ := newDocChat(t, gen)

	_, err := d.Ingest(context.Background(), document(600), "handbook.txt", "fixed")
	require.NoError(t, err)

	rsp, err := d.HandleQuery(context.Background(), "s1", "When do interns start onboarding?")
	require.NoError(t, err)

	assert.Equal(t, chat.StatusSuccess, rsp.Status)
	assert.Equal(t, "Onboarding starts on Monday.", rsp.Message)
}

func TestIngestZeroOverlap(t *testing.T) {
	d, idx := newDocChat(t, &fakeGenerator{}, WithChunkSize(100), WithChunkOverlap(0))

	result, err := d.Ingest(context.Background(), document(1000), "handbook.txt", "fixed")
	require.NoError(t, err)

	assert.Equal(t, 10, result.NumChunks)
	assert.Equal(t, 10, idx.Len())
}

func TestClose(t *testing.T) {
	gen := &fakeGenerator{}
	d, _ := newDocChat(t, gen)

	require.NoError(t, d.Close())
	assert.True(t, gen.closed)
}

func TestNewOptions(t *testing.T) {
	options := NewOptions()
	assert.Equal(t, 3, options.TopK)
	assert.Equal(t, 30*time.Second, options.Timeout)
	assert.Len(t, options.IdGenerator(), 36)

	assert.Equal(t, 500, options.ChunkSize)
	assert.Equal(t, 50, options.ChunkOverlap)

	options = NewOptions(WithTopK(0), WithIdGenerator(nil), WithChunkSize(0), WithChunkOverlap(-1))
	assert.Equal(t, 3, options.TopK)
	assert.NotNil(t, options.IdGenerator)
	assert.Equal(t, 500, options.ChunkSize)
	assert.Equal(t, 50, options.ChunkOverlap)

	options = NewOptions(WithChunkOverlap(0))
	assert.Equal(t, 0, options.ChunkOverlap)
}
