package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/w-h-a/docchat/embedder"
	"github.com/w-h-a/docchat/generator"
	"github.com/w-h-a/docchat/history"
	"github.com/w-h-a/docchat/vectorindex"
)

const (
	FallbackMessage = "I am unable to generate a response at this time. Please try again later."

	defaultSystemPrompt = "You are an AI assistant that answers questions based on the provided documents and the chat history.\nBe concise, helpful, and polite. If the answer is not in the documents, state that you cannot answer."
)

type Service struct {
	embedder  embedder.Embedder
	index     vectorindex.Index
	history   history.History
	generator generator.Generator
	topK      int
	timeout   time.Duration
}

func (s *Service) Answer(ctx context.Context, query string, sessionId string) string {
	chunks := s.retrieve(ctx, query)

	turns := history.SafeRead(ctx, s.history, sessionId)

	prompt := BuildPrompt(turns, chunks, query)

	genCtx, cancel := s.bounded(ctx)
	defer cancel()

	result, err := s.generator.Generate(genCtx, prompt)
	if err != nil {
		slog.ErrorContext(ctx, "generation unavailable", "session", sessionId, "error", err)
		return FallbackMessage
	}

	return result
}

func (s *Service) retrieve(ctx context.Context, query string) []string {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		slog.WarnContext(ctx, "retrieval degraded, query not embedded", "error", err)
		return []string{}
	}

	matches := vectorindex.SafeSearch(ctx, s.index, vector, s.topK)

	chunks := make([]string, 0, len(matches))
	for _, m := range matches {
		if text := m.Text(); len(text) > 0 {
			chunks = append(chunks, text)
		}
	}

	return chunks
}

func (s *Service) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

// BuildPrompt assembles the grounded prompt. Chunks keep retrieval order.
func BuildPrompt(turns []history.Turn, chunks []string, query string) string {
	if turns == nil {
		turns = []history.Turn{}
	}

	historyJSON, err := json.MarshalIndent(turns, "", "  ")
	if err != nil {
		historyJSON = []byte("[]")
	}

	var sb bytes.Buffer
	sb.WriteString(defaultSystemPrompt)

	sb.WriteString("\n\n---\nChat History:\n")
	sb.Write(historyJSON)

	sb.WriteString("\n\n---\nDocuments:\n")
	sb.WriteString(strings.Join(chunks, "\n"))

	sb.WriteString("\n\n---\nUser Query:\n")
	sb.WriteString(query)
	sb.WriteString("\n")

	return sb.String()
}

func New(
	embedder embedder.Embedder,
	index vectorindex.Index,
	history history.History,
	generator generator.Generator,
	topK int,
	timeout time.Duration,
) *Service {
	return &Service{
		embedder:  embedder,
		index:     index,
		history:   history,
		generator: generator,
		topK:      topK,
		timeout:   timeout,
	}
}
