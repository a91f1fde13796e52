package ollama

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/w-h-a/docchat/embedder"
)

const (
	defaultLocation  = "http://localhost:11434"
	defaultModel     = "all-minilm:l6-v2"
	defaultDimension = 384
)

type ollamaEmbedder struct {
	options embedder.Options
	model   embeddings.Embedder
}

func (e *ollamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vectors[0], nil
}

func (e *ollamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	start := time.Now()
	vectors, err := e.model.EmbedDocuments(ctx, texts)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "embedding failed", "model", e.options.Model, "texts", len(texts), "duration_ms", duration.Milliseconds(), "error", err)
		return nil, fmt.Errorf("embed batch: %w", err)
	}

	if err := embedder.CheckBatch(vectors, len(texts), e.options.Dimension); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "embedding complete", "model", e.options.Model, "texts", len(texts), "duration_ms", duration.Milliseconds())

	return vectors, nil
}

func (e *ollamaEmbedder) Dimension() int {
	return e.options.Dimension
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	if len(options.Location) == 0 {
		options.Location = defaultLocation
	}

	if len(options.Model) == 0 {
		options.Model = defaultModel
	}

	if options.Dimension == 0 {
		options.Dimension = defaultDimension
	}

	llm, err := ollama.New(
		ollama.WithModel(options.Model),
		ollama.WithServerURL(options.Location),
	)
	if err != nil {
		detail := "failed to initialize ollama client for embedder"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	model, err := embeddings.NewEmbedder(llm)
	if err != nil {
		detail := "failed to initialize ollama embedder"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	return &ollamaEmbedder{
		options: options,
		model:   model,
	}
}
