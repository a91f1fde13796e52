package openai

import (
	"context"
	"errors"
	"sort"

	"github.com/sashabaranov/go-openai"
	"github.com/w-h-a/docchat/embedder"
)

const (
	defaultModel     = "text-embedding-3-small"
	defaultDimension = 1536
)

type openAIEmbedder struct {
	options embedder.Options
	client  *openai.Client
}

func (e *openAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vectors[0], nil
}

func (e *openAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	rsp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.options.Model),
	})
	if err != nil {
		return nil, err
	}

	if len(rsp.Data) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	data := rsp.Data
	sort.Slice(data, func(i, j int) bool {
		return data[i].Index < data[j].Index
	})

	vectors := make([][]float32, 0, len(data))
	for _, d := range data {
		vectors = append(vectors, d.Embedding)
	}

	if err := embedder.CheckBatch(vectors, len(texts), e.options.Dimension); err != nil {
		return nil, err
	}

	return vectors, nil
}

func (e *openAIEmbedder) Dimension() int {
	return e.options.Dimension
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	if len(options.Model) == 0 {
		options.Model = defaultModel
	}

	if options.Dimension == 0 {
		options.Dimension = defaultDimension
	}

	e := &openAIEmbedder{
		options: options,
	}

	cfg := openai.DefaultConfig(options.ApiKey)
	if len(options.Location) > 0 {
		cfg.BaseURL = options.Location
	}

	e.client = openai.NewClientWithConfig(cfg)

	return e
}
