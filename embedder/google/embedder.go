package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/w-h-a/docchat/embedder"
	genaiopt "google.golang.org/api/option"
)

const (
	defaultModel     = "text-embedding-004"
	defaultDimension = 768
)

type googleEmbedder struct {
	options embedder.Options
	client  *genai.Client
}

func (e *googleEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	model := e.client.EmbeddingModel(e.options.Model)
	rsp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}

	if rsp == nil || rsp.Embedding == nil || len(rsp.Embedding.Values) == 0 {
		return nil, errors.New("no response from Google")
	}

	if err := embedder.CheckBatch([][]float32{rsp.Embedding.Values}, 1, e.options.Dimension); err != nil {
		return nil, err
	}

	return rsp.Embedding.Values, nil
}

func (e *googleEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	model := e.client.EmbeddingModel(e.options.Model)

	batch := model.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	rsp, err := model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}

	vectors := make([][]float32, 0, len(rsp.Embeddings))
	for _, emb := range rsp.Embeddings {
		if emb == nil {
			vectors = append(vectors, nil)
			continue
		}
		vectors = append(vectors, emb.Values)
	}

	if err := embedder.CheckBatch(vectors, len(texts), e.options.Dimension); err != nil {
		return nil, err
	}

	return vectors, nil
}

func (e *googleEmbedder) Dimension() int {
	return e.options.Dimension
}

func (e *googleEmbedder) Close() error {
	return e.client.Close()
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	if len(options.Model) == 0 {
		options.Model = defaultModel
	}

	if options.Dimension == 0 {
		options.Dimension = defaultDimension
	}

	e := &googleEmbedder{
		options: options,
	}

	client, err := genai.NewClient(
		context.Background(),
		genaiopt.WithAPIKey(options.ApiKey),
	)
	if err != nil {
		panic(err)
	}

	e.client = client

	return e
}
