package docchat

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/w-h-a/docchat/chunker"
	"github.com/w-h-a/docchat/docstore"
	"github.com/w-h-a/docchat/embedder"
	"github.com/w-h-a/docchat/generator"
	"github.com/w-h-a/docchat/history"
	"github.com/w-h-a/docchat/internal/service/answer"
	"github.com/w-h-a/docchat/internal/service/chat"
	"github.com/w-h-a/docchat/internal/service/ingest"
	"github.com/w-h-a/docchat/internal/service/intent"
	"github.com/w-h-a/docchat/vectorindex"
)

type (
	IngestResult = ingest.Result
	Response     = chat.Response
	Booking      = intent.Booking
)

type DocChat struct {
	options   Options
	index     vectorindex.Index
	documents docstore.Store
	closers   []any
	ingest    *ingest.Service
	chat      *chat.Service
}

// Start prepares the vector collection. Call it once before serving.
func (d *DocChat) Start(ctx context.Context) error {
	if err := d.index.EnsureCollection(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to ensure vector collection", "error", err)
		return err
	}
	return nil
}

func (d *DocChat) Ingest(ctx context.Context, text string, filename string, strategy string) (IngestResult, error) {
	return d.ingest.Ingest(ctx, ingest.Request{
		Text:     text,
		Filename: filename,
		Strategy: strategy,
	})
}

func (d *DocChat) HandleQuery(ctx context.Context, sessionId string, query string) (Response, error) {
	return d.chat.HandleQuery(ctx, sessionId, query)
}

func (d *DocChat) Document(ctx context.Context, id string) (docstore.Document, error) {
	return d.documents.Get(ctx, id)
}

func (d *DocChat) Documents(ctx context.Context) ([]docstore.Document, error) {
	return d.documents.List(ctx)
}

func (d *DocChat) History(ctx context.Context, sessionId string) []history.Turn {
	return d.chat.History(ctx, sessionId)
}

// Close releases every handle that holds a connection or goroutine.
func (d *DocChat) Close() error {
	var errs []error
	for _, c := range d.closers {
		if closer, ok := c.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func New(
	embedder embedder.Embedder,
	generator generator.Generator,
	index vectorindex.Index,
	history history.History,
	documents docstore.Store,
	opts ...Option,
) *DocChat {
	options := NewOptions(opts...)

	chunkerOpts := []chunker.Option{
		chunker.WithChunkSize(options.ChunkSize),
		chunker.WithChunkOverlap(options.ChunkOverlap),
	}

	ingestService := ingest.New(
		embedder,
		index,
		documents,
		options.IdGenerator,
		options.Timeout,
		chunkerOpts...,
	)

	classifier := intent.New(
		generator,
		options.Timeout,
	)

	answerer := answer.New(
		embedder,
		index,
		history,
		generator,
		options.TopK,
		options.Timeout,
	)

	chatService := chat.New(
		classifier,
		answerer,
		history,
	)

	d := &DocChat{
		options:   options,
		index:     index,
		documents: documents,
		closers:   []any{generator, embedder, index, history, documents},
		ingest:    ingestService,
		chat:      chatService,
	}

	return d
}
