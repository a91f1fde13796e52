package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/w-h-a/docchat/chunker"
	"github.com/w-h-a/docchat/docstore"
	"github.com/w-h-a/docchat/embedder"
	"github.com/w-h-a/docchat/vectorindex"
)

var ErrEmptyDocument = errors.New("document contains no text")

type Request struct {
	Text     string
	Filename string
	Strategy string
}

type Result struct {
	DocumentId string
	Filename   string
	Strategy   string
	NumChunks  int
}

type Service struct {
	embedder   embedder.Embedder
	index      vectorindex.Index
	documents  docstore.Store
	newId      func() string
	now        func() time.Time
	timeout    time.Duration
	chunkerOps []chunker.Option
}

func (s *Service) Ingest(ctx context.Context, req Request) (Result, error) {
	c, err := chunker.New(req.Strategy, s.chunkerOps...)
	if err != nil {
		return Result{}, err
	}

	chunks := c.Chunk(req.Text)
	if len(chunks) == 0 {
		return Result{}, ErrEmptyDocument
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	vectors, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return Result{}, fmt.Errorf("embed chunks: %w", err)
	}

	if len(vectors) != len(chunks) {
		return Result{}, fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	documentId := s.newId()

	points := make([]vectorindex.Point, 0, len(chunks))
	for i, chunk := range chunks {
		point := vectorindex.NewPoint(documentId, i, chunk, vectors[i])
		point.Payload[vectorindex.PayloadFilename] = req.Filename
		points = append(points, point)
	}

	if err := s.index.Upsert(ctx, points); err != nil {
		return Result{}, fmt.Errorf("index chunks: %w", err)
	}

	doc := docstore.Document{
		Id:        documentId,
		Filename:  req.Filename,
		Strategy:  string(c.Strategy()),
		NumChunks: len(chunks),
		CreatedAt: s.now().UTC(),
	}

	if err := s.documents.Put(ctx, doc); err != nil {
		return Result{}, fmt.Errorf("record document: %w", err)
	}

	slog.InfoContext(ctx, "document ingested", "document", documentId, "filename", req.Filename, "strategy", doc.Strategy, "chunks", doc.NumChunks)

	return Result{
		DocumentId: documentId,
		Filename:   req.Filename,
		Strategy:   doc.Strategy,
		NumChunks:  doc.NumChunks,
	}, nil
}

func New(
	embedder embedder.Embedder,
	index vectorindex.Index,
	documents docstore.Store,
	newId func() string,
	timeout time.Duration,
	chunkerOpts ...chunker.Option,
) *Service {
	return &Service{
		embedder:   embedder,
		index:      index,
		documents:  documents,
		newId:      newId,
		now:        time.Now,
		timeout:    timeout,
		chunkerOps: chunkerOpts,
	}
}
