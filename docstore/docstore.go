package docstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("document not found")

type Document struct {
	Id        string    `json:"id"`
	Filename  string    `json:"filename"`
	Strategy  string    `json:"chunking_strategy"`
	NumChunks int       `json:"num_chunks"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	Put(ctx context.Context, doc Document) error
	Get(ctx context.Context, id string) (Document, error)
	List(ctx context.Context) ([]Document, error)
}
