package docchat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/w-h-a/docchat/chunker"
)

type Option func(*Options)

type Options struct {
	TopK         int
	Timeout      time.Duration
	ChunkSize    int
	ChunkOverlap int
	IdGenerator  func() string
	Context      context.Context
}

// WithTopK sets how many chunks ground each answer.
func WithTopK(k int) Option {
	return func(o *Options) {
		if k > 0 {
			o.TopK = k
		}
	}
}

// WithTimeout bounds every embedding, retrieval and generation call.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

func WithChunkSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.ChunkSize = size
		}
	}
}

// WithChunkOverlap accepts 0 for back-to-back chunks.
func WithChunkOverlap(overlap int) Option {
	return func(o *Options) {
		if overlap >= 0 {
			o.ChunkOverlap = overlap
		}
	}
}

func WithIdGenerator(fn func() string) Option {
	return func(o *Options) {
		if fn != nil {
			o.IdGenerator = fn
		}
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		TopK:         3,
		Timeout:      30 * time.Second,
		ChunkSize:    chunker.DefaultChunkSize,
		ChunkOverlap: chunker.DefaultChunkOverlap,
		IdGenerator:  uuid.NewString,
		Context:      context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
