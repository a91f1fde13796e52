package vectorindex

import (
	"context"
	"time"
)

const (
	DefaultCollection = "documents"
	DefaultDistance   = "Cosine"
)

type Option func(*Options)

type Options struct {
	Location   string
	ApiKey     string
	Collection string
	VectorSize int
	Distance   string
	Timeout    time.Duration
	Context    context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithCollection(name string) Option {
	return func(o *Options) {
		o.Collection = name
	}
}

func WithVectorSize(size int) Option {
	return func(o *Options) {
		o.VectorSize = size
	}
}

func WithDistance(distance string) Option {
	return func(o *Options) {
		o.Distance = distance
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Collection: DefaultCollection,
		Distance:   DefaultDistance,
		Timeout:    15 * time.Second,
		Context:    context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
