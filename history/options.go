package history

import (
	"context"
	"time"
)

const DefaultTTL = time.Hour

type Option func(*Options)

type Options struct {
	Location  string
	KeyPrefix string
	TTL       time.Duration
	Context   context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithKeyPrefix(prefix string) Option {
	return func(o *Options) {
		o.KeyPrefix = prefix
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(o *Options) {
		if ttl > 0 {
			o.TTL = ttl
		}
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		KeyPrefix: "chat_history:",
		TTL:       DefaultTTL,
		Context:   context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
