package chunker

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

type Option func(*Options)

type Options struct {
	ChunkSize    int
	ChunkOverlap int
}

func WithChunkSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.ChunkSize = size
		}
	}
}

func WithChunkOverlap(overlap int) Option {
	return func(o *Options) {
		if overlap >= 0 {
			o.ChunkOverlap = overlap
		}
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(&options)
	}

	// overlap must leave room for the window to advance
	if options.ChunkOverlap >= options.ChunkSize {
		options.ChunkOverlap = options.ChunkSize / 4
	}

	return options
}
