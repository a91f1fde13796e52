package chunker

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidStrategy = errors.New("invalid chunking strategy, choose 'fixed' or 'recursive'")

type Strategy string

const (
	Fixed     Strategy = "fixed"
	Recursive Strategy = "recursive"
)

// Chunker splits document text into ordered, non-empty segments.
type Chunker interface {
	Strategy() Strategy
	Chunk(text string) []string
}

func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case Fixed:
		return Fixed, nil
	case Recursive:
		return Recursive, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStrategy, name)
	}
}

func New(name string, opts ...Option) (Chunker, error) {
	strategy, err := ParseStrategy(name)
	if err != nil {
		return nil, err
	}

	options := NewOptions(opts...)

	switch strategy {
	case Fixed:
		return newFixedChunker(options), nil
	default:
		return newRecursiveChunker(options), nil
	}
}
