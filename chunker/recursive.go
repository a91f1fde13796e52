package chunker

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

// paragraph, line, sentence, word, then a hard character cut
var recursiveSeparators = []string{"\n\n", "\n", ". ", " ", ""}

type recursiveChunker struct {
	options  Options
	splitter textsplitter.RecursiveCharacter
}

func (c *recursiveChunker) Strategy() Strategy {
	return Recursive
}

func (c *recursiveChunker) Chunk(text string) []string {
	if len(strings.TrimSpace(text)) == 0 {
		return nil
	}

	splits, err := c.splitter.SplitText(text)
	if err != nil {
		// the splitter only fails on invalid configuration, fall back to windows
		return newFixedChunker(c.options).Chunk(text)
	}

	chunks := make([]string, 0, len(splits))
	for _, split := range splits {
		if len(strings.TrimSpace(split)) == 0 {
			continue
		}
		chunks = append(chunks, split)
	}

	return chunks
}

func newRecursiveChunker(options Options) *recursiveChunker {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(options.ChunkSize),
		textsplitter.WithChunkOverlap(options.ChunkOverlap),
		textsplitter.WithSeparators(recursiveSeparators),
	)

	return &recursiveChunker{
		options:  options,
		splitter: splitter,
	}
}
