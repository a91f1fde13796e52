package chunker

import "strings"

type fixedChunker struct {
	options Options
}

func (c *fixedChunker) Strategy() Strategy {
	return Fixed
}

func (c *fixedChunker) Chunk(text string) []string {
	if len(strings.TrimSpace(text)) == 0 {
		return nil
	}

	runes := []rune(text)
	size := c.options.ChunkSize
	step := size - c.options.ChunkOverlap

	chunks := make([]string, 0, len(runes)/step+1)

	for start := 0; start < len(runes); start += step {
		end := min(start+size, len(runes))

		if segment := string(runes[start:end]); len(strings.TrimSpace(segment)) > 0 {
			chunks = append(chunks, segment)
		}

		if end == len(runes) {
			break
		}
	}

	return chunks
}

func newFixedChunker(options Options) *fixedChunker {
	return &fixedChunker{
		options: options,
	}
}
