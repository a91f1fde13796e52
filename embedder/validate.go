package embedder

import "fmt"

// CheckBatch verifies a provider returned one vector of the expected
// dimension per input. A zero dimension accepts any non-empty vector.
func CheckBatch(vectors [][]float32, inputs int, dimension int) error {
	if len(vectors) != inputs {
		return fmt.Errorf("count mismatch: got %d, want %d", len(vectors), inputs)
	}

	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("embedding %d is empty", i)
		}
		if dimension > 0 && len(v) != dimension {
			return fmt.Errorf("embedding %d dimension mismatch: got %d, want %d", i, len(v), dimension)
		}
	}

	return nil
}
