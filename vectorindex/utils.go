package vectorindex

import (
	"context"
	"log/slog"
	"math"
	"sort"
)

// SafeSearch never fails: an unreachable or broken index yields no matches.
func SafeSearch(ctx context.Context, idx Index, vector []float32, topK int) []Match {
	if topK < 1 || len(vector) == 0 {
		return []Match{}
	}

	matches, err := idx.Search(ctx, vector, topK)
	if err != nil {
		slog.WarnContext(ctx, "retrieval degraded, continuing without context", "error", err)
		return []Match{}
	}

	SortMatches(matches)

	if len(matches) > topK {
		matches = matches[:topK]
	}

	return matches
}

// SortMatches orders by descending score, ties by id.
func SortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Id < matches[j].Id
	})
}

func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
