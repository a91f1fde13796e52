package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/w-h-a/docchat/vectorindex"
)

type memoryIndex struct {
	options vectorindex.Options
	points  map[string]vectorindex.Point
	mtx     sync.RWMutex
}

func (i *memoryIndex) EnsureCollection(ctx context.Context) error {
	return nil
}

func (i *memoryIndex) Upsert(ctx context.Context, points []vectorindex.Point) error {
	for _, p := range points {
		if i.options.VectorSize > 0 && len(p.Vector) != i.options.VectorSize {
			return fmt.Errorf("point %s: vector size %d, want %d", p.Id, len(p.Vector), i.options.VectorSize)
		}
	}

	i.mtx.Lock()
	defer i.mtx.Unlock()

	for _, p := range points {
		cpy := make([]float32, len(p.Vector))
		copy(cpy, p.Vector)

		i.points[p.Id] = vectorindex.Point{
			Id:      p.Id,
			Vector:  cpy,
			Payload: maps.Clone(p.Payload),
		}
	}

	return nil
}

func (i *memoryIndex) Search(ctx context.Context, vector []float32, topK int) ([]vectorindex.Match, error) {
	if topK < 1 {
		return nil, nil
	}

	i.mtx.RLock()
	defer i.mtx.RUnlock()

	candidates := make([]vectorindex.Match, 0, len(i.points))

	for _, p := range i.points {
		score := vectorindex.CosineSimilarity(vector, p.Vector)
		candidates = append(candidates, vectorindex.Match{
			Id:      p.Id,
			Score:   float32(score),
			Payload: maps.Clone(p.Payload),
		})
	}

	vectorindex.SortMatches(candidates)

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	return candidates, nil
}

// Len reports how many points are stored.
func (i *memoryIndex) Len() int {
	i.mtx.RLock()
	defer i.mtx.RUnlock()
	return len(i.points)
}

func NewIndex(opts ...vectorindex.Option) *memoryIndex {
	options := vectorindex.NewOptions(opts...)

	i := &memoryIndex{
		options: options,
		points:  map[string]vectorindex.Point{},
		mtx:     sync.RWMutex{},
	}

	return i
}
