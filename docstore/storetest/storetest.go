// Package storetest holds behaviour shared by every docstore provider.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/docchat/docstore"
)

func Run(t *testing.T, newStore func(t *testing.T) docstore.Store) {
	t.Run("put and get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		doc := docstore.Document{
			Id:        "doc-1",
			Filename:  "handbook.pdf",
			Strategy:  "recursive",
			NumChunks: 7,
			CreatedAt: time.Date(2024, 5, 1, 9, 0, 0, 123, time.UTC),
		}

		require.NoError(t, s.Put(ctx, doc))

		got, err := s.Get(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, doc.Id, got.Id)
		assert.Equal(t, doc.Filename, got.Filename)
		assert.Equal(t, doc.Strategy, got.Strategy)
		assert.Equal(t, doc.NumChunks, got.NumChunks)
		assert.True(t, doc.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("missing", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Get(context.Background(), "nope")
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		doc := docstore.Document{Id: "doc-1", Filename: "a.txt", Strategy: "fixed", NumChunks: 1, CreatedAt: time.Now()}
		require.NoError(t, s.Put(ctx, doc))
		assert.Error(t, s.Put(ctx, doc))
	})

	t.Run("list newest first", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		for i, id := range []string{"a", "b", "c"} {
			require.NoError(t, s.Put(ctx, docstore.Document{
				Id:        id,
				Filename:  id + ".txt",
				Strategy:  "fixed",
				NumChunks: i + 1,
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}))
		}

		docs, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, "c", docs[0].Id)
		assert.Equal(t, "b", docs[1].Id)
		assert.Equal(t, "a", docs[2].Id)
	})

	t.Run("list empty", func(t *testing.T) {
		s := newStore(t)

		docs, err := s.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}
