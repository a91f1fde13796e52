package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/w-h-a/docchat/docstore"
)

type memoryStore struct {
	options   docstore.Options
	documents map[string]docstore.Document
	mtx       sync.RWMutex
}

func (s *memoryStore) Put(ctx context.Context, doc docstore.Document) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, exists := s.documents[doc.Id]; exists {
		return fmt.Errorf("document %s already exists", doc.Id)
	}

	s.documents[doc.Id] = doc

	return nil
}

func (s *memoryStore) Get(ctx context.Context, id string) (docstore.Document, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return docstore.Document{}, fmt.Errorf("%w: %s", docstore.ErrNotFound, id)
	}

	return doc, nil
}

func (s *memoryStore) List(ctx context.Context) ([]docstore.Document, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	docs := make([]docstore.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		docs = append(docs, doc)
	}

	docstore.SortDocuments(docs)

	return docs, nil
}

func NewStore(opts ...docstore.Option) docstore.Store {
	options := docstore.NewOptions(opts...)

	s := &memoryStore{
		options:   options,
		documents: map[string]docstore.Document{},
		mtx:       sync.RWMutex{},
	}

	return s
}
