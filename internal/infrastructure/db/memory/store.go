// Package memory provides an in-process DocumentStore used for development
// and tests. Documents are kept BSON-encoded so reads hand back the same value
// types as the remote backends, and callers never share state with the store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/pkg/docmap"
)

// Store is a map-of-maps document store guarded by a single RWMutex.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
	order       map[string][]string // insertion order per collection
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		collections: make(map[string]map[string][]byte),
		order:       make(map[string][]string),
	}
}

func (s *Store) QueryCollection(ctx context.Context, collection, orderBy string) ([]domain.Document, error) {
	docs, err := s.GetAll(ctx, collection)
	if err != nil {
		return nil, err
	}
	docmap.SortBy(docs, orderBy)
	return docs, nil
}

func (s *Store) GetAll(_ context.Context, collection string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll := s.collections[collection]
	out := make([]domain.Document, 0, len(coll))
	for _, id := range s.order[collection] {
		doc, err := docmap.Unmarshal(coll[id], id)
		if err != nil {
			return nil, domain.NewStoreError("get_all", collection, domain.StoreNetwork, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *Store) GetDocument(_ context.Context, collection, id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.collections[collection][id]
	if !ok {
		return nil, domain.NewStoreError("get", collection, domain.StoreNotFound, fmt.Errorf("id %q", id))
	}
	doc, err := docmap.Unmarshal(raw, id)
	if err != nil {
		return nil, domain.NewStoreError("get", collection, domain.StoreNetwork, err)
	}
	return doc, nil
}

func (s *Store) CreateDocument(_ context.Context, collection string, data domain.Document) (string, error) {
	raw, err := docmap.Marshal(data)
	if err != nil {
		return "", domain.NewStoreError("create", collection, domain.StoreNetwork, err)
	}
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(collection, id, raw)
	return id, nil
}

func (s *Store) UpdateDocument(_ context.Context, collection, id string, partial domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.collections[collection][id]
	if !ok {
		return domain.NewStoreError("update", collection, domain.StoreNotFound, fmt.Errorf("id %q", id))
	}
	existing, err := docmap.Unmarshal(raw, id)
	if err != nil {
		return domain.NewStoreError("update", collection, domain.StoreNetwork, err)
	}
	merged, err := docmap.Marshal(docmap.Merge(existing, partial))
	if err != nil {
		return domain.NewStoreError("update", collection, domain.StoreNetwork, err)
	}
	s.put(collection, id, merged)
	return nil
}

func (s *Store) SetDocumentByKey(_ context.Context, collection, key string, data domain.Document) error {
	raw, err := docmap.Marshal(data)
	if err != nil {
		return domain.NewStoreError("set", collection, domain.StoreNetwork, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(collection, key, raw)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close(context.Context) error { return nil }

// Len reports how many documents a collection holds.
func (s *Store) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

// put must be called with the write lock held.
func (s *Store) put(collection, id string, raw []byte) {
	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string][]byte)
		s.collections[collection] = coll
	}
	if _, exists := coll[id]; !exists {
		s.order[collection] = append(s.order[collection], id)
	}
	coll[id] = raw
}
