package service

import (
	"context"
	"errors"
	"sync"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/infrastructure/db/memory"
)

// stubStore wraps the in-memory backend, counts writes and can be switched
// into a failing mode to simulate an unreachable backend.
type stubStore struct {
	*memory.Store

	mu     sync.Mutex
	writes int
	fail   bool
}

func newStubStore() *stubStore {
	return &stubStore{Store: memory.New()}
}

var errUnreachable = errors.New("connection refused")

func (s *stubStore) setFailing(fail bool) {
	s.mu.Lock()
	s.fail = fail
	s.mu.Unlock()
}

func (s *stubStore) failing(op, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return domain.NewStoreError(op, collection, domain.StoreNetwork, errUnreachable)
	}
	return nil
}

func (s *stubStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *stubStore) countWrite() {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
}

func (s *stubStore) QueryCollection(ctx context.Context, collection, orderBy string) ([]domain.Document, error) {
	if err := s.failing("query", collection); err != nil {
		return nil, err
	}
	return s.Store.QueryCollection(ctx, collection, orderBy)
}

func (s *stubStore) GetAll(ctx context.Context, collection string) ([]domain.Document, error) {
	if err := s.failing("get_all", collection); err != nil {
		return nil, err
	}
	return s.Store.GetAll(ctx, collection)
}

func (s *stubStore) GetDocument(ctx context.Context, collection, id string) (domain.Document, error) {
	if err := s.failing("get", collection); err != nil {
		return nil, err
	}
	return s.Store.GetDocument(ctx, collection, id)
}

func (s *stubStore) CreateDocument(ctx context.Context, collection string, data domain.Document) (string, error) {
	s.countWrite()
	if err := s.failing("create", collection); err != nil {
		return "", err
	}
	return s.Store.CreateDocument(ctx, collection, data)
}

func (s *stubStore) UpdateDocument(ctx context.Context, collection, id string, partial domain.Document) error {
	s.countWrite()
	if err := s.failing("update", collection); err != nil {
		return err
	}
	return s.Store.UpdateDocument(ctx, collection, id, partial)
}

func (s *stubStore) SetDocumentByKey(ctx context.Context, collection, key string, data domain.Document) error {
	s.countWrite()
	if err := s.failing("set", collection); err != nil {
		return err
	}
	return s.Store.SetDocumentByKey(ctx, collection, key, data)
}

func actorWith(role domain.Role) domain.Actor {
	return domain.Actor{ID: "actor-" + string(role), Role: role}
}
