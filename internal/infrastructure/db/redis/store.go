package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/pkg/docmap"
)

const keyPrefix = "lodge:doc:"

// Store implements ports.DocumentStore on Redis.
// Key format: lodge:doc:<collection> is a hash of <id> -> BSON document.
type Store struct {
	client redis.UniversalClient
}

// NewStore wraps the given Redis client.
func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

func (s *Store) QueryCollection(ctx context.Context, collection, orderBy string) ([]domain.Document, error) {
	docs, err := s.getAll(ctx, "query", collection)
	if err != nil {
		return nil, err
	}
	docmap.SortBy(docs, orderBy)
	return docs, nil
}

func (s *Store) GetAll(ctx context.Context, collection string) ([]domain.Document, error) {
	return s.getAll(ctx, "get_all", collection)
}

func (s *Store) getAll(ctx context.Context, op, collection string) ([]domain.Document, error) {
	entries, err := s.client.HGetAll(ctx, s.key(collection)).Result()
	if err != nil {
		return nil, storeError(op, collection, err)
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := docmap.Unmarshal([]byte(entries[id]), id)
		if err != nil {
			return nil, domain.NewStoreError(op, collection, domain.StoreNetwork, fmt.Errorf("decode %s: %w", id, err))
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *Store) GetDocument(ctx context.Context, collection, id string) (domain.Document, error) {
	raw, err := s.client.HGet(ctx, s.key(collection), id).Bytes()
	if err != nil {
		return nil, storeError("get", collection, err)
	}
	doc, err := docmap.Unmarshal(raw, id)
	if err != nil {
		return nil, domain.NewStoreError("get", collection, domain.StoreNetwork, err)
	}
	return doc, nil
}

func (s *Store) CreateDocument(ctx context.Context, collection string, data domain.Document) (string, error) {
	raw, err := docmap.Marshal(data)
	if err != nil {
		return "", domain.NewStoreError("create", collection, domain.StoreNetwork, err)
	}

	id := uuid.NewString()
	created, err := s.client.HSetNX(ctx, s.key(collection), id, raw).Result()
	if err != nil {
		return "", storeError("create", collection, err)
	}
	if !created {
		return "", domain.NewStoreError("create", collection, domain.StoreNetwork, fmt.Errorf("id collision %s", id))
	}
	return id, nil
}

// UpdateDocument merges partial into the stored document inside a WATCH
// transaction so a concurrent writer aborts the merge instead of losing fields.
func (s *Store) UpdateDocument(ctx context.Context, collection, id string, partial domain.Document) error {
	key := s.key(collection)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.HGet(ctx, key, id).Bytes()
		if err != nil {
			return err
		}
		existing, err := docmap.Unmarshal(raw, id)
		if err != nil {
			return err
		}
		merged, err := docmap.Marshal(docmap.Merge(existing, partial))
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, id, merged)
			return nil
		})
		return err
	}, key)
	if err != nil {
		return storeError("update", collection, err)
	}
	return nil
}

func (s *Store) SetDocumentByKey(ctx context.Context, collection, key string, data domain.Document) error {
	raw, err := docmap.Marshal(data)
	if err != nil {
		return domain.NewStoreError("set", collection, domain.StoreNetwork, err)
	}
	if err := s.client.HSet(ctx, s.key(collection), key, raw).Err(); err != nil {
		return storeError("set", collection, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return storeError("ping", "", err)
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	return s.client.Close()
}

func (s *Store) key(collection string) string {
	return keyPrefix + collection
}

// storeError classifies a go-redis error into the store error taxonomy.
func storeError(op, collection string, err error) error {
	kind := domain.StoreNetwork
	msg := err.Error()
	switch {
	case errors.Is(err, redis.Nil):
		kind = domain.StoreNotFound
	case strings.HasPrefix(msg, "NOPERM"), strings.HasPrefix(msg, "NOAUTH"), strings.HasPrefix(msg, "WRONGPASS"):
		kind = domain.StorePermissionDenied
	}
	return domain.NewStoreError(op, collection, kind, err)
}
