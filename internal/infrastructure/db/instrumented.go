package db

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/core/ports"
	"github.com/lodgeroll/membership/internal/pkg/metrics"
)

// instrumented decorates a DocumentStore with latency/error metrics and debug logs.
// It never alters results or errors.
type instrumented struct {
	next    ports.DocumentStore
	backend string
	log     zerolog.Logger
}

// Instrument wraps store so every call is measured under the backend label.
func Instrument(store ports.DocumentStore, backend string, log zerolog.Logger) ports.DocumentStore {
	return &instrumented{next: store, backend: backend, log: log.With().Str("backend", backend).Logger()}
}

func (s *instrumented) observe(op, collection string, start time.Time, err error) {
	metrics.StoreOperationDuration.WithLabelValues(s.backend, op).Observe(time.Since(start).Seconds())
	if err == nil {
		s.log.Debug().Str("op", op).Str("collection", collection).Dur("took", time.Since(start)).Msg("store call")
		return
	}

	kind := string(domain.StoreNetwork)
	var se *domain.StoreError
	if errors.As(err, &se) {
		kind = string(se.Kind)
	}
	metrics.StoreErrorsTotal.WithLabelValues(s.backend, op, kind).Inc()
	s.log.Debug().Err(err).Str("op", op).Str("collection", collection).Msg("store call failed")
}

func (s *instrumented) QueryCollection(ctx context.Context, collection, orderBy string) ([]domain.Document, error) {
	start := time.Now()
	docs, err := s.next.QueryCollection(ctx, collection, orderBy)
	s.observe("query", collection, start, err)
	return docs, err
}

func (s *instrumented) GetAll(ctx context.Context, collection string) ([]domain.Document, error) {
	start := time.Now()
	docs, err := s.next.GetAll(ctx, collection)
	s.observe("get_all", collection, start, err)
	return docs, err
}

func (s *instrumented) GetDocument(ctx context.Context, collection, id string) (domain.Document, error) {
	start := time.Now()
	doc, err := s.next.GetDocument(ctx, collection, id)
	s.observe("get", collection, start, err)
	return doc, err
}

func (s *instrumented) CreateDocument(ctx context.Context, collection string, data domain.Document) (string, error) {
	start := time.Now()
	id, err := s.next.CreateDocument(ctx, collection, data)
	s.observe("create", collection, start, err)
	return id, err
}

func (s *instrumented) UpdateDocument(ctx context.Context, collection, id string, partial domain.Document) error {
	start := time.Now()
	err := s.next.UpdateDocument(ctx, collection, id, partial)
	s.observe("update", collection, start, err)
	return err
}

func (s *instrumented) SetDocumentByKey(ctx context.Context, collection, key string, data domain.Document) error {
	start := time.Now()
	err := s.next.SetDocumentByKey(ctx, collection, key, data)
	s.observe("set", collection, start, err)
	return err
}

func (s *instrumented) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *instrumented) Close(ctx context.Context) error {
	return s.next.Close(ctx)
}
