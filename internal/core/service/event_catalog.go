package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/core/ports"
	"github.com/lodgeroll/membership/internal/pkg/docmap"
	"github.com/lodgeroll/membership/internal/pkg/metrics"
)

type eventCatalog struct {
	store ports.DocumentStore
	log   zerolog.Logger

	seq atomic.Uint64

	mu      sync.RWMutex
	events  []domain.Event
	applied uint64
}

// NewEventCatalog returns a read-only EventCatalog over the events collection.
func NewEventCatalog(store ports.DocumentStore, log zerolog.Logger) ports.EventCatalog {
	return &eventCatalog{
		store: store,
		log:   log.With().Str("component", "events").Logger(),
	}
}

func (c *eventCatalog) LoadAll(ctx context.Context) ([]domain.Event, error) {
	seq := c.seq.Add(1)

	docs, err := c.store.QueryCollection(ctx, domain.CollectionEvents, "date")
	if err != nil {
		c.log.Error().Err(err).Msg("failed to load events, keeping cached list")
		return c.Events(), fmt.Errorf("load events: %w", err)
	}

	events := make([]domain.Event, 0, len(docs))
	for _, doc := range docs {
		var e domain.Event
		if err := docmap.Decode(doc, &e); err != nil {
			c.log.Warn().Err(err).Interface("id", doc[docmap.IDField]).Msg("skipping undecodable event")
			continue
		}
		events = append(events, e)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied {
		metrics.StaleLoadsDiscardedTotal.WithLabelValues("events").Inc()
		return append([]domain.Event(nil), c.events...), nil
	}
	c.events = events
	c.applied = seq
	return append([]domain.Event(nil), events...), nil
}

func (c *eventCatalog) Events() []domain.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Event(nil), c.events...)
}
