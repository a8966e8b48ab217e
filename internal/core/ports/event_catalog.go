package ports

import (
	"context"

	"github.com/lodgeroll/membership/internal/core/domain"
)

// EventCatalog is a read-only view of the calendar's events.
type EventCatalog interface {
	LoadAll(ctx context.Context) ([]domain.Event, error)
	Events() []domain.Event
}
