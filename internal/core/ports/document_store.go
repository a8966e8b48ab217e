package ports

import (
	"context"

	"github.com/lodgeroll/membership/internal/core/domain"
)

// DocumentStore is the single data-access contract over the remote document
// store. Exactly one backend implements it per process; business code never
// knows which.
//
// Every method fails with a *domain.StoreError; none retries.
type DocumentStore interface {
	// QueryCollection returns every document of the collection ordered by
	// orderBy ascending. No pagination.
	QueryCollection(ctx context.Context, collection, orderBy string) ([]domain.Document, error)
	// GetAll returns every document of the collection in backend order.
	GetAll(ctx context.Context, collection string) ([]domain.Document, error)
	// GetDocument returns one document or a not-found StoreError.
	GetDocument(ctx context.Context, collection, id string) (domain.Document, error)
	// CreateDocument stores data under a new store-assigned id and returns it.
	CreateDocument(ctx context.Context, collection string, data domain.Document) (string, error)
	// UpdateDocument overwrites only the supplied fields. Fails with a
	// not-found StoreError when id does not exist.
	UpdateDocument(ctx context.Context, collection, id string, partial domain.Document) error
	// SetDocumentByKey fully replaces (or creates) the document at key.
	SetDocumentByKey(ctx context.Context, collection, key string, data domain.Document) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
