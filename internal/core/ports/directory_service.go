package ports

import (
	"context"

	"github.com/lodgeroll/membership/internal/core/domain"
)

// DirectoryService reads and mutates member profiles.
type DirectoryService interface {
	// LoadAll refreshes the cached directory. On failure the previous list is
	// returned alongside the error.
	LoadAll(ctx context.Context) ([]domain.MemberProfile, error)
	Members() []domain.MemberProfile
	Filter(search, role string) []domain.MemberProfile
	Get(ctx context.Context, id string) (*domain.MemberProfile, error)
	// Save creates a profile when existingID is empty and updates it otherwise.
	Save(ctx context.Context, actor domain.Actor, existingID string, form domain.MemberForm) (*domain.MemberProfile, error)
	SetActive(ctx context.Context, actor domain.Actor, id string, active bool) (*domain.MemberProfile, error)
}
