package ports

import (
	"context"

	"github.com/lodgeroll/membership/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	SetPassword(ctx context.Context, actor domain.Actor, memberID, password string) error
	Credentials(ctx context.Context, actor domain.Actor) ([]domain.Credential, error)
}
