package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/core/ports"
)

// systemActor performs startup seeding. No token ever resolves to it.
var systemActor = domain.Actor{ID: "system", Role: domain.RoleSudoAdmin}

// AdminSeed describes the first login created on a deployment without a
// system administrator.
type AdminSeed struct {
	Email       string
	Password    string
	DisplayName string
}

// SeedAdmin creates a system administrator profile and its credential when
// the directory holds none. It returns the created profile, or nil when the
// seed is empty or an administrator already exists.
func SeedAdmin(ctx context.Context, directory ports.DirectoryService, auth ports.AuthService, seed AdminSeed, log zerolog.Logger) (*domain.MemberProfile, error) {
	if strings.TrimSpace(seed.Email) == "" {
		return nil, nil
	}
	if len(seed.Password) < minPasswordLength {
		return nil, fmt.Errorf("seed admin: %w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	members, err := directory.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	for _, m := range members {
		if m.Role == domain.RoleSudoAdmin {
			log.Debug().Str("member_id", m.ID).Msg("system admin present, seeding skipped")
			return nil, nil
		}
	}

	name := seed.DisplayName
	if strings.TrimSpace(name) == "" {
		name = "System Admin"
	}
	role := domain.RoleSudoAdmin
	profile, err := directory.Save(ctx, systemActor, "", domain.MemberForm{
		DisplayName: name,
		Email:       seed.Email,
		Role:        &role,
	})
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	if err := auth.SetPassword(ctx, systemActor, profile.ID, seed.Password); err != nil {
		return nil, fmt.Errorf("seed admin credential: %w", err)
	}

	log.Info().Str("member_id", profile.ID).Str("email", profile.Email).Msg("system admin seeded")
	return profile, nil
}
