package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/core/ports"
	"github.com/lodgeroll/membership/internal/pkg/docmap"
	"github.com/lodgeroll/membership/internal/pkg/metrics"
)

const minPasswordLength = 8

// AuthService implements password login and password management on top of
// the credentials collection.
type AuthService struct {
	store     ports.DocumentStore
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(store ports.DocumentStore, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		store:     store,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log.With().Str("component", "auth").Logger(),
		now:       time.Now,
	}
}

// Login checks email and password and issues a signed token carrying the
// member id and role. Inactive members cannot log in.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	cred, err := s.findCredential(ctx, email)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	doc, err := s.store.GetDocument(ctx, domain.CollectionUsers, cred.MemberID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	var member domain.MemberProfile
	if err := docmap.Decode(doc, &member); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !member.IsActive {
		return nil, domain.ErrInactiveMember
	}

	expires := s.now().Add(s.tokenTTL)
	token, err := s.generateToken(&member, expires)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("member_id", member.ID).Str("role", string(member.Role)).Msg("member logged in")
	return &domain.Session{Token: token, Expires: expires, Member: &member}, nil
}

// SetPassword stores a new password for memberID. Members may change their
// own password; only the system administrator may change someone else's.
func (s *AuthService) SetPassword(ctx context.Context, actor domain.Actor, memberID, password string) error {
	if actor.ID != memberID {
		if err := domain.RequireSystemAdmin(actor, "set password"); err != nil {
			metrics.AuthorizationDeniedTotal.WithLabelValues("set_password").Inc()
			return err
		}
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	doc, err := s.store.GetDocument(ctx, domain.CollectionUsers, memberID)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	var member domain.MemberProfile
	if err := docmap.Decode(doc, &member); err != nil {
		return fmt.Errorf("set password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	cred := domain.Credential{
		MemberID:     memberID,
		Email:        strings.ToLower(strings.TrimSpace(member.Email)),
		PasswordHash: string(hash),
		UpdatedAt:    s.now().UTC(),
		UpdatedBy:    actor.ID,
	}
	credDoc, err := docmap.Encode(cred)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	if err := s.store.SetDocumentByKey(ctx, domain.CollectionCredentials, memberID, credDoc); err != nil {
		return fmt.Errorf("set password: %w", err)
	}

	s.log.Info().Str("member_id", memberID).Str("actor", actor.ID).Msg("password updated")
	return nil
}

// Credentials lists every login account without its hash, ordered by email.
// Only the system administrator may read it.
func (s *AuthService) Credentials(ctx context.Context, actor domain.Actor) ([]domain.Credential, error) {
	if err := domain.RequireSystemAdmin(actor, "list credentials"); err != nil {
		metrics.AuthorizationDeniedTotal.WithLabelValues("list_credentials").Inc()
		return nil, err
	}
	creds, err := s.allCredentials(ctx, "list credentials")
	if err != nil {
		return nil, err
	}
	for i := range creds {
		creds[i].PasswordHash = ""
	}
	sort.Slice(creds, func(i, j int) bool { return creds[i].Email < creds[j].Email })
	return creds, nil
}

func (s *AuthService) findCredential(ctx context.Context, email string) (*domain.Credential, error) {
	creds, err := s.allCredentials(ctx, "login")
	if err != nil {
		return nil, err
	}
	for i := range creds {
		if strings.EqualFold(creds[i].Email, email) {
			return &creds[i], nil
		}
	}
	return nil, domain.ErrInvalidCredentials
}

func (s *AuthService) allCredentials(ctx context.Context, op string) ([]domain.Credential, error) {
	docs, err := s.store.GetAll(ctx, domain.CollectionCredentials)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]domain.Credential, 0, len(docs))
	for _, doc := range docs {
		var cred domain.Credential
		if err := docmap.Decode(doc, &cred); err != nil {
			s.log.Warn().Err(err).Msg("skipping undecodable credential")
			continue
		}
		out = append(out, cred)
	}
	return out, nil
}

func (s *AuthService) generateToken(member *domain.MemberProfile, expires time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   member.ID,
		"email": member.Email,
		"role":  string(member.Role),
		"exp":   expires.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
