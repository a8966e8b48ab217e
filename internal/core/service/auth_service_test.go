package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/lodgeroll/membership/internal/core/domain"
)

func seedMember(t *testing.T, store *stubStore, form domain.MemberForm) *domain.MemberProfile {
	t.Helper()
	dir := NewDirectoryService(store, zerolog.Nop())
	m, err := dir.Save(context.Background(), actorWith(domain.RoleSudoAdmin), "", form)
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return m
}

func TestAuthService_SetPasswordThenLogin(t *testing.T) {
	store := newStubStore()
	svc := NewAuthService(store, "secret", time.Hour, zerolog.Nop())
	member := seedMember(t, store, domain.MemberForm{DisplayName: "Carol", Email: "Carol@example.com", Role: rolePtr(domain.RoleGovernor)})

	self := domain.Actor{ID: member.ID, Role: member.Role}
	if err := svc.SetPassword(context.Background(), self, member.ID, "s3cret-pass"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}

	doc, err := store.GetDocument(context.Background(), domain.CollectionCredentials, member.ID)
	if err != nil {
		t.Fatalf("credential not stored: %v", err)
	}
	hash, _ := doc["password_hash"].(string)
	if hash == "" || hash == "s3cret-pass" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-pass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	session, err := svc.Login(context.Background(), "carol@EXAMPLE.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if session.Member == nil || session.Member.ID != member.ID {
		t.Fatalf("unexpected member: %+v", session.Member)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(session.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != member.ID {
		t.Fatalf("expected sub %s, got %v", member.ID, claims["sub"])
	}
	if claims["role"] != string(domain.RoleGovernor) {
		t.Fatalf("expected role %s, got %v", domain.RoleGovernor, claims["role"])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	store := newStubStore()
	svc := NewAuthService(store, "secret", time.Hour, zerolog.Nop())
	member := seedMember(t, store, domain.MemberForm{DisplayName: "Dave", Email: "dave@example.com"})
	if err := svc.SetPassword(context.Background(), actorWith(domain.RoleSudoAdmin), member.ID, "goodpass1"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}

	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newStubStore(), "secret", time.Hour, zerolog.Nop())

	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass1234"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for empty input, got %v", err)
	}
}

func TestAuthService_Login_InactiveMember(t *testing.T) {
	store := newStubStore()
	svc := NewAuthService(store, "secret", time.Hour, zerolog.Nop())
	member := seedMember(t, store, domain.MemberForm{DisplayName: "Eve", Email: "eve@example.com", IsActive: boolPtr(false)})
	if err := svc.SetPassword(context.Background(), actorWith(domain.RoleSudoAdmin), member.ID, "password1"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}

	if _, err := svc.Login(context.Background(), "eve@example.com", "password1"); !errors.Is(err, domain.ErrInactiveMember) {
		t.Fatalf("expected ErrInactiveMember, got %v", err)
	}
}

func TestAuthService_SetPassword_Authorization(t *testing.T) {
	store := newStubStore()
	svc := NewAuthService(store, "secret", time.Hour, zerolog.Nop())
	member := seedMember(t, store, domain.MemberForm{DisplayName: "Fay", Email: "fay@example.com"})

	// Rank alone does not allow changing another member's password.
	if err := svc.SetPassword(context.Background(), actorWith(domain.RoleGovernor), member.ID, "password1"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if store.writeCount() != 1 { // the seeded profile only
		t.Fatalf("denied SetPassword reached the store")
	}

	if err := svc.SetPassword(context.Background(), actorWith(domain.RoleSudoAdmin), member.ID, "short"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for short password, got %v", err)
	}
	if err := svc.SetPassword(context.Background(), actorWith(domain.RoleSudoAdmin), "ghost", "password1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown member, got %v", err)
	}
}

func TestAuthService_Credentials_SystemAdminOnly(t *testing.T) {
	store := newStubStore()
	svc := NewAuthService(store, "secret", time.Hour, zerolog.Nop())
	admin := actorWith(domain.RoleSudoAdmin)
	for _, email := range []string{"zed@example.com", "amy@example.com"} {
		m := seedMember(t, store, domain.MemberForm{DisplayName: email, Email: email})
		if err := svc.SetPassword(context.Background(), admin, m.ID, "password1"); err != nil {
			t.Fatalf("SetPassword: %v", err)
		}
	}

	if _, err := svc.Credentials(context.Background(), actorWith(domain.RoleGovernor)); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	creds, err := svc.Credentials(context.Background(), admin)
	if err != nil {
		t.Fatalf("Credentials: %v", err)
	}
	if len(creds) != 2 || creds[0].Email != "amy@example.com" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
	for _, c := range creds {
		if c.PasswordHash != "" {
			t.Fatalf("hash leaked for %s", c.Email)
		}
	}
}
