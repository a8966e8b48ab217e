package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/lodgeroll/membership/internal/core/domain"
)

func TestRequireLevel_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	SetActor(c, domain.Actor{ID: "m1", Role: domain.RoleJuniorLeadman})

	called := false
	mw := RequireLevel(domain.LevelLeadership)
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireLevel_Forbids(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleMember, domain.RoleGuest, "stranger"} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		SetActor(c, domain.Actor{ID: "m1", Role: role})

		mw := RequireLevel(domain.LevelLeadership)
		handler := mw(func(c echo.Context) error {
			t.Fatalf("should not reach next handler")
			return nil
		})

		_ = handler(c)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("role %q: expected 403, got %d", role, rec.Code)
		}
	}
}

func TestRequireLevel_MissingActor(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireLevel(domain.LevelNone)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	_ = handler(c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireSystemAdmin_RankIsNotEnough(t *testing.T) {
	cases := map[domain.Role]int{
		domain.RoleGovernor:  http.StatusForbidden,
		domain.RoleHistorian: http.StatusForbidden,
		domain.RoleSudoAdmin: http.StatusOK,
	}
	for role, want := range cases {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		SetActor(c, domain.Actor{ID: "x", Role: role})

		handler := RequireSystemAdmin()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		_ = handler(c)
		if rec.Code != want {
			t.Fatalf("role %q: expected %d, got %d", role, want, rec.Code)
		}
	}
}
