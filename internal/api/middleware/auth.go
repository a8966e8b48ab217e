package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/lodgeroll/membership/internal/core/domain"
)

// actorKey is the echo context key holding the authenticated domain.Actor.
const actorKey = "actor"

// MemberLookup resolves the stored profile behind a token subject.
type MemberLookup interface {
	Get(ctx context.Context, id string) (*domain.MemberProfile, error)
}

// Auth validates the JWT and injects the caller as a domain.Actor. The token
// only proves identity: role and activity come from the stored profile on
// every request, so demotion and deactivation apply immediately.
func Auth(jwtSecret string, members MemberLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims["sub"].(string)
			if sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}

			member, err := members.Get(c.Request().Context(), sub)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown member")
				}
				return err
			}
			if !member.IsActive {
				return echo.NewHTTPError(http.StatusForbidden, "member is inactive")
			}

			SetActor(c, domain.Actor{ID: sub, Email: member.Email, Role: domain.ParseRole(string(member.Role))})
			return next(c)
		}
	}
}

// SetActor stores the caller on the request context.
func SetActor(c echo.Context, actor domain.Actor) {
	c.Set(actorKey, actor)
}

// ActorFrom returns the caller injected by Auth.
func ActorFrom(c echo.Context) (domain.Actor, bool) {
	actor, ok := c.Get(actorKey).(domain.Actor)
	return actor, ok
}
