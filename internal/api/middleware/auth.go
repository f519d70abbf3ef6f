package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/productstore/store-api/internal/core/domain"
)

const (
	identityKey = "identity"
	usernameKey = "username"
	roleKey     = "role"
)

// TokenVerifier turns a bearer token into an identity.
type TokenVerifier interface {
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}

// Auth validates the bearer token and injects the caller identity into the context.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header").
					SetInternal(domain.ErrMissingToken)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header").
					SetInternal(domain.ErrInvalidToken)
			}

			identity, err := verifier.Authenticate(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
			}

			SetIdentity(c, *identity)
			return next(c)
		}
	}
}

// SetIdentity stores the authenticated caller on the request context.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
	c.Set(usernameKey, id.Username)
	c.Set(roleKey, string(id.Role))
}

// IdentityFrom returns the caller stored by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}
