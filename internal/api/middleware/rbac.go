package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/productstore/store-api/internal/api/metrics"
	"github.com/productstore/store-api/internal/core/domain"
)

// Authorize enforces domain.Policy for op. It must run after Auth for any
// operation that requires a token.
func Authorize(op domain.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var role domain.Role
			if id, ok := IdentityFrom(c); ok {
				role = id.Role
			} else if domain.RequiresToken(op) {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims").
					SetInternal(domain.ErrMissingToken)
			}

			if !domain.Allowed(op, role) {
				metrics.AuthorizationDenialsTotal.WithLabelValues(string(op)).Inc()
				return echo.NewHTTPError(http.StatusForbidden, "forbidden").SetInternal(domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
