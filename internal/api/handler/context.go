package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/productstore/store-api/internal/api/middleware"
	"github.com/productstore/store-api/internal/core/domain"
)

// callerIdentity extracts the identity injected by the Auth middleware and
// fails fast when it is absent, which means the route was wired without Auth.
func callerIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.Username == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims").
			SetInternal(domain.ErrMissingToken)
	}
	return id, nil
}
