package ports

import (
	"context"

	"github.com/productstore/store-api/internal/core/domain"
)

// AuthService issues and verifies session tokens.
type AuthService interface {
	Register(ctx context.Context, username, password, role string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}
