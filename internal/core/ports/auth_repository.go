package ports

import (
	"context"

	"github.com/productstore/store-api/internal/core/domain"
)

// AuthRepository is the credential store. Create must fail with
// domain.ErrUserExists when the username is taken.
type AuthRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
