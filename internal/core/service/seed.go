package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/productstore/store-api/internal/core/domain"
	"github.com/productstore/store-api/internal/core/ports"
)

type seedUser struct {
	username string
	password string
	role     domain.Role
}

var demoUsers = []seedUser{
	{"admin", "admin123", domain.RoleAdmin},
	{"manager", "manager123", domain.RoleManager},
	{"user", "user123", domain.RoleUser},
}

var demoProducts = []ports.CreateProductInput{
	{Name: "Apples", Category: "Fruit", Price: 89.99, Stock: 100, Description: "Fresh apples", Image: "/photo/apples.jpg"},
	{Name: "Milk", Category: "Dairy", Price: 75.50, Stock: 50, Description: "Milk 2.5%", Image: "/photo/milk.jpg"},
}

// Seeder fills an empty store with demo accounts and products.
type Seeder struct {
	auth     ports.AuthService
	products ports.ProductService
	repo     ports.ProductRepository
	log      zerolog.Logger
}

func NewSeeder(auth ports.AuthService, products ports.ProductService, repo ports.ProductRepository, log zerolog.Logger) *Seeder {
	return &Seeder{auth: auth, products: products, repo: repo, log: log}
}

// Seed registers the demo users that do not exist yet and inserts the demo
// products when the catalog is empty. It is safe to run on every start.
func (s *Seeder) Seed(ctx context.Context) error {
	for _, u := range demoUsers {
		_, err := s.auth.Register(ctx, u.username, u.password, string(u.role))
		switch {
		case err == nil:
			s.log.Info().Str("username", u.username).Msg("seeded demo user")
		case errors.Is(err, domain.ErrUserExists):
		default:
			return fmt.Errorf("seed user %s: %w", u.username, err)
		}
	}

	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, p := range demoProducts {
		if _, err := s.products.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Name, err)
		}
	}
	s.log.Info().Int("count", len(demoProducts)).Msg("seeded demo products")
	return nil
}
