package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/productstore/store-api/internal/core/domain"
)

func newTestAuthService(repo *stubAuthRepo) *AuthService {
	return NewAuthService(repo, "secret", 24*time.Hour, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), "alice", "pass123", "user")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user == nil {
		t.Fatalf("expected user, got nil")
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if user.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be stamped")
	}
}

func TestAuthService_Register_SaltsHashes(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	a, _ := svc.Register(context.Background(), "a", "same", "user")
	b, _ := svc.Register(context.Background(), "b", "same", "user")
	if a.PasswordHash == b.PasswordHash {
		t.Fatalf("equal passwords must not produce equal hashes")
	}
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	for _, role := range []string{"", "root", "client", "ADMIN", "guest"} {
		if _, err := svc.Register(context.Background(), "bob", "pass", role); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("role %q: expected ErrValidation, got %v", role, err)
		}
	}
	if len(repo.users) != 0 {
		t.Fatalf("rejected registrations must not be stored")
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc := newTestAuthService(newStubAuthRepo())

	if _, err := svc.Register(context.Background(), "", "pass", "user"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty username, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "", "user"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty password, got %v", err)
	}
}

func TestAuthService_Register_PasswordTooLong(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	// 40 two-byte runes: short in characters, too long for bcrypt.
	_, err := svc.Register(context.Background(), "bob", strings.Repeat("é", 40), "user")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("rejected registrations must not be stored")
	}

	if _, err := svc.Register(context.Background(), "bob", strings.Repeat("a", 72), "user"); err != nil {
		t.Fatalf("72-byte password should be accepted, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), "bob", "pass", "user"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "pass2", "admin"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), "carol", "s3cret", "admin"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Username != "carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != string(domain.RoleAdmin) {
		t.Fatalf("expected role %s, got %v", domain.RoleAdmin, claims["role"])
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatalf("expected exp claim: %v", err)
	}
	iat, _ := claims.GetIssuedAt()
	if got := exp.Sub(iat.Time); got != 24*time.Hour {
		t.Fatalf("expected 24h lifetime, got %s", got)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	_, _ = svc.Register(context.Background(), "dave", "goodpass", "user")
	token, _, err := svc.Login(context.Background(), "dave", "badpass")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if token != "" {
		t.Fatalf("expected no token on failure")
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc := newTestAuthService(newStubAuthRepo())

	if _, _, err := svc.Login(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Authenticate_AcceptsIssuedToken(t *testing.T) {
	svc := newTestAuthService(newStubAuthRepo())
	_, _ = svc.Register(context.Background(), "erin", "pw", "manager")

	token, _, err := svc.Login(context.Background(), "erin", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	id, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if id.Username != "erin" || id.Role != domain.RoleManager {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthService_Authenticate_MissingToken(t *testing.T) {
	svc := newTestAuthService(newStubAuthRepo())

	if _, err := svc.Authenticate(context.Background(), ""); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestAuthService_Authenticate_ExpiredToken(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := issuedAt
	svc := newTestAuthService(newStubAuthRepo()).WithClock(func() time.Time { return clock })
	_, _ = svc.Register(context.Background(), "frank", "pw", "user")

	token, _, err := svc.Login(context.Background(), "frank", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	clock = issuedAt.Add(23 * time.Hour)
	if _, err := svc.Authenticate(context.Background(), token); err != nil {
		t.Fatalf("token should still be valid after 23h: %v", err)
	}

	clock = issuedAt.Add(24*time.Hour + time.Second)
	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after 24h, got %v", err)
	}
}

func TestAuthService_Authenticate_RejectsForeignSignature(t *testing.T) {
	svc := newTestAuthService(newStubAuthRepo())

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "mallory",
		"role":     "admin",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), signed); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Authenticate_RejectsTokenWithoutExpiry(t *testing.T) {
	svc := newTestAuthService(newStubAuthRepo())

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"username": "gina", "role": "admin"})
	signed, _ := tok.SignedString([]byte("secret"))

	if _, err := svc.Authenticate(context.Background(), signed); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Authenticate_RejectsUnknownRole(t *testing.T) {
	svc := newTestAuthService(newStubAuthRepo())

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "hank",
		"role":     "superuser",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, _ := tok.SignedString([]byte("secret"))

	if _, err := svc.Authenticate(context.Background(), signed); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Authenticate_Garbage(t *testing.T) {
	svc := newTestAuthService(newStubAuthRepo())

	if _, err := svc.Authenticate(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
