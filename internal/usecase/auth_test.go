package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/swiftdrop/swiftdrop/internal/domain/errors"
	"github.com/swiftdrop/swiftdrop/internal/domain/model"
	pkgAuth "github.com/swiftdrop/swiftdrop/internal/pkg/auth"
	testhelpers "github.com/swiftdrop/swiftdrop/internal/test"
)

func newAuthUseCase() (*AuthUseCase, *testhelpers.UserRepositoryStub) {
	users := testhelpers.NewUserRepositoryStub()
	return NewAuthUseCase(users, testhelpers.HasherStub{}, testhelpers.StrategyStub{}), users
}

func TestRegisterStoresHashedPassword(t *testing.T) {
	uc, users := newAuthUseCase()

	user, token, err := uc.Register(context.Background(), "Alice", "alice", "secret", "customer")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if user.Role != model.RoleCustomer {
		t.Fatalf("unexpected role %q", user.Role)
	}

	stored := users.Users["alice"]
	if stored == nil {
		t.Fatal("user not persisted")
	}
	if stored.PasswordHash == "secret" {
		t.Fatal("password stored in plain text")
	}
	if stored.PasswordHash != "hash:secret" {
		t.Fatalf("unexpected hash %q", stored.PasswordHash)
	}
}

func TestRegisterValidation(t *testing.T) {
	uc, _ := newAuthUseCase()

	tests := []struct {
		name                        string
		userName, login, pass, role string
	}{
		{"empty name", "", "alice", "secret", "customer"},
		{"empty login", "Alice", "", "secret", "customer"},
		{"empty password", "Alice", "alice", "", "customer"},
		{"unknown role", "Alice", "alice", "secret", "dispatcher"},
		{"admin not registrable", "Alice", "alice", "secret", "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := uc.Register(context.Background(), tt.userName, tt.login, tt.pass, tt.role)
			if !errors.Is(err, domainErrors.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestRegisterDuplicateLogin(t *testing.T) {
	uc, _ := newAuthUseCase()

	if _, _, err := uc.Register(context.Background(), "Alice", "alice", "secret", "customer"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, _, err := uc.Register(context.Background(), "Other", "alice", "secret", "courier")
	if !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	uc, _ := newAuthUseCase()
	if _, _, err := uc.Register(context.Background(), "Bob", "bob", "secret", "courier"); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, token, err := uc.Authenticate(context.Background(), "bob", "secret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if token == "" || user.Login != "bob" {
		t.Fatalf("unexpected result %+v token=%q", user, token)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	uc, _ := newAuthUseCase()
	if _, _, err := uc.Register(context.Background(), "Bob", "bob", "secret", "courier"); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		name        string
		login, pass string
	}{
		{"wrong password", "bob", "nope"},
		{"unknown login", "eve", "secret"},
		{"empty login", "", "secret"},
		{"empty password", "bob", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := uc.Authenticate(context.Background(), tt.login, tt.pass)
			if !errors.Is(err, domainErrors.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestParseTokenRoundTrip(t *testing.T) {
	uc, _ := newAuthUseCase()
	user, token, err := uc.Register(context.Background(), "Bob", "bob", "secret", "courier")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	claims, err := uc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != model.RoleCourier {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := uc.ParseToken(""); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	uc, _ := newAuthUseCase()
	user, _, err := uc.Register(context.Background(), "Bob", "bob", "secret", "courier")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := uc.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Login != "bob" {
		t.Fatalf("unexpected user %+v", got)
	}

	if _, err := uc.GetByID(context.Background(), 404); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
