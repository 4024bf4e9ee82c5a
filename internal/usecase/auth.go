package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/swiftdrop/swiftdrop/internal/domain/errors"
	"github.com/swiftdrop/swiftdrop/internal/domain/model"
	"github.com/swiftdrop/swiftdrop/internal/domain/repository"
	pkgAuth "github.com/swiftdrop/swiftdrop/internal/pkg/auth"
)

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// Register creates a new user and returns an auth token. Only customer
// and courier roles are registrable.
func (u *AuthUseCase) Register(ctx context.Context, name, login, password, role string) (*model.User, string, error) {
	name = strings.TrimSpace(name)
	login = strings.TrimSpace(login)
	if name == "" || login == "" || password == "" {
		return nil, "", domainErrors.ErrValidation
	}

	parsedRole, ok := model.ParseRole(role)
	if !ok {
		return nil, "", domainErrors.ErrValidation
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	usr, err := u.users.Create(ctx, name, login, hash, parsedRole)
	if err != nil {
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(usr)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authenticate validates credentials and returns an auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(usr)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// ParseToken extracts the caller identity from the provided token.
func (u *AuthUseCase) ParseToken(token string) (*pkgAuth.TokenClaims, error) {
	if token == "" {
		return nil, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}
