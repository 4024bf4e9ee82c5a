package test

import (
	"errors"
	"strconv"
	"strings"

	"github.com/swiftdrop/swiftdrop/internal/domain/model"
	pkgAuth "github.com/swiftdrop/swiftdrop/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides. The
// default token format is "token:<id>:<role>" so ParseToken can round it
// back without real signing.
type StrategyStub struct {
	IssueFn func(*model.User) (string, error)
	ParseFn func(string) (*pkgAuth.TokenClaims, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(user *model.User) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(user)
	}
	return "token:" + strconv.FormatInt(user.ID, 10) + ":" + string(user.Role), nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (*pkgAuth.TokenClaims, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "token" {
		return nil, pkgAuth.ErrInvalidToken
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, pkgAuth.ErrInvalidToken
	}
	return &pkgAuth.TokenClaims{UserID: id, Role: model.Role(parts[2])}, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}
