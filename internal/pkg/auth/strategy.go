package auth

import (
	"errors"
	"time"

	"github.com/swiftdrop/swiftdrop/internal/domain/model"
)

var ErrInvalidToken = errors.New("invalid auth token")

// TokenClaims is the identity carried inside an auth token. Role travels
// with the token so that request handling does not need a user lookup.
type TokenClaims struct {
	UserID int64
	Name   string
	Role   model.Role
}

// Strategy issues and verifies auth tokens.
type Strategy interface {
	IssueToken(user *model.User) (string, error)
	ParseToken(token string) (*TokenClaims, error)
	Name() string
}

// Options tunes token issuance.
type Options struct {
	TTL time.Duration
}
