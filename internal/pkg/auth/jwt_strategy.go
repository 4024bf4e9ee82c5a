package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/swiftdrop/swiftdrop/internal/domain/model"
)

// JWTStrategy implements token creation/verification with HS256 JWTs.
type JWTStrategy struct {
	secret []byte
	ttl    time.Duration
}

type jwtClaims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTStrategy builds JWTStrategy with the provided secret and options.
func NewJWTStrategy(secret string, opts Options) *JWTStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTStrategy{secret: []byte(secret), ttl: ttl}
}

// IssueToken generates a signed token carrying user identity and role.
func (s *JWTStrategy) IssueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		Name: user.Name,
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates the token and returns the embedded claims.
func (s *JWTStrategy) ParseToken(token string) (*TokenClaims, error) {
	var claims jwtClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	role := model.Role(claims.Role)
	switch role {
	case model.RoleCustomer, model.RoleCourier, model.RoleAdmin:
	default:
		return nil, ErrInvalidToken
	}

	return &TokenClaims{UserID: userID, Name: claims.Name, Role: role}, nil
}

func (s *JWTStrategy) Name() string {
	return "jwt"
}
