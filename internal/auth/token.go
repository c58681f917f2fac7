package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smart-form-builder-api/internal/models"
)

// Identity is the authenticated principal carried by a bearer token
type Identity struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// Claims are the JWT claims issued at login
type Claims struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// ErrorKind classifies token failures
type ErrorKind int

const (
	KindMissing ErrorKind = iota
	KindInvalid
	KindExpired
)

// Error is returned when a request cannot be authenticated
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissing:
		return "missing token"
	case KindExpired:
		return "token expired"
	default:
		return "invalid token"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrForbidden is returned when an identity lacks the required role
var ErrForbidden = errors.New("forbidden")

// TokenManager signs and verifies HS256 bearer tokens
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a TokenManager issuing tokens valid for ttl
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the identity
func (m *TokenManager) Issue(id Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:    id.ID,
		Email: id.Email,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token
func (m *TokenManager) Verify(tokenStr string) (*Identity, error) {
	if tokenStr == "" {
		return nil, &Error{Kind: KindMissing}
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &Error{Kind: KindExpired, Err: err}
		}
		return nil, &Error{Kind: KindInvalid, Err: err}
	}
	if !token.Valid {
		return nil, &Error{Kind: KindInvalid, Err: jwt.ErrSignatureInvalid}
	}

	return &Identity{ID: claims.ID, Email: claims.Email, Role: claims.Role}, nil
}

// Authorize fails with ErrForbidden unless the identity has the required role
func Authorize(id *Identity, required models.Role) error {
	if id == nil {
		return &Error{Kind: KindMissing}
	}
	if id.Role != required {
		return ErrForbidden
	}
	return nil
}
