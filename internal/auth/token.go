package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller, as asserted by a verified token.
// It is produced once by the middleware and passed explicitly into every
// service call.
type Identity struct {
	UserID int64
	Email  string
}

var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// TokenIssuer signs and verifies HS256 identity tokens with a fixed expiry.
// There is no refresh or revocation: a token is valid until its exp claim.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token asserting the given identity.
func (t *TokenIssuer) Issue(id Identity) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": id.UserID,
		"email":   id.Email,
		"iat":     now.Unix(),
		"exp":     now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the asserted identity.
// Any failure (bad signature, wrong algorithm, expiry) yields ErrInvalidToken.
func (t *TokenIssuer) Verify(tokenStr string) (Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	return Identity{UserID: int64(userID), Email: email}, nil
}
