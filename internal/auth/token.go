package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identify whoever is allowed to register courses.
type Claims struct {
	Editor string `json:"editor"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 bearer token for an editor.
func IssueToken(secret, editor string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret not configured")
	}
	now := time.Now()
	claims := Claims{
		Editor: editor,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   editor,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
