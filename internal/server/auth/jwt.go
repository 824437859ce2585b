// Package auth implements session tokens and password hashing for the
// sejour server. Tokens are stateless: validity is determined solely by the
// HMAC signature and the embedded expiry, never by server-side state.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hopitalsej/sejour/internal/common"
)

// Claims carries the identity asserted by a session token: the account id,
// email, and role labels, plus the registered expiry/issued-at claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string   `json:"id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

// Session is the decoded identity attached to guarded requests.
type Session struct {
	UserID string
	Email  string
	Roles  common.RoleSet
}

// GenerateToken signs an HS256 token for the given identity, expiring after
// validityDuration.
func GenerateToken(userID, email string, roles []string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
		Email:  email,
		Roles:  roles,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry and returns the embedded
// session identity. Expired tokens yield common.ErrTokenExpired; any other
// defect yields common.ErrInvalidToken. Only HMAC signing methods are
// accepted.
func ParseToken(tokenString string, secretKey []byte) (*Session, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return &Session{
		UserID: claims.UserID,
		Email:  claims.Email,
		Roles:  common.NewRoleSet(claims.Roles),
	}, nil
}
