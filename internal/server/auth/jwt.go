// Package auth issues and verifies the HS256 access tokens handed out at login.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/plume/internal/common"
	"github.com/dmitrijs2005/plume/internal/server/policy"
	"github.com/dmitrijs2005/plume/internal/server/vocab"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the principal the token was
// issued to.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64
	Role   vocab.Role
}

func (c *Claims) Principal() policy.Principal {
	return policy.Principal{UserID: c.UserID, Role: c.Role}
}

func GenerateToken(p policy.Principal, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: p.UserID,
		Role:   p.Role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry. Expired tokens yield
// common.ErrTokenExpired, every other failure common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
