// Package auth issues and checks gate tokens: short-lived HS256 JWTs that
// prove a successful PIN check for one role.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// GateScope is the only scope issued today.
const GateScope = "vault"

type Claims struct {
	jwt.RegisteredClaims
	Role  string `json:"role"`
	Scope string `json:"scope"`
}

// GenerateToken signs a gate token for role valid for validity.
func GenerateToken(role string, secretKey []byte, validity time.Duration) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(validity)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			Subject:   role,
		},
		Role:  role,
		Scope: GateScope,
	})

	s, err := token.SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, expires, nil
}

// ParseToken validates tokenString and returns its claims. Expired tokens
// yield common.ErrTokenExpired, everything else common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Scope != GateScope || claims.Role == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
