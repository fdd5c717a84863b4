package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the claims so a refresh token can never be
// used as an access token.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var cfg *config.JWTConfig

// ErrWrongTokenType is returned when an access token is presented for
// refresh or vice versa.
var ErrWrongTokenType = errors.New("wrong token type")

// UserClaims represents the JWT claims for user authentication. Role is
// embedded at issue time so authorization does not need a user lookup;
// object-level checks may still re-verify against the store.
type UserClaims struct {
	Email     string `json:"email"`
	UserID    uint   `json:"user_id"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Initialize sets the JWT configuration for the package
func Initialize(jwtConfig *config.JWTConfig) {
	cfg = jwtConfig
}

// GenerateAccessToken creates a short-lived JWT carrying identity and role
func GenerateAccessToken(email string, userID uint, role string) (string, error) {
	if cfg == nil {
		return "", errors.New("JWT configuration not provided")
	}
	return generate(email, userID, role, TokenTypeAccess, time.Duration(cfg.ExpirationHours)*time.Hour)
}

// GenerateRefreshToken creates a long-lived JWT used only to reissue
// access tokens. It carries the same role as the access token so a
// refresh reissues exactly what was originally embedded.
func GenerateRefreshToken(email string, userID uint, role string) (string, error) {
	if cfg == nil {
		return "", errors.New("JWT configuration not provided")
	}
	return generate(email, userID, role, TokenTypeRefresh, time.Duration(cfg.RefreshExpirationHours)*time.Hour)
}

func generate(email string, userID uint, role string, tokenType string, ttl time.Duration) (string, error) {
	claims := UserClaims{
		Email:     email,
		UserID:    userID,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SigningKey))
}

// ValidateToken validates and parses a JWT of the given type
func ValidateToken(tokenString string, tokenType string) (*UserClaims, error) {
	if cfg == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.SigningKey), nil
		},
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}
