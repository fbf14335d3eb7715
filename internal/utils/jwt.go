package utils

import (
	"errors"
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// Token types carried in the custom claim. Access tokens authenticate
// requests, refresh tokens may only mint new access tokens.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrWrongTokenType is returned when a token of the wrong kind is presented.
var ErrWrongTokenType = errors.New("unexpected token type")

// JWT Claims
type Claims struct {
	UserID               uint   `json:"user_id"`    // Custom claim for user ID
	TokenType            string `json:"token_type"` // access or refresh
	jwt.RegisteredClaims        // Standard JWT claims
}

// TokenPair is the access/refresh pair handed out on login and registration.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// GenerateToken creates a single signed token of the given type and lifetime.
func GenerateToken(userID uint, tokenType, secret string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// GenerateTokenPair issues a fresh access+refresh pair for a user.
func GenerateTokenPair(userID uint, secret string, accessTTL, refreshTTL time.Duration) (*TokenPair, error) {
	access, err := GenerateToken(userID, TokenTypeAccess, secret, accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := GenerateToken(userID, TokenTypeRefresh, secret, refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// ParseJWT parses and validates a JWT token string
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}

// ParseTyped parses a token and additionally checks its type claim.
func ParseTyped(tokenStr, secret, tokenType string) (*Claims, error) {
	claims, err := ParseJWT(tokenStr, secret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
