package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"ecommerce_api/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// UserIDKey is the context key carrying the authenticated user's ID.
const UserIDKey = "userID"

// JWTAuthMiddleware validates access tokens and extracts user information
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseTyped(tokenStr, secret, utils.TokenTypeAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(UserIDKey, claims.UserID) // Store userID in context
		c.Next()                        // Proceed to the next handler
	}
}

// OptionalJWTMiddleware extracts the user from a bearer token when one is
// supplied but lets anonymous requests through. Read endpoints use this to
// widen visibility for authenticated callers.
func OptionalJWTMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			if claims, err := utils.ParseTyped(tokenStr, secret, utils.TokenTypeAccess); err == nil {
				c.Set(UserIDKey, claims.UserID)
			}
		}
		c.Next()
	}
}
