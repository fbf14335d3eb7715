package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ecommerce_api/internal/domain"
	"ecommerce_api/internal/middleware"
)

// Cache keys for the hot read endpoints. Mutating handlers invalidate these.
const (
	cacheKeyFeaturedProducts   = "products:featured"
	cacheKeyFeaturedCategories = "categories:featured"
	cacheKeyPopularCategories  = "categories:popular"
)

// isAuthenticated reports whether the request carries a valid access token.
func isAuthenticated(c *gin.Context) bool {
	_, exists := c.Get(middleware.UserIDKey)
	return exists
}

// currentUser loads the authenticated user's row, if any.
func currentUser(c *gin.Context, db *gorm.DB) (*domain.User, bool) {
	id, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return nil, false
	}
	var user domain.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// isUniqueViolation detects duplicate-key failures across the MySQL and
// SQLite drivers so CRUD paths can surface them as a 400.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") || strings.Contains(msg, "unique constraint")
}
