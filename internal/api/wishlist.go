package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ecommerce_api/internal/domain"
)

// getOrCreateWishlist fetches the caller's wishlist, creating it for
// accounts that predate the registration workflow.
func getOrCreateWishlist(db *gorm.DB, userID uint) (*domain.Wishlist, error) {
	var wishlist domain.Wishlist
	err := db.Where("user_id = ?", userID).First(&wishlist).Error
	if err == gorm.ErrRecordNotFound {
		wishlist = domain.Wishlist{UserID: userID}
		err = db.Create(&wishlist).Error
	}
	if err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// GetWishlistHandler returns the caller's wishlist with its products.
func GetWishlistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		wishlist, err := getOrCreateWishlist(db, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}
		var products []domain.Product
		err = db.Preload("Category").
			Joins("JOIN wishlist_products ON wishlist_products.product_id = products.id").
			Where("wishlist_products.wishlist_id = ?", wishlist.ID).
			Find(&products).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":       wishlist.ID,
			"products": newProductResponses(products),
		})
	}
}

// AddToWishlistHandler attaches a product to the caller's wishlist.
func AddToWishlistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		var req struct {
			ProductID uint `json:"product_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product_id field is required"})
			return
		}
		var product domain.Product
		if err := db.First(&product, req.ProductID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		wishlist, err := getOrCreateWishlist(db, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}
		if err := db.Model(wishlist).Association("Products").Append(&product); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product added to wishlist"})
	}
}

// RemoveFromWishlistHandler detaches a product from the caller's wishlist.
func RemoveFromWishlistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		var product domain.Product
		if err := db.First(&product, productID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		wishlist, err := getOrCreateWishlist(db, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}
		if err := db.Model(wishlist).Association("Products").Delete(&product); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product removed from wishlist"})
	}
}
