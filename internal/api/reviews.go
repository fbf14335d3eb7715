package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ecommerce_api/internal/catalog"
	"ecommerce_api/internal/domain"
)

// ReviewCreateRequest is the review input shape. Rating must be 1..5.
type ReviewCreateRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// ListProductReviewsHandler lists reviews for one product, newest first.
func ListProductReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := fetchProductBySlug(c, db)
		if !ok {
			return
		}
		query := db.Model(&domain.ProductReview{}).Preload("User").
			Where("product_id = ?", product.ID).
			Order("created_at desc")
		var reviews []domain.ProductReview
		page, err := catalog.Paginate(query, catalog.ParsePagination(c.Request.URL.Query()), &reviews)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}
		page.Results = newReviewResponses(reviews)
		c.JSON(http.StatusOK, page)
	}
}

// CreateProductReviewHandler records the caller's review of a product.
// One review per (product, user); a second attempt is a 400.
func CreateProductReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		product, found := fetchProductBySlug(c, db)
		if !found {
			return
		}
		var req ReviewCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Rating < 1 || req.Rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
			return
		}
		review := domain.ProductReview{
			ProductID: product.ID,
			UserID:    user.ID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}
		if err := db.Create(&review).Error; err != nil {
			if isUniqueViolation(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "You have already reviewed this product"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		review.User = *user
		c.JSON(http.StatusCreated, newReviewResponse(&review))
	}
}
