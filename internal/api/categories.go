package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ecommerce_api/internal/catalog"
	"ecommerce_api/internal/domain"
	"ecommerce_api/internal/utils"
)

// CategoryCreateRequest is the create input shape; slug is server-derived.
type CategoryCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsActive    *bool  `json:"is_active"`
}

// CategoryUpdateRequest carries partial updates; nil fields stay untouched.
type CategoryUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	IsActive    *bool   `json:"is_active"`
}

// CategoryBulkRequest is the bulk mutation body for categories.
type CategoryBulkRequest struct {
	CategoryIDs []uint         `json:"category_ids"`
	UpdateData  map[string]any `json:"update_data"`
}

// categoryQuery applies the anonymous visibility rule to category reads.
func categoryQuery(c *gin.Context, db *gorm.DB) *gorm.DB {
	query := db.Model(&domain.Category{})
	if !isAuthenticated(c) {
		query = query.Where("is_active = ?", true)
	}
	return query
}

func fetchCategoryBySlug(c *gin.Context, db *gorm.DB) (*domain.Category, bool) {
	var category domain.Category
	if err := db.Where("slug = ?", c.Param("slug")).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return nil, false
	}
	if !category.IsActive && !isAuthenticated(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return nil, false
	}
	return &category, true
}

// ListCategoriesHandler returns the filtered, paginated category list.
func ListCategoriesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := catalog.ParseCategoryFilter(c.Request.URL.Query())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		query := filter.Apply(categoryQuery(c, db))
		var categories []domain.Category
		page, err := catalog.Paginate(query, catalog.ParsePagination(c.Request.URL.Query()), &categories)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		page.Results = newCategoryResponses(db, categories)
		c.JSON(http.StatusOK, page)
	}
}

// CreateCategoryHandler creates a category. Duplicate names surface as 400.
func CreateCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		category := domain.Category{
			Name:        req.Name,
			Description: req.Description,
			Image:       req.Image,
			IsActive:    true,
		}
		if req.IsActive != nil {
			category.IsActive = *req.IsActive
		}
		if err := db.Create(&category).Error; err != nil {
			if isUniqueViolation(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "A category with this name already exists"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		invalidateCatalogCaches(rdb)
		c.JSON(http.StatusCreated, newCategoryResponse(db, &category))
	}
}

// GetCategoryHandler retrieves one category by slug.
func GetCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, ok := fetchCategoryBySlug(c, db)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, newCategoryResponse(db, category))
	}
}

// UpdateCategoryHandler applies a full or partial update. The slug never changes.
func UpdateCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, ok := fetchCategoryBySlug(c, db)
		if !ok {
			return
		}
		var req CategoryUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Name != nil {
			if *req.Name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Name cannot be empty"})
				return
			}
			category.Name = *req.Name
		}
		if req.Description != nil {
			category.Description = *req.Description
		}
		if req.Image != nil {
			category.Image = *req.Image
		}
		if req.IsActive != nil {
			category.IsActive = *req.IsActive
		}
		if err := db.Save(category).Error; err != nil {
			if isUniqueViolation(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "A category with this name already exists"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		invalidateCatalogCaches(rdb)
		c.JSON(http.StatusOK, newCategoryResponse(db, category))
	}
}

// DeleteCategoryHandler soft-deletes the category. Its products stay put;
// the storage-level cascade only fires on a genuine row removal.
func DeleteCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, ok := fetchCategoryBySlug(c, db)
		if !ok {
			return
		}
		category.IsActive = false
		if err := db.Save(category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
			return
		}
		invalidateCatalogCaches(rdb)
		c.JSON(http.StatusNoContent, nil)
	}
}

// CategoryProductsHandler lists the active products inside one category.
func CategoryProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, ok := fetchCategoryBySlug(c, db)
		if !ok {
			return
		}
		query := db.Model(&domain.Product{}).Preload("Category").
			Where("category_id = ? AND is_active = ?", category.ID, true).
			Order("created_at desc")
		var products []domain.Product
		page, err := catalog.Paginate(query, catalog.ParsePagination(c.Request.URL.Query()), &products)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		page.Results = newProductResponses(products)
		c.JSON(http.StatusOK, page)
	}
}

// FeaturedCategoriesHandler returns the first six active categories, cached.
func FeaturedCategoriesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		var cached []CategoryResponse
		if found, err := utils.GetCache(ctx, rdb, cacheKeyFeaturedCategories, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"results": cached, "cached": true})
			return
		}
		var categories []domain.Category
		err := db.Where("is_active = ?", true).Order("name").Limit(6).Find(&categories).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		resp := newCategoryResponses(db, categories)
		_ = utils.SetCache(ctx, rdb, cacheKeyFeaturedCategories, resp, 60*time.Second)
		c.JSON(http.StatusOK, gin.H{"results": resp, "cached": false})
	}
}

// PopularCategoriesHandler ranks active categories by active product count,
// top ten, cached.
func PopularCategoriesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		var cached []CategoryResponse
		if found, err := utils.GetCache(ctx, rdb, cacheKeyPopularCategories, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"results": cached, "cached": true})
			return
		}
		var categories []domain.Category
		err := db.Model(&domain.Category{}).
			Select("categories.*").
			Joins("JOIN products ON products.category_id = categories.id AND products.is_active = ?", true).
			Where("categories.is_active = ?", true).
			Group("categories.id").
			Order("COUNT(products.id) desc").
			Limit(10).
			Find(&categories).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		resp := newCategoryResponses(db, categories)
		_ = utils.SetCache(ctx, rdb, cacheKeyPopularCategories, resp, 60*time.Second)
		c.JSON(http.StatusOK, gin.H{"results": resp, "cached": false})
	}
}

// SearchCategoriesHandler is free-text search over name and description.
func SearchCategoriesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("q")
		if q == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": `Search query parameter "q" is required`})
			return
		}
		query := catalog.SearchCategories(categoryQuery(c, db), q).Order("name")
		var categories []domain.Category
		page, err := catalog.Paginate(query, catalog.ParsePagination(c.Request.URL.Query()), &categories)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search categories"})
			return
		}
		page.Results = newCategoryResponses(db, categories)
		c.JSON(http.StatusOK, page)
	}
}

// CategoryStatsHandler reports product counts for one category.
func CategoryStatsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, ok := fetchCategoryBySlug(c, db)
		if !ok {
			return
		}
		var total, active, outOfStock int64
		db.Model(&domain.Product{}).Where("category_id = ?", category.ID).Count(&total)
		db.Model(&domain.Product{}).Where("category_id = ? AND is_active = ?", category.ID, true).Count(&active)
		db.Model(&domain.Product{}).Where("category_id = ? AND is_active = ? AND stock_quantity = 0", category.ID, true).Count(&outOfStock)
		c.JSON(http.StatusOK, gin.H{
			"category": newCategoryResponse(db, category),
			"stats": gin.H{
				"total_products":  total,
				"active_products": active,
				"out_of_stock":    outOfStock,
				"in_stock":        active - outOfStock,
			},
		})
	}
}

// ToggleCategoryActiveHandler flips the soft-delete flag.
func ToggleCategoryActiveHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, ok := fetchCategoryBySlug(c, db)
		if !ok {
			return
		}
		category.IsActive = !category.IsActive
		if err := db.Save(category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
			return
		}
		invalidateCatalogCaches(rdb)
		state := "deactivated"
		if category.IsActive {
			state = "activated"
		}
		c.JSON(http.StatusOK, gin.H{
			"message":  fmt.Sprintf("Category %s successfully", state),
			"category": newCategoryResponse(db, category),
		})
	}
}

// BulkUpdateCategoriesHandler applies one payload across many categories.
func BulkUpdateCategoriesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryBulkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if len(req.CategoryIDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category_ids field is required"})
			return
		}
		if len(req.UpdateData) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "update_data field is required"})
			return
		}
		updated := catalog.BulkUpdateCategories(db, req.CategoryIDs, req.UpdateData)
		invalidateCatalogCaches(rdb)
		c.JSON(http.StatusOK, gin.H{
			"message":       fmt.Sprintf("Successfully updated %d categories", updated),
			"updated_count": updated,
		})
	}
}

// BulkDeleteCategoriesHandler soft-deletes a batch of categories by ID.
func BulkDeleteCategoriesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			CategoryIDs []uint `json:"category_ids"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if len(req.CategoryIDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category_ids field is required"})
			return
		}
		deleted := catalog.BulkSoftDeleteCategories(db, req.CategoryIDs)
		invalidateCatalogCaches(rdb)
		c.JSON(http.StatusOK, gin.H{
			"message":       fmt.Sprintf("Successfully deleted %d categories", deleted),
			"deleted_count": deleted,
		})
	}
}
