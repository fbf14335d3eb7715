package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ecommerce_api/internal/catalog"
	"ecommerce_api/internal/domain"
	"ecommerce_api/internal/utils"
)

// ProductCreateRequest is the create/update input shape. Slug, creator and
// timestamps are server-assigned and not accepted here.
type ProductCreateRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	Category      uint            `json:"category" binding:"required"`
	StockQuantity uint            `json:"stock_quantity"`
	Image         string          `json:"image"`
	IsActive      *bool           `json:"is_active"`
}

// ProductUpdateRequest carries partial updates; nil fields stay untouched.
type ProductUpdateRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Category      *uint            `json:"category"`
	StockQuantity *uint            `json:"stock_quantity"`
	Image         *string          `json:"image"`
	IsActive      *bool            `json:"is_active"`
}

// BulkUpdateRequest is the shared bulk mutation body shape.
type BulkUpdateRequest struct {
	ProductIDs []uint         `json:"product_ids"`
	UpdateData map[string]any `json:"update_data"`
}

// productQuery is the base product query with the anonymous visibility rule
// applied: unauthenticated callers only ever see active rows.
func productQuery(c *gin.Context, db *gorm.DB) *gorm.DB {
	query := db.Model(&domain.Product{}).Preload("Category")
	if !isAuthenticated(c) {
		query = query.Where("products.is_active = ?", true)
	}
	return query
}

// fetchProductBySlug loads one product honoring the visibility rule.
func fetchProductBySlug(c *gin.Context, db *gorm.DB) (*domain.Product, bool) {
	var product domain.Product
	err := db.Preload("Category").Preload("CreatedBy").
		Where("slug = ?", c.Param("slug")).First(&product).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return nil, false
	}
	if !product.IsActive && !isAuthenticated(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return nil, false
	}
	return &product, true
}

// invalidateCatalogCaches drops the cached hot lists after any catalog write.
func invalidateCatalogCaches(rdb *redis.Client) {
	err := utils.DeleteCache(context.Background(), rdb,
		cacheKeyFeaturedProducts, cacheKeyFeaturedCategories, cacheKeyPopularCategories)
	if err != nil {
		logrus.Warnf("cache invalidation failed: %v", err)
	}
}

// ListProductsHandler returns the filtered, ordered, paginated product list.
func ListProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := catalog.ParseProductFilter(c.Request.URL.Query())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		query := filter.Apply(productQuery(c, db))
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

// CreateProductHandler creates a product owned by the current user.
func CreateProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		var req ProductCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Price.LessThan(domain.MinPrice) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be at least 0.01"})
			return
		}
		var category domain.Category
		if err := db.First(&category, req.Category).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
			return
		}
		product := domain.Product{
			Name:          req.Name,
			Description:   req.Description,
			Price:         req.Price,
			CategoryID:    category.ID,
			StockQuantity: req.StockQuantity,
			Image:         req.Image,
			IsActive:      true,
			CreatedByID:   user.ID,
		}
		if req.IsActive != nil {
			product.IsActive = *req.IsActive
		}
		if err := db.Create(&product).Error; err != nil {
			if isUniqueViolation(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "A product with this name already exists"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		product.Category = category
		product.CreatedBy = *user
		invalidateCatalogCaches(rdb)
		c.JSON(http.StatusCreated, newProductDetailResponse(&product))
	}
}

// GetProductHandler retrieves one product by slug.
func GetProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := fetchProductBySlug(c, db)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, newProductDetailResponse(product))
	}
}

// UpdateProductHandler applies a full or partial update. The slug never changes.
func UpdateProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := fetchProductBySlug(c, db)
		if !ok {
			return
		}
		var req ProductUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Name != nil {
			if *req.Name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Name cannot be empty"})
				return
			}
			product.Name = *req.Name
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.Price != nil {
			if req.Price.LessThan(domain.MinPrice) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be at least 0.01"})
				return
			}
			product.Price = *req.Price
		}
		if req.Category != nil {
			var category domain.Category
			if err := db.First(&category, *req.Category).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
				return
			}
			product.CategoryID = category.ID
			product.Category = category
		}
		if req.StockQuantity != nil {
			product.StockQuantity = *req.StockQuantity
		}
		if req.Image != nil {
			product.Image = *req.Image
		}
		if req.IsActive != nil {
			product.IsActive = *req.IsActive
		}
		if err := db.Save(product).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		invalidateCatalogCaches(rdb)
		c.JSON(http.StatusOK, newProductDetailResponse(product))
	}
}

// DeleteProductHandler soft-deletes: the row stays, is_active drops to false.
func DeleteProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := fetchProductBySlug(c, db)
		if !ok {
			return
		}
		product.IsActive = false
		if err := db.Save(product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		invalidateCatalogCaches(rdb)
		c.JSON(http.StatusNoContent, nil)
	}
}

// SearchProductsHandler is free-text search over name, description and
// category name. The q parameter is mandatory.
func SearchProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("q")
		if q == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": `Search query parameter "q" is required`})
			return
		}
		query := catalog.SearchProducts(productQuery(c, db), q).Order("products.created_at desc")
		var products []domain.Product
		page, err := catalog.Paginate(query, catalog.ParsePagination(c.Request.URL.Query()), &products)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search products"})
			return
		}
		page.Results = newProductResponses(products)
		c.JSON(http.StatusOK, page)
	}
}

// FeaturedProductsHandler returns the six newest active products, cached.
func FeaturedProductsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		var cached []ProductResponse
		if found, err := utils.GetCache(ctx, rdb, cacheKeyFeaturedProducts, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"results": cached, "cached": true})
			return
		}
		var products []domain.Product
		err := db.Preload("Category").
			Where("is_active = ?", true).
			Order("created_at desc").Limit(6).Find(&products).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		resp := newProductResponses(products)
		_ = utils.SetCache(ctx, rdb, cacheKeyFeaturedProducts, resp, 60*time.Second)
		c.JSON(http.StatusOK, gin.H{"results": resp, "cached": false})
	}
}

// OutOfStockProductsHandler lists depleted products.
func OutOfStockProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		listScopedProducts(c, db, catalog.OutOfStock)
	}
}

// LowStockProductsHandler lists products under the low-stock threshold.
func LowStockProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		listScopedProducts(c, db, catalog.LowStock)
	}
}

func listScopedProducts(c *gin.Context, db *gorm.DB, scope func(*gorm.DB) *gorm.DB) {
	query := scope(productQuery(c, db)).Order("products.created_at desc")
	var products []domain.Product
	page, err := catalog.Paginate(query, catalog.ParsePagination(c.Request.URL.Query()), &products)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	page.Results = newProductResponses(products)
	c.JSON(http.StatusOK, page)
}

// UpdateStockHandler sets a product's stock quantity from a JSON body.
func UpdateStockHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := fetchProductBySlug(c, db)
		if !ok {
			return
		}
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		raw, present := body["stock_quantity"]
		if !present || raw == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock_quantity field is required"})
			return
		}
		quantity, err := parseStockValue(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		product.StockQuantity = quantity
		if err := db.Save(product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
			return
		}
		invalidateCatalogCaches(rdb)
		c.JSON(http.StatusOK, newProductDetailResponse(product))
	}
}

// parseStockValue accepts integral JSON numbers and numeric strings.
func parseStockValue(raw any) (uint, error) {
	switch v := raw.(type) {
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("Invalid stock quantity value")
		}
		if v < 0 {
			return 0, fmt.Errorf("Stock quantity cannot be negative")
		}
		return uint(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("Invalid stock quantity value")
		}
		if n < 0 {
			return 0, fmt.Errorf("Stock quantity cannot be negative")
		}
		return uint(n), nil
	default:
		return 0, fmt.Errorf("Invalid stock quantity value")
	}
}

// ToggleProductActiveHandler flips the soft-delete flag.
func ToggleProductActiveHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := fetchProductBySlug(c, db)
		if !ok {
			return
		}
		product.IsActive = !product.IsActive
		if err := db.Save(product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
		invalidateCatalogCaches(rdb)
		state := "deactivated"
		if product.IsActive {
			state = "activated"
		}
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Product %s successfully", state),
			"product": newProductDetailResponse(product),
		})
	}
}

// BulkUpdateProductsHandler applies one payload across many products.
// Best effort per ID; only the success count comes back.
func BulkUpdateProductsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BulkUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if len(req.ProductIDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product_ids field is required"})
			return
		}
		if len(req.UpdateData) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "update_data field is required"})
			return
		}
		updated := catalog.BulkUpdateProducts(db, req.ProductIDs, req.UpdateData)
		invalidateCatalogCaches(rdb)
		c.JSON(http.StatusOK, gin.H{
			"message":       fmt.Sprintf("Successfully updated %d products", updated),
			"updated_count": updated,
		})
	}
}

// BulkDeleteProductsHandler soft-deletes a batch of products by ID.
func BulkDeleteProductsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductIDs []uint `json:"product_ids"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if len(req.ProductIDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product_ids field is required"})
			return
		}
		deleted := catalog.BulkSoftDeleteProducts(db, req.ProductIDs)
		invalidateCatalogCaches(rdb)
		c.JSON(http.StatusOK, gin.H{
			"message":       fmt.Sprintf("Successfully deleted %d products", deleted),
			"deleted_count": deleted,
		})
	}
}
