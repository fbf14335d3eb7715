package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ecommerce_api/internal/config"
	"ecommerce_api/internal/middleware"
)

// SetupRouter builds the full route table. Three access tiers share the
// /api prefix: optional-auth reads, token-required mutations and
// staff-only administration.
func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	// Uploaded images are served straight off disk
	r.Static("/uploads", cfg.UploadDir)

	r.GET("/health/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Authentication endpoints
	r.POST("/api/auth/register/", RegisterHandler(db, cfg))
	r.POST("/api/auth/login/", LoginHandler(db, cfg))
	r.POST("/api/token/", TokenObtainHandler(db, cfg))
	r.POST("/api/token/refresh/", TokenRefreshHandler(cfg))
	r.POST("/api/token/verify/", TokenVerifyHandler(cfg))

	// Public reads. A bearer token widens visibility to inactive rows.
	public := r.Group("/api", middleware.OptionalJWTMiddleware(cfg.JWTSecret))
	{
		public.GET("/products/", ListProductsHandler(db))
		public.GET("/products/search/", SearchProductsHandler(db))
		public.GET("/products/featured/", FeaturedProductsHandler(db, rdb))
		public.GET("/products/out-of-stock/", OutOfStockProductsHandler(db))
		public.GET("/products/low-stock/", LowStockProductsHandler(db))
		public.GET("/products/:slug/", GetProductHandler(db))
		public.GET("/products/:slug/reviews/", ListProductReviewsHandler(db))

		public.GET("/categories/", ListCategoriesHandler(db))
		public.GET("/categories/search/", SearchCategoriesHandler(db))
		public.GET("/categories/featured/", FeaturedCategoriesHandler(db, rdb))
		public.GET("/categories/popular/", PopularCategoriesHandler(db, rdb))
		public.GET("/categories/:slug/", GetCategoryHandler(db))
		public.GET("/categories/:slug/products/", CategoryProductsHandler(db))
		public.GET("/categories/:slug/stats/", CategoryStatsHandler(db))
	}

	// Mutations require a valid access token
	authed := r.Group("/api", middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		authed.POST("/products/", CreateProductHandler(db, rdb))
		authed.PUT("/products/:slug/", UpdateProductHandler(db, rdb))
		authed.PATCH("/products/:slug/", UpdateProductHandler(db, rdb))
		authed.DELETE("/products/:slug/", DeleteProductHandler(db, rdb))
		authed.POST("/products/:slug/update-stock/", UpdateStockHandler(db, rdb))
		authed.POST("/products/:slug/toggle-active/", ToggleProductActiveHandler(db, rdb))
		authed.POST("/products/:slug/reviews/", CreateProductReviewHandler(db))
		authed.POST("/products/bulk-update/", BulkUpdateProductsHandler(db, rdb))
		authed.DELETE("/products/bulk-delete/", BulkDeleteProductsHandler(db, rdb))

		authed.POST("/categories/", CreateCategoryHandler(db, rdb))
		authed.PUT("/categories/:slug/", UpdateCategoryHandler(db, rdb))
		authed.PATCH("/categories/:slug/", UpdateCategoryHandler(db, rdb))
		authed.DELETE("/categories/:slug/", DeleteCategoryHandler(db, rdb))
		authed.POST("/categories/:slug/toggle-active/", ToggleCategoryActiveHandler(db, rdb))
		authed.POST("/categories/bulk-update/", BulkUpdateCategoriesHandler(db, rdb))
		authed.DELETE("/categories/bulk-delete/", BulkDeleteCategoriesHandler(db, rdb))

		authed.GET("/users/profile/", CurrentUserHandler(db))
		authed.PUT("/users/update-profile/", UpdateCurrentProfileHandler(db))
		authed.PATCH("/users/update-profile/", UpdateCurrentProfileHandler(db))
		authed.GET("/users/:id/", GetUserHandler(db))
		authed.PUT("/users/:id/", UpdateUserHandler(db))
		authed.PATCH("/users/:id/", UpdateUserHandler(db))
		authed.DELETE("/users/:id/", DeleteUserHandler(db))

		authed.GET("/profiles/:id/", GetProfileHandler(db))
		authed.PUT("/profiles/:id/", UpdateProfileHandler(db))
		authed.PATCH("/profiles/:id/", UpdateProfileHandler(db))

		authed.GET("/wishlist/", GetWishlistHandler(db))
		authed.POST("/wishlist/add/", AddToWishlistHandler(db))
		authed.DELETE("/wishlist/remove/:product_id/", RemoveFromWishlistHandler(db))
	}

	// Administrative endpoints, staff accounts only
	staff := r.Group("/api", middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.StaffOnlyMiddleware(db))
	{
		staff.GET("/users/", ListUsersHandler(db, rdb))
		staff.GET("/users/search/", SearchUsersHandler(db))
		staff.POST("/users/:id/toggle-active/", ToggleUserActiveHandler(db))
		staff.GET("/profiles/", ListProfilesHandler(db))
		staff.POST("/upload/", UploadImageHandler(cfg.UploadDir))
	}

	return r
}
