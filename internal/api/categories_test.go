package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce_api/internal/domain"
)

func TestCreateCategory(t *testing.T) {
	r, gdb := setupTest(t)
	user := createTestUser(t, gdb, "alice", false)

	w := doJSON(t, r, http.MethodPost, "/api/categories/", gin.H{
		"name": "Home & Garden", "description": "Everything outdoors",
	}, accessTokenFor(t, user))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "home-and-garden", body["slug"])
	assert.Equal(t, float64(0), body["products_count"])
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	r, gdb := setupTest(t)
	user := createTestUser(t, gdb, "alice", false)
	require.NoError(t, gdb.Create(&domain.Category{Name: "Tools", IsActive: true}).Error)

	w := doJSON(t, r, http.MethodPost, "/api/categories/", gin.H{
		"name": "Tools",
	}, accessTokenFor(t, user))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "A category with this name already exists", decodeBody(t, w)["error"])
}

func TestListCategoriesVisibility(t *testing.T) {
	r, gdb := setupTest(t)
	user := createTestUser(t, gdb, "alice", false)
	require.NoError(t, gdb.Create(&domain.Category{Name: "Visible", IsActive: true}).Error)
	require.NoError(t, gdb.Create(&domain.Category{Name: "Hidden"}).Error)

	w := doJSON(t, r, http.MethodGet, "/api/categories/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, resultCount(t, w))

	w = doJSON(t, r, http.MethodGet, "/api/categories/", nil, accessTokenFor(t, user))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, resultCount(t, w))
}

func TestDeleteCategoryIsSoft(t *testing.T) {
	r, gdb := setupTest(t)
	user := createTestUser(t, gdb, "alice", false)
	seedCategoryWithProducts(t, gdb, user)
	token := accessTokenFor(t, user)

	w := doJSON(t, r, http.MethodDelete, "/api/categories/electronics/", nil, token)
	require.Equal(t, http.StatusNoContent, w.Code)

	var c domain.Category
	require.NoError(t, gdb.Where("slug = ?", "electronics").First(&c).Error)
	assert.False(t, c.IsActive)

	// Products survive the category deactivation
	var products int64
	gdb.Model(&domain.Product{}).Where("category_id = ?", c.ID).Count(&products)
	assert.Equal(t, int64(3), products)

	w = doJSON(t, r, http.MethodGet, "/api/categories/electronics/", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/categories/electronics/", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCategoryProductsListing(t *testing.T) {
	r, gdb := setupTest(t)
	user := createTestUser(t, gdb, "alice", false)
	seedCategoryWithProducts(t, gdb, user)

	// Only the active products of the category come back
	w := doJSON(t, r, http.MethodGet, "/api/categories/electronics/products/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, resultCount(t, w))
}

func TestCategoryStats(t *testing.T) {
	r, gdb := setupTest(t)
	user := createTestUser(t, gdb, "alice", false)
	seedCategoryWithProducts(t, gdb, user)

	w := doJSON(t, r, http.MethodGet, "/api/categories/electronics/stats/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(3), stats["total_products"])
	assert.Equal(t, float64(2), stats["active_products"])
	assert.Equal(t, float64(1), stats["out_of_stock"])
	assert.Equal(t, float64(1), stats["in_stock"])
}

func TestPopularCategoriesRankedByProductCount(t *testing.T) {
	r, gdb := setupTest(t)
	user := createTestUser(t, gdb, "alice", false)
	seedCategoryWithProducts(t, gdb, user)

	empty := domain.Category{Name: "Empty Shelf", IsActive: true}
	require.NoError(t, gdb.Create(&empty).Error)

	w := doJSON(t, r, http.MethodGet, "/api/categories/popular/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	results := body["results"].([]any)
	// Categories without active products do not rank at all
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, "Electronics", first["name"])
	assert.Equal(t, float64(2), first["products_count"])
}

func TestSearchCategories(t *testing.T) {
	r, gdb := setupTest(t)
	user := createTestUser(t, gdb, "alice", false)
	seedCategoryWithProducts(t, gdb, user)

	w := doJSON(t, r, http.MethodGet, "/api/categories/search/?q=electron", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, resultCount(t, w))

	w = doJSON(t, r, http.MethodGet, "/api/categories/search/", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleCategoryActive(t *testing.T) {
	r, gdb := setupTest(t)
	user := createTestUser(t, gdb, "alice", false)
	seedCategoryWithProducts(t, gdb, user)
	token := accessTokenFor(t, user)

	w := doJSON(t, r, http.MethodPost, "/api/categories/electronics/toggle-active/", gin.H{}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Category deactivated successfully", decodeBody(t, w)["message"])

	w = doJSON(t, r, http.MethodPost, "/api/categories/electronics/toggle-active/", gin.H{}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Category activated successfully", decodeBody(t, w)["message"])
}

func TestBulkCategoryEndpoints(t *testing.T) {
	r, gdb := setupTest(t)
	user := createTestUser(t, gdb, "alice", false)
	category, _ := seedCategoryWithProducts(t, gdb, user)
	token := accessTokenFor(t, user)

	w := doJSON(t, r, http.MethodPost, "/api/categories/bulk-update/", gin.H{
		"category_ids": []uint{category.ID, 4040},
		"update_data":  gin.H{"description": "bulk refreshed"},
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(1), decodeBody(t, w)["updated_count"])

	var c domain.Category
	require.NoError(t, gdb.First(&c, category.ID).Error)
	assert.Equal(t, "bulk refreshed", c.Description)

	w = doJSON(t, r, http.MethodDelete, "/api/categories/bulk-delete/", gin.H{
		"category_ids": []uint{category.ID},
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["deleted_count"])

	require.NoError(t, gdb.First(&c, category.ID).Error)
	assert.False(t, c.IsActive)
}
