package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ecommerce_api/internal/domain"
)

func TestBulkUpdateSkipsMissingIDs(t *testing.T) {
	db := openTestDB(t)
	_, products := seedCatalog(t, db)

	ids := []uint{products[0].ID, products[1].ID, 9999, 8888}
	updated := BulkUpdateProducts(db, ids, map[string]any{"description": "updated"})
	require.Equal(t, 2, updated)

	var p domain.Product
	require.NoError(t, db.First(&p, products[0].ID).Error)
	require.Equal(t, "updated", p.Description)
}

func TestBulkUpdateStripsProtectedFields(t *testing.T) {
	db := openTestDB(t)
	_, products := seedCatalog(t, db)

	originalSlug := products[0].Slug
	updated := BulkUpdateProducts(db, []uint{products[0].ID}, map[string]any{
		"slug":       "hijacked",
		"id":         float64(42),
		"created_by": float64(7),
		"name":       "Renamed Laptop",
	})
	require.Equal(t, 1, updated)

	var p domain.Product
	require.NoError(t, db.First(&p, products[0].ID).Error)
	require.Equal(t, originalSlug, p.Slug)
	require.Equal(t, "Renamed Laptop", p.Name)
}

func TestBulkUpdateIgnoresUnknownFields(t *testing.T) {
	db := openTestDB(t)
	_, products := seedCatalog(t, db)

	originalImage := products[0].Image
	updated := BulkUpdateProducts(db, []uint{products[0].ID}, map[string]any{"image": "sneaky.png"})
	// The row still counts as updated even when nothing applied
	require.Equal(t, 1, updated)

	var p domain.Product
	require.NoError(t, db.First(&p, products[0].ID).Error)
	require.Equal(t, originalImage, p.Image)
}

func TestBulkUpdateSkipsInvalidFieldValuesButKeepsGoing(t *testing.T) {
	db := openTestDB(t)
	_, products := seedCatalog(t, db)

	originalPrice := products[0].Price
	updated := BulkUpdateProducts(db, []uint{products[0].ID}, map[string]any{
		"price":          float64(0), // below the 0.01 minimum, skipped
		"stock_quantity": float64(-5), // negative, skipped
		"description":    "still applied",
	})
	require.Equal(t, 1, updated)

	var p domain.Product
	require.NoError(t, db.First(&p, products[0].ID).Error)
	require.True(t, originalPrice.Equal(p.Price))
	require.Equal(t, products[0].StockQuantity, p.StockQuantity)
	require.Equal(t, "still applied", p.Description)
}

func TestBulkUpdateAppliesTypedValues(t *testing.T) {
	db := openTestDB(t)
	category, products := seedCatalog(t, db)

	other := domain.Category{Name: "Clearance", IsActive: true}
	require.NoError(t, db.Create(&other).Error)

	updated := BulkUpdateProducts(db, []uint{products[2].ID}, map[string]any{
		"price":          "19.95",
		"category":       float64(other.ID),
		"stock_quantity": float64(40),
		"is_active":      false,
	})
	require.Equal(t, 1, updated)

	var p domain.Product
	require.NoError(t, db.First(&p, products[2].ID).Error)
	require.True(t, decimal.NewFromFloat(19.95).Equal(p.Price))
	require.Equal(t, other.ID, p.CategoryID)
	require.NotEqual(t, category.ID, p.CategoryID)
	require.Equal(t, uint(40), p.StockQuantity)
	require.False(t, p.IsActive)
}

func TestBulkUpdateUnknownCategorySkipped(t *testing.T) {
	db := openTestDB(t)
	_, products := seedCatalog(t, db)

	updated := BulkUpdateProducts(db, []uint{products[0].ID}, map[string]any{"category": float64(777)})
	require.Equal(t, 1, updated)

	var p domain.Product
	require.NoError(t, db.First(&p, products[0].ID).Error)
	require.Equal(t, products[0].CategoryID, p.CategoryID)
}

func TestBulkSoftDeleteProducts(t *testing.T) {
	db := openTestDB(t)
	_, products := seedCatalog(t, db)

	deleted := BulkSoftDeleteProducts(db, []uint{products[0].ID, 4040})
	require.Equal(t, 1, deleted)

	// Still queryable by ID, just inactive
	var p domain.Product
	require.NoError(t, db.First(&p, products[0].ID).Error)
	require.False(t, p.IsActive)

	var activeCount int64
	db.Model(&domain.Product{}).Where("is_active = ?", true).Count(&activeCount)
	require.Equal(t, int64(2), activeCount)
}

func TestBulkUpdateCategoriesAllowList(t *testing.T) {
	db := openTestDB(t)
	category, _ := seedCatalog(t, db)

	originalSlug := category.Slug
	updated := BulkUpdateCategories(db, []uint{category.ID, 12345}, map[string]any{
		"name":        "Consumer Electronics",
		"description": "Refreshed",
		"slug":        "nope",
	})
	require.Equal(t, 1, updated)

	var c domain.Category
	require.NoError(t, db.First(&c, category.ID).Error)
	require.Equal(t, "Consumer Electronics", c.Name)
	require.Equal(t, "Refreshed", c.Description)
	require.Equal(t, originalSlug, c.Slug)
}

func TestBulkSoftDeleteCategories(t *testing.T) {
	db := openTestDB(t)
	category, _ := seedCatalog(t, db)

	deleted := BulkSoftDeleteCategories(db, []uint{category.ID})
	require.Equal(t, 1, deleted)

	var c domain.Category
	require.NoError(t, db.First(&c, category.ID).Error)
	require.False(t, c.IsActive)
}

func TestStripProtected(t *testing.T) {
	out := StripProtected(map[string]any{
		"id":         1,
		"slug":       "x",
		"created_at": "now",
		"updated_at": "now",
		"created_by": 2,
		"name":       "kept",
	})
	require.Equal(t, map[string]any{"name": "kept"}, out)
}
