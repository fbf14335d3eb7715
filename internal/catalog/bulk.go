package catalog

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ecommerce_api/internal/domain"
)

// Fields that can never be touched through bulk update, whatever the payload says.
var protectedFields = map[string]bool{
	"id":            true,
	"slug":          true,
	"created_at":    true,
	"updated_at":    true,
	"created_by":    true,
	"created_by_id": true,
}

// StripProtected removes the immutable fields from an update payload.
func StripProtected(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for field, value := range data {
		if !protectedFields[field] {
			out[field] = value
		}
	}
	return out
}

// BulkUpdateProducts applies one update payload across a batch of product
// IDs. Missing IDs are skipped, invalid field values are skipped per field,
// the rest of the batch keeps going. Only the success count is reported;
// the batch is intentionally not transactional.
func BulkUpdateProducts(db *gorm.DB, ids []uint, data map[string]any) int {
	data = StripProtected(data)
	updated := 0
	for _, id := range ids {
		var product domain.Product
		if err := db.First(&product, id).Error; err != nil {
			continue // Unknown ID, skip silently
		}
		for field, value := range data {
			applyProductField(db, &product, field, value)
		}
		if err := db.Save(&product).Error; err != nil {
			continue
		}
		updated++
	}
	return updated
}

// BulkUpdateCategories is the category counterpart of BulkUpdateProducts.
func BulkUpdateCategories(db *gorm.DB, ids []uint, data map[string]any) int {
	data = StripProtected(data)
	updated := 0
	for _, id := range ids {
		var category domain.Category
		if err := db.First(&category, id).Error; err != nil {
			continue
		}
		for field, value := range data {
			applyCategoryField(&category, field, value)
		}
		if err := db.Save(&category).Error; err != nil {
			continue
		}
		updated++
	}
	return updated
}

// BulkSoftDeleteProducts marks every found product inactive and reports the count.
func BulkSoftDeleteProducts(db *gorm.DB, ids []uint) int {
	deleted := 0
	for _, id := range ids {
		var product domain.Product
		if err := db.First(&product, id).Error; err != nil {
			continue
		}
		product.IsActive = false
		if err := db.Save(&product).Error; err != nil {
			continue
		}
		deleted++
	}
	return deleted
}

// BulkSoftDeleteCategories marks every found category inactive and reports the count.
func BulkSoftDeleteCategories(db *gorm.DB, ids []uint) int {
	deleted := 0
	for _, id := range ids {
		var category domain.Category
		if err := db.First(&category, id).Error; err != nil {
			continue
		}
		category.IsActive = false
		if err := db.Save(&category).Error; err != nil {
			continue
		}
		deleted++
	}
	return deleted
}

// applyProductField assigns one allow-listed field after validating the
// value. Anything outside the allow-list, of the wrong type, or violating a
// field constraint is ignored.
func applyProductField(db *gorm.DB, p *domain.Product, field string, value any) {
	switch field {
	case "name":
		if s, ok := asString(value); ok && s != "" {
			p.Name = s
		}
	case "description":
		if s, ok := asString(value); ok {
			p.Description = s
		}
	case "price":
		if d, ok := asDecimal(value); ok && !d.LessThan(domain.MinPrice) {
			p.Price = d
		}
	case "category":
		if id, ok := asUint(value); ok {
			var category domain.Category
			if err := db.First(&category, id).Error; err == nil {
				p.CategoryID = category.ID
			}
		}
	case "stock_quantity":
		if n, ok := asUint(value); ok {
			p.StockQuantity = n
		}
	case "is_active":
		if b, ok := value.(bool); ok {
			p.IsActive = b
		}
	}
}

// applyCategoryField is the category allow-list: name, description, is_active.
func applyCategoryField(c *domain.Category, field string, value any) {
	switch field {
	case "name":
		if s, ok := asString(value); ok && s != "" {
			c.Name = s
		}
	case "description":
		if s, ok := asString(value); ok {
			c.Description = s
		}
	case "is_active":
		if b, ok := value.(bool); ok {
			c.IsActive = b
		}
	}
}

func asString(value any) (string, bool) {
	s, ok := value.(string)
	return s, ok
}

// asUint accepts the numeric shapes a JSON body can produce, rejecting
// fractional and negative values.
func asUint(value any) (uint, bool) {
	switch v := value.(type) {
	case float64:
		if v < 0 || v != float64(uint(v)) {
			return 0, false
		}
		return uint(v), true
	case json.Number:
		if n, err := v.Int64(); err == nil && n >= 0 {
			return uint(n), true
		}
	case int:
		if v >= 0 {
			return uint(v), true
		}
	}
	return 0, false
}

// asDecimal accepts JSON numbers and numeric strings.
func asDecimal(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v), true
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	}
	return decimal.Decimal{}, false
}
