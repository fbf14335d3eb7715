package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ecommerce_api/internal/domain"
)

// ProductFilter is the parsed form of the product list query parameters.
// Nil pointer fields impose no constraint; every present field is ANDed in.
type ProductFilter struct {
	Name          string           // Case-insensitive substring on name
	Description   string           // Case-insensitive substring on description
	CategoryID    *uint            // Exact category id
	CategoryName  string           // Case-insensitive substring on category name
	MinPrice      *decimal.Decimal // Inclusive lower price bound
	MaxPrice      *decimal.Decimal // Inclusive upper price bound
	Price         *decimal.Decimal // Exact price
	MinStock      *uint            // Inclusive lower stock bound
	MaxStock      *uint            // Inclusive upper stock bound
	StockQuantity *uint            // Exact stock quantity
	InStock       *bool            // true: stock > 0, false: stock == 0
	IsActive      *bool            // Exact active flag
	CreatedAfter  *time.Time       // Inclusive lower created_at bound
	CreatedBefore *time.Time       // Inclusive upper created_at bound
	Ordering      string           // Resolved ORDER BY clause
}

// CategoryFilter is the parsed form of the category list query parameters.
type CategoryFilter struct {
	IsActive *bool
	Ordering string
}

// Ordering allow-lists per resource. Keys are the client-facing field names.
var (
	productOrderFields  = map[string]string{"name": "products.name", "price": "products.price", "created_at": "products.created_at", "updated_at": "products.updated_at", "stock_quantity": "products.stock_quantity"}
	categoryOrderFields = map[string]string{"name": "name", "created_at": "created_at", "updated_at": "updated_at"}
	userOrderFields     = map[string]string{"username": "username", "date_joined": "date_joined"}
)

// ParseProductFilter validates and converts the flat query parameters.
// Malformed values are a client error, never silently dropped.
func ParseProductFilter(values url.Values) (*ProductFilter, error) {
	f := &ProductFilter{
		Name:         values.Get("name"),
		Description:  values.Get("description"),
		CategoryName: values.Get("category_name"),
	}
	var err error
	if f.CategoryID, err = optUint(values, "category"); err != nil {
		return nil, err
	}
	if f.MinPrice, err = optDecimal(values, "min_price"); err != nil {
		return nil, err
	}
	if f.MaxPrice, err = optDecimal(values, "max_price"); err != nil {
		return nil, err
	}
	if f.Price, err = optDecimal(values, "price"); err != nil {
		return nil, err
	}
	if f.MinStock, err = optUint(values, "min_stock"); err != nil {
		return nil, err
	}
	if f.MaxStock, err = optUint(values, "max_stock"); err != nil {
		return nil, err
	}
	if f.StockQuantity, err = optUint(values, "stock_quantity"); err != nil {
		return nil, err
	}
	if f.InStock, err = optBool(values, "in_stock"); err != nil {
		return nil, err
	}
	if f.IsActive, err = optBool(values, "is_active"); err != nil {
		return nil, err
	}
	if f.CreatedAfter, err = optTime(values, "created_after"); err != nil {
		return nil, err
	}
	if f.CreatedBefore, err = optTime(values, "created_before"); err != nil {
		return nil, err
	}
	if f.Ordering, err = ParseOrdering(values, productOrderFields, "products.created_at desc"); err != nil {
		return nil, err
	}
	return f, nil
}

// ParseCategoryFilter validates and converts the category query parameters.
func ParseCategoryFilter(values url.Values) (*CategoryFilter, error) {
	f := &CategoryFilter{}
	var err error
	if f.IsActive, err = optBool(values, "is_active"); err != nil {
		return nil, err
	}
	if f.Ordering, err = ParseOrdering(values, categoryOrderFields, "name"); err != nil {
		return nil, err
	}
	return f, nil
}

// ParseUserOrdering resolves the ordering parameter for user listings.
func ParseUserOrdering(values url.Values) (string, error) {
	return ParseOrdering(values, userOrderFields, "username")
}

// ParseOrdering maps an `ordering=field` / `ordering=-field` parameter onto a
// column from the allow-list. Unknown fields are a client error.
func ParseOrdering(values url.Values, allowed map[string]string, fallback string) (string, error) {
	raw := values.Get("ordering")
	if raw == "" {
		return fallback, nil
	}
	field := strings.TrimPrefix(raw, "-")
	col, ok := allowed[field]
	if !ok {
		return "", fmt.Errorf("invalid ordering field %q", field)
	}
	if strings.HasPrefix(raw, "-") {
		return col + " desc", nil
	}
	return col, nil
}

// Apply composes the filter onto a product query. All conditions AND.
func (f *ProductFilter) Apply(query *gorm.DB) *gorm.DB {
	if f.Name != "" {
		query = query.Where("LOWER(products.name) LIKE ?", contains(f.Name))
	}
	if f.Description != "" {
		query = query.Where("LOWER(products.description) LIKE ?", contains(f.Description))
	}
	if f.CategoryID != nil {
		query = query.Where("products.category_id = ?", *f.CategoryID)
	}
	if f.CategoryName != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("LOWER(categories.name) LIKE ?", contains(f.CategoryName))
	}
	if f.MinPrice != nil {
		query = query.Where("products.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("products.price <= ?", *f.MaxPrice)
	}
	if f.Price != nil {
		query = query.Where("products.price = ?", *f.Price)
	}
	if f.MinStock != nil {
		query = query.Where("products.stock_quantity >= ?", *f.MinStock)
	}
	if f.MaxStock != nil {
		query = query.Where("products.stock_quantity <= ?", *f.MaxStock)
	}
	if f.StockQuantity != nil {
		query = query.Where("products.stock_quantity = ?", *f.StockQuantity)
	}
	if f.InStock != nil {
		if *f.InStock {
			query = query.Where("products.stock_quantity > 0")
		} else {
			query = query.Where("products.stock_quantity = 0")
		}
	}
	if f.IsActive != nil {
		query = query.Where("products.is_active = ?", *f.IsActive)
	}
	if f.CreatedAfter != nil {
		query = query.Where("products.created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		query = query.Where("products.created_at <= ?", *f.CreatedBefore)
	}
	return query.Order(f.Ordering)
}

// Apply composes the filter onto a category query.
func (f *CategoryFilter) Apply(query *gorm.DB) *gorm.DB {
	if f.IsActive != nil {
		query = query.Where("is_active = ?", *f.IsActive)
	}
	return query.Order(f.Ordering)
}

// SearchProducts matches q case-insensitively against name, description and
// category name, OR-combined.
func SearchProducts(query *gorm.DB, q string) *gorm.DB {
	pattern := contains(q)
	return query.Joins("JOIN categories ON categories.id = products.category_id").
		Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(categories.name) LIKE ?",
			pattern, pattern, pattern)
}

// SearchCategories matches q against name and description.
func SearchCategories(query *gorm.DB, q string) *gorm.DB {
	pattern := contains(q)
	return query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
}

// SearchUsers matches q against username, email and both name fields.
func SearchUsers(query *gorm.DB, q string) *gorm.DB {
	pattern := contains(q)
	return query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
		pattern, pattern, pattern, pattern)
}

// OutOfStock scopes a product query to depleted rows.
func OutOfStock(query *gorm.DB) *gorm.DB {
	return query.Where("products.stock_quantity = 0")
}

// LowStock scopes a product query to rows below the low-stock threshold.
func LowStock(query *gorm.DB) *gorm.DB {
	return query.Where("products.stock_quantity > 0 AND products.stock_quantity < ?", domain.LowStockThreshold)
}

func contains(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

func optDecimal(values url.Values, name string) (*decimal.Decimal, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %q", name, raw)
	}
	return &d, nil
}

func optUint(values url.Values, name string) (*uint, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %q", name, raw)
	}
	v := uint(n)
	return &v, nil
}

func optBool(values url.Values, name string) (*bool, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %q", name, raw)
	}
	return &b, nil
}

// optTime accepts RFC3339 timestamps or bare dates.
func optTime(values url.Values, name string) (*time.Time, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("invalid value for %s: %q", name, raw)
}
