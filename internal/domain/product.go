package domain

import (
	"errors"
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock status labels derived from stock_quantity. Presentation only,
// never persisted.
const (
	StockStatusOut = "Out of Stock"
	StockStatusLow = "Low Stock"
	StockStatusIn  = "In Stock"
)

// LowStockThreshold is the quantity below which a product counts as low stock.
const LowStockThreshold = 10

// MinPrice is the smallest price a product may carry.
var MinPrice = decimal.NewFromFloat(0.01)

var (
	ErrProductName     = errors.New("product name is required")
	ErrProductPrice    = errors.New("price must be at least 0.01")
	ErrProductCategory = errors.New("category is required")
)

// Product Model
type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:200;not null" json:"name"`
	Slug          string          `gorm:"size:200;uniqueIndex" json:"slug"` // Derived from name, immutable once set
	Description   string          `gorm:"type:text" json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"` // Must be >= 0.01
	CategoryID    uint            `gorm:"not null;index" json:"category_id"`
	Category      Category        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	StockQuantity uint            `gorm:"not null;default:0" json:"stock_quantity"` // Non-negative by type
	Image         string          `gorm:"size:255" json:"image"`
	IsActive      bool            `json:"is_active"`
	CreatedByID   uint            `gorm:"index" json:"created_by_id"` // User who created the product
	CreatedBy     User            `gorm:"foreignKey:CreatedByID" json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BeforeSave derives the slug and enforces the price and name invariants so
// they hold on every persisted row, whichever code path saves it.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Name == "" {
		return ErrProductName
	}
	if p.Price.LessThan(MinPrice) {
		return ErrProductPrice
	}
	if p.CategoryID == 0 {
		return ErrProductCategory
	}
	if p.Slug == "" {
		p.Slug = slug.Make(p.Name)
	}
	return nil
}

// IsInStock reports whether any quantity remains.
func (p *Product) IsInStock() bool {
	return p.StockQuantity > 0
}

// StockStatus classifies the current quantity into the three display states.
func (p *Product) StockStatus() string {
	switch {
	case p.StockQuantity == 0:
		return StockStatusOut
	case p.StockQuantity < LowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// ProductReview Model. One review per (product, user) pair.
type ProductReview struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_review_product_user" json:"product_id"`
	Product   Product   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_product_user" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Rating    int       `gorm:"not null" json:"rating"` // 1 to 5
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrReviewRating is returned when a review rating falls outside 1..5.
var ErrReviewRating = errors.New("rating must be between 1 and 5")

// BeforeSave validates the rating range.
func (r *ProductReview) BeforeSave(tx *gorm.DB) error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrReviewRating
	}
	return nil
}
