package domain

import (
	"errors"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// ErrCategoryName is returned when a category is saved without a name.
var ErrCategoryName = errors.New("category name is required")

// Category Model
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"` // Unique display label
	Slug        string    `gorm:"size:100;uniqueIndex" json:"slug"`          // Derived from name, immutable once set
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"size:255" json:"image"` // Uploaded image reference
	IsActive    bool      `json:"is_active"`
	Products    []Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // Cascade at the constraint level
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeSave derives the slug from the name on first save and validates
// the required fields. The slug is never regenerated on rename.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	if c.Name == "" {
		return ErrCategoryName
	}
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}
