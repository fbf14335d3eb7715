package api

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ecommerce_api/internal/domain"
)

// CategoryBrief is the category summary embedded in product responses.
type CategoryBrief struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductResponse is the list-shape wire representation of a product.
type ProductResponse struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Category      CategoryBrief   `json:"category"`
	StockQuantity uint            `json:"stock_quantity"`
	Image         string          `json:"image"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductDetailResponse adds the read-side derived fields and the creator.
type ProductDetailResponse struct {
	ProductResponse
	CreatedBy   string `json:"created_by"`
	StockStatus string `json:"stock_status"`
	IsInStock   bool   `json:"is_in_stock"`
}

func newProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Category: CategoryBrief{
			ID:   p.Category.ID,
			Name: p.Category.Name,
			Slug: p.Category.Slug,
		},
		StockQuantity: p.StockQuantity,
		Image:         p.Image,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func newProductDetailResponse(p *domain.Product) ProductDetailResponse {
	return ProductDetailResponse{
		ProductResponse: newProductResponse(p),
		CreatedBy:       p.CreatedBy.Username,
		StockStatus:     p.StockStatus(),
		IsInStock:       p.IsInStock(),
	}
}

func newProductResponses(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = newProductResponse(&products[i])
	}
	return out
}

// CategoryResponse is the wire representation of a category, with the
// active-product count computed at serialization time.
type CategoryResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Image         string    `json:"image"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	ProductsCount int64     `json:"products_count"`
}

func newCategoryResponse(db *gorm.DB, c *domain.Category) CategoryResponse {
	var count int64
	db.Model(&domain.Product{}).Where("category_id = ? AND is_active = ?", c.ID, true).Count(&count)
	return CategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		Slug:          c.Slug,
		Description:   c.Description,
		Image:         c.Image,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		ProductsCount: count,
	}
}

func newCategoryResponses(db *gorm.DB, categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = newCategoryResponse(db, &categories[i])
	}
	return out
}

// UserResponse is the account shape returned everywhere. The password hash
// never leaves the domain layer.
type UserResponse struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	IsStaff    bool      `json:"is_staff"`
	IsActive   bool      `json:"is_active"`
	DateJoined time.Time `json:"date_joined"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsStaff:    u.IsStaff,
		IsActive:   u.IsActive,
		DateJoined: u.DateJoined,
	}
}

func newUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = newUserResponse(&users[i])
	}
	return out
}

// ReviewResponse is the wire representation of a product review.
type ReviewResponse struct {
	ID        uint      `json:"id"`
	ProductID uint      `json:"product_id"`
	User      string    `json:"user"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func newReviewResponse(r *domain.ProductReview) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		User:      r.User.Username,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func newReviewResponses(reviews []domain.ProductReview) []ReviewResponse {
	out := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		out[i] = newReviewResponse(&reviews[i])
	}
	return out
}
