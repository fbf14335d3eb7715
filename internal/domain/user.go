package domain

import (
	"time"
)

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                          // Primary key
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"` // Unique username
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`    // Unique email address
	PasswordHash string    `gorm:"size:128;not null" json:"-"`                    // Bcrypt hash, never serialized
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	IsStaff      bool      `json:"is_staff"`     // Staff accounts reach admin actions
	IsSuperuser  bool      `json:"is_superuser"` // Unrestricted accounts
	IsActive     bool      `json:"is_active"` // Deactivated accounts cannot log in
	DateJoined   time.Time `gorm:"autoCreateTime" json:"date_joined"`
	Profile      Profile   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // One-to-one profile
}

// FullName joins first and last name for display purposes.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Profile holds the extended account fields kept apart from the auth row.
// Created explicitly inside the registration transaction, one per user.
type Profile struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"uniqueIndex;not null" json:"user_id"` // Foreign key to User
	PhoneNumber string     `gorm:"size:20" json:"phone_number"`
	Address     string     `gorm:"type:text" json:"address"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Picture     string     `gorm:"size:255" json:"picture"` // Uploaded image reference
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Wishlist is the per-user product collection. One wishlist per user,
// products attached through a join table.
type Wishlist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`          // Foreign key to User
	Products  []Product `gorm:"many2many:wishlist_products;" json:"products"` // Wished products
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
