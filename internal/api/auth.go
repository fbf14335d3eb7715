package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"

	"ecommerce_api/internal/config"
	"ecommerce_api/internal/domain" // Importing domain models
	"ecommerce_api/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterRequest is the registration payload. Profile fields are optional
// and land on the profile row created alongside the account.
type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	PhoneNumber     string `json:"phone_number"`
	Address         string `json:"address"`
}

// LoginRequest is the credential payload shared by login and token obtain.
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 128
}

func accessTTL(cfg *config.Config) time.Duration {
	return time.Duration(cfg.AccessTTLMin) * time.Minute
}

func refreshTTL(cfg *config.Config) time.Duration {
	return time.Duration(cfg.RefreshTTLHours) * time.Hour
}

// RegisterHandler creates the account, its profile and its wishlist in one
// transaction and returns a token pair alongside the new user.
func RegisterHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if !isValidPassword(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters"})
			return
		}
		if req.PasswordConfirm != "" && req.PasswordConfirm != req.Password {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		user := domain.User{
			Username:     strings.ToLower(req.Username),
			Email:        strings.ToLower(req.Email),
			PasswordHash: string(hash),
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			IsActive:     true,
		}
		// Account, profile and wishlist are one atomic unit. A failure on
		// any row rolls back the whole registration.
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			profile := domain.Profile{
				UserID:      user.ID,
				PhoneNumber: req.PhoneNumber,
				Address:     req.Address,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
			return tx.Create(&domain.Wishlist{UserID: user.ID}).Error
		})
		if err != nil {
			if isUniqueViolation(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Registration failed"})
			return
		}

		tokens, err := utils.GenerateTokenPair(user.ID, cfg.JWTSecret, accessTTL(cfg), refreshTTL(cfg))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "User registered successfully",
			"user":    newUserResponse(&user),
			"tokens":  tokens,
		})
	}
}

// LoginHandler authenticates a user and returns a token pair
func LoginHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, ok := authenticate(db, req.Username, req.Password)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		tokens, err := utils.GenerateTokenPair(user.ID, cfg.JWTSecret, accessTTL(cfg), refreshTTL(cfg))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"user":    newUserResponse(user),
			"tokens":  tokens,
		})
	}
}

// TokenObtainHandler is the bare token endpoint: credentials in, pair out.
func TokenObtainHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, ok := authenticate(db, req.Username, req.Password)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		tokens, err := utils.GenerateTokenPair(user.ID, cfg.JWTSecret, accessTTL(cfg), refreshTTL(cfg))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, tokens)
	}
}

// TokenRefreshHandler mints a new access token from a valid refresh token.
func TokenRefreshHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Refresh string `json:"refresh" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		claims, err := utils.ParseTyped(req.Refresh, cfg.JWTSecret, utils.TokenTypeRefresh)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid or expired"})
			return
		}
		access, err := utils.GenerateToken(claims.UserID, utils.TokenTypeAccess, cfg.JWTSecret, accessTTL(cfg))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"access": access})
	}
}

// TokenVerifyHandler checks a token signature and expiry without issuing anything.
func TokenVerifyHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Token string `json:"token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if _, err := utils.ParseJWT(req.Token, cfg.JWTSecret); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid or expired"})
			return
		}
		c.JSON(http.StatusOK, gin.H{})
	}
}

// authenticate verifies the credentials against the stored bcrypt hash.
// Deactivated accounts cannot log in.
func authenticate(db *gorm.DB, username, password string) (*domain.User, bool) {
	var user domain.User
	if err := db.Where("username = ?", strings.ToLower(username)).First(&user).Error; err != nil {
		return nil, false
	}
	if !user.IsActive {
		return nil, false
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, false
	}
	return &user, true
}
