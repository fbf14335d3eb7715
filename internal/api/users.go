package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ecommerce_api/internal/catalog"
	"ecommerce_api/internal/domain"
	"ecommerce_api/internal/utils"
)

// UserUpdateRequest carries partial account updates.
type UserUpdateRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// ProfileUpdateRequest carries partial profile updates.
type ProfileUpdateRequest struct {
	PhoneNumber *string    `json:"phone_number"`
	Address     *string    `json:"address"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Picture     *string    `json:"picture"`
}

// ListUsersHandler returns all users, staff only, with the same cache-then-query
// shape as the other hot lists.
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		ordering, err := catalog.ParseUserOrdering(c.Request.URL.Query())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p := catalog.ParsePagination(c.Request.URL.Query())
		cacheKey := fmt.Sprintf("users:list:page=%d:size=%d:order=%s", p.Page, p.PageSize, ordering)
		var cached catalog.PageData
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		var users []domain.User
		page, err := catalog.Paginate(db.Model(&domain.User{}).Order(ordering), p, &users)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		page.Results = newUserResponses(users)
		_ = utils.SetCache(ctx, rdb, cacheKey, page, 60*time.Second)
		c.JSON(http.StatusOK, page)
	}
}

// SearchUsersHandler is free-text user search, staff only.
func SearchUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("q")
		if q == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": `Search query parameter "q" is required`})
			return
		}
		query := catalog.SearchUsers(db.Model(&domain.User{}), q).Order("username")
		var users []domain.User
		page, err := catalog.Paginate(query, catalog.ParsePagination(c.Request.URL.Query()), &users)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
			return
		}
		page.Results = newUserResponses(users)
		c.JSON(http.StatusOK, page)
	}
}

// fetchUserForAccess loads the target user of a /users/:id route and applies
// the self-or-staff rule. Non-staff callers only ever reach their own row.
func fetchUserForAccess(c *gin.Context, db *gorm.DB) (*domain.User, *domain.User, bool) {
	caller, ok := currentUser(c, db)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return nil, nil, false
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, nil, false
	}
	if !caller.IsStaff && caller.ID != uint(id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return nil, nil, false
	}
	var target domain.User
	if err := db.First(&target, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, nil, false
	}
	return caller, &target, true
}

// GetUserHandler retrieves one account, self-or-staff.
func GetUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, target, ok := fetchUserForAccess(c, db)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, newUserResponse(target))
	}
}

// UpdateUserHandler applies a partial account update, self-or-staff.
func UpdateUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, target, ok := fetchUserForAccess(c, db)
		if !ok {
			return
		}
		var req UserUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Username != nil && *req.Username != "" {
			target.Username = *req.Username
		}
		if req.Email != nil && *req.Email != "" {
			target.Email = *req.Email
		}
		if req.FirstName != nil {
			target.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			target.LastName = *req.LastName
		}
		if err := db.Save(target).Error; err != nil {
			if isUniqueViolation(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, newUserResponse(target))
	}
}

// DeleteUserHandler hard-deletes an account, self-or-staff. User rows are
// the one place deletion is real, not a soft toggle.
func DeleteUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, target, ok := fetchUserForAccess(c, db)
		if !ok {
			return
		}
		if err := db.Delete(target).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
			return
		}
		c.JSON(http.StatusNoContent, nil)
	}
}

// CurrentUserHandler returns the caller's own account.
func CurrentUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.JSON(http.StatusOK, newUserResponse(user))
	}
}

// UpdateCurrentProfileHandler updates the caller's own profile row.
func UpdateCurrentProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		var profile domain.Profile
		if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		applyProfileUpdate(c, db, &profile)
	}
}

// ToggleUserActiveHandler flips an account's active flag, staff only.
// Staff cannot deactivate their own account.
func ToggleUserActiveHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, target, ok := fetchUserForAccess(c, db)
		if !ok {
			return
		}
		if caller.ID == target.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot deactivate your own account"})
			return
		}
		target.IsActive = !target.IsActive
		if err := db.Save(target).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		state := "deactivated"
		if target.IsActive {
			state = "activated"
		}
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("User %s successfully", state),
			"user":    newUserResponse(target),
		})
	}
}

// ListProfilesHandler returns all profiles, staff only.
func ListProfilesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&domain.Profile{}).Order("created_at desc")
		var profiles []domain.Profile
		page, err := catalog.Paginate(query, catalog.ParsePagination(c.Request.URL.Query()), &profiles)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profiles"})
			return
		}
		page.Results = profiles
		c.JSON(http.StatusOK, page)
	}
}

// fetchProfileForAccess applies self-or-staff to /profiles/:id routes.
func fetchProfileForAccess(c *gin.Context, db *gorm.DB) (*domain.Profile, bool) {
	caller, ok := currentUser(c, db)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return nil, false
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return nil, false
	}
	var profile domain.Profile
	if err := db.First(&profile, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return nil, false
	}
	if !caller.IsStaff && profile.UserID != caller.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return nil, false
	}
	return &profile, true
}

// GetProfileHandler retrieves one profile, self-or-staff.
func GetProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := fetchProfileForAccess(c, db)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// UpdateProfileHandler updates one profile, self-or-staff.
func UpdateProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := fetchProfileForAccess(c, db)
		if !ok {
			return
		}
		applyProfileUpdate(c, db, profile)
	}
}

func applyProfileUpdate(c *gin.Context, db *gorm.DB, profile *domain.Profile) {
	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.PhoneNumber != nil {
		profile.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		profile.Address = *req.Address
	}
	if req.DateOfBirth != nil {
		profile.DateOfBirth = req.DateOfBirth
	}
	if req.Picture != nil {
		profile.Picture = *req.Picture
	}
	if err := db.Save(profile).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}
