package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce_api/internal/domain"
)

func TestListUsersStaffOnly(t *testing.T) {
	r, gdb := setupTest(t)
	regular := createTestUser(t, gdb, "regular", false)
	staff := createTestUser(t, gdb, "admin", true)

	w := doJSON(t, r, http.MethodGet, "/api/users/", nil, accessTokenFor(t, regular))
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/users/", nil, accessTokenFor(t, staff))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, resultCount(t, w))

	w = doJSON(t, r, http.MethodGet, "/api/users/", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSearchUsersStaffOnly(t *testing.T) {
	r, gdb := setupTest(t)
	regular := createTestUser(t, gdb, "regular", false)
	staff := createTestUser(t, gdb, "admin", true)

	w := doJSON(t, r, http.MethodGet, "/api/users/search/?q=regu", nil, accessTokenFor(t, staff))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, resultCount(t, w))

	w = doJSON(t, r, http.MethodGet, "/api/users/search/?q=regu", nil, accessTokenFor(t, regular))
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestCurrentUserEndpoint(t *testing.T) {
	r, gdb := setupTest(t)
	user := createTestUser(t, gdb, "alice", false)

	w := doJSON(t, r, http.MethodGet, "/api/users/profile/", nil, accessTokenFor(t, user))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "alice", body["username"])
	_, leaked := body["password"]
	assert.False(t, leaked)

	w = doJSON(t, r, http.MethodGet, "/api/users/profile/", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserAccessSelfOrStaff(t *testing.T) {
	r, gdb := setupTest(t)
	alice := createTestUser(t, gdb, "alice", false)
	bob := createTestUser(t, gdb, "bob", false)
	staff := createTestUser(t, gdb, "admin", true)

	// Self access works
	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/users/%d/", alice.ID), nil, accessTokenFor(t, alice))
	require.Equal(t, http.StatusOK, w.Code)

	// Another regular user is rejected
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/users/%d/", alice.ID), nil, accessTokenFor(t, bob))
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Permission denied", decodeBody(t, w)["error"])

	// Staff reaches everyone
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/users/%d/", alice.ID), nil, accessTokenFor(t, staff))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateUser(t *testing.T) {
	r, gdb := setupTest(t)
	alice := createTestUser(t, gdb, "alice", false)

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/users/%d/", alice.ID), gin.H{
		"first_name": "Alice", "last_name": "Smith",
	}, accessTokenFor(t, alice))
	require.Equal(t, http.StatusOK, w.Code)

	var u domain.User
	require.NoError(t, gdb.First(&u, alice.ID).Error)
	assert.Equal(t, "Alice Smith", u.FullName())
}

func TestDeleteUserIsHard(t *testing.T) {
	r, gdb := setupTest(t)
	alice := createTestUser(t, gdb, "alice", false)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/users/%d/", alice.ID), nil, accessTokenFor(t, alice))
	require.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	gdb.Model(&domain.User{}).Where("id = ?", alice.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestToggleUserActive(t *testing.T) {
	r, gdb := setupTest(t)
	staff := createTestUser(t, gdb, "admin", true)
	target := createTestUser(t, gdb, "target", false)

	// Staff cannot deactivate themselves
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/users/%d/toggle-active/", staff.ID), gin.H{}, accessTokenFor(t, staff))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot deactivate your own account", decodeBody(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/users/%d/toggle-active/", target.ID), gin.H{}, accessTokenFor(t, staff))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User deactivated successfully", decodeBody(t, w)["message"])

	var u domain.User
	require.NoError(t, gdb.First(&u, target.ID).Error)
	assert.False(t, u.IsActive)

	// Regular users never reach the endpoint
	regular := createTestUser(t, gdb, "regular", false)
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/users/%d/toggle-active/", target.ID), gin.H{}, accessTokenFor(t, regular))
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateOwnProfile(t *testing.T) {
	r, gdb := setupTest(t)
	alice := createTestUser(t, gdb, "alice", false)

	w := doJSON(t, r, http.MethodPatch, "/api/users/update-profile/", gin.H{
		"phone_number": "555-0199",
		"address":      "1 Main St",
	}, accessTokenFor(t, alice))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var p domain.Profile
	require.NoError(t, gdb.Where("user_id = ?", alice.ID).First(&p).Error)
	assert.Equal(t, "555-0199", p.PhoneNumber)
	assert.Equal(t, "1 Main St", p.Address)
}

func TestProfileAccessSelfOrStaff(t *testing.T) {
	r, gdb := setupTest(t)
	alice := createTestUser(t, gdb, "alice", false)
	bob := createTestUser(t, gdb, "bob", false)
	staff := createTestUser(t, gdb, "admin", true)

	var profile domain.Profile
	require.NoError(t, gdb.Where("user_id = ?", alice.ID).First(&profile).Error)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/profiles/%d/", profile.ID), nil, accessTokenFor(t, alice))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/profiles/%d/", profile.ID), nil, accessTokenFor(t, bob))
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/profiles/%d/", profile.ID), nil, accessTokenFor(t, staff))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestListProfilesStaffOnly(t *testing.T) {
	r, gdb := setupTest(t)
	regular := createTestUser(t, gdb, "regular", false)
	staff := createTestUser(t, gdb, "admin", true)

	w := doJSON(t, r, http.MethodGet, "/api/profiles/", nil, accessTokenFor(t, staff))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, resultCount(t, w))

	w = doJSON(t, r, http.MethodGet, "/api/profiles/", nil, accessTokenFor(t, regular))
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestWishlistFlow(t *testing.T) {
	r, gdb := setupTest(t)
	alice := createTestUser(t, gdb, "alice", false)
	_, products := seedCategoryWithProducts(t, gdb, alice)
	token := accessTokenFor(t, alice)

	w := doJSON(t, r, http.MethodGet, "/api/wishlist/", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["products"], 0)

	w = doJSON(t, r, http.MethodPost, "/api/wishlist/add/", gin.H{"product_id": products[0].ID}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/wishlist/add/", gin.H{"product_id": uint(9999)}, token)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/wishlist/", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["products"], 1)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/wishlist/remove/%d/", products[0].ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/wishlist/", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["products"], 0)
}
