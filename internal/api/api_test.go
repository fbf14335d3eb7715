package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ecommerce_api/internal/config"
	"ecommerce_api/internal/db"
	"ecommerce_api/internal/domain"
	"ecommerce_api/internal/utils"
)

const testJWTSecret = "test-secret"

// setupTest wires a full router against a fresh in-memory database.
// No redis in tests; the cache helpers treat a nil client as a miss.
func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(db.Models()...))

	cfg := &config.Config{
		JWTSecret:       testJWTSecret,
		AccessTTLMin:    60,
		RefreshTTLHours: 24,
		UploadDir:       t.TempDir(),
	}
	return SetupRouter(gdb, nil, cfg), gdb
}

// createTestUser inserts a ready-to-login account with profile and wishlist.
func createTestUser(t *testing.T, gdb *gorm.DB, username string, staff bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		IsStaff:      staff,
		IsActive:     true,
	}
	require.NoError(t, gdb.Create(&user).Error)
	require.NoError(t, gdb.Create(&domain.Profile{UserID: user.ID}).Error)
	require.NoError(t, gdb.Create(&domain.Wishlist{UserID: user.ID}).Error)
	return &user
}

func accessTokenFor(t *testing.T, user *domain.User) string {
	t.Helper()
	token, err := utils.GenerateToken(user.ID, utils.TokenTypeAccess, testJWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

// doJSON performs one request against the router. An empty token sends the
// request anonymously.
func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// seedCategoryWithProducts creates one category and a handful of products in
// known stock states. The "old-shovel" product is inactive.
func seedCategoryWithProducts(t *testing.T, gdb *gorm.DB, owner *domain.User) (domain.Category, []domain.Product) {
	t.Helper()
	category := domain.Category{Name: "Electronics", Description: "Gadgets and devices", IsActive: true}
	require.NoError(t, gdb.Create(&category).Error)

	products := []domain.Product{
		{Name: "Laptop Pro", Price: decimal.NewFromFloat(1200), CategoryID: category.ID, StockQuantity: 15, IsActive: true, CreatedByID: owner.ID},
		{Name: "USB Cable", Price: decimal.NewFromFloat(4.99), CategoryID: category.ID, StockQuantity: 0, IsActive: true, CreatedByID: owner.ID},
		{Name: "Old Shovel", Price: decimal.NewFromFloat(9.99), CategoryID: category.ID, StockQuantity: 3, IsActive: false, CreatedByID: owner.ID},
	}
	for i := range products {
		require.NoError(t, gdb.Create(&products[i]).Error)
	}
	return category, products
}

func resultCount(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	body := decodeBody(t, w)
	results, ok := body["results"].([]any)
	require.True(t, ok, "body: %s", w.Body.String())
	return len(results)
}
