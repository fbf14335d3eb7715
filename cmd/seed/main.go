package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ecommerce_api/internal/config"
	"ecommerce_api/internal/db"
	"ecommerce_api/internal/domain"
)

var (
	userCount    int
	productCount int
	withReviews  bool
)

var categorySeed = []struct{ name, description string }{
	{"Electronics", "Electronic devices and gadgets"},
	{"Fashion", "Clothing and accessories"},
	{"Home & Garden", "Home improvement and garden items"},
	{"Sports & Outdoors", "Sports equipment and outdoor gear"},
	{"Books & Media", "Books, movies, and music"},
	{"Toys & Games", "Children toys and board games"},
	{"Health & Beauty", "Health products and beauty items"},
	{"Automotive", "Car parts and accessories"},
	{"Tools & Hardware", "DIY tools and hardware"},
	{"Pet Supplies", "Pet food and accessories"},
}

var productAdjectives = []string{"Premium", "Classic", "Compact", "Deluxe", "Portable", "Wireless", "Ergonomic", "Heavy-Duty"}
var productNouns = []string{"Widget", "Gadget", "Kit", "Set", "Tool", "Device", "Pack", "Bundle"}

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with sample catalog data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		gormDB, err := db.Connect(cfg.DSN())
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		return seed(gormDB)
	},
}

func init() {
	rootCmd.Flags().IntVar(&userCount, "users", 50, "number of sample users to create")
	rootCmd.Flags().IntVar(&productCount, "products", 200, "number of sample products to create")
	rootCmd.Flags().BoolVar(&withReviews, "reviews", true, "also generate reviews and wishlists")
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func seed(gormDB *gorm.DB) error {
	logrus.Info("Starting data generation...")

	categories, err := seedCategories(gormDB)
	if err != nil {
		return err
	}
	users, err := seedUsers(gormDB)
	if err != nil {
		return err
	}
	products, err := seedProducts(gormDB, categories, users)
	if err != nil {
		return err
	}
	if withReviews {
		if err := seedReviews(gormDB, products, users); err != nil {
			return err
		}
		if err := seedWishlists(gormDB, products, users); err != nil {
			return err
		}
	}

	logrus.Infof("Successfully created %d categories, %d users, %d products",
		len(categories), len(users), len(products))
	return nil
}

func seedCategories(gormDB *gorm.DB) ([]domain.Category, error) {
	categories := make([]domain.Category, 0, len(categorySeed))
	for _, c := range categorySeed {
		category := domain.Category{Name: c.name, Description: c.description, IsActive: true}
		err := gormDB.Where("name = ?", c.name).FirstOrCreate(&category).Error
		if err != nil {
			return nil, fmt.Errorf("create category %q: %w", c.name, err)
		}
		categories = append(categories, category)
	}
	logrus.Infof("Categories ready: %d", len(categories))
	return categories, nil
}

func seedUsers(gormDB *gorm.DB) ([]domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Admin account first
	admin := domain.User{
		Username:     "admin",
		Email:        "admin@ecommerce.com",
		PasswordHash: string(hash),
		IsStaff:      true,
		IsSuperuser:  true,
		IsActive:     true,
	}
	if err := gormDB.Where("username = ?", admin.Username).FirstOrCreate(&admin).Error; err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}

	users := []domain.User{admin}
	for i := 1; i <= userCount; i++ {
		user := domain.User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			FirstName:    fmt.Sprintf("User%d", i),
			LastName:     fmt.Sprintf("Last%d", i),
			IsActive:     true,
		}
		created := gormDB.Where("username = ?", user.Username).FirstOrCreate(&user)
		if created.Error != nil {
			return nil, fmt.Errorf("create user %q: %w", user.Username, created.Error)
		}
		if created.RowsAffected > 0 {
			profile := domain.Profile{
				UserID:      user.ID,
				PhoneNumber: fmt.Sprintf("+1-555-%03d-%04d", i, i),
				Address:     fmt.Sprintf("%d Main Street, City %d", i, i),
			}
			if err := gormDB.Create(&profile).Error; err != nil {
				return nil, fmt.Errorf("create profile for %q: %w", user.Username, err)
			}
		}
		users = append(users, user)
	}
	logrus.Infof("Users ready: %d", len(users))
	return users, nil
}

func seedProducts(gormDB *gorm.DB, categories []domain.Category, users []domain.User) ([]domain.Product, error) {
	products := make([]domain.Product, 0, productCount)
	for i := 1; i <= productCount; i++ {
		category := categories[rand.Intn(len(categories))]
		creator := users[rand.Intn(len(users))]
		price := decimal.NewFromFloat(float64(rand.Intn(99900)+100) / 100) // 1.00 .. 1000.00
		product := domain.Product{
			Name:          fmt.Sprintf("%s %s %d", productAdjectives[rand.Intn(len(productAdjectives))], productNouns[rand.Intn(len(productNouns))], i),
			Description:   fmt.Sprintf("Sample product in the %s category.", category.Name),
			Price:         price,
			CategoryID:    category.ID,
			StockQuantity: uint(rand.Intn(60)),
			IsActive:      true,
			CreatedByID:   creator.ID,
		}
		if err := gormDB.Create(&product).Error; err != nil {
			return nil, fmt.Errorf("create product %q: %w", product.Name, err)
		}
		products = append(products, product)
	}
	logrus.Infof("Products ready: %d", len(products))
	return products, nil
}

// ratingWeights skews ratings toward the positive end, matching real-world
// review distributions.
var ratingWeights = []int{5, 10, 15, 30, 40}

func weightedRating() int {
	total := 0
	for _, w := range ratingWeights {
		total += w
	}
	n := rand.Intn(total)
	for i, w := range ratingWeights {
		if n < w {
			return i + 1
		}
		n -= w
	}
	return 5
}

func seedReviews(gormDB *gorm.DB, products []domain.Product, users []domain.User) error {
	created := 0
	for i := range products {
		for j := 0; j < rand.Intn(4); j++ {
			user := users[rand.Intn(len(users))]
			review := domain.ProductReview{
				ProductID: products[i].ID,
				UserID:    user.ID,
				Rating:    weightedRating(),
				Comment:   "Sample review.",
			}
			var exists int64
			gormDB.Model(&domain.ProductReview{}).
				Where("product_id = ? AND user_id = ?", review.ProductID, review.UserID).
				Count(&exists)
			if exists > 0 {
				continue
			}
			if err := gormDB.Create(&review).Error; err != nil {
				return fmt.Errorf("create review: %w", err)
			}
			created++
		}
	}
	logrus.Infof("Reviews ready: %d", created)
	return nil
}

func seedWishlists(gormDB *gorm.DB, products []domain.Product, users []domain.User) error {
	for i := range users {
		wishlist := domain.Wishlist{UserID: users[i].ID}
		if err := gormDB.Where("user_id = ?", users[i].ID).FirstOrCreate(&wishlist).Error; err != nil {
			return fmt.Errorf("create wishlist: %w", err)
		}
		for j := 0; j < rand.Intn(5); j++ {
			product := products[rand.Intn(len(products))]
			if err := gormDB.Model(&wishlist).Association("Products").Append(&product); err != nil {
				return fmt.Errorf("fill wishlist: %w", err)
			}
		}
	}
	logrus.Info("Wishlists ready")
	return nil
}
