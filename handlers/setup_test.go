package handlers

import (
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/marine-classifieds/models"
	"github.com/yourusername/marine-classifieds/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Category{}, &models.Listing{}, &models.Payment{}, &models.Message{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string, admin bool) models.User {
	hashed, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		Username: email,
		Email:    email,
		Password: hashed,
		IsAdmin:  admin,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestListing(t *testing.T, db *gorm.DB, userID uint, slug string) models.Listing {
	listing := models.Listing{
		UserID: userID,
		Title:  "Boat",
		Price:  15000.00,
		Slug:   slug,
	}
	if err := db.Create(&listing).Error; err != nil {
		t.Fatalf("failed to create test listing: %v", err)
	}
	return listing
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// asUser fakes the JWT middleware by injecting the caller's identity
// into the request context.
func asUser(userID uint, admin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("isAdmin", admin)
		c.Next()
	}
}

// fakeMailer records sent mail instead of talking to an SMTP server.
type fakeMailer struct {
	to       []string
	subjects []string
	bodies   []string
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.to = append(f.to, to)
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
	return nil
}

// MockGatewayClient mirrors the gateway interface with function fields,
// so each test controls the gateway outcome.
type MockGatewayClient struct {
	CreateStripeIntentFunc func(amountCents int64, currency string, metadata map[string]string) (string, string, error)
	CreatePayPalOrderFunc  func(amount float64, currency string) (string, error)
}

func (m *MockGatewayClient) CreateStripeIntent(amountCents int64, currency string, metadata map[string]string) (string, string, error) {
	return m.CreateStripeIntentFunc(amountCents, currency, metadata)
}

func (m *MockGatewayClient) CreatePayPalOrder(amount float64, currency string) (string, error) {
	return m.CreatePayPalOrderFunc(amount, currency)
}
