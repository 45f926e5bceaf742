package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yourusername/marine-classifieds/config"
	"github.com/yourusername/marine-classifieds/models"
)

func TestModerateListing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin@x.com", true)
	seller := createTestUser(t, db, "seller@x.com", false)
	handler := NewAdminHandler(db, &config.Config{})

	router := gin.New()
	router.Use(asUser(admin.ID, true))
	router.PUT("/admin/listings/:id/moderate", handler.ModerateListing)
	router.GET("/admin/listings/pending", handler.GetPendingListings)

	moderate := func(id string, approve bool) *httptest.ResponseRecorder {
		body, _ := json.Marshal(ModerateRequest{Approve: approve})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/admin/listings/"+id+"/moderate", bytes.NewBuffer(body))
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Approve Pending", func(t *testing.T) {
		listing := createTestListing(t, db, seller.ID, "boat-approve")
		w := moderate(itoa(listing.ID), true)
		assert.Equal(t, http.StatusOK, w.Code)

		var found models.Listing
		db.First(&found, listing.ID)
		assert.Equal(t, models.ListingStatusActive, found.Status)
	})

	t.Run("Reject Pending", func(t *testing.T) {
		listing := createTestListing(t, db, seller.ID, "boat-reject")
		w := moderate(itoa(listing.ID), false)
		assert.Equal(t, http.StatusOK, w.Code)

		var found models.Listing
		db.First(&found, listing.ID)
		assert.Equal(t, models.ListingStatusRejected, found.Status)
	})

	t.Run("Sold Listing Not Moderatable", func(t *testing.T) {
		listing := models.Listing{UserID: seller.ID, Title: "Boat", Price: 1, Slug: "boat-sold", Status: models.ListingStatusSold}
		assert.NoError(t, db.Create(&listing).Error)

		w := moderate(itoa(listing.ID), true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Pending Queue", func(t *testing.T) {
		listing := createTestListing(t, db, seller.ID, "boat-queued")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/admin/listings/pending", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), listing.Slug)
		assert.NotContains(t, w.Body.String(), "boat-sold")
	})
}

func TestGetAnalytics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin@x.com", true)
	seller := createTestUser(t, db, "seller@x.com", false)
	listing := createTestListing(t, db, seller.ID, "boat-1")

	// Only completed payments count towards revenue.
	completedID := "pi_done"
	assert.NoError(t, db.Create(&models.Payment{
		UserID: seller.ID, ListingID: listing.ID, Amount: 30,
		PaymentType: models.PaymentMethodStripe, StripeID: &completedID,
		Status: models.PaymentStatusCompleted,
	}).Error)
	pendingID := "pi_pending"
	assert.NoError(t, db.Create(&models.Payment{
		UserID: seller.ID, ListingID: listing.ID, Amount: 10,
		PaymentType: models.PaymentMethodStripe, StripeID: &pendingID,
	}).Error)

	handler := NewAdminHandler(db, &config.Config{})
	router := gin.New()
	router.Use(asUser(admin.ID, true))
	router.GET("/admin/analytics", handler.GetAnalytics)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin/analytics", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		UserCount    int64   `json:"user_count"`
		ListingCount int64   `json:"listing_count"`
		TotalRevenue float64 `json:"total_revenue"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.UserCount)
	assert.Equal(t, int64(1), resp.ListingCount)
	assert.Equal(t, 30.00, resp.TotalRevenue)
}
