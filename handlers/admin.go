package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/marine-classifieds/config"
	"github.com/yourusername/marine-classifieds/models"
	"gorm.io/gorm"
)

type AdminHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAdminHandler(db *gorm.DB, cfg *config.Config) *AdminHandler {
	return &AdminHandler{db: db, config: cfg}
}

// GetAnalytics returns headline counts and revenue over completed
// payments.
func (h *AdminHandler) GetAnalytics(c *gin.Context) {
	var userCount, listingCount int64
	h.db.Model(&models.User{}).Count(&userCount)
	h.db.Model(&models.Listing{}).Count(&listingCount)

	var revenue float64
	h.db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&revenue)

	c.JSON(http.StatusOK, gin.H{
		"user_count":    userCount,
		"listing_count": listingCount,
		"total_revenue": revenue,
	})
}

// GetPendingListings returns listings waiting for moderation.
func (h *AdminHandler) GetPendingListings(c *gin.Context) {
	var listings []models.Listing
	if err := h.db.Preload("User").Preload("Category").
		Where("status = ?", models.ListingStatusPending).
		Order("created_at ASC").Find(&listings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listings"})
		return
	}
	c.JSON(http.StatusOK, listings)
}

type ModerateRequest struct {
	Approve bool `json:"approve"`
}

// ModerateListing approves (pending -> active) or rejects
// (pending -> rejected) a listing.
func (h *AdminHandler) ModerateListing(c *gin.Context) {
	var listing models.Listing
	if err := h.db.First(&listing, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	var req ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target := models.ListingStatusRejected
	if req.Approve {
		target = models.ListingStatusActive
	}

	if !models.CanTransitionListing(listing.Status, target) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Listing is not awaiting moderation"})
		return
	}

	listing.Status = target
	if err := h.db.Save(&listing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing " + target, "listing": listing})
}

// ListRevenue returns all payments, newest first. Admin only.
func (h *AdminHandler) ListRevenue(c *gin.Context) {
	var payments []models.Payment
	if err := h.db.Preload("Listing").Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}
