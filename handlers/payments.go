package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/marine-classifieds/config"
	"github.com/yourusername/marine-classifieds/models"
	"github.com/yourusername/marine-classifieds/utils"
	"gorm.io/gorm"
)

// Tier prices in whole currency units (USD).
var tierPrices = map[string]float64{
	models.ListingTypeFree:     0,
	models.ListingTypePremium:  10.00,
	models.ListingTypeFeatured: 30.00,
}

func tierForAmount(amount float64) string {
	for tier, price := range tierPrices {
		if price == amount {
			return tier
		}
	}
	return models.ListingTypeFree
}

type PaymentHandler struct {
	db      *gorm.DB
	config  *config.Config
	gateway utils.GatewayClientInterface
}

func NewPaymentHandler(db *gorm.DB, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		db:      db,
		config:  cfg,
		gateway: utils.NewGatewayClient(cfg.StripeSecretKey, cfg.PayPalClientID, cfg.PayPalSecret),
	}
}

type CheckoutRequest struct {
	ListingID uint   `json:"listing_id" binding:"required"`
	Tier      string `json:"tier" binding:"required"`
	Method    string `json:"method"`
}

// CreateCheckout starts a checkout for a listing tier. The free tier
// activates the listing directly with no payment row; paid tiers
// create a pending payment and a gateway intent the client must
// confirm.
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if !models.ValidListingType(req.Tier) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier"})
		return
	}

	var listing models.Listing
	if err := h.db.First(&listing, req.ListingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	if listing.UserID != userID.(uint) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to pay for this listing"})
		return
	}

	amount := tierPrices[req.Tier]
	if amount == 0 {
		listing.PaymentType = models.ListingTypeFree
		if models.CanTransitionListing(listing.Status, models.ListingStatusActive) {
			listing.Status = models.ListingStatusActive
		}
		if err := h.db.Save(&listing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Free listing activated", "listing": listing})
		return
	}

	if !models.ValidPaymentMethod(req.Method) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method"})
		return
	}

	payment := models.Payment{
		UserID:      userID.(uint),
		ListingID:   listing.ID,
		Amount:      amount,
		PaymentType: req.Method,
		Status:      models.PaymentStatusPending,
	}
	if err := h.db.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
		return
	}

	switch req.Method {
	case models.PaymentMethodStripe:
		intentID, clientSecret, err := h.gateway.CreateStripeIntent(int64(amount*100), "usd", map[string]string{
			"listing_id": strconv.FormatUint(uint64(listing.ID), 10),
			"payment_id": strconv.FormatUint(uint64(payment.ID), 10),
			"tier":       req.Tier,
		})
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create payment intent"})
			return
		}
		payment.StripeID = &intentID
		if err := h.db.Save(&payment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"payment_id":    payment.ID,
			"status":        payment.Status,
			"client_secret": clientSecret,
		})
	case models.PaymentMethodPayPal:
		orderID, err := h.gateway.CreatePayPalOrder(amount, "usd")
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create PayPal order"})
			return
		}
		payment.PayPalID = &orderID
		if err := h.db.Save(&payment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"payment_id": payment.ID,
			"status":     payment.Status,
			"order_id":   orderID,
		})
	}
}

// CompletePayment records a successful gateway outcome: the payment
// becomes completed and the listing gets its purchased tier and, if
// still pending, goes active. Only the payer or an admin may confirm.
func (h *PaymentHandler) CompletePayment(c *gin.Context) {
	payment, ok := h.authorizedPayment(c)
	if !ok {
		return
	}

	if !models.CanTransitionPayment(payment.Status, models.PaymentStatusCompleted) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment is already " + payment.Status})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		payment.Status = models.PaymentStatusCompleted
		if err := tx.Save(payment).Error; err != nil {
			return err
		}

		var listing models.Listing
		if err := tx.First(&listing, payment.ListingID).Error; err != nil {
			return err
		}
		listing.PaymentType = tierForAmount(payment.Amount)
		if models.CanTransitionListing(listing.Status, models.ListingStatusActive) {
			listing.Status = models.ListingStatusActive
		}
		return tx.Save(&listing).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete payment"})
		return
	}

	c.JSON(http.StatusOK, payment)
}

// FailPayment records a failed gateway outcome. Only the payer or an
// admin may record it.
func (h *PaymentHandler) FailPayment(c *gin.Context) {
	payment, ok := h.authorizedPayment(c)
	if !ok {
		return
	}

	if !models.CanTransitionPayment(payment.Status, models.PaymentStatusFailed) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment is already " + payment.Status})
		return
	}

	payment.Status = models.PaymentStatusFailed
	if err := h.db.Save(payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}

	c.JSON(http.StatusOK, payment)
}

// GetPayment returns one payment. Only the payer or an admin may view it.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, ok := h.authorizedPayment(c, "Listing")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, payment)
}

// ListPayments returns the caller's payment history, newest first.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payments []models.Payment
	if err := h.db.Preload("Listing").Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}

// authorizedPayment loads the payment from the :id param and checks
// the caller is its payer or an admin. On failure it writes the
// response and returns false.
func (h *PaymentHandler) authorizedPayment(c *gin.Context, preloads ...string) (*models.Payment, bool) {
	query := h.db
	for _, p := range preloads {
		query = query.Preload(p)
	}

	var payment models.Payment
	if err := query.First(&payment, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return nil, false
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	isAdmin, _ := c.Get("isAdmin")
	admin, _ := isAdmin.(bool)

	if payment.UserID != userID.(uint) && !admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized for this payment"})
		return nil, false
	}
	return &payment, true
}
