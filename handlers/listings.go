package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/marine-classifieds/config"
	"github.com/yourusername/marine-classifieds/models"
	"github.com/yourusername/marine-classifieds/utils"
	"gorm.io/gorm"
)

type ListingHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewListingHandler(db *gorm.DB, cfg *config.Config) *ListingHandler {
	return &ListingHandler{db: db, config: cfg}
}

type CreateListingRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"gte=0"`
	CategoryID  *uint    `json:"category_id"`
	Images      []string `json:"images"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Location    string   `json:"location"`
}

// CreateListing creates a listing in pending status on the free tier.
// The slug is derived from the title; collisions get a random suffix.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if req.CategoryID != nil {
		var category models.Category
		if err := h.db.First(&category, *req.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
			return
		}
	}

	slug := utils.Slugify(req.Title)
	if slug == "" {
		slug = "listing"
	}
	var count int64
	h.db.Model(&models.Listing{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		slug = slug + "-" + utils.SlugSuffix()
	}

	listing := models.Listing{
		UserID:      userID.(uint),
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Status:      models.ListingStatusPending,
		PaymentType: models.ListingTypeFree,
		Slug:        slug,
		Images:      req.Images,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Location:    req.Location,
	}

	if err := h.db.Create(&listing).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create listing"})
		return
	}

	c.JSON(http.StatusCreated, listing)
}

// ListListings returns listings with filters and pagination. Without an
// explicit status filter only active listings are returned.
func (h *ListingHandler) ListListings(c *gin.Context) {
	query := h.db.Model(&models.Listing{}).Preload("Category")

	status := c.DefaultQuery("status", models.ListingStatusActive)
	if !models.ValidListingStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}
	query = query.Where("status = ?", status)

	if tier := c.Query("payment_type"); tier != "" {
		if !models.ValidListingType(tier) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment_type filter"})
			return
		}
		query = query.Where("payment_type = ?", tier)
	}

	if category := c.Query("category"); category != "" {
		query = query.Where("category_id = ?", category)
	}

	if minPrice := c.Query("min_price"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", v)
		}
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", v)
		}
	}

	if location := c.Query("location"); location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(location)+"%")
	}

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var total int64
	query.Count(&total)

	var listings []models.Listing
	if err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&listings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(listings),
		"total": total,
		"pages": (total + int64(limit) - 1) / int64(limit),
		"data":  listings,
	})
}

// GetListing returns one listing, looked up by numeric id or by slug,
// and bumps its view counter. A numeric key is tried as an id first,
// then as a slug, so titles like "2020" stay reachable.
func (h *ListingHandler) GetListing(c *gin.Context) {
	key := c.Param("id")
	var listing models.Listing

	err := gorm.ErrRecordNotFound
	if id, convErr := strconv.Atoi(key); convErr == nil {
		err = h.db.Preload("User").Preload("Category").First(&listing, id).Error
	}
	if err != nil {
		err = h.db.Preload("User").Preload("Category").Where("slug = ?", key).First(&listing).Error
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	h.db.Model(&listing).UpdateColumn("views", gorm.Expr("views + 1"))
	listing.Views++

	c.JSON(http.StatusOK, listing)
}

type UpdateListingRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	CategoryID  *uint    `json:"category_id"`
	Images      []string `json:"images"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Location    *string  `json:"location"`
}

// UpdateListing updates a listing's fields. Only the owner or an admin
// may update.
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	listing, ok := h.authorizedListing(c)
	if !ok {
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.CategoryID != nil {
		var category models.Category
		if err := h.db.First(&category, *req.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
			return
		}
		listing.CategoryID = req.CategoryID
	}
	if req.Title != nil {
		listing.Title = *req.Title
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.Price != nil {
		listing.Price = *req.Price
	}
	if req.Images != nil {
		listing.Images = req.Images
	}
	if req.Latitude != nil {
		listing.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		listing.Longitude = req.Longitude
	}
	if req.Location != nil {
		listing.Location = *req.Location
	}

	if err := h.db.Save(listing).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listing)
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateListingStatus moves a listing through the status transition
// table. Owners use it to mark a sale complete; admins may use it too.
func (h *ListingHandler) UpdateListingStatus(c *gin.Context) {
	listing, ok := h.authorizedListing(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidListingStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing status"})
		return
	}
	if !models.CanTransitionListing(listing.Status, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status transition from " + listing.Status + " to " + req.Status})
		return
	}

	listing.Status = req.Status
	if err := h.db.Save(listing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// DeleteListing removes a listing and its payments.
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	listing, ok := h.authorizedListing(c)
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		return tx.Delete(listing).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete listing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted"})
}

// authorizedListing loads the listing from the :id param and checks the
// caller owns it or is an admin. On failure it writes the response and
// returns false.
func (h *ListingHandler) authorizedListing(c *gin.Context) (*models.Listing, bool) {
	var listing models.Listing
	if err := h.db.First(&listing, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return nil, false
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	isAdmin, _ := c.Get("isAdmin")
	admin, _ := isAdmin.(bool)

	if listing.UserID != userID.(uint) && !admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to modify this listing"})
		return nil, false
	}
	return &listing, true
}
