package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Listing status values. These form a closed set; anything else is
// rejected before it reaches the database.
const (
	ListingStatusActive   = "active"
	ListingStatusPending  = "pending"
	ListingStatusSold     = "sold"
	ListingStatusExpired  = "expired"
	ListingStatusRejected = "rejected"
)

// Listing payment tiers (the monetization level purchased for a
// listing, not the gateway used to pay for it).
const (
	ListingTypeFree     = "free"
	ListingTypePremium  = "premium"
	ListingTypeFeatured = "featured"
)

// listingTransitions is the allowed status transition table.
// sold, expired and rejected are terminal.
var listingTransitions = map[string][]string{
	ListingStatusPending: {ListingStatusActive, ListingStatusRejected},
	ListingStatusActive:  {ListingStatusSold, ListingStatusExpired},
}

type Listing struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	CategoryID  *uint     `gorm:"index" json:"category_id,omitempty"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:decimal(12,2);not null" json:"price"`
	Status      string    `gorm:"size:20;default:'pending'" json:"status"`
	PaymentType string    `gorm:"size:20;default:'free'" json:"payment_type"`
	Slug        string    `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Images      []string  `gorm:"serializer:json" json:"images"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Location    string    `gorm:"size:255" json:"location"`
	Views       uint      `gorm:"default:0" json:"views"`

	User     User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Payments []Payment `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the table name
func (Listing) TableName() string {
	return "listings"
}

// ValidListingStatus reports whether s is one of the five listing statuses.
func ValidListingStatus(s string) bool {
	switch s {
	case ListingStatusActive, ListingStatusPending, ListingStatusSold,
		ListingStatusExpired, ListingStatusRejected:
		return true
	}
	return false
}

// ValidListingType reports whether t is one of the three payment tiers.
func ValidListingType(t string) bool {
	switch t {
	case ListingTypeFree, ListingTypePremium, ListingTypeFeatured:
		return true
	}
	return false
}

// CanTransitionListing reports whether a listing status may move from
// one value to another. Setting the same value is always allowed.
func CanTransitionListing(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range listingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// BeforeSave enforces the closed enum sets and the non-negative price
// on every insert and update.
func (l *Listing) BeforeSave(tx *gorm.DB) error {
	if l.Status == "" {
		l.Status = ListingStatusPending
	}
	if l.PaymentType == "" {
		l.PaymentType = ListingTypeFree
	}
	if !ValidListingStatus(l.Status) {
		return fmt.Errorf("invalid listing status: %q", l.Status)
	}
	if !ValidListingType(l.PaymentType) {
		return fmt.Errorf("invalid listing payment type: %q", l.PaymentType)
	}
	if l.Price < 0 {
		return fmt.Errorf("listing price must not be negative")
	}
	return nil
}
