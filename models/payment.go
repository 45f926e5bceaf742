package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Payment gateway methods.
const (
	PaymentMethodStripe = "stripe"
	PaymentMethodPayPal = "paypal"
)

// Payment status values. pending may move to completed or failed;
// both are terminal.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

type Payment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	ListingID   uint      `gorm:"index;not null" json:"listing_id"`
	Amount      float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentType string    `gorm:"size:20;not null" json:"payment_type"`
	Status      string    `gorm:"size:20;default:'pending'" json:"status"`
	StripeID    *string   `gorm:"size:255" json:"stripe_id,omitempty"`
	PayPalID    *string   `gorm:"size:255" json:"paypal_id,omitempty"`

	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Listing Listing `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"listing,omitempty"`
}

// TableName overrides the table name
func (Payment) TableName() string {
	return "payments"
}

// ValidPaymentMethod reports whether m is a supported gateway.
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodStripe || m == PaymentMethodPayPal
}

// ValidPaymentStatus reports whether s is one of the three payment statuses.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

// CanTransitionPayment reports whether a payment status may move from
// one value to another. completed and failed are terminal.
func CanTransitionPayment(from, to string) bool {
	if from == to {
		return true
	}
	return from == PaymentStatusPending &&
		(to == PaymentStatusCompleted || to == PaymentStatusFailed)
}

// BeforeSave enforces the closed enum sets, the non-negative amount,
// and that the populated gateway id matches the declared method.
func (p *Payment) BeforeSave(tx *gorm.DB) error {
	if p.Status == "" {
		p.Status = PaymentStatusPending
	}
	if !ValidPaymentMethod(p.PaymentType) {
		return fmt.Errorf("invalid payment method: %q", p.PaymentType)
	}
	if !ValidPaymentStatus(p.Status) {
		return fmt.Errorf("invalid payment status: %q", p.Status)
	}
	if p.Amount < 0 {
		return fmt.Errorf("payment amount must not be negative")
	}
	if p.PaymentType == PaymentMethodStripe && p.PayPalID != nil {
		return fmt.Errorf("stripe payment must not carry a paypal id")
	}
	if p.PaymentType == PaymentMethodPayPal && p.StripeID != nil {
		return fmt.Errorf("paypal payment must not carry a stripe id")
	}
	return nil
}
