package models

import (
	"fmt"
	"regexp"
	"time"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusCooking    OrderStatus = "cooking"
	StatusDelivering OrderStatus = "delivering"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// PaymentMethod is how the customer pays for an order
type PaymentMethod string

const (
	PaymentOnline PaymentMethod = "online"
	PaymentCash   PaymentMethod = "cash"
)

// PaymentStatus tracks whether an order has been paid
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Order represents a customer order. Items are an immutable snapshot of the
// cart at submission time; the total is fixed at checkout and never recomputed.
type Order struct {
	ID              string        `json:"id" db:"id"`
	UserID          *string       `json:"user_id" db:"user_id"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	Items           []CartLine    `json:"items"`
	TotalAmount     int           `json:"total_amount" db:"total_amount"`
	Status          OrderStatus   `json:"status" db:"status"`
	DeliveryAddress string        `json:"delivery_address" db:"delivery_address"`
	ContactPhone    string        `json:"contact_phone" db:"contact_phone"`
	Comment         string        `json:"comment,omitempty" db:"comment"`
	PaymentStatus   PaymentStatus `json:"payment_status" db:"payment_status"`
	PaymentMethod   PaymentMethod `json:"payment_method" db:"payment_method"`
	PaymentID       *string       `json:"payment_id,omitempty" db:"payment_id"`
}

// CheckoutRequest represents the checkout form submitted from the cart page.
// Street and house are the only required address fields.
type CheckoutRequest struct {
	Name          string        `json:"name"`
	Phone         string        `json:"phone"`
	Street        string        `json:"street"`
	House         string        `json:"house"`
	Entrance      string        `json:"entrance,omitempty"`
	Floor         string        `json:"floor,omitempty"`
	Apartment     string        `json:"apartment,omitempty"`
	Intercom      string        `json:"intercom,omitempty"`
	Comment       string        `json:"comment,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

// CheckoutResponse is returned once an order has been placed. ConfirmationURL
// is set only for online payments and points at the hosted payment page.
type CheckoutResponse struct {
	OrderID         string `json:"order_id"`
	TotalAmount     int    `json:"total_amount"`
	PaymentMethod   string `json:"payment_method"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

var phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]{7,20}$`)

// Validate validates the checkout form
func (req *CheckoutRequest) Validate() error {
	if len(req.Phone) == 0 {
		return fmt.Errorf("phone is required")
	}
	if !phonePattern.MatchString(req.Phone) {
		return fmt.Errorf("phone has an invalid format")
	}
	if len(req.Street) == 0 {
		return fmt.Errorf("street is required")
	}
	if len(req.House) == 0 {
		return fmt.Errorf("house is required")
	}
	switch req.PaymentMethod {
	case PaymentOnline, PaymentCash:
	default:
		return fmt.Errorf("payment_method must be one of: online, cash")
	}
	return nil
}

// ValidStatus reports whether s is a known order status
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCooking, StatusDelivering, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}
