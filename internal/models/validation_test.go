package models

import (
	"strings"
	"testing"
)

func TestDishRequestValidate(t *testing.T) {
	valid := DishRequest{Name: "Pelmeni", Category: CategoryMain, Price: 450}

	tests := []struct {
		name    string
		mutate  func(*DishRequest)
		wantErr bool
	}{
		{"valid", func(r *DishRequest) {}, false},
		{"missing name", func(r *DishRequest) { r.Name = "" }, true},
		{"name too long", func(r *DishRequest) { r.Name = strings.Repeat("x", 101) }, true},
		{"unknown category", func(r *DishRequest) { r.Category = "desserts" }, true},
		{"zero price", func(r *DishRequest) { r.Price = 0 }, true},
		{"negative price", func(r *DishRequest) { r.Price = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestCheckoutRequestValidate(t *testing.T) {
	valid := CheckoutRequest{
		Name:          "Anna",
		Phone:         "+7 (900) 123-45-67",
		Street:        "Lenina",
		House:         "12",
		PaymentMethod: PaymentCash,
	}

	tests := []struct {
		name    string
		mutate  func(*CheckoutRequest)
		wantErr bool
	}{
		{"valid cash", func(r *CheckoutRequest) {}, false},
		{"valid online", func(r *CheckoutRequest) { r.PaymentMethod = PaymentOnline }, false},
		{"plain digits phone", func(r *CheckoutRequest) { r.Phone = "89001234567" }, false},
		{"missing phone", func(r *CheckoutRequest) { r.Phone = "" }, true},
		{"phone with letters", func(r *CheckoutRequest) { r.Phone = "call me" }, true},
		{"phone too short", func(r *CheckoutRequest) { r.Phone = "123" }, true},
		{"missing street", func(r *CheckoutRequest) { r.Street = "" }, true},
		{"missing house", func(r *CheckoutRequest) { r.House = "" }, true},
		{"unknown payment method", func(r *CheckoutRequest) { r.PaymentMethod = "crypto" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestRegisterRequestValidate(t *testing.T) {
	valid := RegisterRequest{Email: "anna@example.com", Password: "long-enough", FullName: "Anna"}

	tests := []struct {
		name    string
		mutate  func(*RegisterRequest)
		wantErr bool
	}{
		{"valid", func(r *RegisterRequest) {}, false},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, true},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }, true},
		{"missing name", func(r *RegisterRequest) { r.FullName = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusConfirmed, StatusCooking, StatusDelivering, StatusDelivered, StatusCancelled} {
		if !ValidStatus(s) {
			t.Fatalf("expected %s to be valid", s)
		}
	}
	if ValidStatus("shipped") {
		t.Fatalf("expected unknown status to be invalid")
	}
}

func TestCartLineSubtotal(t *testing.T) {
	line := CartLine{Dish: Dish{ID: "a", Price: 450}, Quantity: 3}
	if line.Subtotal() != 1350 {
		t.Fatalf("expected subtotal 1350, got %d", line.Subtotal())
	}
}
