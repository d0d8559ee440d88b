package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lucsky/cuid"
	"teahouse-storefront/internal/cart"
	"teahouse-storefront/internal/logger"
	"teahouse-storefront/internal/models"
)

// ErrBelowMinimum is returned when the cart subtotal does not reach the
// minimum order amount. The storefront disables submission proactively, so
// hitting this from the UI means a stale or hand-crafted request.
var ErrBelowMinimum = errors.New("cart subtotal is below the minimum order amount")

// ErrEmptyCart is returned when checkout is attempted with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// OrderCreator persists a new order record.
type OrderCreator interface {
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
}

// LinkResolver obtains a payment redirect URL. It never fails.
type LinkResolver interface {
	Resolve(ctx context.Context, orderID string, amount int) string
}

// Orchestrator drives checkout: it validates preconditions, persists the
// order, resolves the payment path, and clears the cart only once the order
// is safely created. Any order-creation failure leaves the cart intact so the
// customer can retry without re-entering the form.
type Orchestrator struct {
	orders   OrderCreator
	payments LinkResolver
	logger   *logger.Logger
}

// New creates a checkout orchestrator.
func New(orders OrderCreator, payments LinkResolver, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		orders:   orders,
		payments: payments,
		logger:   log,
	}
}

// Submit places an order from the cart. userID is nil for guest orders.
func (o *Orchestrator) Submit(ctx context.Context, c *cart.Cart, userID *string, req *models.CheckoutRequest, requestID string) (*models.CheckoutResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lines := c.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if !c.MeetsMinimum() {
		return nil, ErrBelowMinimum
	}

	total := c.TotalPrice() + c.DeliveryCost()

	order := &models.Order{
		ID:              cuid.New(),
		UserID:          userID,
		Items:           lines,
		TotalAmount:     total,
		Status:          models.StatusPending,
		DeliveryAddress: ComposeAddress(req),
		ContactPhone:    req.Phone,
		Comment:         req.Comment,
		PaymentStatus:   models.PaymentUnpaid,
		PaymentMethod:   req.PaymentMethod,
	}

	created, err := o.orders.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	resp := &models.CheckoutResponse{
		OrderID:       created.ID,
		TotalAmount:   total,
		PaymentMethod: string(req.PaymentMethod),
	}

	if req.PaymentMethod == models.PaymentOnline {
		// Resolve never fails; a gateway outage degrades to the direct link.
		resp.ConfirmationURL = o.payments.Resolve(ctx, created.ID, total)
	}

	if err := c.Clear(ctx); err != nil {
		// The order exists; a failed cart wipe must not look like a failed
		// checkout. Log and move on.
		o.logger.Error("cart_clear_failed", "Failed to clear cart after checkout", requestID, err, map[string]interface{}{
			"order_id": created.ID,
		})
	}

	o.logger.Info("order_placed", "Order placed", requestID, map[string]interface{}{
		"order_id":       created.ID,
		"total_amount":   total,
		"payment_method": req.PaymentMethod,
		"guest":          userID == nil,
	})

	return resp, nil
}

// ComposeAddress flattens the structured delivery address into a single
// string. Street and house are validated as required; the remaining fields
// are included only when present.
func ComposeAddress(req *models.CheckoutRequest) string {
	parts := []string{req.Street, "bld. " + req.House}
	if req.Entrance != "" {
		parts = append(parts, "ent. "+req.Entrance)
	}
	if req.Floor != "" {
		parts = append(parts, "fl. "+req.Floor)
	}
	if req.Apartment != "" {
		parts = append(parts, "apt. "+req.Apartment)
	}
	if req.Intercom != "" {
		parts = append(parts, "intercom "+req.Intercom)
	}
	return strings.Join(parts, ", ")
}
