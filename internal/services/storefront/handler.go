package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"teahouse-storefront/internal/cart"
	"teahouse-storefront/internal/checkout"
	"teahouse-storefront/internal/logger"
	"teahouse-storefront/internal/models"
	"teahouse-storefront/internal/payment"
	"teahouse-storefront/internal/services/auth"
	"teahouse-storefront/internal/services/catalog"
	"teahouse-storefront/internal/services/order"
	"teahouse-storefront/internal/web"
)

// DishGetter looks up a dish for adding to the cart.
type DishGetter interface {
	GetDish(ctx context.Context, id string) (*models.Dish, error)
}

// OrderGetter looks up an order for the payment QR endpoint.
type OrderGetter interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
}

// Handler handles the customer-facing cart and checkout endpoints.
type Handler struct {
	carts        cart.Store
	dishes       DishGetter
	orders       OrderGetter
	orchestrator *checkout.Orchestrator
	payments     checkout.LinkResolver
	logger       *logger.Logger
}

// NewHandler creates a storefront handler.
func NewHandler(carts cart.Store, dishes DishGetter, orders OrderGetter, orchestrator *checkout.Orchestrator, payments checkout.LinkResolver, log *logger.Logger) *Handler {
	return &Handler{
		carts:        carts,
		dishes:       dishes,
		orders:       orders,
		orchestrator: orchestrator,
		payments:     payments,
		logger:       log,
	}
}

// RegisterRoutes mounts the cart and checkout endpoints. Checkout runs behind
// the optional session middleware so guests and logged-in users share one path.
func (h *Handler) RegisterRoutes(r *mux.Router, authSvc *auth.Service) {
	r.HandleFunc("/api/cart", h.getCart).Methods(http.MethodGet)
	r.HandleFunc("/api/cart/items", h.addItem).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/items/{id}", h.updateQuantity).Methods(http.MethodPatch)
	r.HandleFunc("/api/cart/items/{id}", h.removeItem).Methods(http.MethodDelete)
	r.HandleFunc("/api/cart/clear", h.clearCart).Methods(http.MethodPost)
	r.Handle("/api/checkout", authSvc.Optional(http.HandlerFunc(h.checkout))).Methods(http.MethodPost)
	r.HandleFunc("/api/orders/{id}/payment-qr", h.paymentQR).Methods(http.MethodGet)
}

// cartView is the cart as the storefront page renders it.
type cartView struct {
	Items        []models.CartLine `json:"items"`
	TotalPrice   int               `json:"total_price"`
	ItemCount    int               `json:"item_count"`
	DeliveryCost int               `json:"delivery_cost"`
	MeetsMinimum bool              `json:"meets_minimum"`
}

func viewOf(c *cart.Cart) cartView {
	return cartView{
		Items:        c.Lines(),
		TotalPrice:   c.TotalPrice(),
		ItemCount:    c.ItemCount(),
		DeliveryCost: c.DeliveryCost(),
		MeetsMinimum: c.MeetsMinimum(),
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	c, ok := h.openCart(w, r, requestID)
	if !ok {
		return
	}

	web.WriteJSON(w, http.StatusOK, viewOf(c))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	var req struct {
		DishID string `json:"dish_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DishID == "" {
		web.WriteError(w, http.StatusBadRequest, "dish_id is required", requestID)
		return
	}

	dish, err := h.dishes.GetDish(r.Context(), req.DishID)
	if err != nil {
		if errors.Is(err, catalog.ErrDishNotFound) {
			web.WriteError(w, http.StatusNotFound, "Dish not found", requestID)
			return
		}
		h.logger.Error("db_query_failed", "Failed to look up dish", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	if !dish.Available {
		web.WriteError(w, http.StatusConflict, "Dish is currently unavailable", requestID)
		return
	}

	c, ok := h.openCart(w, r, requestID)
	if !ok {
		return
	}

	if err := c.AddItem(r.Context(), *dish); err != nil {
		h.logger.Error("cart_save_failed", "Failed to save cart", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, viewOf(c))
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Delta == 0 {
		web.WriteError(w, http.StatusBadRequest, "delta must be a non-zero integer", requestID)
		return
	}

	c, ok := h.openCart(w, r, requestID)
	if !ok {
		return
	}

	if err := c.UpdateQuantity(r.Context(), mux.Vars(r)["id"], req.Delta); err != nil {
		h.logger.Error("cart_save_failed", "Failed to save cart", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, viewOf(c))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	c, ok := h.openCart(w, r, requestID)
	if !ok {
		return
	}

	if err := c.RemoveItem(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.logger.Error("cart_save_failed", "Failed to save cart", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, viewOf(c))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	c, ok := h.openCart(w, r, requestID)
	if !ok {
		return
	}

	if err := c.Clear(r.Context()); err != nil {
		h.logger.Error("cart_save_failed", "Failed to save cart", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, viewOf(c))
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	c, ok := h.openCart(w, r, requestID)
	if !ok {
		return
	}

	resp, err := h.orchestrator.Submit(r.Context(), c, auth.UserID(r.Context()), &req, requestID)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrBelowMinimum):
			web.WriteError(w, http.StatusUnprocessableEntity, err.Error(), requestID)
		case isValidationError(err):
			web.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		default:
			h.logger.Error("checkout_failed", "Failed to place order", requestID, err, nil)
			web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		}
		return
	}

	web.WriteJSON(w, http.StatusCreated, resp)
}

// paymentQR serves the order's payment link as a PNG QR code. Only unpaid
// online orders have a link to encode.
func (h *Handler) paymentQR(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	o, err := h.orders.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			web.WriteError(w, http.StatusNotFound, "Order not found", requestID)
			return
		}
		h.logger.Error("db_query_failed", "Failed to get order", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	if o.PaymentMethod != models.PaymentOnline || o.PaymentStatus == models.PaymentPaid {
		web.WriteError(w, http.StatusConflict, "Order has no pending online payment", requestID)
		return
	}

	link := h.payments.Resolve(r.Context(), o.ID, o.TotalAmount)
	png, err := payment.EncodeLinkQR(link)
	if err != nil {
		h.logger.Error("qr_encode_failed", "Failed to encode payment QR", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// openCart hydrates the session cart, writing the error response itself on
// failure.
func (h *Handler) openCart(w http.ResponseWriter, r *http.Request, requestID string) (*cart.Cart, bool) {
	key := SessionKey(w, r)
	c, err := cart.New(r.Context(), key, h.carts)
	if err != nil {
		h.logger.Error("cart_load_failed", "Failed to load cart", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return nil, false
	}
	return c, true
}

func isValidationError(err error) bool {
	msg := err.Error()
	for _, marker := range []string{"required", "invalid format", "must be"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
