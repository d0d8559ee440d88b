package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"teahouse-storefront/internal/logger"
	"teahouse-storefront/internal/models"
	"teahouse-storefront/internal/services/auth"
	"teahouse-storefront/internal/web"
)

// Handler handles HTTP requests for order history and the admin order panel.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates an order handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterRoutes mounts the order endpoints. authSvc supplies the session
// middlewares; single-order reads stay open to guests who hold the order id.
func (h *Handler) RegisterRoutes(r *mux.Router, authSvc *auth.Service) {
	r.Handle("/api/orders/mine", authSvc.Required(http.HandlerFunc(h.listMine))).Methods(http.MethodGet)
	r.Handle("/api/orders/{id}", authSvc.Optional(http.HandlerFunc(h.getOrder))).Methods(http.MethodGet)

	admin := r.PathPrefix("/api/admin/orders").Subrouter()
	admin.Use(authSvc.RequireAdmin)
	admin.HandleFunc("", h.listAll).Methods(http.MethodGet)
	admin.HandleFunc("/{id}/status", h.updateStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/{id}", h.deleteOrder).Methods(http.MethodDelete)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	userID := auth.UserID(r.Context())
	orders, err := h.service.ListForUser(r.Context(), *userID)
	if err != nil {
		h.logger.Error("db_query_failed", "Failed to list user orders", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	web.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	o, err := h.service.GetOrder(r.Context(), mux.Vars(r)["id"], auth.UserID(r.Context()), auth.IsAdmin(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			web.WriteError(w, http.StatusNotFound, "Order not found", requestID)
		case errors.Is(err, ErrForbidden):
			web.WriteError(w, http.StatusForbidden, "Order belongs to another user", requestID)
		default:
			h.logger.Error("db_query_failed", "Failed to get order", requestID, err, nil)
			web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		}
		return
	}

	web.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	orders, err := h.service.ListAll(r.Context())
	if err != nil {
		h.logger.Error("db_query_failed", "Failed to list orders", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	web.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	status := models.OrderStatus(req.Status)
	if !models.ValidStatus(status) {
		web.WriteError(w, http.StatusBadRequest, "Unknown order status", requestID)
		return
	}

	changedBy := "admin"
	if id := auth.UserID(r.Context()); id != nil {
		changedBy = *id
	}

	o, err := h.service.UpdateStatus(r.Context(), mux.Vars(r)["id"], status, changedBy, requestID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			web.WriteError(w, http.StatusNotFound, "Order not found", requestID)
			return
		}
		h.logger.Error("order_status_failed", "Failed to update order status", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	err := h.service.DeleteOrder(r.Context(), mux.Vars(r)["id"], requestID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			web.WriteError(w, http.StatusNotFound, "Order not found", requestID)
			return
		}
		h.logger.Error("order_delete_failed", "Failed to delete order", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
