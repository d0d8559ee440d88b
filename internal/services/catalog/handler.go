package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"teahouse-storefront/internal/logger"
	"teahouse-storefront/internal/models"
	"teahouse-storefront/internal/web"
)

// AdminGate wraps a handler so only admin sessions reach it.
type AdminGate interface {
	RequireAdmin(next http.Handler) http.Handler
}

// Handler handles HTTP requests for the menu and the admin catalog.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterRoutes mounts the public menu endpoint and the admin CRUD panel.
func (h *Handler) RegisterRoutes(r *mux.Router, gate AdminGate) {
	r.HandleFunc("/api/menu", h.listMenu).Methods(http.MethodGet)
	r.HandleFunc("/api/menu/{id}", h.getDish).Methods(http.MethodGet)

	admin := r.PathPrefix("/api/admin/dishes").Subrouter()
	admin.Use(gate.RequireAdmin)
	admin.HandleFunc("", h.listAll).Methods(http.MethodGet)
	admin.HandleFunc("", h.createDish).Methods(http.MethodPost)
	admin.HandleFunc("/{id}", h.updateDish).Methods(http.MethodPut)
	admin.HandleFunc("/{id}/availability", h.setAvailability).Methods(http.MethodPatch)
	admin.HandleFunc("/{id}", h.deleteDish).Methods(http.MethodDelete)
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	dishes, err := h.service.ListMenu(r.Context())
	if err != nil {
		h.logger.Error("db_query_failed", "Failed to list menu", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	if dishes == nil {
		dishes = []models.Dish{}
	}

	web.WriteJSON(w, http.StatusOK, dishes)
}

func (h *Handler) getDish(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	dish, err := h.service.GetDish(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, ErrDishNotFound) {
			web.WriteError(w, http.StatusNotFound, "Dish not found", requestID)
			return
		}
		h.logger.Error("db_query_failed", "Failed to get dish", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, dish)
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	dishes, err := h.service.ListAll(r.Context())
	if err != nil {
		h.logger.Error("db_query_failed", "Failed to list catalog", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	if dishes == nil {
		dishes = []models.Dish{}
	}

	web.WriteJSON(w, http.StatusOK, dishes)
}

func (h *Handler) createDish(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	var req models.DishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	if err := req.Validate(); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	dish, err := h.service.CreateDish(r.Context(), &req, requestID)
	if err != nil {
		h.logger.Error("dish_create_failed", "Failed to create dish", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	web.WriteJSON(w, http.StatusCreated, dish)
}

func (h *Handler) updateDish(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	var req models.DishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	if err := req.Validate(); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	dish, err := h.service.UpdateDish(r.Context(), mux.Vars(r)["id"], &req, requestID)
	if err != nil {
		if errors.Is(err, ErrDishNotFound) {
			web.WriteError(w, http.StatusNotFound, "Dish not found", requestID)
			return
		}
		h.logger.Error("dish_update_failed", "Failed to update dish", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, dish)
}

func (h *Handler) setAvailability(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	var req struct {
		Available bool `json:"available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	err := h.service.SetAvailability(r.Context(), mux.Vars(r)["id"], req.Available, requestID)
	if err != nil {
		if errors.Is(err, ErrDishNotFound) {
			web.WriteError(w, http.StatusNotFound, "Dish not found", requestID)
			return
		}
		h.logger.Error("dish_availability_failed", "Failed to toggle availability", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"id":        mux.Vars(r)["id"],
		"available": req.Available,
	})
}

func (h *Handler) deleteDish(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	err := h.service.DeleteDish(r.Context(), mux.Vars(r)["id"], requestID)
	if err != nil {
		if errors.Is(err, ErrDishNotFound) {
			web.WriteError(w, http.StatusNotFound, "Dish not found", requestID)
			return
		}
		h.logger.Error("dish_delete_failed", "Failed to delete dish", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
