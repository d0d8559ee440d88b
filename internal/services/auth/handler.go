package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"teahouse-storefront/internal/logger"
	"teahouse-storefront/internal/models"
	"teahouse-storefront/internal/web"
)

// Handler handles HTTP requests for authentication and profiles.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates an auth handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterRoutes mounts the auth endpoints.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/register", h.register).Methods(http.MethodPost)
	r.HandleFunc("/api/login", h.login).Methods(http.MethodPost)
	r.HandleFunc("/api/logout", h.logout).Methods(http.MethodPost)

	profile := r.PathPrefix("/api/profile").Subrouter()
	profile.Use(h.service.Required)
	profile.HandleFunc("", h.getProfile).Methods(http.MethodGet)
	profile.HandleFunc("", h.updateProfile).Methods(http.MethodPut)
}

type sessionResponse struct {
	User  *models.Profile `json:"user"`
	Token string          `json:"token"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	profile, token, err := h.service.Register(r.Context(), &req, requestID)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			web.WriteError(w, http.StatusConflict, err.Error(), requestID)
		case isValidationError(err):
			web.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		default:
			h.logger.Error("registration_failed", "Failed to register profile", requestID, err, nil)
			web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		}
		return
	}

	web.WriteJSON(w, http.StatusCreated, sessionResponse{User: profile, Token: token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	profile, token, err := h.service.Login(r.Context(), &req, requestID)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			web.WriteError(w, http.StatusUnauthorized, err.Error(), requestID)
			return
		}
		h.logger.Error("login_failed", "Failed to open session", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, sessionResponse{User: profile, Token: token})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	if token := bearerToken(r); token != "" {
		if err := h.service.Logout(r.Context(), token); err != nil {
			h.logger.Error("logout_failed", "Failed to revoke session", requestID, err, nil)
			web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
			return
		}
	}

	web.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	userID := UserID(r.Context())
	profile, err := h.service.GetProfile(r.Context(), *userID)
	if err != nil {
		h.logger.Error("profile_fetch_failed", "Failed to fetch profile", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	var req struct {
		FullName string `json:"full_name"`
		Address  string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	userID := UserID(r.Context())
	profile, err := h.service.UpdateProfile(r.Context(), *userID, req.FullName, req.Address)
	if err != nil {
		h.logger.Error("profile_update_failed", "Failed to update profile", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, profile)
}

// isValidationError distinguishes form errors from infrastructure failures.
func isValidationError(err error) bool {
	msg := err.Error()
	for _, marker := range []string{"required", "invalid format", "at least"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
