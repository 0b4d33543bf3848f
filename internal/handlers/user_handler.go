package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/digicollect/server/internal/middleware"
	"github.com/digicollect/server/internal/models"
	"github.com/digicollect/server/internal/services"
)

// UserHandler handles account endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Register creates a new account. This endpoint is unauthenticated; the
// response carries the API key exactly once.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		if err == models.ErrEmailTaken {
			http.Error(w, "Email is already registered", http.StatusConflict)
			return
		}
		if err == models.ErrEmptyEmail || err == models.ErrEmptyDisplayName || err == models.ErrPasswordTooShort {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// GetMe returns the authenticated user with their plan limits
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limits := models.LimitsFor(user.Tier)
	response := map[string]interface{}{
		"user":   user,
		"limits": limits,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ChangeTier moves the authenticated user to a different plan
func (h *UserHandler) ChangeTier(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Tier string `json:"tier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.userService.ChangeTier(r.Context(), user.ID, models.Tier(req.Tier))
	if err != nil {
		if err == models.ErrInvalidTier {
			http.Error(w, "Invalid tier", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to change tier", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}
