package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"burnout-board/core/demo"
	"burnout-board/core/store"
	"burnout-board/core/utils"

	"golang.org/x/crypto/bcrypt"
)

type UsersHandler struct {
	users   store.UsersStore
	demoSvc *demo.Service
	logger  *utils.Logger
}

func NewUsersHandler(users store.UsersStore, demoSvc *demo.Service, logger *utils.Logger) *UsersHandler {
	return &UsersHandler{users: users, demoSvc: demoSvc, logger: logger}
}

type registerRequest struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	OrganizationID *int64 `json:"organization_id"`
}

type registerResponse struct {
	User        *store.User `json:"user"`
	APIKey      string      `json:"api_key"`
	DemoCreated bool        `json:"demo_created"`
}

// Register creates a user and seeds the demo analysis. Demo seeding failure
// never fails the registration; the outcome is reported in the response.
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		http.Error(w, "email required", http.StatusBadRequest)
		return
	}

	apiKey, err := utils.RandString(24)
	if err != nil {
		h.logger.Errorf("users: api key generation failed: %v", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Errorf("users: api key hash failed: %v", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	u := &store.User{
		Email:          req.Email,
		Name:           strings.TrimSpace(req.Name),
		OrganizationID: req.OrganizationID,
		APIKeyHash:     string(hash),
	}
	if _, err := h.users.CreateUser(r.Context(), u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}
		h.logger.Errorf("users: create failed for %s: %v", req.Email, err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	demoCreated := h.demoSvc.ProvisionForUser(r.Context(), u)

	writeJSON(w, http.StatusCreated, registerResponse{
		User:        u,
		APIKey:      apiKey,
		DemoCreated: demoCreated,
	})
}
