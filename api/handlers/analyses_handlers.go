package handlers

import (
	"net/http"
	"strings"

	"burnout-board/core/rbac"
	"burnout-board/core/store"
	"burnout-board/core/utils"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

type AnalysesHandler struct {
	users    store.UsersStore
	analyses store.AnalysesStore
	policy   *rbac.Policy
	logger   *utils.Logger
}

func NewAnalysesHandler(users store.UsersStore, analyses store.AnalysesStore, policy *rbac.Policy, logger *utils.Logger) *AnalysesHandler {
	return &AnalysesHandler{users: users, analyses: analyses, policy: policy, logger: logger}
}

// authorize verifies the bearer API key against the owning user's hash.
func (h *AnalysesHandler) authorize(r *http.Request, user *store.User) bool {
	if user == nil || user.APIKeyHash == "" {
		return false
	}
	key := bearerToken(r)
	if key == "" {
		return false
	}
	if bcrypt.CompareHashAndPassword([]byte(user.APIKeyHash), []byte(key)) != nil {
		return false
	}
	return h.policy.Allowed([]string{"member"}, "analyses.read")
}

func (h *AnalysesHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseInt64Param(r, "userID")
	if !ok {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		h.logger.Errorf("analyses: user lookup %d failed: %v", userID, err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if !h.authorize(r, user) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	items, err := h.analyses.ListAnalysesByUser(r.Context(), userID)
	if err != nil {
		h.logger.Errorf("analyses: list for user %d failed: %v", userID, err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []store.Analysis{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": items})
}

func (h *AnalysesHandler) GetByUUID(w http.ResponseWriter, r *http.Request) {
	uid := strings.TrimSpace(chi.URLParam(r, "uuid"))
	if uid == "" {
		http.Error(w, "invalid analysis uuid", http.StatusBadRequest)
		return
	}
	analysis, err := h.analyses.GetAnalysisByUUID(r.Context(), uid)
	if err != nil {
		h.logger.Errorf("analyses: lookup %s failed: %v", uid, err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if analysis == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	owner, err := h.users.GetUser(r.Context(), analysis.UserID)
	if err != nil {
		h.logger.Errorf("analyses: owner lookup %d failed: %v", analysis.UserID, err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if !h.authorize(r, owner) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}
