package handlers

import (
	"net/http"

	"burnout-board/core/rbac"
	"burnout-board/core/retention"
	"burnout-board/core/template"
	"burnout-board/core/utils"
)

type AdminHandler struct {
	cache   *template.Cache
	sweeper *retention.Sweeper
	policy  *rbac.Policy
	logger  *utils.Logger
}

func NewAdminHandler(cache *template.Cache, sweeper *retention.Sweeper, policy *rbac.Policy, logger *utils.Logger) *AdminHandler {
	return &AdminHandler{cache: cache, sweeper: sweeper, policy: policy, logger: logger}
}

// RefreshTemplate drops the cached template so the next provisioning call
// reloads it from disk. Used after the backing file is replaced.
func (h *AdminHandler) RefreshTemplate(w http.ResponseWriter, r *http.Request) {
	if !h.policy.Allowed([]string{"admin"}, "template.manage") {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	h.cache.Invalidate()
	writeJSON(w, http.StatusOK, map[string]any{"invalidated": true})
}

func (h *AdminHandler) TemplateStatus(w http.ResponseWriter, r *http.Request) {
	if !h.policy.Allowed([]string{"admin"}, "template.manage") {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"loaded": h.cache.Loaded()})
}

func (h *AdminHandler) RunRetention(w http.ResponseWriter, r *http.Request) {
	if !h.policy.Allowed([]string{"admin"}, "retention.manage") {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	deleted, err := h.sweeper.RunOnce(r.Context(), utils.NowUTC())
	if err != nil {
		h.logger.Errorf("admin: retention sweep failed: %v", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}
