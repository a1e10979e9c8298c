package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"burnout-board/config"
	"burnout-board/core/demo"
	"burnout-board/core/rbac"
	"burnout-board/core/retention"
	"burnout-board/core/store"
	"burnout-board/core/template"
	"burnout-board/core/utils"
)

const testTemplate = `{"analysis":{"platform":"pagerduty","time_range":30,"config":{"foo":1},"results":{"team_health":{"score":7.5}}}}`

func setupServer(t *testing.T, adminToken, templateJSON string) (http.Handler, *template.Cache) {
	t.Helper()
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "mock_analysis_data.json")
	if templateJSON != "" {
		if err := os.WriteFile(templatePath, []byte(templateJSON), 0o644); err != nil {
			t.Fatalf("write template: %v", err)
		}
	}
	cfg := &config.AppConfig{
		DBDriver:   store.DriverSQLite,
		DBPath:     filepath.Join(dir, "api.db"),
		AdminToken: adminToken,
		Template:   config.TemplateConfig{Path: templatePath},
		Demo: config.DemoConfig{
			IntegrationName: "Demo Analysis",
			Note:            "This is a sample analysis to help you explore the platform",
		},
		Retention: config.RetentionConfig{Enabled: true, MaxAge: 90 * 24 * time.Hour},
	}
	logger := utils.NewLogger()
	db, err := store.NewDB(cfg, logger)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.ApplyMigrations(context.Background(), db, logger); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	users := store.NewUsersStore(db)
	analyses := store.NewAnalysesStore(db)
	cache := template.NewCache(template.FileSource{Path: templatePath}, logger)
	policy, err := rbac.NewPolicy(rbac.DefaultRoles())
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	deps := ServerDeps{
		Users:    users,
		Analyses: analyses,
		Template: cache,
		DemoSvc:  demo.NewService(cfg, analyses, cache, logger),
		Sweeper:  retention.NewSweeper(cfg.Retention, analyses, logger),
		Policy:   policy,
	}
	return NewServer(cfg, deps, logger).Routes(), cache
}

type registered struct {
	User struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	APIKey      string `json:"api_key"`
	DemoCreated bool   `json:"demo_created"`
}

func registerViaAPI(t *testing.T, router http.Handler, email string) registered {
	t.Helper()
	body := `{"email":"` + email + `","name":"Test"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", rr.Code, rr.Body.String())
	}
	var resp registered
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return resp
}

func TestRegisterSeedsDemoAnalysis(t *testing.T) {
	router, _ := setupServer(t, "", testTemplate)
	resp := registerViaAPI(t, router, "new@example.com")
	if !resp.DemoCreated {
		t.Fatalf("expected demo_created=true")
	}
	if resp.APIKey == "" || resp.User.ID == 0 {
		t.Fatalf("incomplete registration response: %+v", resp)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/"+strconv.FormatInt(resp.User.ID, 10)+"/analyses", nil)
	req.Header.Set("Authorization", "Bearer "+resp.APIKey)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	var listResp struct {
		Analyses []store.Analysis `json:"analyses"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listResp.Analyses) != 1 {
		t.Fatalf("expected 1 analysis, got %d", len(listResp.Analyses))
	}
	a := listResp.Analyses[0]
	if !a.IsDemo() || a.Status != "completed" || a.Platform != "pagerduty" {
		t.Fatalf("unexpected demo record: %+v", a)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/analyses/"+a.UUID, nil)
	req.Header.Set("Authorization", "Bearer "+resp.APIKey)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("get by uuid: expected 200, got %d", rr.Code)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	router, _ := setupServer(t, "", testTemplate)
	registerViaAPI(t, router, "dup@example.com")

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"email":"dup@example.com"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestRegisterSucceedsWithoutTemplate(t *testing.T) {
	router, _ := setupServer(t, "", "")
	resp := registerViaAPI(t, router, "notemplate@example.com")
	if resp.DemoCreated {
		t.Fatalf("expected demo_created=false when template is missing")
	}
}

func TestListRejectsWrongKey(t *testing.T) {
	router, _ := setupServer(t, "", testTemplate)
	resp := registerViaAPI(t, router, "auth@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/users/"+strconv.FormatInt(resp.User.ID, 10)+"/analyses", nil)
	req.Header.Set("Authorization", "Bearer wrong-key")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAdminTemplateRefresh(t *testing.T) {
	router, cache := setupServer(t, "secret-token", testTemplate)
	registerViaAPI(t, router, "warm@example.com")
	if !cache.Loaded() {
		t.Fatalf("expected cache to be warm after provisioning")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/template/refresh", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/admin/template/refresh", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rr.Code)
	}
	if cache.Loaded() {
		t.Fatalf("expected cache to be empty after refresh")
	}
}

func TestAdminDisabledWithoutConfiguredToken(t *testing.T) {
	router, _ := setupServer(t, "", testTemplate)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/template/refresh", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 when admin api disabled, got %d", rr.Code)
	}
}

func TestAdminRetentionSweep(t *testing.T) {
	router, _ := setupServer(t, "secret-token", testTemplate)
	registerViaAPI(t, router, "sweep@example.com")

	req := httptest.NewRequest(http.MethodPost, "/api/admin/retention/sweep", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	var resp struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Deleted != 0 {
		t.Fatalf("fresh demo should not be swept, deleted=%d", resp.Deleted)
	}
}

func TestHealthz(t *testing.T) {
	router, _ := setupServer(t, "", testTemplate)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
