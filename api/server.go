package api

import (
	"context"
	"net/http"

	"burnout-board/api/handlers"
	"burnout-board/config"
	"burnout-board/core/demo"
	"burnout-board/core/rbac"
	"burnout-board/core/retention"
	"burnout-board/core/store"
	"burnout-board/core/template"
	"burnout-board/core/utils"

	"github.com/go-chi/chi/v5"
)

// BackgroundWorker is anything the server lifecycle starts and stops
// alongside the HTTP listener.
type BackgroundWorker interface {
	StartWithContext(ctx context.Context)
	StopWithContext(ctx context.Context) error
}

type ServerDeps struct {
	Users    store.UsersStore
	Analyses store.AnalysesStore
	Template *template.Cache
	DemoSvc  *demo.Service
	Sweeper  *retention.Sweeper
	Policy   *rbac.Policy
}

type Server struct {
	cfg    *config.AppConfig
	deps   ServerDeps
	logger *utils.Logger
}

func NewServer(cfg *config.AppConfig, deps ServerDeps, logger *utils.Logger) *Server {
	return &Server{cfg: cfg, deps: deps, logger: logger}
}

type routeHandlers struct {
	users    *handlers.UsersHandler
	analyses *handlers.AnalysesHandler
	admin    *handlers.AdminHandler
}

func (s *Server) newRouteHandlers() routeHandlers {
	return routeHandlers{
		users:    handlers.NewUsersHandler(s.deps.Users, s.deps.DemoSvc, s.logger),
		analyses: handlers.NewAnalysesHandler(s.deps.Users, s.deps.Analyses, s.deps.Policy, s.logger),
		admin:    handlers.NewAdminHandler(s.deps.Template, s.deps.Sweeper, s.deps.Policy, s.logger),
	}
}

func (s *Server) Routes() http.Handler {
	h := s.newRouteHandlers()

	r := chi.NewRouter()
	r.Use(s.recoverMiddleware)
	r.Use(s.requestLogMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", h.users.Register)
		r.Get("/users/{userID}/analyses", h.analyses.ListForUser)
		r.Get("/analyses/{uuid}", h.analyses.GetByUUID)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.adminAuthMiddleware)
			r.Post("/template/refresh", h.admin.RefreshTemplate)
			r.Get("/template/status", h.admin.TemplateStatus)
			r.Post("/retention/sweep", h.admin.RunRetention)
		})
	})

	return r
}
