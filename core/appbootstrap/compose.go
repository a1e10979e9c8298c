package appbootstrap

import (
	"burnout-board/api"
	"burnout-board/config"
	"burnout-board/core/demo"
	"burnout-board/core/rbac"
	"burnout-board/core/retention"
	"burnout-board/core/store"
	"burnout-board/core/template"
	"burnout-board/core/utils"
)

type Runtime struct {
	ServerDeps api.ServerDeps
	Workers    []api.BackgroundWorker
}

// ComposeRuntime wires stores, the template cache and the services. The
// cache lives here, not as package state, so tests and the admin refresh
// endpoint work against the same injected instance.
func ComposeRuntime(cfg *config.AppConfig, db *store.DB, logger *utils.Logger) (*Runtime, error) {
	users := store.NewUsersStore(db)
	analyses := store.NewAnalysesStore(db)

	cache := template.NewCache(template.FileSource{Path: cfg.Template.Path}, logger)
	demoSvc := demo.NewService(cfg, analyses, cache, logger)
	sweeper := retention.NewSweeper(cfg.Retention, analyses, logger)

	policy, err := rbac.NewPolicy(rbac.DefaultRoles())
	if err != nil {
		return nil, err
	}

	return &Runtime{
		ServerDeps: api.ServerDeps{
			Users:    users,
			Analyses: analyses,
			Template: cache,
			DemoSvc:  demoSvc,
			Sweeper:  sweeper,
			Policy:   policy,
		},
		Workers: []api.BackgroundWorker{sweeper},
	}, nil
}
