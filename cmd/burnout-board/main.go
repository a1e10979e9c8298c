package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"burnout-board/api"
	"burnout-board/config"
	"burnout-board/core/appbootstrap"
	"burnout-board/core/store"
	"burnout-board/core/utils"
)

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger := utils.NewLogger()
	if cfg.AppEnv == "dev" {
		logger.SetLevel(utils.LevelDebug)
	}

	ctx := context.Background()

	db, err := store.NewDB(cfg, logger)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := store.ApplyMigrations(ctx, db, logger); err != nil {
		log.Fatalf("migrations error: %v", err)
	}

	rt, err := appbootstrap.ComposeRuntime(cfg, db, logger)
	if err != nil {
		log.Fatalf("compose error: %v", err)
	}

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      api.NewServer(cfg, rt.ServerDeps, logger).Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	for _, w := range rt.Workers {
		w.StartWithContext(ctx)
	}

	go func() {
		logger.Infof("server listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown error: %v", err)
	}
	for _, w := range rt.Workers {
		if err := w.StopWithContext(shutdownCtx); err != nil {
			logger.Errorf("worker stop error: %v", err)
		}
	}
}
