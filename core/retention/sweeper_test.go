package retention

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"burnout-board/config"
	"burnout-board/core/store"
	"burnout-board/core/utils"
)

func setupRetentionEnv(t *testing.T) (store.AnalysesStore, store.UsersStore) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.AppConfig{DBDriver: store.DriverSQLite, DBPath: filepath.Join(dir, "retention.db")}
	logger := utils.NewLogger()
	db, err := store.NewDB(cfg, logger)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.ApplyMigrations(context.Background(), db, logger); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return store.NewAnalysesStore(db), store.NewUsersStore(db)
}

func TestRunOnceDeletesOnlyExpiredDemos(t *testing.T) {
	analyses, users := setupRetentionEnv(t)
	ctx := context.Background()

	u := &store.User{Email: "sweep@example.com"}
	if _, err := users.CreateUser(ctx, u); err != nil {
		t.Fatalf("user: %v", err)
	}

	past := time.Now().UTC().Add(-100 * 24 * time.Hour)
	expired := &store.Analysis{UserID: u.ID, Status: "completed", Config: map[string]any{"is_demo": true}, CreatedAt: past}
	if _, err := analyses.CreateAnalysis(ctx, expired); err != nil {
		t.Fatalf("expired demo: %v", err)
	}
	kept := &store.Analysis{UserID: u.ID, Status: "completed", CreatedAt: past}
	if _, err := analyses.CreateAnalysis(ctx, kept); err != nil {
		t.Fatalf("real analysis: %v", err)
	}

	sweeper := NewSweeper(config.RetentionConfig{Enabled: true, MaxAge: 90 * 24 * time.Hour}, analyses, utils.NewLogger())
	deleted, err := sweeper.RunOnce(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted, got %d", deleted)
	}
	items, err := analyses.ListAnalysesByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].IsDemo() {
		t.Fatalf("wrong survivor set: %v", items)
	}
}

func TestStartDisabledIsNoOp(t *testing.T) {
	analyses, _ := setupRetentionEnv(t)
	sweeper := NewSweeper(config.RetentionConfig{Enabled: false}, analyses, utils.NewLogger())
	sweeper.StartWithContext(context.Background())
	if err := sweeper.StopWithContext(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestStartAndStop(t *testing.T) {
	analyses, _ := setupRetentionEnv(t)
	cfg := config.RetentionConfig{Enabled: true, Schedule: "0 3 * * *", MaxAge: time.Hour}
	sweeper := NewSweeper(cfg, analyses, utils.NewLogger())
	sweeper.StartWithContext(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sweeper.StopWithContext(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
