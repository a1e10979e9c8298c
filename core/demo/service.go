// Package demo seeds newly registered users with a completed sample
// analysis so the dashboard has something to show before any real
// integration is set up.
package demo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"burnout-board/config"
	"burnout-board/core/store"
	"burnout-board/core/template"
	"burnout-board/core/utils"
)

const (
	defaultPlatform  = "pagerduty"
	defaultTimeRange = 30
)

type Service struct {
	cfg      *config.AppConfig
	analyses store.AnalysesStore
	cache    *template.Cache
	logger   *utils.Logger
}

func NewService(cfg *config.AppConfig, analyses store.AnalysesStore, cache *template.Cache, logger *utils.Logger) *Service {
	return &Service{cfg: cfg, analyses: analyses, cache: cache, logger: logger}
}

// ProvisionForUser creates the one-time demo analysis for user. It is a
// failure boundary: every error is logged with the user and stage, and the
// result is reported as a boolean so the caller's registration flow is
// never blocked by demo seeding.
func (s *Service) ProvisionForUser(ctx context.Context, user *store.User) bool {
	if user == nil || user.ID == 0 {
		s.logger.Warnf("demo: provisioning skipped, no persisted user")
		return false
	}
	s.logger.Infof("demo: creating demo analysis for user %d (%s)", user.ID, user.Email)

	has, err := s.hasDemoAnalysis(ctx, user.ID)
	if err != nil {
		s.logger.Errorf("demo: existing-record check failed for user %d: %v", user.ID, err)
		return false
	}
	if has {
		s.logger.Warnf("demo: user %d already has a demo analysis, skipping", user.ID)
		return false
	}

	ds, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Errorf("demo: template fetch failed for user %d: %v", user.ID, err)
		return false
	}

	rec := s.buildRecord(ds, user)
	id, err := s.analyses.CreateAnalysis(ctx, rec)
	if errors.Is(err, store.ErrConflict) {
		// Lost the race against a concurrent provision for the same user;
		// the partial unique index already holds the invariant.
		s.logger.Warnf("demo: concurrent demo analysis detected for user %d, skipping", user.ID)
		return false
	}
	if err != nil {
		s.logger.Errorf("demo: persist failed for user %d: %v", user.ID, err)
		return false
	}

	s.logger.Infof("demo: created demo analysis %d for user %d (uuid %s)", id, user.ID, rec.UUID)
	return true
}

func (s *Service) hasDemoAnalysis(ctx context.Context, userID int64) (bool, error) {
	existing, err := s.analyses.ListAnalysesByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for i := range existing {
		if existing[i].IsDemo() {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) buildRecord(ds *template.Dataset, user *store.User) *store.Analysis {
	now := utils.NowUTC()

	cfg := cloneConfig(ds.Analysis.Config)
	cfg["is_demo"] = true
	cfg["demo_created_at"] = now.Format(time.RFC3339)
	cfg["demo_note"] = s.cfg.Demo.Note

	platform := ds.Analysis.Platform
	if platform == "" {
		platform = defaultPlatform
	}
	timeRange := ds.Analysis.TimeRange
	if timeRange == 0 {
		timeRange = defaultTimeRange
	}

	return &store.Analysis{
		UserID:              user.ID,
		OrganizationID:      user.OrganizationID,
		RootlyIntegrationID: nil,
		IntegrationName:     s.cfg.Demo.IntegrationName,
		Platform:            platform,
		TimeRange:           timeRange,
		Status:              "completed",
		Config:              cfg,
		Results:             ds.Analysis.Results,
		ErrorMessage:        nil,
		CreatedAt:           now,
		CompletedAt:         &now,
	}
}

// cloneConfig deep-copies the template config before markers are injected;
// the cached dataset must never alias a mutable record.
func cloneConfig(src map[string]any) map[string]any {
	out := map[string]any{}
	if len(src) == 0 {
		return out
	}
	data, err := json.Marshal(src)
	if err == nil && json.Unmarshal(data, &out) == nil {
		return out
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}
