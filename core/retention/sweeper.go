// Package retention removes expired demo analyses on a schedule. Demo
// records are seeded data, not user work; anything older than the
// configured age can go.
package retention

import (
	"context"
	"sync"
	"time"

	"burnout-board/config"
	"burnout-board/core/store"
	"burnout-board/core/utils"

	"github.com/robfig/cron/v3"
)

type Sweeper struct {
	cfg      config.RetentionConfig
	analyses store.AnalysesStore
	logger   *utils.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

func NewSweeper(cfg config.RetentionConfig, analyses store.AnalysesStore, logger *utils.Logger) *Sweeper {
	return &Sweeper{cfg: cfg, analyses: analyses, logger: logger}
}

func (s *Sweeper) StartWithContext(ctx context.Context) {
	if s == nil || !s.cfg.Enabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	c := cron.New()
	_, err := c.AddFunc(s.cfg.Schedule, func() {
		if _, err := s.RunOnce(ctx, utils.NowUTC()); err != nil {
			s.logger.Errorf("retention: sweep failed: %v", err)
		}
	})
	if err != nil {
		s.logger.Errorf("retention: invalid schedule %q: %v", s.cfg.Schedule, err)
		return
	}
	c.Start()
	s.cron = c
	s.running = true
	s.logger.Infof("retention: sweeper scheduled (%s, max age %s)", s.cfg.Schedule, s.cfg.MaxAge)
}

func (s *Sweeper) StopWithContext(ctx context.Context) error {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	wasRunning := s.running
	s.running = false
	s.mu.Unlock()
	if !wasRunning || c == nil {
		return nil
	}
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce deletes demo analyses created before now minus the configured
// max age and returns how many rows went away.
func (s *Sweeper) RunOnce(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-s.cfg.MaxAge)
	deleted, err := s.analyses.DeleteDemoAnalysesBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Infof("retention: deleted %d demo analyses older than %s", deleted, cutoff.Format(time.RFC3339))
	}
	return deleted, nil
}
