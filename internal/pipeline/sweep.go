package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper periodically removes stale temp files of the registry.
type Sweeper struct {
	reg    *Registry
	maxAge time.Duration
	cron   *cron.Cron
	log    *zap.Logger
	now    func() time.Time
}

func NewSweeper(reg *Registry, schedule string, maxAge time.Duration, log *zap.Logger) (*Sweeper, error) {
	s := &Sweeper{
		reg:    reg,
		maxAge: maxAge,
		cron:   cron.New(),
		log:    log,
		now:    time.Now,
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce() }); err != nil {
		return nil, fmt.Errorf("sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// RunOnce sweeps immediately and returns how many files were removed.
func (s *Sweeper) RunOnce() int {
	removed, err := s.reg.Sweep(s.maxAge, s.now())
	if err != nil {
		s.log.Warn("temp sweep failed", zap.Error(err))
		return 0
	}
	if removed > 0 {
		s.log.Info("temp sweep", zap.Int("removed", removed), zap.String("dir", s.reg.Dir()))
	}
	return removed
}

func (s *Sweeper) Start() {
	s.cron.Start()
}

func (s *Sweeper) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
