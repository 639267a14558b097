// Package scheduler periodically sweeps plans that stalled mid-pipeline
// and reruns them.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/houghtp/terra-automation-platform-sub005/internal/config"
	"github.com/houghtp/terra-automation-platform-sub005/internal/logger"
	"github.com/houghtp/terra-automation-platform-sub005/internal/pipeline"
	"github.com/houghtp/terra-automation-platform-sub005/internal/store"
)

const (
	defaultSpec = "*/5 * * * *"
	// staleAfter is how long a plan may sit in a non-terminal status
	// before the sweep considers it abandoned.
	staleAfter = 10 * time.Minute
	sweepLimit = 10
)

// Scheduler reruns stale plans on a cron schedule. A plan is stale when
// it is neither ready nor failed and has not been touched recently,
// which happens when processing was interrupted by a crash or timeout.
type Scheduler struct {
	cron        *cron.Cron
	store       *store.Store
	engine      *pipeline.Engine
	useResearch bool
}

func New(cfg config.SchedulerConfig, st *store.Store, engine *pipeline.Engine) (*Scheduler, error) {
	s := &Scheduler{
		cron:        cron.New(),
		store:       st,
		engine:      engine,
		useResearch: cfg.UseResearch,
	}

	spec := cfg.Spec
	if spec == "" {
		spec = defaultSpec
	}
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return nil, fmt.Errorf("register sweep schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("scheduler started")
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("scheduler stopped")
}

func (s *Scheduler) sweep() {
	plans, err := s.store.ListStalePlans(staleAfter, sweepLimit)
	if err != nil {
		logger.Error("stale plan sweep: %v", err)
		return
	}
	if len(plans) == 0 {
		return
	}
	logger.Info("stale plan sweep found %d plan(s)", len(plans))

	for _, plan := range plans {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		result, err := s.engine.Process(ctx, plan.ID, pipeline.ProcessOptions{UseResearch: s.useResearch})
		cancel()

		switch {
		case errors.Is(err, pipeline.ErrConcurrentProcessing):
			// Another worker picked it up; nothing to do.
		case err != nil:
			logger.Warn("sweep of plan %s failed: %v", plan.ID, err)
		default:
			logger.Info("sweep completed plan %s with status %s", plan.ID, result.Status)
		}
	}
}
