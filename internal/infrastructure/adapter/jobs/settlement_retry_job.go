package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
	"github.com/ditlabs/tokensale-crm/internal/domain/usecase/commission"
)

// defaultRetrySchedule drains the settlement retry queue every five minutes
const defaultRetrySchedule = "*/5 * * * *"

// jobTimeout bounds one queue drain
const jobTimeout = 2 * time.Minute

// Scheduler runs the background jobs on a cron schedule
type Scheduler struct {
	cron           *cron.Cron
	retryProcessor *commission.RetryProcessor
	timeProvider   coreport.TimeProvider
	logger         coreport.Logger
	schedule       string
}

// NewScheduler creates the job scheduler. An empty schedule uses the default.
func NewScheduler(
	retryProcessor *commission.RetryProcessor,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	schedule string,
) *Scheduler {
	if schedule == "" {
		schedule = defaultRetrySchedule
	}
	return &Scheduler{
		cron:           cron.New(),
		retryProcessor: retryProcessor,
		timeProvider:   timeProvider,
		logger:         logger,
		schedule:       schedule,
	}
}

// Start registers the jobs and begins the scheduler
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.drainSettlementRetries)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Job scheduler started", map[string]any{
		"settlement_retry_schedule": s.schedule,
	})
	return nil
}

// Stop halts the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Job scheduler stopped", nil)
}

// drainSettlementRetries replays queued commission settlements
func (s *Scheduler) drainSettlementRetries() {
	ctx, cancel := s.timeProvider.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	resolved, err := s.retryProcessor.ProcessPending(ctx)
	if err != nil {
		s.logger.Error("Settlement retry job failed", map[string]any{
			"error": err.Error(),
		})
		return
	}
	if resolved > 0 {
		s.logger.Info("Settlement retries resolved", map[string]any{
			"resolved": resolved,
		})
	}
}
