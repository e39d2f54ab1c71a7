// Package scheduler runs the periodic reminder jobs on cron expressions.
package scheduler

import (
	"context"
	"time"

	"pgms/internal/logger"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

func New() *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		timeout: 5 * time.Minute,
	}
}

// Add registers job on a standard five-field cron spec.
func (s *Scheduler) Add(spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() { s.run(job) })
	return err
}

func (s *Scheduler) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	sent, err := job.Run(ctx)
	if err != nil {
		logger.WithError(err).Error("scheduled job failed", "job", job.Name())
		return
	}
	logger.Info("scheduled job finished", "job", job.Name(), "emails", sent, "took", time.Since(start).String())
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.Warn("scheduler stop timed out")
	}
}
