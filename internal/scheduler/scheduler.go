// Package scheduler runs the documentation pipeline on a cron expression.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled pipeline execution.
type Job func(ctx context.Context) error

// Scheduler fires a job on a standard five-field cron expression. A tick
// that arrives while the previous run is still going is skipped, never
// queued: two concurrent runs would fight over the clone and the state file.
type Scheduler struct {
	spec    string
	job     Job
	running atomic.Bool
}

func New(spec string, job Job) (*Scheduler, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(spec); err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return &Scheduler{spec: spec, job: job}, nil
}

// Run blocks until ctx is cancelled, firing the job per the cron spec.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(s.spec, func() { s.fire(ctx) })
	if err != nil {
		return fmt.Errorf("failed to schedule job: %w", err)
	}

	c.Start()
	log.Printf("scheduler started with spec %q, next run at %s", s.spec, s.next().Format(time.RFC3339))

	<-ctx.Done()
	stopCtx := c.Stop()
	// let an in-flight run finish before returning
	<-stopCtx.Done()
	log.Printf("scheduler stopped")
	return ctx.Err()
}

func (s *Scheduler) fire(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		log.Printf("previous run still in progress, skipping this tick")
		return
	}
	defer s.running.Store(false)

	start := time.Now()
	if err := s.job(ctx); err != nil {
		log.Printf("scheduled run failed after %s: %v", time.Since(start).Round(time.Second), err)
		return
	}
	log.Printf("scheduled run finished in %s", time.Since(start).Round(time.Second))
}

func (s *Scheduler) next() time.Time {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(s.spec)
	if err != nil {
		return time.Time{}
	}
	return sched.Next(time.Now())
}
