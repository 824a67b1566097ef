// internal/app/system/tasks/tasks.go

// Package tasks runs small periodic maintenance jobs.
package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/remindhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Job is one periodic maintenance task.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Runner drives a set of jobs, each on its own ticker.
type Runner struct {
	log    *zap.Logger
	jobs   []Job
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewRunner creates a runner for the given jobs.
func NewRunner(logger *zap.Logger, jobs ...Job) *Runner {
	return &Runner{log: logger, jobs: jobs, stopCh: make(chan struct{})}
}

// Start launches every job loop.
func (r *Runner) Start() {
	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(job)
		r.log.Info("maintenance job started",
			zap.String("job", job.Name),
			zap.Duration("interval", job.Interval))
	}
}

// Stop signals all job loops to stop and waits for them to finish.
func (r *Runner) Stop() {
	close(r.stopCh)
	r.wg.Wait()
	r.log.Info("maintenance jobs stopped")
}

func (r *Runner) loop(job Job) {
	defer r.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Batch(), r.log, job.Name)
			if err := job.Run(ctx); err != nil {
				r.log.Error("maintenance job failed",
					zap.String("job", job.Name), zap.Error(err))
			}
			cancel()
		}
	}
}
