package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/kunal592/MD-BlogApp/internal/observability"
)

// Job is a unit of background work. An empty Schedule registers the job for
// on-demand runs only.
type Job interface {
	Name() string
	Schedule() string
	Run(ctx context.Context) error
}

type Scheduler struct {
	cron    *cron.Cron
	jobs    []Job
	timeout time.Duration
}

func NewScheduler(timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		jobs:    make([]Job, 0),
		timeout: timeout,
	}
}

func (s *Scheduler) Register(job Job) error {
	s.jobs = append(s.jobs, job)

	schedule := job.Schedule()
	if schedule == "" {
		log.Info().Str("job", job.Name()).Msg("job registered for on-demand runs")
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.execute(context.Background(), job) }); err != nil {
		return fmt.Errorf("schedule job %s: %w", job.Name(), err)
	}

	log.Info().Str("job", job.Name()).Str("cron", schedule).Msg("job scheduled")
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Int("jobs", len(s.jobs)).Msg("job scheduler started")
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		log.Warn().Msg("job scheduler stopped before running jobs finished")
		return
	}
	log.Info().Msg("job scheduler stopped")
}

// RunByName executes a registered job immediately.
func (s *Scheduler) RunByName(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.Name() == name {
			return s.execute(ctx, job)
		}
	}
	return fmt.Errorf("job %q is not registered", name)
}

func (s *Scheduler) Names() []string {
	names := make([]string, len(s.jobs))
	for i, job := range s.jobs {
		names[i] = job.Name()
	}
	return names
}

func (s *Scheduler) execute(ctx context.Context, job Job) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	err := job.Run(ctx)
	if err != nil {
		observability.JobRunsTotal.WithLabelValues(job.Name(), "error").Inc()
		log.Error().Err(err).Str("job", job.Name()).Dur("took", time.Since(started)).Msg("job failed")
		return err
	}

	observability.JobRunsTotal.WithLabelValues(job.Name(), "ok").Inc()
	log.Info().Str("job", job.Name()).Dur("took", time.Since(started)).Msg("job completed")
	return nil
}
