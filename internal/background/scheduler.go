// Package background runs deferred maintenance work such as deleting
// uploads nobody saved and keeping catalog listings warm.
package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"storefront-cms-backend/pkg/logger"
)

type SchedulerConfig struct {
	WorkerCount int
	QueueSize   int
}

type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// Job is one unit of deferred work. Key deduplicates jobs while one with
// the same key is queued or running; it defaults to Name for unique jobs.
type Job struct {
	Name        string
	Key         string
	Run         func(ctx context.Context) error
	Delay       time.Duration
	Timeout     time.Duration
	RetryPolicy RetryPolicy
}

var (
	ErrSchedulerNotStarted   = errors.New("scheduler not started")
	ErrJobAlreadyScheduled   = errors.New("job already scheduled")
	errSchedulerShuttingDown = errors.New("scheduler is shutting down")
)

var (
	jobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront_cms",
		Subsystem: "background",
		Name:      "job_runs_total",
		Help:      "Background job executions by outcome.",
	}, []string{"job", "status"})

	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront_cms",
		Subsystem: "background",
		Name:      "job_duration_seconds",
		Help:      "Duration of background job executions.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})
)

type Scheduler struct {
	config SchedulerConfig

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	active  map[string]struct{}

	queue chan scheduledJob

	workers sync.WaitGroup
	running sync.WaitGroup
}

type scheduledJob struct {
	job     Job
	attempt int
	key     string
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	return &Scheduler{
		config: cfg,
		queue:  make(chan scheduledJob, cfg.QueueSize),
		active: make(map[string]struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true
	for i := 0; i < s.config.WorkerCount; i++ {
		s.workers.Add(1)
		go s.worker()
	}
}

func (s *Scheduler) worker() {
	defer s.workers.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case job := <-s.queue:
			s.execute(job)
		}
	}
}

func (s *Scheduler) execute(job scheduledJob) {
	if job.job.Delay > 0 {
		timer := time.NewTimer(job.job.Delay)
		select {
		case <-timer.C:
		case <-s.ctx.Done():
			timer.Stop()
			s.finish(job, context.Canceled)
			return
		}
	}

	s.running.Add(1)
	defer s.running.Done()

	err := s.run(job)
	if err != nil && s.shouldRetry(job, err) {
		retry := job
		retry.attempt++
		retry.job.Delay = job.job.RetryPolicy.Backoff * time.Duration(job.attempt)
		if s.enqueue(retry) {
			return
		}
	}
	s.finish(job, err)
}

func (s *Scheduler) run(job scheduledJob) (runErr error) {
	start := time.Now()
	status := "success"

	ctx := logger.ContextWithFields(s.ctx, map[string]interface{}{
		"job":     job.job.Name,
		"attempt": job.attempt,
	})
	if job.job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.job.Timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			runErr = fmt.Errorf("panic: %v", r)
			status = "failure"
		}
		jobDuration.WithLabelValues(job.job.Name).Observe(time.Since(start).Seconds())
		jobRuns.WithLabelValues(job.job.Name, status).Inc()
	}()

	if err := ctx.Err(); err != nil {
		status = "canceled"
		return err
	}

	if err := job.job.Run(ctx); err != nil {
		status = "failure"
		if errors.Is(err, context.Canceled) {
			status = "canceled"
		}
		logger.FromContext(ctx).WithError(err).Warn("Background job attempt failed")
		return err
	}
	return nil
}

func (s *Scheduler) shouldRetry(job scheduledJob, err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return job.attempt <= job.job.RetryPolicy.MaxRetries
}

func (s *Scheduler) enqueue(job scheduledJob) bool {
	select {
	case <-s.ctx.Done():
		return false
	case s.queue <- job:
		return true
	}
}

func (s *Scheduler) finish(job scheduledJob, runErr error) {
	if job.key != "" {
		s.mu.Lock()
		delete(s.active, job.key)
		s.mu.Unlock()
	}

	fields := map[string]interface{}{"job": job.job.Name, "attempt": job.attempt}
	switch {
	case runErr == nil:
		logger.Debug("Background job completed", fields)
	case errors.Is(runErr, context.Canceled):
		logger.Warn("Background job canceled", fields)
	default:
		logger.Error(runErr, "Background job gave up", fields)
	}
}

// Schedule queues job. Jobs with a Key are dropped with
// ErrJobAlreadyScheduled while an equal key is pending.
func (s *Scheduler) Schedule(job Job) error {
	return s.schedule(job, job.Key)
}

// ScheduleUnique queues job keyed by its name.
func (s *Scheduler) ScheduleUnique(job Job) error {
	key := job.Key
	if key == "" {
		key = job.Name
	}
	return s.schedule(job, key)
}

func (s *Scheduler) schedule(job Job, key string) error {
	if job.Name == "" {
		return errors.New("job name is required")
	}
	if job.Run == nil {
		return errors.New("job runner is required")
	}

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrSchedulerNotStarted
	}
	if key != "" {
		if _, exists := s.active[key]; exists {
			s.mu.Unlock()
			return ErrJobAlreadyScheduled
		}
		s.active[key] = struct{}{}
	}
	s.mu.Unlock()

	if !s.enqueue(scheduledJob{job: job, attempt: 1, key: key}) {
		if key != "" {
			s.mu.Lock()
			delete(s.active, key)
			s.mu.Unlock()
		}
		return errSchedulerShuttingDown
	}
	return nil
}

// Every schedules job now and then once per interval until the scheduler
// stops. Runs never overlap.
func (s *Scheduler) Every(interval time.Duration, job Job) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", interval)
	}
	if err := s.ScheduleUnique(job); err != nil {
		return err
	}

	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.ScheduleUnique(job); err != nil && !errors.Is(err, ErrJobAlreadyScheduled) {
					return
				}
			}
		}
	}()
	return nil
}

func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	cancel := s.cancel
	s.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		s.workers.Wait()
		s.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of keyed jobs queued or running.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}
