package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Adda-Baaj/tour-sosik/internal/logger"

	"github.com/robfig/cron/v3"
)

// DefaultDigestSpec runs the digest every morning at 08:00.
const DefaultDigestSpec = "0 8 * * *"

// JobFunc is one scheduled unit of work.
type JobFunc func(ctx context.Context) error

// Scheduler runs a job on a cron spec. Runs never overlap: a tick that fires
// while the previous run is still going is skipped.
type Scheduler struct {
	cron    *cron.Cron
	name    string
	job     JobFunc
	timeout time.Duration
	log     logger.Logger

	// ctx parents scheduled runs; Stop cancels it.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	running bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLocation evaluates the cron spec in loc.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.cron = cron.New(cron.WithLocation(loc))
		}
	}
}

// WithTimeout bounds each run.
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New registers job under spec. An empty spec means DefaultDigestSpec.
func New(name, spec string, job JobFunc, log logger.Logger, opts ...Option) (*Scheduler, error) {
	if job == nil {
		return nil, fmt.Errorf("scheduler %q: job is nil", name)
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if spec == "" {
		spec = DefaultDigestSpec
	}

	s := &Scheduler{
		cron:    cron.New(),
		name:    name,
		job:     job,
		timeout: 30 * time.Minute,
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := s.cron.AddFunc(spec, s.scheduled); err != nil {
		return nil, fmt.Errorf("scheduler %q: parse spec %q: %w", name, spec, err)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s, nil
}

func (s *Scheduler) scheduled() {
	_ = s.RunOnce(s.ctx)
}

// Start begins firing on schedule.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.InfoObj("scheduler started", "scheduler_started", map[string]any{
		"job":      s.name,
		"next_run": s.Next(),
	})
}

// Stop halts the schedule, cancels a scheduled run in progress and waits for
// it to return or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Next reports the next scheduled run, zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// ErrBusy is returned by RunOnce while another run is in progress.
var ErrBusy = errors.New("job already running")

// RunOnce runs the job now, outside the schedule. A panicking job is
// reported as an error.
func (s *Scheduler) RunOnce(ctx context.Context) (err error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.WarnObj("job still running, skipping", "job_skipped", map[string]any{"job": s.name})
		return ErrBusy
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	s.log.InfoObj("job started", "job_started", map[string]any{"job": s.name})
	err = s.call(ctx)
	fields := map[string]any{
		"job":         s.name,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		fields["error"] = err.Error()
		s.log.ErrorObj("job failed", "job_failed", fields)
		return err
	}
	s.log.InfoObj("job done", "job_done", fields)
	return nil
}

func (s *Scheduler) call(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %q panicked: %v", s.name, r)
		}
	}()
	return s.job(ctx)
}
