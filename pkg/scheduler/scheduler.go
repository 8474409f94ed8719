package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is the unit of work a scheduler runs.
type Job func(context.Context) error

// DefaultParser accepts standard five-field cron expressions, an optional
// seconds field, and descriptors such as "@daily".
var DefaultParser = cron.NewParser(
	cron.SecondOptional |
		cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow |
		cron.Descriptor,
)

// Scheduler runs one job on a cron expression.
type Scheduler struct {
	cron       cronEngine
	expression string
	job        Job
	logger     *slog.Logger
	timeout    time.Duration
	mu         sync.Mutex
	running    bool
}

// cronEngine is the slice of *cron.Cron the scheduler relies on. A seam for
// tests that need a hand-cranked clock.
type cronEngine interface {
	AddFunc(spec string, cmd func()) (cron.EntryID, error)
	Start()
	Stop() context.Context
}

type Option func(*Scheduler)

// WithLogger overrides the logger used for failed runs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithJobTimeout caps how long a single run may take.
func WithJobTimeout(timeout time.Duration) Option {
	return func(s *Scheduler) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithEngine injects a preconfigured cron engine.
func WithEngine(engine cronEngine) Option {
	return func(s *Scheduler) {
		if engine != nil {
			s.cron = engine
		}
	}
}

func New(expression string, job Job, opts ...Option) (*Scheduler, error) {
	if expression == "" {
		return nil, errors.New("cron expression cannot be empty")
	}

	if job == nil {
		return nil, errors.New("job cannot be nil")
	}

	if _, err := DefaultParser.Parse(expression); err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	s := &Scheduler{
		expression: expression,
		job:        job,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cron == nil {
		s.cron = cron.New(cron.WithParser(DefaultParser))
	}

	return s, nil
}

// Start registers the job with the cron engine and begins scheduling. The
// scheduler stops itself when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if s == nil {
		return errors.New("scheduler is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler already started")
	}

	if _, err := s.cron.AddFunc(s.expression, func() {
		if err := s.Run(ctx); err != nil {
			s.logger.Error("scheduled job failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule job: %w", err)
	}

	s.cron.Start()
	s.running = true

	if ctx != nil {
		go func() {
			<-ctx.Done()
			s.Stop()
		}()
	}

	return nil
}

// Stop halts scheduling and waits for any in-flight run to finish. Safe to
// call on a nil or never-started scheduler.
func (s *Scheduler) Stop() {
	if s == nil {
		return
	}

	s.mu.Lock()

	if !s.running {
		s.mu.Unlock()

		return
	}

	ctx := s.cron.Stop()
	s.running = false
	s.mu.Unlock()

	<-ctx.Done()
}

// Run executes the job once, immediately, honouring the configured timeout.
func (s *Scheduler) Run(ctx context.Context) error {
	if s == nil {
		return errors.New("scheduler is nil")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	return s.job(ctx)
}
