// Package scheduler runs the periodic notification jobs on cron expressions evaluated in UTC.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var (
	ErrUnknownJob = errors.New("unknown job")
	ErrJobRunning = errors.New("job is already running")
)

// JobFunc is one invocation of a job. A returned error marks the run failed.
type JobFunc func(ctx context.Context) error

type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	log     *slog.Logger

	mu   sync.RWMutex
	jobs map[string]*job
}

// job guards one registered JobFunc so that cron ticks on any of its schedules
// and manual runs never overlap.
type job struct {
	fn      JobFunc
	running sync.Mutex
}

// New builds a scheduler. Each run gets its own context bounded by timeout; a
// job still running when its next tick or a manual run arrives skips it.
func New(timeout time.Duration, log *slog.Logger) *Scheduler {
	log = log.With(slog.String("component", "Scheduler"))
	cl := cronLogger{log: log}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		timeout: timeout,
		log:     log,
		jobs:    map[string]*job{},
	}
}

// Register adds job under name with one cron entry per spec.
func (s *Scheduler) Register(name string, fn JobFunc, specs ...string) error {
	if len(specs) == 0 {
		return fmt.Errorf("job %q: no schedule", name)
	}

	s.mu.Lock()
	if _, exists := s.jobs[name]; exists {
		s.mu.Unlock()
		return fmt.Errorf("job %q: already registered", name)
	}
	j := &job{fn: fn}
	s.jobs[name] = j
	s.mu.Unlock()

	for _, spec := range specs {
		if _, err := s.cron.AddFunc(spec, func() { _ = s.run(context.Background(), name, j) }); err != nil {
			return fmt.Errorf("job %q: bad schedule %q: %w", name, spec, err)
		}
		s.log.Info("job scheduled", slog.String("job", name), slog.String("spec", spec))
	}
	return nil
}

// RunNow runs a registered job synchronously, outside its schedule. The run
// keeps ctx values but not its cancellation: a caller going away must not
// interrupt a job between a push and its bookkeeping.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.RLock()
	j, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.run(context.WithoutCancel(ctx), name, j)
}

func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Scheduler) run(ctx context.Context, name string, j *job) error {
	log := s.log.With(slog.String("job", name))

	if !j.running.TryLock() {
		log.Info("job still running, skipping")
		return fmt.Errorf("%w: %s", ErrJobRunning, name)
	}
	defer j.running.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	err := j.fn(ctx)
	if err != nil {
		log.Error("job failed", slog.String("duration", time.Since(started).String()), "error", err)
		return err
	}
	log.Info("job finished", slog.String("duration", time.Since(started).String()))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and returns a context that is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
