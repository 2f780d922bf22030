package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aalemi-dev/anomaly-lab/logger"
)

// TaskFunc is the function signature for scheduled tasks.
type TaskFunc func(ctx context.Context) error

// Scheduler runs named tasks on cron expressions or fixed intervals.
// A task still running when its next tick arrives is skipped for that tick,
// and a panicking task is logged without taking the scheduler down.
type Scheduler struct {
	cron        *cron.Cron
	log         logger.Logger
	taskTimeout time.Duration

	mu      sync.RWMutex
	tasks   map[string]cron.EntryID
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a scheduler. Cron expressions take an optional leading
// seconds field as well as descriptors such as "@every 5m" or "@hourly".
// taskTimeout bounds every run; zero means 30 minutes.
func New(log logger.Logger, taskTimeout time.Duration) *Scheduler {
	if taskTimeout <= 0 {
		taskTimeout = 30 * time.Minute
	}
	l := log.Named("scheduler")
	cl := cronLogger{log: l}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(cron.NewParser(cron.SecondOptional|cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
			cron.WithLogger(cl),
		),
		log:         l,
		taskTimeout: taskTimeout,
		tasks:       make(map[string]cron.EntryID),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins running tasks.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	if s.ctx.Err() != nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}
	s.cron.Start()
	s.running = true
	s.log.Info("scheduler started", nil, map[string]interface{}{"tasks": len(s.tasks)})
}

// Stop cancels running tasks and waits for them, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.cancel()
	stopCtx := s.cron.Stop()
	s.mu.Unlock()

	select {
	case <-stopCtx.Done():
		s.log.Info("scheduler stopped gracefully", nil)
		return nil
	case <-ctx.Done():
		s.log.Warn("scheduler stop timeout", ctx.Err())
		return ctx.Err()
	}
}

// AddCronTask schedules task with a cron expression, replacing any task of
// the same name.
func (s *Scheduler) AddCronTask(name, spec string, task TaskFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(name)
	id, err := s.cron.AddFunc(spec, func() { s.runTask(name, task) })
	if err != nil {
		return fmt.Errorf("schedule %q with %q: %w", name, spec, err)
	}
	s.tasks[name] = id
	s.log.Info("added cron task", nil, map[string]interface{}{"name": name, "schedule": spec})
	return nil
}

// AddIntervalTask schedules task every interval, replacing any task of the
// same name.
func (s *Scheduler) AddIntervalTask(name string, interval time.Duration, task TaskFunc) error {
	if interval <= 0 {
		return fmt.Errorf("schedule %q: interval must be positive, got %s", name, interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(name)
	s.tasks[name] = s.cron.Schedule(cron.Every(interval), cron.FuncJob(func() { s.runTask(name, task) }))
	s.log.Info("added interval task", nil, map[string]interface{}{"name": name, "interval": interval.String()})
	return nil
}

// RemoveTask unschedules a task.
func (s *Scheduler) RemoveTask(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(name)
}

func (s *Scheduler) removeLocked(name string) {
	if id, ok := s.tasks[name]; ok {
		s.cron.Remove(id)
		delete(s.tasks, name)
	}
}

// Tasks returns the scheduled task names with their next run time.
func (s *Scheduler) Tasks() map[string]time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]time.Time, len(s.tasks))
	for name, id := range s.tasks {
		out[name] = s.cron.Entry(id).Next
	}
	return out
}

// IsRunning reports whether Start was called without a matching Stop.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *Scheduler) runTask(name string, task TaskFunc) {
	start := time.Now()
	s.mu.RLock()
	parent := s.ctx
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(parent, s.taskTimeout)
	defer cancel()

	s.log.Debug("running scheduled task", nil, map[string]interface{}{"name": name})
	if err := task(ctx); err != nil {
		s.log.Error("scheduled task failed", err, map[string]interface{}{
			"name":     name,
			"duration": time.Since(start).String(),
		})
		return
	}
	s.log.Debug("scheduled task completed", nil, map[string]interface{}{
		"name":     name,
		"duration": time.Since(start).String(),
	})
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug(msg, nil, kv(keysAndValues))
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error(msg, err, kv(keysAndValues))
}

func kv(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
