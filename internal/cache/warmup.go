package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task is a named warm-up job that preemptively populates a key
// pattern. The cache owns the registry; scheduling is external input
// via the cron spec.
type Task struct {
	Name     string
	Schedule string // cron spec, e.g. "@every 10m"
	Pattern  string // key pattern the task populates, e.g. "search:trending:*"
	Run      func(ctx context.Context) error
}

const warmupTimeout = 30 * time.Second

// Warmer schedules warm-up tasks. A failing task is logged and retried
// on its next tick; it cannot take the scheduler down.
type Warmer struct {
	cron   *cron.Cron
	logger *zap.Logger

	mu    sync.RWMutex
	tasks map[string]Task
}

// NewWarmer creates a Warmer.
func NewWarmer(logger *zap.Logger) *Warmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Warmer{
		cron:   cron.New(),
		logger: logger,
		tasks:  make(map[string]Task),
	}
}

// Register adds a task to the registry and schedules it.
func (w *Warmer) Register(task Task) error {
	if task.Name == "" || task.Run == nil {
		return fmt.Errorf("warmup task needs a name and a run function")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.tasks[task.Name]; exists {
		return fmt.Errorf("warmup task %q already registered", task.Name)
	}

	if task.Schedule != "" {
		name := task.Name
		if _, err := w.cron.AddFunc(task.Schedule, func() {
			w.runNamed(name)
		}); err != nil {
			return fmt.Errorf("schedule warmup task %q: %w", task.Name, err)
		}
	}
	w.tasks[task.Name] = task
	return nil
}

// Start begins scheduled execution and fires every task once so the
// cache is warm before the first request wave.
func (w *Warmer) Start() {
	w.cron.Start()
	w.mu.RLock()
	names := make([]string, 0, len(w.tasks))
	for name := range w.tasks {
		names = append(names, name)
	}
	w.mu.RUnlock()
	for _, name := range names {
		go w.runNamed(name)
	}
}

// Stop halts scheduling; running tasks finish on their own.
func (w *Warmer) Stop() {
	w.cron.Stop()
}

// RunTask executes a task by name immediately, independent of its
// schedule. Used for retries.
func (w *Warmer) RunTask(ctx context.Context, name string) error {
	w.mu.RLock()
	task, ok := w.tasks[name]
	w.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown warmup task %q", name)
	}
	return task.Run(ctx)
}

func (w *Warmer) runNamed(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), warmupTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("warmup task panicked",
				zap.String("task", name), zap.Any("panic", r))
		}
	}()

	if err := w.RunTask(ctx, name); err != nil {
		w.logger.Warn("warmup task failed", zap.String("task", name), zap.Error(err))
		return
	}
	w.logger.Debug("warmup task completed", zap.String("task", name))
}
