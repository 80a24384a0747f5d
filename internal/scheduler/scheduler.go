package scheduler

import (
	"fmt"
	"time"

	"github.com/example/ballethq/pkg/logger"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Pruner forgets entries that have been idle for longer than maxIdle
type Pruner interface {
	PruneIdle(maxIdle time.Duration) int
}

// Scheduler periodically clears idle sessions and other per-client bookkeeping
type Scheduler struct {
	scheduler *gocron.Scheduler
	interval  time.Duration
	maxIdle   time.Duration
	pruners   map[string]Pruner
}

// New creates a scheduler that runs every interval and prunes entries idle longer than maxIdle
func New(interval, maxIdle time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		interval:  interval,
		maxIdle:   maxIdle,
		pruners:   make(map[string]Pruner),
	}
}

// Register adds a pruner under a name used in logs. Must be called before Start.
func (s *Scheduler) Register(name string, p Pruner) {
	s.pruners[name] = p
}

// Start begins running the cleanup job
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.interval).Do(func() { s.RunOnce() }); err != nil {
		return fmt.Errorf("failed to schedule cleanup: %w", err)
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunOnce prunes every registered pruner and returns the number of entries removed per name
func (s *Scheduler) RunOnce() map[string]int {
	removed := make(map[string]int, len(s.pruners))
	for name, p := range s.pruners {
		n := p.PruneIdle(s.maxIdle)
		removed[name] = n
		if n > 0 {
			logger.Log.Info("Pruned idle entries", zap.String("pruner", name), zap.Int("count", n))
		}
	}
	return removed
}
