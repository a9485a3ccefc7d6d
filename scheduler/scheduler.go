package scheduler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the cache warming task on a fixed interval.
type Scheduler struct {
	cron    *cron.Cron
	mu      sync.Mutex
	entryID cron.EntryID
	task    func()
}

// New creates a Scheduler. Nothing runs until Schedule and Start are called.
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
	}
}

// Schedule sets up the warming task at the given interval. If a
// previous schedule exists, it is replaced.
func (s *Scheduler) Schedule(interval time.Duration, task func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", interval)
	}

	// Remove previous entry if it exists
	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
	}

	expr := "@every " + interval.String()
	entryID, err := s.cron.AddFunc(expr, task)
	if err != nil {
		return fmt.Errorf("adding cron entry: %w", err)
	}

	s.entryID = entryID
	s.task = task
	slog.Info("cache warming scheduled", "interval", interval.String())
	return nil
}

// Start begins the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the cron scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
