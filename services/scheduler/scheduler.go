// Package scheduler repeats a synchronization run on a fixed interval.
package scheduler

import (
	"context"
	"log"
	"time"
)

// Runner is one synchronization pass.
type Runner interface {
	Run() error
}

// Service runs immediately and then once per interval until the context is
// canceled. Passes never overlap: each one finishes before the next tick is
// considered.
type Service struct {
	runner   Runner
	interval time.Duration
	log      *log.Logger
}

// NewService creates a scheduler around a runner.
func NewService(runner Runner, interval time.Duration, logger *log.Logger) *Service {
	return &Service{runner: runner, interval: interval, log: logger}
}

// Start blocks until ctx is canceled. Run failures are logged and the loop
// keeps going.
func (s *Service) Start(ctx context.Context) {
	s.log.Printf("[scheduler] started with interval %s", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce()
	for {
		select {
		case <-ctx.Done():
			s.log.Printf("[scheduler] stopped")
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *Service) runOnce() {
	if err := s.runner.Run(); err != nil {
		s.log.Printf("[scheduler] run failed: %v", err)
	}
}
