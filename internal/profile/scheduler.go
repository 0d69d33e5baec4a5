package profile

import (
	"log"
	"sync"
	"time"

	"questlog/internal/clock"
	"questlog/internal/dateutil"
)

// Scheduler fires the boundary pass at every local midnight and
// reschedules itself for the next one. It survives sleep/suspend
// drift because each firing recomputes the delay from the clock.
type Scheduler struct {
	mu      sync.Mutex
	clk     clock.Clock
	logger  *log.Logger
	fire    func()
	next    func(time.Time) time.Time
	timer   *time.Timer
	stopped bool
}

func NewScheduler(clk clock.Clock, logger *log.Logger, fire func()) *Scheduler {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		clk:    clk,
		logger: logger,
		fire:   fire,
		next:   dateutil.NextMidnight,
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.timer != nil {
		return
	}
	s.armLocked()
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) armLocked() {
	now := s.clk.Now()
	at := s.next(now)
	delay := at.Sub(now)
	if delay < time.Second {
		delay = time.Second
	}
	s.logger.Printf("next day boundary at %s (in %s)", at.Format(time.RFC3339), delay.Round(time.Second))
	s.timer = time.AfterFunc(delay, s.tick)
}

func (s *Scheduler) tick() {
	s.fire()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.armLocked()
}
