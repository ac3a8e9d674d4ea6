package poller

import (
	"context"
	"sync"
	"time"

	"github.com/roylee0704/gron"
	"go.uber.org/atomic"

	"livenotify/internal/poller/interfaces"
	"livenotify/internal/providers"
	"livenotify/internal/services"
	"livenotify/internal/structures"
)

// Scheduler runs a poll cycle on start and then every poller.interval
// seconds. A tick that finds the previous cycle still running is dropped.
type Scheduler struct {
	config    *structures.Config
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	service   services.PollServiceInterface
	cron      *gron.Cron
	inFlight  *atomic.Bool
	lastCycle *atomic.Time

	mu      sync.Mutex
	stopped bool
	running sync.WaitGroup
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.PollServiceInterface, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:    config,
		logger:    logger,
		metrics:   metrics,
		service:   service,
		inFlight:  atomic.NewBool(false),
		lastCycle: atomic.NewTime(time.Time{}),
	}
}

func (s *Scheduler) Start() {
	interval := time.Duration(s.config.Poller.Interval) * time.Second

	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(interval), s.tick)
	s.cron.Start()

	s.logger.Infof(providers.TypePoll, "Poller started, interval %s", interval)
	go s.tick()
}

// Stop cancels future ticks. A cycle already running is left to finish; use
// Wait to block on it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Wait() {
	s.running.Wait()
}

func (s *Scheduler) LastCycleAt() time.Time {
	return s.lastCycle.Load()
}

func (s *Scheduler) InFlight() bool {
	return s.inFlight.Load()
}

func (s *Scheduler) tick() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		s.mu.Unlock()
		s.metrics.IncPollCyclesSkipped()
		s.logger.Warnf(providers.TypePoll, "Previous poll cycle still running, skipping tick")
		return
	}
	s.running.Add(1)
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf(providers.TypePoll, "Poll cycle panicked: %v", r)
		}
		s.lastCycle.Store(time.Now())
		s.inFlight.Store(false)
		s.running.Done()
	}()

	s.service.RunCycle(context.Background())
}
