package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/nikola411/score-tracker/internal/providers"
)

// DataFetcherService runs the one-time startup population for every adapter
// and re-runs it on a cron schedule. Population is write-if-absent, so the
// scheduled runs are no-ops for keys that already exist and only fill gaps
// left by earlier upstream failures.
type DataFetcherService struct {
	adapters  []providers.StatsProvider
	logger    *logrus.Logger
	cron      *cron.Cron
	schedule  string
	mu        sync.Mutex
	isRunning bool
}

func NewDataFetcherService(adapters []providers.StatsProvider, logger *logrus.Logger, schedule string) *DataFetcherService {
	return &DataFetcherService{
		adapters: adapters,
		logger:   logger,
		cron:     cron.New(),
		schedule: schedule,
	}
}

// Start schedules the recurring population job. The initial population is
// triggered separately via PopulateAll so callers control whether startup
// blocks on it.
func (s *DataFetcherService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("data fetcher is already running")
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.PopulateAll(context.Background())
	}); err != nil {
		return fmt.Errorf("failed to schedule data fetcher: %w", err)
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("schedule", s.schedule).Info("Data fetcher service started")
	return nil
}

// IsRunning reports whether the scheduled job is active.
func (s *DataFetcherService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Stop halts the scheduled population job.
func (s *DataFetcherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Data fetcher service stopped")
}

// PopulateAll runs every adapter's population sequence. Adapters run
// concurrently with each other; steps within one adapter stay strictly
// sequential. Best-effort: a failing adapter never aborts its siblings.
func (s *DataFetcherService) PopulateAll(ctx context.Context) {
	s.logger.Info("Starting cache population")

	var wg sync.WaitGroup
	for _, adapter := range s.adapters {
		wg.Add(1)
		go func(p providers.StatsProvider) {
			defer wg.Done()
			s.logger.WithField("league", string(p.League())).Info("Populating league cache")
			p.Populate(ctx)
		}(adapter)
	}
	wg.Wait()

	s.logger.Info("Cache population complete")
}
