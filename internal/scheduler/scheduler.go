package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher re-reads the test catalog from the record store.
type Refresher interface {
	RefreshCatalog(ctx context.Context) error
}

// Scheduler runs the periodic catalog refresh.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

func New(refresher Refresher, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		interval:  interval,
		timeout:   30 * time.Second,
		logger:    logger,
	}
}

// Start schedules the refresh job and returns immediately. A zero interval
// disables the job. The first run happens one interval after Start, since
// the catalog was just hydrated.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("catalog refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().SingletonMode().Do(s.refresh)
	if err != nil {
		return fmt.Errorf("schedule catalog refresh: %w", err)
	}

	s.scheduler.StartAsync()
	s.logger.Info("catalog refresh scheduled", "interval", s.interval.String())
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.refresher.RefreshCatalog(ctx); err != nil {
		s.logger.Warn("catalog refresh failed", "error", err)
		return
	}
	s.logger.Debug("catalog refreshed")
}
