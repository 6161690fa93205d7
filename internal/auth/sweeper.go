package auth

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Sweeper periodically purges expired sessions.
type Sweeper struct {
	scheduler *gocron.Scheduler
	store     *SessionStore
	interval  time.Duration
	logger    *zap.Logger
}

func NewSweeper(store *SessionStore, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     store,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the sweep job; the first run happens immediately.
func (s *Sweeper) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = time.Hour
	}

	_, err := s.scheduler.Every(interval).Do(s.run)
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.store.Sweep(ctx)
	if err != nil {
		s.logger.Error("Failed to sweep expired sessions", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("Swept expired sessions", zap.Int64("removed", n))
	}
}

// Stop stops the scheduler.
func (s *Sweeper) Stop() {
	s.scheduler.Stop()
}
