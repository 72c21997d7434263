package alias

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidInterval is returned by Start when the purge interval is not positive.
var ErrInvalidInterval = errors.New("purge interval must be positive")

// Sweeper periodically purges records that expired more than grace ago.
// Stores with a native TTL mechanism do not need one.
type Sweeper struct {
	repo     Repository
	interval time.Duration
	grace    time.Duration
	now      func() time.Time
	logger   *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSweeper creates a sweeper. It does nothing until Start is called.
func NewSweeper(repo Repository, interval, grace time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		repo:     repo,
		interval: interval,
		grace:    grace,
		now:      time.Now,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Sweep runs a single purge pass.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.grace)

	return s.repo.DeleteExpired(ctx, cutoff)
}

// Start launches the purge loop.
func (s *Sweeper) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return ErrInvalidInterval
	}

	ctx, s.cancel = context.WithCancel(ctx)

	go s.loop(ctx)

	s.logger.Info("expiry sweeper started",
		zap.Duration("interval", s.interval),
		zap.Duration("grace", s.grace),
	)

	return nil
}

func (s *Sweeper) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := s.Sweep(ctx)
			if err != nil {
				s.logger.Error("expiry sweep failed", zap.Error(err))

				continue
			}

			if purged > 0 {
				s.logger.Debug("purged expired aliases", zap.Int64("count", purged))
			}
		}
	}
}

// Shutdown stops the loop and waits for an in-flight pass to finish.
func (s *Sweeper) Shutdown() error {
	if s.cancel == nil {
		return nil
	}

	s.cancel()
	<-s.done

	return nil
}
