package saga

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/campushq/enrollment-system/shared/events"
	"github.com/campushq/enrollment-system/shared/telemetry"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const defaultSweepInterval = 60 * time.Second

// Sweeper periodically scans the instance store for sagas whose deadline has
// elapsed and injects synthetic timeout events into the ordinary dispatch
// path. Timeout handling therefore reuses the same state-transition and
// persistence machinery as external events. Running several sweepers against
// one store is safe: duplicate timeout events are idempotent because the
// engine checks the current status before acting.
type Sweeper struct {
	mux      sync.Mutex
	cancel   context.CancelFunc
	running  atomic.Bool
	store    InstanceStore
	handler  events.EventHandler
	interval time.Duration
	logger   *zap.Logger
}

// SweeperOption configures the sweeper
type SweeperOption func(*Sweeper)

// WithSweepInterval sets the scan interval
func WithSweepInterval(interval time.Duration) SweeperOption {
	return func(s *Sweeper) {
		s.interval = interval
	}
}

// WithSweeperLogger sets the sweeper logger
func WithSweeperLogger(logger *zap.Logger) SweeperOption {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

// NewSweeper creates a sweeper feeding expired instances into the handler,
// normally the orchestrator dispatcher
func NewSweeper(store InstanceStore, handler events.EventHandler, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		store:    store,
		handler:  handler,
		interval: defaultSweepInterval,
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start launches the periodic scan on its own goroutine
func (s *Sweeper) Start(ctx context.Context) error {
	if s.running.Load() {
		return nil
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running.Store(true)

	go s.run(ctx)

	return nil
}

// Stop stops the periodic scan
func (s *Sweeper) Stop() {
	if !s.running.Load() {
		return
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = nil
	s.running.Store(false)
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Error("saga timeout sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep runs one scan-and-dispatch pass
func (s *Sweeper) Sweep(ctx context.Context) error {
	now := time.Now()

	expired, err := s.store.ScanExpired(ctx, now)
	if err != nil {
		return errors.Wrap(err, "failed to scan for expired sagas")
	}

	if len(expired) == 0 {
		return nil
	}

	s.logger.Info("found expired sagas", zap.Int("count", len(expired)))

	for _, instance := range expired {
		event := events.NewEvent(
			instance.SagaID,
			events.SagaTimeoutEvent,
			TimeoutPayload{
				SagaID:         instance.SagaID.String(),
				PreviousStatus: string(instance.Status),
			},
		).WithCorrelationID(instance.SagaID).WithMetadata(MetadataSagaID, instance.SagaID.String())

		if err := s.handler.Handle(ctx, event); err != nil {
			// A failed timeout dispatch is retried on the next sweep; the
			// instance is still expired then.
			s.logger.Error("failed to dispatch saga timeout",
				zap.String("saga_id", instance.SagaID.String()),
				zap.Error(err),
			)
			continue
		}

		telemetry.RecordCounter(ctx, "saga_timeouts", "sagas timed out by the sweeper", 1,
			attribute.String("saga_type", instance.SagaType),
			attribute.String("previous_status", string(instance.Status)),
		)
	}

	return nil
}
