// Package relay delivers outbox events to the notification stores.
package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/festy23/collabase/internal/config"
	"github.com/festy23/collabase/internal/live"
	"github.com/festy23/collabase/internal/notification/fanout"
	notificationModel "github.com/festy23/collabase/internal/notification/model"
	"github.com/festy23/collabase/internal/notification/repository"
	"github.com/festy23/collabase/pkg/retry"
)

// Publisher receives change signals for recipients after delivery.
type Publisher interface {
	Publish(topics ...string)
}

// Relay polls the outbox and applies the fan-out plan of each due event.
type Relay struct {
	repo      repository.Repository
	publisher Publisher
	cfg       config.NotificationConfig
	backoff   retry.Config
	logger    *zap.SugaredLogger
	now       func() time.Time
	kick      chan struct{}

	mu      sync.Mutex
	lastErr error
}

// New creates a new relay instance.
func New(
	repo repository.Repository,
	publisher Publisher,
	cfg config.NotificationConfig,
	logger *zap.SugaredLogger,
) *Relay {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Relay{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		backoff:   retry.DeliveryConfig(cfg.MaxAttempts),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		kick:      make(chan struct{}, 1),
	}
}

// Kick wakes the relay without waiting for the next poll. It never blocks.
func (r *Relay) Kick() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Run processes batches on every tick and kick until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	r.logger.Infow("Notification relay started",
		"poll_interval", r.cfg.PollInterval,
		"batch_size", r.cfg.BatchSize,
	)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Notification relay stopped")
			return nil
		case <-ticker.C:
		case <-r.kick:
		}
		r.drain(ctx)
	}
}

// drain processes full batches until the outbox has nothing due.
func (r *Relay) drain(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := r.ProcessBatch(ctx)
		if err != nil {
			if ctx.Err() == nil {
				r.logger.Errorw("Failed to process outbox batch", "error", err)
			}
			return
		}
		if n < r.cfg.BatchSize {
			return
		}
	}
}

// ProcessBatch claims due events and delivers them in creation order. It
// returns the number of events claimed.
func (r *Relay) ProcessBatch(ctx context.Context) (int, error) {
	now := r.now()
	events, err := r.repo.ClaimDue(ctx, now, r.cfg.Lease, r.cfg.BatchSize)
	r.setLastErr(err)
	if err != nil {
		return 0, err
	}

	for i := range events {
		r.deliver(ctx, &events[i])
	}
	return len(events), nil
}

func (r *Relay) deliver(ctx context.Context, event *notificationModel.OutboxEvent) {
	lease := event.Lease()
	writes := fanout.Plan(event.Payload)
	err := r.repo.Deliver(ctx, lease, writes, r.now())
	if err == nil {
		r.publish(writes)
		return
	}
	if errors.Is(err, notificationModel.ErrLeaseLost) {
		r.dropStale(event)
		return
	}

	attempts := event.Attempts + 1
	if retry.Exhausted(attempts, r.backoff) {
		r.logger.Errorw("Notification event dead after final attempt",
			"event_id", event.ID,
			"event_type", event.EventType,
			"team_id", event.Payload.TeamID,
			"attempts", attempts,
			"error", err,
		)
		r.settleFailure(event, r.repo.MarkDead(ctx, lease, attempts, err.Error()))
		return
	}

	next := r.now().Add(retry.Backoff(attempts, r.backoff))
	r.logger.Warnw("Notification delivery failed, will retry",
		"event_id", event.ID,
		"event_type", event.EventType,
		"attempts", attempts,
		"next_attempt_at", next,
		"error", err,
	)
	r.settleFailure(event, r.repo.Reschedule(ctx, lease, attempts, next, err.Error()))
}

// dropStale abandons an event whose lease expired and was taken over; the
// current holder settles it.
func (r *Relay) dropStale(event *notificationModel.OutboxEvent) {
	r.logger.Warnw("Notification event reclaimed by another relay, dropping",
		"event_id", event.ID,
		"event_type", event.EventType,
	)
}

func (r *Relay) settleFailure(event *notificationModel.OutboxEvent, err error) {
	switch {
	case err == nil:
	case errors.Is(err, notificationModel.ErrLeaseLost):
		r.dropStale(event)
	default:
		r.logger.Errorw("Failed to record notification delivery failure", "event_id", event.ID, "error", err)
	}
}

func (r *Relay) publish(writes []fanout.Write) {
	if r.publisher == nil {
		return
	}
	topics := make([]string, 0, 2*len(writes))
	for _, userID := range fanout.Recipients(writes) {
		topics = append(topics, live.NotificationsTopic(userID), live.DashboardTopic(userID))
	}
	r.publisher.Publish(topics...)
}

func (r *Relay) setLastErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastErr = err
}

// Name implements health.Checker.
func (r *Relay) Name() string {
	return "notification_relay"
}

// Healthy reports the outcome of the latest outbox poll.
func (r *Relay) Healthy(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastErr != nil {
		return fmt.Errorf("outbox poll failed: %w", r.lastErr)
	}
	return nil
}
