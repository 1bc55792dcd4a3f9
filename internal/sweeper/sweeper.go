// internal/sweeper/sweeper.go
package sweeper

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/shopwatch/shopwatch-backend/internal/config"
	"github.com/shopwatch/shopwatch-backend/internal/services"
	"github.com/shopwatch/shopwatch-backend/internal/store"
)

// Deliverer is the slice of the delivery coordinator the sweeper needs.
type Deliverer interface {
	Deliver(ctx context.Context, notificationID uuid.UUID) (services.DeliveryOutcome, error)
}

// Sweeper periodically retries undelivered notifications. The grace period
// keeps it from racing in-flight first deliveries; because Deliver is
// idempotent, sweeping a notification that just went out is still safe.
type Sweeper struct {
	cron          *cron.Cron
	notifications store.NotificationStore
	delivery      Deliverer
	cfg           config.SweeperConfig
	log           *logrus.Entry
}

func New(notifications store.NotificationStore, delivery Deliverer, cfg config.SweeperConfig) *Sweeper {
	return &Sweeper{
		cron:          cron.New(),
		notifications: notifications,
		delivery:      delivery,
		cfg:           cfg,
		log:           logrus.WithField("component", "sweeper"),
	}
}

func (s *Sweeper) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.log.Info("Redelivery sweeper disabled")
		return nil
	}

	_, err := s.cron.AddFunc("@every "+s.cfg.Interval.String(), func() {
		s.Sweep(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.WithField("interval", s.cfg.Interval).Info("Redelivery sweeper started")
	return nil
}

func (s *Sweeper) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
}

// Sweep retries one batch of stale undelivered notifications, oldest first.
func (s *Sweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.cfg.Grace)
	notifications, err := s.notifications.ListUndelivered(ctx, cutoff, s.cfg.BatchSize)
	if err != nil {
		s.log.WithError(err).Error("Failed to list undelivered notifications")
		return
	}
	if len(notifications) == 0 {
		return
	}

	s.log.WithField("count", len(notifications)).Info("Sweeping undelivered notifications")
	for _, notification := range notifications {
		outcome, err := s.delivery.Deliver(ctx, notification.ID)
		if err != nil {
			// A dangling notification cannot ever deliver; log and move on
			// rather than blocking the rest of the batch.
			s.log.WithField("notification_id", notification.ID).WithError(err).Warn("Sweep delivery failed")
			continue
		}
		s.log.WithFields(logrus.Fields{
			"notification_id": notification.ID,
			"status":          outcome.Status,
		}).Info("Sweep delivery attempted")
	}
}
