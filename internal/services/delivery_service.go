// internal/services/delivery_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"

	"github.com/shopwatch/shopwatch-backend/internal/config"
	"github.com/shopwatch/shopwatch-backend/internal/store"
)

// Receipt identifies a posted channel message.
type Receipt struct {
	Channel   string
	Timestamp string
}

// MessagePoster is the outbound chat capability.
type MessagePoster interface {
	PostMessage(ctx context.Context, channel, text string, blocks []slack.Block) (Receipt, error)
}

type DeliveryStatus string

const (
	StatusDelivered        DeliveryStatus = "delivered"
	StatusAlreadyDelivered DeliveryStatus = "already_delivered"
	StatusFailed           DeliveryStatus = "failed"
)

type DeliveryOutcome struct {
	NotificationID uuid.UUID      `json:"notification_id"`
	Status         DeliveryStatus `json:"status"`
	Title          string         `json:"title,omitempty"`
	Receipt        *Receipt       `json:"-"`
}

// DeliveryService orchestrates the pipeline: resolve → classify → image →
// compose → post → record. It owns idempotency and the failure policy.
type DeliveryService struct {
	resolver      *ResolverService
	classifier    *ClassifierService
	notifications store.NotificationStore
	poster        MessagePoster
	channelID     string
	sendTimeout   time.Duration
	log           *logrus.Entry
}

func NewDeliveryService(
	resolver *ResolverService,
	classifier *ClassifierService,
	notifications store.NotificationStore,
	poster MessagePoster,
	cfg config.SlackConfig,
) *DeliveryService {
	return &DeliveryService{
		resolver:      resolver,
		classifier:    classifier,
		notifications: notifications,
		poster:        poster,
		channelID:     cfg.ChannelID,
		sendTimeout:   cfg.SendTimeout,
		log:           logrus.WithField("component", "delivery"),
	}
}

// Deliver runs the pipeline for one notification.
//
// An already-delivered notification is a no-op success, so replayed events
// do not produce duplicate channel messages. A rejected or timed-out send is
// logged and returned as a failed outcome without an error; the notification
// stays undelivered and eligible for redelivery. store.ErrNotFound from the
// resolver or classifier aborts the call: the event is permanently malformed
// and retrying cannot help.
func (s *DeliveryService) Deliver(ctx context.Context, notificationID uuid.UUID) (DeliveryOutcome, error) {
	outcome := DeliveryOutcome{NotificationID: notificationID, Status: StatusFailed}

	resolved, err := s.resolver.Resolve(ctx, notificationID)
	if err != nil {
		return outcome, err
	}

	if resolved.Notification.Delivered {
		s.log.WithField("notification_id", notificationID).Info("Notification already delivered, skipping")
		outcome.Status = StatusAlreadyDelivered
		return outcome, nil
	}

	changes, err := s.classifier.Classify(ctx, resolved.Change.ChangeID)
	if err != nil {
		return outcome, err
	}

	imageURL, err := s.resolver.ResolveFeaturedImage(ctx, &resolved.Variant)
	if err != nil {
		return outcome, err
	}

	title, blocks := ComposeNotification(&resolved.Product, &resolved.Variant, changes, imageURL, time.Now().UTC())
	outcome.Title = title

	s.log.WithFields(logrus.Fields{
		"notification_id": notificationID,
		"product_id":      resolved.Product.ID,
		"variant_id":      resolved.Variant.ID,
		"changes":         changes.Fields(),
	}).Info("Delivering notification")

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	receipt, sendErr := s.poster.PostMessage(sendCtx, s.channelID, title, blocks)
	if sendErr != nil {
		s.log.WithFields(logrus.Fields{
			"notification_id": notificationID,
			"channel":         s.channelID,
		}).WithError(sendErr).Error("Failed to post notification message")

		// Record the failed outcome; the notification remains undelivered.
		if err := s.notifications.MarkDelivered(ctx, notificationID, false); err != nil && !errors.Is(err, store.ErrNotFound) {
			return outcome, fmt.Errorf("record failed delivery for %s: %w", notificationID, err)
		}
		return outcome, nil
	}

	if err := s.notifications.MarkDelivered(ctx, notificationID, true); err != nil {
		// The message is in the channel but the mark failed; surface the
		// error so the operator sees the bookkeeping gap.
		return outcome, fmt.Errorf("message sent but delivery not recorded for %s: %w", notificationID, err)
	}

	outcome.Status = StatusDelivered
	outcome.Receipt = &receipt
	return outcome, nil
}
