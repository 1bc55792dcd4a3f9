// internal/handlers/events.go
package handlers

import (
	"context"
	"errors"

	cehttp "github.com/cloudevents/sdk-go/v2/protocol/http"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shopwatch/shopwatch-backend/internal/services"
	"github.com/shopwatch/shopwatch-backend/internal/store"
	"github.com/shopwatch/shopwatch-backend/internal/utils"
)

// Deliverer is the slice of the delivery coordinator the ingress needs.
type Deliverer interface {
	Deliver(ctx context.Context, notificationID uuid.UUID) (services.DeliveryOutcome, error)
}

// notificationEnvelope is the CloudEvent data payload. Producers have shipped
// two shapes over time: the CDC form (payload.after.id) and the older direct
// form (payload.notification_id). Both are accepted; after.id wins when both
// are present.
type notificationEnvelope struct {
	Payload struct {
		After struct {
			ID string `json:"id" validate:"omitempty,uuid_rfc4122"`
		} `json:"after"`
		NotificationID string `json:"notification_id" validate:"omitempty,uuid_rfc4122"`
	} `json:"payload"`
}

func (e *notificationEnvelope) notificationID() string {
	if e.Payload.After.ID != "" {
		return e.Payload.After.ID
	}
	return e.Payload.NotificationID
}

type EventHandler struct {
	delivery Deliverer
}

func NewEventHandler(delivery Deliverer) *EventHandler {
	return &EventHandler{delivery: delivery}
}

// POST /cloudevents
func (h *EventHandler) HandleCloudEvent(c *gin.Context) {
	event, err := cehttp.NewEventFromHTTPRequest(c.Request)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid CloudEvent", err.Error())
		return
	}

	logrus.WithFields(logrus.Fields{
		"event_id":    event.ID(),
		"source":      event.Source(),
		"type":        event.Type(),
		"specversion": event.SpecVersion(),
	}).Info("Received CloudEvent")

	var envelope notificationEnvelope
	if err := event.DataAs(&envelope); err != nil {
		utils.BadRequestResponse(c, "Malformed event data", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&envelope)); len(validationErrors) > 0 {
		utils.BadRequestResponse(c, "Malformed event data", validationErrors)
		return
	}

	rawID := envelope.notificationID()
	if rawID == "" {
		utils.BadRequestResponse(c, "Event carries no notification id", nil)
		return
	}
	notificationID, err := uuid.Parse(rawID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid notification id", err.Error())
		return
	}

	outcome, err := h.delivery.Deliver(c.Request.Context(), notificationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.NotFoundResponse(c, err.Error())
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	if outcome.Status == services.StatusFailed {
		// The notification stays undelivered; the broker may replay the event.
		utils.BadGatewayResponse(c, "Message delivery failed", outcome)
		return
	}
	utils.SuccessResponse(c, outcome)
}
