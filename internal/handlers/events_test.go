// internal/handlers/events_test.go
package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/shopwatch/shopwatch-backend/internal/services"
	"github.com/shopwatch/shopwatch-backend/internal/store"
)

type fakeDeliverer struct {
	lastID uuid.UUID
	calls  int
	status services.DeliveryStatus
	err    error
}

func (f *fakeDeliverer) Deliver(_ context.Context, notificationID uuid.UUID) (services.DeliveryOutcome, error) {
	f.calls++
	f.lastID = notificationID
	if f.err != nil {
		return services.DeliveryOutcome{NotificationID: notificationID, Status: services.StatusFailed}, f.err
	}
	return services.DeliveryOutcome{NotificationID: notificationID, Status: f.status}, nil
}

type EventHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	deliverer *fakeDeliverer
}

func (suite *EventHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.deliverer = &fakeDeliverer{status: services.StatusDelivered}
	suite.router = gin.New()
	suite.router.POST("/cloudevents", NewEventHandler(suite.deliverer).HandleCloudEvent)
}

func (suite *EventHandlerTestSuite) postEvent(body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/cloudevents", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("ce-id", "evt-1")
	req.Header.Set("ce-source", "kafka://variant-changes")
	req.Header.Set("ce-type", "com.shopwatch.notification.created")
	req.Header.Set("ce-specversion", "1.0")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *EventHandlerTestSuite) TestCDCEnvelopeShape() {
	id := uuid.New()
	w := suite.postEvent(fmt.Sprintf(`{"payload":{"after":{"id":"%s"}}}`, id))

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(id, suite.deliverer.lastID)
}

func (suite *EventHandlerTestSuite) TestLegacyEnvelopeShape() {
	id := uuid.New()
	w := suite.postEvent(fmt.Sprintf(`{"payload":{"notification_id":"%s"}}`, id))

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(id, suite.deliverer.lastID)
}

func (suite *EventHandlerTestSuite) TestCDCShapeWinsWhenBothPresent() {
	cdcID := uuid.New()
	legacyID := uuid.New()
	w := suite.postEvent(fmt.Sprintf(`{"payload":{"after":{"id":"%s"},"notification_id":"%s"}}`, cdcID, legacyID))

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(cdcID, suite.deliverer.lastID)
}

func (suite *EventHandlerTestSuite) TestMissingNotificationID() {
	w := suite.postEvent(`{"payload":{}}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(0, suite.deliverer.calls)
}

func (suite *EventHandlerTestSuite) TestMalformedNotificationID() {
	w := suite.postEvent(`{"payload":{"after":{"id":"not-a-uuid"}}}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(0, suite.deliverer.calls)
}

func (suite *EventHandlerTestSuite) TestMissingCloudEventHeaders() {
	req, _ := http.NewRequest("POST", "/cloudevents", bytes.NewBufferString(`{"payload":{}}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *EventHandlerTestSuite) TestUnknownNotification() {
	suite.deliverer.err = fmt.Errorf("notification missing: %w", store.ErrNotFound)

	w := suite.postEvent(fmt.Sprintf(`{"payload":{"after":{"id":"%s"}}}`, uuid.New()))

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *EventHandlerTestSuite) TestSendFailure() {
	suite.deliverer.status = services.StatusFailed

	w := suite.postEvent(fmt.Sprintf(`{"payload":{"after":{"id":"%s"}}}`, uuid.New()))

	suite.Equal(http.StatusBadGateway, w.Code)
}

func (suite *EventHandlerTestSuite) TestAlreadyDelivered() {
	suite.deliverer.status = services.StatusAlreadyDelivered

	w := suite.postEvent(fmt.Sprintf(`{"payload":{"after":{"id":"%s"}}}`, uuid.New()))

	suite.Equal(http.StatusOK, w.Code)
}

func TestEventHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(EventHandlerTestSuite))
}
