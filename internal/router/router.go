// internal/router/router.go
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/shopwatch/shopwatch-backend/internal/handlers"
	"github.com/shopwatch/shopwatch-backend/internal/middleware"
)

// Initialize wires the HTTP surface: readiness plus the CloudEvents ingress.
// Interactive UI traffic arrives over Socket Mode, not HTTP.
func Initialize(delivery handlers.Deliverer, connected func() bool) *gin.Engine {
	eventHandler := handlers.NewEventHandler(delivery)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	r.GET("/healthz", handlers.Healthz(connected))
	r.POST("/cloudevents", middleware.EventRateLimit(), eventHandler.HandleCloudEvent)

	return r
}
