// internal/handlers/health.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Healthz reports readiness: the process is only useful while the Socket
// Mode transport is connected.
func Healthz(connected func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if connected() {
			c.String(http.StatusOK, "OK")
			return
		}
		c.String(http.StatusServiceUnavailable, "The Socket Mode client is inactive")
	}
}
