package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports service and store health.
type HealthController struct {
	store   Pinger
	version string
}

// NewHealthController creates a new HealthController.
func NewHealthController(store Pinger, version string) *HealthController {
	return &HealthController{store: store, version: version}
}

// Status returns 200 while the store is reachable, 503 otherwise.
func (hc *HealthController) Status(c *gin.Context) {
	if hc.store != nil {
		if err := hc.store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "degraded",
				"version": hc.version,
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": hc.version,
	})
}
