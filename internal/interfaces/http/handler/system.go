package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves liveness and build info endpoints. These live at the
// engine root, outside the versioned API group.
type SystemHandler struct {
	appName string
	started time.Time
}

// NewSystemHandler creates a SystemHandler.
func NewSystemHandler(appName string) *SystemHandler {
	return &SystemHandler{appName: appName, started: time.Now()}
}

// RegisterRoutes registers the system routes on the engine root.
func (h *SystemHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", h.Health)
}

// Health reports process liveness.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.appName,
		"uptime":  time.Since(h.started).String(),
	})
}
