package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/b2bportal/backend/internal/application/orderdetail"
)

// StatusHandler serves the resolved order-status directory.
type StatusHandler struct {
	BaseHandler
	directory *orderdetail.StatusDirectory
	logger    *zap.Logger
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(directory *orderdetail.StatusDirectory, logger *zap.Logger) *StatusHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusHandler{directory: directory, logger: logger}
}

// RegisterRoutes registers the status routes.
func (h *StatusHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/order-statuses", h.List)
}

// List returns every order status with its resolved display label.
func (h *StatusHandler) List(c *gin.Context) {
	statuses, err := h.directory.List(c.Request.Context())
	if err != nil {
		handleUpstreamError(&h.BaseHandler, c, err)
		return
	}
	h.Success(c, statuses)
}
