package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/b2bportal/backend/internal/application/orderdetail"
	"github.com/b2bportal/backend/internal/infrastructure/platform"
	"github.com/b2bportal/backend/internal/interfaces/http/dto"
)

// OrderHandler serves the order-detail view model and its price summary.
type OrderHandler struct {
	BaseHandler
	viewer *orderdetail.Viewer
	logger *zap.Logger
}

// NewOrderHandler creates an OrderHandler.
func NewOrderHandler(viewer *orderdetail.Viewer, logger *zap.Logger) *OrderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderHandler{viewer: viewer, logger: logger}
}

// RegisterRoutes registers the order routes.
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/orders/:id", h.GetOrder)
	rg.GET("/orders/:id/summary", h.GetSummary)
}

// GetOrder returns the fully assembled order view model.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	vm, err := h.viewer.Load(c.Request.Context(), sessionID(c), id)
	if err != nil {
		h.handleLoadError(c, err)
		return
	}
	h.Success(c, vm)
}

// GetSummary returns just the price summary block of an order.
func (h *OrderHandler) GetSummary(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	vm, err := h.viewer.Load(c.Request.Context(), sessionID(c), id)
	if err != nil {
		h.handleLoadError(c, err)
		return
	}
	h.Success(c, vm.Summary)
}

// sessionID identifies the client's navigation session. Without it loads
// are ungated: stale-response discarding and the not-found retry hint only
// apply within one session.
func sessionID(c *gin.Context) string {
	return c.GetHeader("X-Session-ID")
}

func (h *OrderHandler) orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.BadRequest(c, "Invalid order id")
		return 0, false
	}
	return id, true
}

// handleLoadError maps viewer failures onto HTTP responses. A missing order
// carries the last good order id so the client can fall back to it.
func (h *OrderHandler) handleLoadError(c *gin.Context, err error) {
	var notFound *orderdetail.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithDetails(
			dto.ErrCodeNotFound,
			notFound.Error(),
			getRequestID(c),
			gin.H{"retryOrderId": notFound.RetryOrderID},
		))
		return
	}
	handleUpstreamError(&h.BaseHandler, c, err)
}

// handleUpstreamError maps platform transport failures before falling back
// to the generic domain-error mapping.
func handleUpstreamError(h *BaseHandler, c *gin.Context, err error) {
	var upstream *platform.UpstreamError
	if errors.As(err, &upstream) {
		// Relay the platform's own detail text verbatim.
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeUpstreamRejected), dto.ErrCodeUpstreamRejected, upstream.Error())
		return
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstreamUnavailable, "Commerce platform is unavailable")
		return
	}
	h.HandleError(c, err)
}
