package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/b2bportal/backend/internal/application/reorder"
	"github.com/b2bportal/backend/internal/interfaces/http/dto"
)

// ReorderHandler serves the reorder and add-to-shopping-list submissions.
type ReorderHandler struct {
	BaseHandler
	reconciler *reorder.Reconciler
	logger     *zap.Logger
}

// NewReorderHandler creates a ReorderHandler.
func NewReorderHandler(reconciler *reorder.Reconciler, logger *zap.Logger) *ReorderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReorderHandler{reconciler: reconciler, logger: logger}
}

// RegisterRoutes registers the reorder routes.
func (h *ReorderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders/:id/reorder", h.Reorder)
	rg.POST("/orders/:id/shopping-list", h.AddToShoppingList)
}

// reorderRequest carries the dialog state: the editable items and the set of
// checked variant ids.
type reorderRequest struct {
	Items []reorder.EditableItem `json:"items" binding:"required"`
	// Selected may legitimately be empty; the reconciler reports that case
	// with its own message.
	Selected []int64 `json:"selected"`
}

// shoppingListRequest additionally names the target list.
type shoppingListRequest struct {
	reorderRequest
	ListID int64 `json:"listId" binding:"required,gt=0"`
}

func selectionSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// Reorder validates the selection against live inventory and relays it to
// the cart.
func (h *ReorderHandler) Reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid reorder payload")
		return
	}

	err := h.reconciler.SubmitReorder(c.Request.Context(), req.Items, selectionSet(req.Selected))
	if err != nil {
		h.handleSubmitError(c, req.Items, err)
		return
	}
	h.Success(c, gin.H{"items": req.Items})
}

// AddToShoppingList validates the selection and relays it to the target
// shopping list.
func (h *ReorderHandler) AddToShoppingList(c *gin.Context) {
	var req shoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid shopping list payload")
		return
	}

	err := h.reconciler.SubmitShoppingList(c.Request.Context(), req.ListID, req.Items, selectionSet(req.Selected))
	if err != nil {
		h.handleSubmitError(c, req.Items, err)
		return
	}
	h.Success(c, gin.H{"items": req.Items})
}

// handleSubmitError returns the items with their helper texts on validation
// failure so the client can render them inline.
func (h *ReorderHandler) handleSubmitError(c *gin.Context, items []reorder.EditableItem, err error) {
	var validation *reorder.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponseWithDetails(
			dto.ErrCodeValidation,
			validation.Error(),
			getRequestID(c),
			gin.H{"items": items, "issues": validation.Issues},
		))
		return
	}
	handleUpstreamError(&h.BaseHandler, c, err)
}
