package reorder

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/b2bportal/backend/internal/domain/order"
	"github.com/b2bportal/backend/internal/domain/shared"
)

// Helper texts surfaced inline per line item. Wording is fixed; the UI
// renders these verbatim.
const (
	helperOutOfStock  = "Out of stock"
	helperMinQuantity = "Min Quantity %d"
	helperMaxQuantity = "Max Quantity %d"
)

// EditableItem is a line item with a user-mutable quantity for reorder and
// shopping-list flows. It exists only while a dialog is open and is never
// persisted.
type EditableItem struct {
	order.LineItem
	// EditQuantity is kept as a string so the field may be transiently
	// empty while the user types.
	EditQuantity string `json:"editQuantity"`
	HelperText   string `json:"helperText,omitempty"`
}

// NewEditableItems derives editable items from an order's line items,
// defaulting each edit quantity to the ordered quantity.
func NewEditableItems(items []order.LineItem) []EditableItem {
	out := make([]EditableItem, len(items))
	for i, li := range items {
		out[i] = EditableItem{LineItem: li, EditQuantity: strconv.Itoa(li.Quantity)}
	}
	return out
}

// NormalizeOnBlur replaces a blank quantity with "1". An empty quantity is
// allowed while typing but never persisted.
func (e *EditableItem) NormalizeOnBlur() {
	if strings.TrimSpace(e.EditQuantity) == "" {
		e.EditQuantity = "1"
	}
}

// AcceptQuantity applies a quantity edit if it is acceptable: empty
// (transient) or an integer within [0, ordered quantity]. A user may not
// request more than was originally ordered. Returns whether the edit was
// applied; rejected edits leave the state unchanged.
func (e *EditableItem) AcceptQuantity(value string) bool {
	if strings.TrimSpace(value) == "" {
		e.EditQuantity = value
		return true
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 || n > e.Quantity {
		return false
	}
	e.EditQuantity = value
	return true
}

// quantity returns the effective numeric quantity of the item.
func (e *EditableItem) quantity() int {
	n, err := strconv.Atoi(strings.TrimSpace(e.EditQuantity))
	if err != nil {
		return 0
	}
	return n
}

// ValidationError aggregates the helper texts of all rejected line items.
// Submission is blocked as a whole; nothing is sent upstream.
type ValidationError struct {
	Issues []ItemIssue
}

// ItemIssue is one rejected line item with its helper text.
type ItemIssue struct {
	VariantID  int64  `json:"variantId"`
	SKU        string `json:"sku"`
	HelperText string `json:"helperText"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d item(s) failed quantity validation", len(e.Issues))
}

// Validate checks every selected item's quantity against its variant
// constraint, matched case-insensitively by SKU. Items without a matching
// constraint are treated as valid. Helper texts are set (or cleared) on the
// items; the returned error is nil when all selected items pass.
func Validate(items []EditableItem, selected map[int64]bool, constraints []order.VariantConstraint) error {
	bySKU := make(map[string]order.VariantConstraint, len(constraints))
	for _, c := range constraints {
		bySKU[strings.ToLower(c.SKU)] = c
	}

	var issues []ItemIssue
	for i := range items {
		item := &items[i]
		if !selected[item.VariantID] {
			continue
		}
		item.NormalizeOnBlur()

		c, ok := bySKU[strings.ToLower(item.SKU)]
		if !ok {
			item.HelperText = ""
			continue
		}

		qty := item.quantity()
		switch {
		case c.IsStock && qty > c.Stock:
			item.HelperText = helperOutOfStock
		case c.MinQuantity != 0 && qty < c.MinQuantity:
			item.HelperText = fmt.Sprintf(helperMinQuantity, c.MinQuantity)
		case c.MaxQuantity != 0 && qty > c.MaxQuantity:
			item.HelperText = fmt.Sprintf(helperMaxQuantity, c.MaxQuantity)
		default:
			item.HelperText = ""
		}

		if item.HelperText != "" {
			issues = append(issues, ItemIssue{
				VariantID:  item.VariantID,
				SKU:        item.SKU,
				HelperText: item.HelperText,
			})
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// ConstraintSource fetches live variant constraints for a SKU list.
type ConstraintSource interface {
	GetConstraints(ctx context.Context, skus []string) ([]order.VariantConstraint, error)
}

// CartSubmitter relays a validated reorder payload to the cart service.
type CartSubmitter interface {
	AddToCart(ctx context.Context, items []CartItem) error
}

// ListSubmitter relays a validated payload to the shopping-list service.
type ListSubmitter interface {
	AddItems(ctx context.Context, listID int64, items []ListItem) error
}

// Reconciler validates checked line-item subsets against live inventory and
// relays the normalized payload to cart or shopping-list submission.
type Reconciler struct {
	constraints ConstraintSource
	cart        CartSubmitter
	lists       ListSubmitter
	logger      *zap.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler(constraints ConstraintSource, cart CartSubmitter, lists ListSubmitter, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{constraints: constraints, cart: cart, lists: lists, logger: logger}
}

// SubmitReorder validates the selection and relays it to the cart service.
// Validation failure or an empty selection aborts without any upstream
// call; items carry their helper texts back to the caller.
func (r *Reconciler) SubmitReorder(ctx context.Context, items []EditableItem, selected map[int64]bool) error {
	if err := r.validateSelection(ctx, items, selected); err != nil {
		return err
	}
	payload := BuildCartPayload(items, selected)
	if err := r.cart.AddToCart(ctx, payload); err != nil {
		return err
	}
	r.logger.Info("Reorder submitted", zap.Int("items", len(payload)))
	return nil
}

// SubmitShoppingList validates the selection and relays it to the
// shopping-list service.
func (r *Reconciler) SubmitShoppingList(ctx context.Context, listID int64, items []EditableItem, selected map[int64]bool) error {
	if err := r.validateSelection(ctx, items, selected); err != nil {
		return err
	}
	payload := BuildShoppingListPayload(items, selected)
	if err := r.lists.AddItems(ctx, listID, payload); err != nil {
		return err
	}
	r.logger.Info("Shopping list items submitted",
		zap.Int64("list_id", listID),
		zap.Int("items", len(payload)),
	)
	return nil
}

func (r *Reconciler) validateSelection(ctx context.Context, items []EditableItem, selected map[int64]bool) error {
	if countSelected(items, selected) == 0 {
		return shared.ErrNoItemsSelected
	}

	constraints, err := r.constraints.GetConstraints(ctx, selectedSKUs(items, selected))
	if err != nil {
		return err
	}
	return Validate(items, selected, constraints)
}

func countSelected(items []EditableItem, selected map[int64]bool) int {
	n := 0
	for _, item := range items {
		if selected[item.VariantID] {
			n++
		}
	}
	return n
}

func selectedSKUs(items []EditableItem, selected map[int64]bool) []string {
	skus := make([]string, 0, len(items))
	for _, item := range items {
		if selected[item.VariantID] {
			skus = append(skus, item.SKU)
		}
	}
	return skus
}
