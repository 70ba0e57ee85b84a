package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/b2bportal/backend/internal/application/reorder"
	"github.com/b2bportal/backend/internal/domain/order"
)

// VariantService fetches live inventory constraints from the catalog API.
type VariantService struct {
	client *Client
}

// NewVariantService creates a VariantService sharing the native client's
// transport.
func NewVariantService(c *NativeClient) *VariantService {
	return &VariantService{client: c.client}
}

// GetConstraints fetches the current constraints for the given SKUs. The
// upstream may omit SKUs it does not know; callers treat missing SKUs as
// unconstrained.
func (s *VariantService) GetConstraints(ctx context.Context, skus []string) ([]order.VariantConstraint, error) {
	if len(skus) == 0 {
		return nil, nil
	}
	query := url.Values{"sku:in": {strings.Join(skus, ",")}}

	var payload struct {
		Data json.RawMessage `json:"data"`
	}
	if err := s.client.Get(ctx, "/v3/catalog/variants", query, &payload); err != nil {
		return nil, err
	}
	constraints, err := decodeNodeList[order.VariantConstraint](payload.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize variant constraints: %w", err)
	}
	return constraints, nil
}

// CartService relays validated reorder payloads to the cart API.
type CartService struct {
	client *Client
}

// NewCartService creates a CartService sharing the native client's
// transport.
func NewCartService(c *NativeClient) *CartService {
	return &CartService{client: c.client}
}

// AddToCart submits the line items to the shopper's cart. Upstream
// rejections surface with the upstream's own detail text.
func (s *CartService) AddToCart(ctx context.Context, items []reorder.CartItem) error {
	body := struct {
		LineItems []reorder.CartItem `json:"lineItems"`
	}{LineItems: items}
	return s.client.Post(ctx, "/v2/carts/items", body, nil)
}

// ShoppingListService relays validated payloads to the shopping-list API.
type ShoppingListService struct {
	client *Client
}

// NewShoppingListService creates a ShoppingListService sharing the native
// client's transport.
func NewShoppingListService(c *NativeClient) *ShoppingListService {
	return &ShoppingListService{client: c.client}
}

// AddItems appends the line items to an existing shopping list.
func (s *ShoppingListService) AddItems(ctx context.Context, listID int64, items []reorder.ListItem) error {
	body := struct {
		Items []reorder.ListItem `json:"items"`
	}{Items: items}
	return s.client.Post(ctx, fmt.Sprintf("/v2/shopping-lists/%d/items", listID), body, nil)
}
