package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/b2bportal/backend/internal/domain/order"
	"github.com/b2bportal/backend/internal/domain/shared"
)

// NativeClient fetches orders from the storefront's native order API.
type NativeClient struct {
	client *Client
	logger *zap.Logger
}

// NewNativeClient creates a NativeClient for the given platform config.
func NewNativeClient(cfg Config, authToken string, logger *zap.Logger) (*NativeClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := NewClient("platform-native", cfg, logger)
	if err != nil {
		return nil, err
	}
	if authToken != "" {
		client.WithAuthorization(func(_ context.Context, req *http.Request) error {
			req.Header.Set("X-Auth-Token", authToken)
			return nil
		})
	}
	return &NativeClient{client: client, logger: logger}, nil
}

// orderPayload shadows the union-bearing lists of the upstream order record
// so they can be normalized before the rest of the pipeline sees them.
type orderPayload struct {
	order.RawOrder
	Products        json.RawMessage `json:"products"`
	Shipments       json.RawMessage `json:"shipments"`
	ShippingAddress json.RawMessage `json:"shippingAddress"`
	Coupons         json.RawMessage `json:"coupons"`
}

func (p *orderPayload) normalize() (*order.RawOrder, error) {
	o := p.RawOrder

	var err error
	if o.Products, err = decodeNodeList[order.LineItem](p.Products); err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}
	if o.Shipments, err = decodeNodeList[order.ShipmentRecord](p.Shipments); err != nil {
		return nil, fmt.Errorf("shipments: %w", err)
	}
	if o.ShippingAddress, err = decodeNodeList[order.Address](p.ShippingAddress); err != nil {
		return nil, fmt.Errorf("shipping addresses: %w", err)
	}
	if o.Coupons, err = decodeNodeList[order.Coupon](p.Coupons); err != nil {
		return nil, fmt.Errorf("coupons: %w", err)
	}
	return &o, nil
}

// GetOrder fetches one order by id, normalized at the boundary. A missing
// order maps to shared.ErrOrderDoesNotExist regardless of how the upstream
// phrases it.
func (c *NativeClient) GetOrder(ctx context.Context, id int64) (*order.RawOrder, error) {
	var payload orderPayload
	if err := c.client.Get(ctx, fmt.Sprintf("/v2/orders/%d", id), nil, &payload); err != nil {
		if isOrderNotFound(err) {
			return nil, shared.ErrOrderDoesNotExist
		}
		return nil, err
	}
	o, err := payload.normalize()
	if err != nil {
		return nil, fmt.Errorf("failed to normalize order %d: %w", id, err)
	}
	return o, nil
}

// isOrderNotFound recognizes the upstream's missing-order responses: a 404,
// or a rejection whose detail says the order does not exist.
func isOrderNotFound(err error) bool {
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		return false
	}
	if upstream.HTTPStatus == http.StatusNotFound {
		return true
	}
	return strings.Contains(strings.ToLower(upstream.Detail), "order does not exist")
}

// StatusService lists the store's order status definitions.
type StatusService struct {
	client *Client
}

// NewStatusService creates a StatusService sharing the native client's
// transport.
func NewStatusService(c *NativeClient) *StatusService {
	return &StatusService{client: c.client}
}

// ListStatuses fetches the status definitions, normalized at the boundary.
func (s *StatusService) ListStatuses(ctx context.Context) ([]order.StatusDefinition, error) {
	var payload json.RawMessage
	if err := s.client.Get(ctx, "/v2/order_statuses", nil, &payload); err != nil {
		return nil, err
	}
	defs, err := decodeNodeList[order.StatusDefinition](payload)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize statuses: %w", err)
	}
	return defs, nil
}
