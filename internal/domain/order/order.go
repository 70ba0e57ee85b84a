package order

import (
	"encoding/json"
	"math"
	"strconv"
)

// RawOrder is the order record as returned by the upstream order-detail
// service, after boundary normalization. It is immutable once fetched; the
// view-model assembler derives everything else from it without mutating it.
//
// Order-level fields use the camelCase names of the upstream payload while
// line items and shipments keep the snake_case names of the platform's v2
// order resources. The mixed casing is the upstream's, not ours.
type RawOrder struct {
	ID              int64            `json:"id"`
	PONumber        string           `json:"poNumber"`
	Status          string           `json:"status"`
	StatusID        int              `json:"statusId"`
	CustomStatus    string           `json:"customStatus"`
	CurrencyCode    string           `json:"currencyCode"`
	Money           CurrencyFormat   `json:"money"`
	DateCreated     string           `json:"dateCreated"`
	UpdatedAt       string           `json:"updatedAt"`
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	BillingAddress  Address          `json:"billingAddress"`
	ShippingAddress []Address        `json:"shippingAddress"`
	Shipments       []ShipmentRecord `json:"shipments"`
	Products        []LineItem       `json:"products"`
	Coupons         []Coupon         `json:"coupons"`
	DiscountAmount  string           `json:"discountAmount"`
	TotalTax        string           `json:"totalTax"`
	SubtotalExTax   string           `json:"subtotalExTax"`
	SubtotalIncTax  string           `json:"subtotalIncTax"`
	ShippingCostExTax  string        `json:"shippingCostExTax"`
	ShippingCostIncTax string        `json:"shippingCostIncTax"`
	HandlingCostExTax  string        `json:"handlingCostExTax"`
	HandlingCostIncTax string        `json:"handlingCostIncTax"`
	TotalExTax      string           `json:"totalExTax"`
	TotalIncTax     string           `json:"totalIncTax"`
	PaymentMethod   string           `json:"paymentMethod"`
	HistoryEvents   []HistoryEvent   `json:"orderHistoryEvent"`
	OrderIsDigital  bool             `json:"orderIsDigital"`
	CustomerMessage string           `json:"customerMessage"`
	IPStatus        FlexNumber       `json:"ipStatus"`
	InvoiceID       FlexNumber       `json:"invoiceId"`
	CanReturn       bool             `json:"canReturn"`
	CreatedEmail    string           `json:"createdEmail"`
	CompanyInfo     CompanyInfo      `json:"companyInfo"`
}

// FlexNumber is a scalar the upstream emits inconsistently as either a JSON
// number or a numeric string. The raw text is preserved; Int applies the
// zero-default coercion.
type FlexNumber string

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*n = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return err
		}
		s = unquoted
	}
	*n = FlexNumber(s)
	return nil
}

// Int returns the numeric value, 0 for blank, malformed, or non-finite
// input.
func (n FlexNumber) Int() int {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// LineItem is one purchased product line on an order. Ordered and shipped
// quantities are tracked separately; NotShippingNumber is derived, never
// supplied by the upstream.
type LineItem struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"product_id"`
	VariantID       int64           `json:"variant_id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	QuantityShipped int             `json:"quantity_shipped"`
	OrderAddressID  int64           `json:"order_address_id"`
	BasePrice       string          `json:"base_price"`
	PriceExTax      string          `json:"price_ex_tax"`
	ProductOptions  []ProductOption `json:"product_options"`

	// Derived: Quantity - QuantityShipped, set by WithUnshipped.
	NotShippingNumber int `json:"not_shipping_number"`
	// Derived: quantity covered by the shipment this item appears under.
	CurrentQuantityShipped int `json:"current_quantity_shipped,omitempty"`
}

// WithUnshipped returns a copy with NotShippingNumber computed.
func (li LineItem) WithUnshipped() LineItem {
	li.NotShippingNumber = li.Quantity - li.QuantityShipped
	return li
}

// ComputeUnshipped returns a copy of items with NotShippingNumber computed
// for every line item in a single pass. Callers treat the result as
// immutable; derivations copy, they never mutate in place.
func ComputeUnshipped(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, li := range items {
		out[i] = li.WithUnshipped()
	}
	return out
}

// ProductOption is a selected option on a line item (size, color, ...).
type ProductOption struct {
	ID           int64  `json:"id"`
	OptionID     int64  `json:"option_id"`
	DisplayName  string `json:"display_name"`
	DisplayValue string `json:"display_value"`
	Value        string `json:"value"`
}

// ShipmentRecord is one fulfillment event covering a subset of line items
// destined for one address.
type ShipmentRecord struct {
	ID                    int64          `json:"id"`
	DateCreated           string         `json:"date_created"`
	ShippingMethod        string         `json:"shipping_method"`
	ShippingProvider      string         `json:"shipping_provider"`
	OrderAddressID        int64          `json:"order_address_id"`
	TrackingNumber        string         `json:"tracking_number"`
	TrackingLink          string         `json:"tracking_link"`
	GeneratedTrackingLink string         `json:"generated_tracking_link"`
	Items                 []ShipmentItem `json:"items"`
}

// ShipmentItem references exactly one line item by order_product_id.
type ShipmentItem struct {
	OrderProductID int64 `json:"order_product_id"`
	Quantity       int   `json:"quantity"`
}

// Address is a billing or shipping address on an order.
type Address struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Street1   string `json:"street_1"`
	Street2   string `json:"street_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// Coupon is a coupon applied to an order.
type Coupon struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Discount string `json:"discount"`
}

// HistoryEvent is one entry of the order's event timeline.
type HistoryEvent struct {
	ID          int64  `json:"id"`
	EventType   int    `json:"eventType"`
	Status      string `json:"status"`
	ExtraFields string `json:"extraFields"`
	Notes       string `json:"notes"`
	CreatedAt   string `json:"createdAt"`
}

// CompanyInfo identifies the buyer company an order belongs to.
type CompanyInfo struct {
	CompanyID   string `json:"companyId"`
	CompanyName string `json:"companyName"`
}

// VariantConstraint carries the live inventory bounds for one variant SKU,
// fetched per reconciliation. Zero min/max means unbounded.
type VariantConstraint struct {
	SKU         string `json:"sku"`
	MinQuantity int    `json:"minQuantity"`
	MaxQuantity int    `json:"maxQuantity"`
	Stock       int    `json:"stock"`
	IsStock     bool   `json:"isStock"`
}
