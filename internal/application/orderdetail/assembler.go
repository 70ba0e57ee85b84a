package orderdetail

import (
	"strconv"
	"time"

	"github.com/b2bportal/backend/internal/domain/order"
)

// PaymentInfo is the payment block of the order view model.
type PaymentInfo struct {
	UpdatedAt      string        `json:"updatedAt"`
	BillingAddress order.Address `json:"billingAddress"`
	PaymentMethod  string        `json:"paymentMethod"`
	// DateCreateAt is the order creation time as an epoch-seconds string.
	DateCreateAt string `json:"dateCreateAt"`
}

// OrderViewModel is the normalized order state consumed by rendering and by
// the reorder reconciler. It is rebuilt in full from the raw order on every
// fetch, never patched incrementally.
type OrderViewModel struct {
	ID              int64                `json:"id"`
	PONumber        string               `json:"poNumber"`
	Status          string               `json:"status"`
	StatusCode      int                  `json:"statusCode"`
	CustomStatus    string               `json:"customStatus"`
	CurrencyCode    string               `json:"currencyCode"`
	Money           order.CurrencyFormat `json:"money"`
	Products        []order.LineItem     `json:"products"`
	Shippings       []ShippingGroup      `json:"shippings"`
	Billings        []BillingGroup       `json:"billings"`
	History         []order.HistoryEvent `json:"history"`
	Summary         Summary              `json:"orderSummary"`
	Payment         PaymentInfo          `json:"payment"`
	IPStatus        int                  `json:"ipStatus"`
	InvoiceID       int64                `json:"invoiceId"`
	CanReturn       bool                 `json:"canReturn"`
	CustomerMessage string               `json:"customerMessage"`
	CreatedEmail    string               `json:"createdEmail"`
	OrderIsDigital  bool                 `json:"orderIsDigital"`
	CompanyInfo     order.CompanyInfo    `json:"companyInfo"`
}

// Assembler converts raw orders into view models. showInclusiveTax is the
// store-level tax display policy applied to the price summary.
type Assembler struct {
	translate        Translator
	showInclusiveTax bool
}

// NewAssembler creates an Assembler. A nil translator uses the built-in
// English labels.
func NewAssembler(translate Translator, showInclusiveTax bool) *Assembler {
	if translate == nil {
		translate = DefaultTranslator()
	}
	return &Assembler{translate: translate, showInclusiveTax: showInclusiveTax}
}

// Assemble builds the normalized view model from a raw order. Digital-only
// orders route their products through the billing aggregator; physical
// orders are partitioned by shipping address.
func (a *Assembler) Assemble(o *order.RawOrder) *OrderViewModel {
	// Dedupe first so downstream partitions see the merged quantities.
	merged, aliases := mergeByVariant(o.Products)

	var shippings []ShippingGroup
	var billings []BillingGroup
	if o.OrderIsDigital {
		shippings = make([]ShippingGroup, 0)
		billings = AggregateBilling(o)
	} else {
		shippings = AggregateShipments(merged, o.Shipments, o.ShippingAddress, aliases)
		billings = make([]BillingGroup, 0)
	}

	history := o.HistoryEvents
	if history == nil {
		history = make([]order.HistoryEvent, 0)
	}

	return &OrderViewModel{
		ID:           o.ID,
		PONumber:     o.PONumber,
		Status:       o.Status,
		StatusCode:   o.StatusID,
		CustomStatus: o.CustomStatus,
		CurrencyCode: o.CurrencyCode,
		Money:        o.Money,
		Products:     order.ComputeUnshipped(merged),
		Shippings:    shippings,
		Billings:     billings,
		History:      history,
		Summary:      BuildSummary(o, a.showInclusiveTax, a.translate),
		Payment: PaymentInfo{
			UpdatedAt:      o.UpdatedAt,
			BillingAddress: o.BillingAddress,
			PaymentMethod:  o.PaymentMethod,
			DateCreateAt:   epochSecondsString(o.DateCreated),
		},
		IPStatus:        o.IPStatus.Int(),
		InvoiceID:       int64(o.InvoiceID.Int()),
		CanReturn:       o.CanReturn,
		CustomerMessage: o.CustomerMessage,
		CreatedEmail:    o.CreatedEmail,
		OrderIsDigital:  o.OrderIsDigital,
		CompanyInfo:     o.CompanyInfo,
	}
}

// mergeByVariant dedupes line items sharing a variant id. The first
// occurrence keeps all of its fields and absorbs the later occurrences'
// quantities; first-seen order is preserved. The returned aliases map each
// folded-away line id to the surviving line's id so shipment records that
// reference a merged duplicate still resolve.
func mergeByVariant(items []order.LineItem) ([]order.LineItem, map[int64]int64) {
	out := make([]order.LineItem, 0, len(items))
	index := make(map[int64]int, len(items))
	aliases := make(map[int64]int64)
	for _, li := range items {
		if i, ok := index[li.VariantID]; ok {
			out[i].Quantity += li.Quantity
			aliases[li.ID] = out[i].ID
			continue
		}
		index[li.VariantID] = len(out)
		out = append(out, li)
	}
	return out, aliases
}

// orderTimeLayouts are the timestamp formats the upstream is known to emit.
var orderTimeLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
}

// epochSecondsString converts an upstream timestamp to an epoch-seconds
// string, "0" when unparsable.
func epochSecondsString(ts string) string {
	for _, layout := range orderTimeLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return strconv.FormatInt(t.Unix(), 10)
		}
	}
	return "0"
}
