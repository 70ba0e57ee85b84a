package orderdetail

import (
	"fmt"

	"github.com/b2bportal/backend/internal/domain/order"
)

// Semantic symbols tagging summary rows for rendering rules (bold the grand
// total, render discounts and coupons as negative).
const (
	SymbolSubTotal       = "subTotal"
	SymbolShipping       = "shipping"
	SymbolHandlingFee    = "handingFee"
	SymbolDiscountAmount = "discountAmount"
	SymbolCoupon         = "coupon"
	SymbolTax            = "tax"
	SymbolGrandTotal     = "grandTotal"
)

// SummaryRow is one labeled entry of the price breakdown. Rows are keyed by
// position, not by label, so two coupons rendering to the same label never
// collide.
type SummaryRow struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
	Symbol string `json:"symbol"`
}

// Summary is the ordered price breakdown of an order. Row order is fixed:
// subtotal, shipping, handling, discount, coupons (input order), tax, grand
// total - regardless of which values are zero or absent.
type Summary struct {
	CreatedAt string       `json:"createAt"`
	Name      string       `json:"name"`
	Rows      []SummaryRow `json:"rows"`
}

// BuildSummary computes the labeled price breakdown for an order.
// showInclusiveTax selects the tax-inclusive figures for subtotal and
// shipping; handling and grand total prefer the inclusive figure and fall
// back to the exclusive one. Every amount passes through the order's
// currency formatter.
func BuildSummary(o *order.RawOrder, showInclusiveTax bool, translate Translator) Summary {
	if translate == nil {
		translate = DefaultTranslator()
	}
	money := o.Money

	subtotal := o.SubtotalExTax
	shipping := o.ShippingCostExTax
	if showInclusiveTax {
		subtotal = o.SubtotalIncTax
		shipping = o.ShippingCostIncTax
	}
	handling := o.HandlingCostIncTax
	if handling == "" {
		handling = o.HandlingCostExTax
	}
	grandTotal := o.TotalIncTax
	if grandTotal == "" {
		grandTotal = o.TotalExTax
	}

	rows := make([]SummaryRow, 0, 6+len(o.Coupons))
	rows = append(rows,
		SummaryRow{Label: translate(SymbolSubTotal), Amount: money.Format(subtotal), Symbol: SymbolSubTotal},
		SummaryRow{Label: translate(SymbolShipping), Amount: money.Format(shipping), Symbol: SymbolShipping},
		SummaryRow{Label: translate(SymbolHandlingFee), Amount: money.Format(handling), Symbol: SymbolHandlingFee},
		SummaryRow{Label: translate(SymbolDiscountAmount), Amount: money.Format(o.DiscountAmount), Symbol: SymbolDiscountAmount},
	)
	for _, c := range o.Coupons {
		rows = append(rows, SummaryRow{
			Label:  fmt.Sprintf("%s (%s)", translate(SymbolCoupon), c.Code),
			Amount: money.Format(c.Discount),
			Symbol: SymbolCoupon,
		})
	}
	rows = append(rows,
		SummaryRow{Label: translate(SymbolTax), Amount: money.Format(o.TotalTax), Symbol: SymbolTax},
		SummaryRow{Label: translate(SymbolGrandTotal), Amount: money.Format(grandTotal), Symbol: SymbolGrandTotal},
	)

	return Summary{
		CreatedAt: o.DateCreated,
		Name:      fmt.Sprintf("%s %s", o.FirstName, o.LastName),
		Rows:      rows,
	}
}
