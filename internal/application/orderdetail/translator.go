package orderdetail

// Translator resolves a label key to its localized display string. It must
// return the key itself when no translation exists so callers can detect
// identity translations and apply their own fallbacks.
type Translator func(key string) string

var defaultLabels = map[string]string{
	"subTotal":       "Subtotal",
	"shipping":       "Shipping",
	"handingFee":     "Handling Fee",
	"discountAmount": "Discount Amount",
	"coupon":         "Coupon",
	"tax":            "Tax",
	"grandTotal":     "Grand Total",
}

// DefaultTranslator returns the built-in English label set.
func DefaultTranslator() Translator {
	return func(key string) string {
		if label, ok := defaultLabels[key]; ok {
			return label
		}
		return key
	}
}
