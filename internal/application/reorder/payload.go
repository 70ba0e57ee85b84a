package reorder

import "fmt"

// CartItem is one line of an add-to-cart request.
type CartItem struct {
	Quantity  int               `json:"quantity"`
	ProductID int64             `json:"productId"`
	VariantID int64             `json:"variantId"`
	Options   []OptionSelection `json:"optionSelections"`
}

// OptionSelection is a chosen product option carried into the cart.
type OptionSelection struct {
	OptionID    int64  `json:"optionId"`
	OptionValue string `json:"optionValue"`
}

// ListItem is one line of a shopping-list request.
type ListItem struct {
	Quantity  int          `json:"quantity"`
	ProductID int64        `json:"productId"`
	VariantID int64        `json:"variantId"`
	Options   []ListOption `json:"optionList"`
}

// ListOption is a chosen product option in the attribute form the
// shopping-list service expects.
type ListOption struct {
	OptionID    string `json:"optionId"`
	OptionValue string `json:"optionValue"`
}

// BuildCartPayload maps the selected items into the cart request shape.
// Quantities are normalized first, so a blank edit submits as 1.
func BuildCartPayload(items []EditableItem, selected map[int64]bool) []CartItem {
	out := make([]CartItem, 0, len(items))
	for i := range items {
		item := &items[i]
		if !selected[item.VariantID] {
			continue
		}
		item.NormalizeOnBlur()

		options := make([]OptionSelection, 0, len(item.ProductOptions))
		for _, opt := range item.ProductOptions {
			options = append(options, OptionSelection{
				OptionID:    opt.OptionID,
				OptionValue: opt.Value,
			})
		}
		out = append(out, CartItem{
			Quantity:  item.quantity(),
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Options:   options,
		})
	}
	return out
}

// BuildShoppingListPayload maps the selected items into the shopping-list
// request shape. Option ids are keyed as attribute[<id>].
func BuildShoppingListPayload(items []EditableItem, selected map[int64]bool) []ListItem {
	out := make([]ListItem, 0, len(items))
	for i := range items {
		item := &items[i]
		if !selected[item.VariantID] {
			continue
		}
		item.NormalizeOnBlur()

		options := make([]ListOption, 0, len(item.ProductOptions))
		for _, opt := range item.ProductOptions {
			options = append(options, ListOption{
				OptionID:    fmt.Sprintf("attribute[%d]", opt.OptionID),
				OptionValue: opt.Value,
			})
		}
		out = append(out, ListItem{
			Quantity:  item.quantity(),
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Options:   options,
		})
	}
	return out
}
