package reorder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b2bportal/backend/internal/domain/order"
	"github.com/b2bportal/backend/internal/domain/shared"
)

type fakeConstraintSource struct {
	constraints []order.VariantConstraint
	calls       int
}

func (f *fakeConstraintSource) GetConstraints(_ context.Context, _ []string) ([]order.VariantConstraint, error) {
	f.calls++
	return f.constraints, nil
}

type fakeCart struct {
	items []CartItem
	calls int
}

func (f *fakeCart) AddToCart(_ context.Context, items []CartItem) error {
	f.calls++
	f.items = items
	return nil
}

type fakeList struct {
	listID int64
	items  []ListItem
	calls  int
}

func (f *fakeList) AddItems(_ context.Context, listID int64, items []ListItem) error {
	f.calls++
	f.listID = listID
	f.items = items
	return nil
}

func editableFixture() []EditableItem {
	return NewEditableItems([]order.LineItem{
		{
			ID: 1, ProductID: 100, VariantID: 42, SKU: "WIDGET-L", Quantity: 4,
			ProductOptions: []order.ProductOption{
				{ID: 900, OptionID: 17, DisplayName: "Size", DisplayValue: "Large", Value: "large"},
			},
		},
		{ID: 2, ProductID: 101, VariantID: 7, SKU: "GADGET-S", Quantity: 2},
	})
}

func selectAll(items []EditableItem) map[int64]bool {
	sel := make(map[int64]bool, len(items))
	for _, item := range items {
		sel[item.VariantID] = true
	}
	return sel
}

func TestNewEditableItems_DefaultsToOrderedQuantity(t *testing.T) {
	items := editableFixture()
	assert.Equal(t, "4", items[0].EditQuantity)
	assert.Equal(t, "2", items[1].EditQuantity)
}

func TestNormalizeOnBlur_BlankBecomesOne(t *testing.T) {
	item := EditableItem{EditQuantity: "  "}
	item.NormalizeOnBlur()
	assert.Equal(t, "1", item.EditQuantity)

	item.EditQuantity = "3"
	item.NormalizeOnBlur()
	assert.Equal(t, "3", item.EditQuantity)
}

func TestAcceptQuantity(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		applied bool
		want    string
	}{
		{"empty is transiently allowed", "", true, ""},
		{"zero allowed", "0", true, "0"},
		{"within ordered quantity", "3", true, "3"},
		{"ordered quantity is the ceiling", "4", true, "4"},
		{"above ordered quantity rejected", "5", false, "4"},
		{"negative rejected", "-1", false, "4"},
		{"non-numeric rejected", "lots", false, "4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := EditableItem{LineItem: order.LineItem{Quantity: 4}, EditQuantity: "4"}
			assert.Equal(t, tt.applied, item.AcceptQuantity(tt.value))
			assert.Equal(t, tt.want, item.EditQuantity)
		})
	}
}

func TestValidate_ConstraintOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		constraint order.VariantConstraint
		edit       string
		helper     string
	}{
		{
			name:       "exceeds tracked stock",
			constraint: order.VariantConstraint{SKU: "WIDGET-L", Stock: 5, IsStock: true},
			edit:       "6",
			helper:     "Out of stock",
		},
		{
			name:       "below minimum",
			constraint: order.VariantConstraint{SKU: "WIDGET-L", MinQuantity: 3},
			edit:       "1",
			helper:     "Min Quantity 3",
		},
		{
			name:       "above maximum",
			constraint: order.VariantConstraint{SKU: "WIDGET-L", MaxQuantity: 10},
			edit:       "11",
			helper:     "Max Quantity 10",
		},
		{
			name:       "unbounded passes",
			constraint: order.VariantConstraint{SKU: "WIDGET-L"},
			edit:       "11",
			helper:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []EditableItem{{
				LineItem:     order.LineItem{VariantID: 42, SKU: "WIDGET-L", Quantity: 20},
				EditQuantity: tt.edit,
			}}

			err := Validate(items, map[int64]bool{42: true}, []order.VariantConstraint{tt.constraint})

			assert.Equal(t, tt.helper, items[0].HelperText)
			if tt.helper == "" {
				assert.NoError(t, err)
			} else {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				require.Len(t, verr.Issues, 1)
				assert.Equal(t, tt.helper, verr.Issues[0].HelperText)
			}
		})
	}
}

func TestValidate_SKUMatchIsCaseInsensitive(t *testing.T) {
	items := []EditableItem{{
		LineItem:     order.LineItem{VariantID: 42, SKU: "widget-l", Quantity: 20},
		EditQuantity: "1",
	}}
	constraints := []order.VariantConstraint{{SKU: "WIDGET-L", MinQuantity: 3}}

	err := Validate(items, map[int64]bool{42: true}, constraints)
	assert.Error(t, err)
	assert.Equal(t, "Min Quantity 3", items[0].HelperText)
}

func TestValidate_UnknownSKUIsSkipped(t *testing.T) {
	items := []EditableItem{{
		LineItem:     order.LineItem{VariantID: 42, SKU: "DISCONTINUED", Quantity: 5},
		EditQuantity: "3",
		HelperText:   "Out of stock",
	}}

	err := Validate(items, map[int64]bool{42: true}, nil)
	assert.NoError(t, err)
	assert.Empty(t, items[0].HelperText)
}

func TestValidate_UnselectedItemsAreIgnored(t *testing.T) {
	items := editableFixture()
	items[0].EditQuantity = "1"
	constraints := []order.VariantConstraint{{SKU: "WIDGET-L", MinQuantity: 3}}

	err := Validate(items, map[int64]bool{7: true}, constraints)
	assert.NoError(t, err)
	assert.Empty(t, items[0].HelperText)
}

func TestValidate_BlankQuantityNormalizesBeforeChecking(t *testing.T) {
	items := []EditableItem{{
		LineItem:     order.LineItem{VariantID: 42, SKU: "WIDGET-L", Quantity: 5},
		EditQuantity: "",
	}}
	constraints := []order.VariantConstraint{{SKU: "WIDGET-L", MinQuantity: 2}}

	err := Validate(items, map[int64]bool{42: true}, constraints)
	assert.Error(t, err)
	assert.Equal(t, "1", items[0].EditQuantity)
	assert.Equal(t, "Min Quantity 2", items[0].HelperText)
}

func TestSubmitReorder_EmptySelection(t *testing.T) {
	source := &fakeConstraintSource{}
	cart := &fakeCart{}
	r := NewReconciler(source, cart, &fakeList{}, nil)

	err := r.SubmitReorder(context.Background(), editableFixture(), nil)

	assert.ErrorIs(t, err, shared.ErrNoItemsSelected)
	assert.Zero(t, source.calls)
	assert.Zero(t, cart.calls)
}

func TestSubmitReorder_ValidationFailureBlocksSubmission(t *testing.T) {
	source := &fakeConstraintSource{constraints: []order.VariantConstraint{
		{SKU: "WIDGET-L", Stock: 2, IsStock: true},
	}}
	cart := &fakeCart{}
	r := NewReconciler(source, cart, &fakeList{}, nil)

	items := editableFixture()
	err := r.SubmitReorder(context.Background(), items, selectAll(items))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Out of stock", items[0].HelperText)
	assert.Zero(t, cart.calls)
}

func TestSubmitReorder_RelaysPayload(t *testing.T) {
	source := &fakeConstraintSource{}
	cart := &fakeCart{}
	r := NewReconciler(source, cart, &fakeList{}, nil)

	items := editableFixture()
	items[0].EditQuantity = "3"
	err := r.SubmitReorder(context.Background(), items, map[int64]bool{42: true})

	require.NoError(t, err)
	require.Len(t, cart.items, 1)
	assert.Equal(t, CartItem{
		Quantity:  3,
		ProductID: 100,
		VariantID: 42,
		Options:   []OptionSelection{{OptionID: 17, OptionValue: "large"}},
	}, cart.items[0])
}

func TestSubmitShoppingList_RelaysAttributeOptions(t *testing.T) {
	list := &fakeList{}
	r := NewReconciler(&fakeConstraintSource{}, &fakeCart{}, list, nil)

	items := editableFixture()
	err := r.SubmitShoppingList(context.Background(), 77, items, selectAll(items))

	require.NoError(t, err)
	assert.Equal(t, int64(77), list.listID)
	require.Len(t, list.items, 2)
	assert.Equal(t, []ListOption{{OptionID: "attribute[17]", OptionValue: "large"}}, list.items[0].Options)
	assert.Empty(t, list.items[1].Options)
}

func TestBuildCartPayload_BlankQuantitySubmitsAsOne(t *testing.T) {
	items := editableFixture()
	items[1].EditQuantity = ""

	payload := BuildCartPayload(items, selectAll(items))
	require.Len(t, payload, 2)
	assert.Equal(t, 1, payload[1].Quantity)
}
