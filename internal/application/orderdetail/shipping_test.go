package orderdetail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b2bportal/backend/internal/domain/order"
)

func testAddresses() []order.Address {
	return []order.Address{
		{ID: 10, City: "Berlin"},
		{ID: 20, City: "Hamburg"},
	}
}

func TestAggregateShipments_PartitionsByAddress(t *testing.T) {
	products := []order.LineItem{
		{ID: 1, VariantID: 100, SKU: "A-1", Quantity: 5, QuantityShipped: 2, OrderAddressID: 10},
		{ID: 2, VariantID: 200, SKU: "B-1", Quantity: 3, QuantityShipped: 3, OrderAddressID: 10},
		{ID: 3, VariantID: 300, SKU: "C-1", Quantity: 2, QuantityShipped: 0, OrderAddressID: 20},
	}
	shipments := []order.ShipmentRecord{
		{ID: 900, OrderAddressID: 10, Items: []order.ShipmentItem{
			{OrderProductID: 1, Quantity: 2},
			{OrderProductID: 2, Quantity: 3},
		}},
	}

	groups := AggregateShipments(products, shipments, testAddresses(), nil)
	require.Len(t, groups, 2)

	berlin := groups[0]
	assert.Equal(t, int64(10), berlin.ID)
	require.Len(t, berlin.Shipments, 1)
	require.Len(t, berlin.Shipments[0].ItemsInfo, 2)
	assert.Equal(t, 2, berlin.Shipments[0].ItemsInfo[0].CurrentQuantityShipped)
	assert.Equal(t, 3, berlin.Shipments[0].ItemsInfo[0].NotShippingNumber)
	assert.Equal(t, 0, berlin.Shipments[0].ItemsInfo[1].NotShippingNumber)

	// Only the partially shipped line is outstanding at Berlin.
	require.Len(t, berlin.NotShip.ItemsInfo, 1)
	assert.Equal(t, int64(1), berlin.NotShip.ItemsInfo[0].ID)

	hamburg := groups[1]
	assert.Empty(t, hamburg.Shipments)
	require.Len(t, hamburg.NotShip.ItemsInfo, 1)
	assert.Equal(t, int64(3), hamburg.NotShip.ItemsInfo[0].ID)
	assert.Equal(t, 2, hamburg.NotShip.ItemsInfo[0].NotShippingNumber)
}

// Every line item with outstanding quantity lands in exactly one address
// group; fully shipped items land in none.
func TestAggregateShipments_PartitionCompleteness(t *testing.T) {
	products := []order.LineItem{
		{ID: 1, Quantity: 4, QuantityShipped: 1, OrderAddressID: 10},
		{ID: 2, Quantity: 2, QuantityShipped: 2, OrderAddressID: 10},
		{ID: 3, Quantity: 6, QuantityShipped: 0, OrderAddressID: 20},
		{ID: 4, Quantity: 1, QuantityShipped: 1, OrderAddressID: 20},
	}

	groups := AggregateShipments(products, nil, testAddresses(), nil)

	seen := make(map[int64]int)
	for _, g := range groups {
		for _, li := range g.NotShip.ItemsInfo {
			seen[li.ID]++
		}
	}
	assert.Equal(t, map[int64]int{1: 1, 3: 1}, seen)
}

func TestAggregateShipments_DropsUnmatchedShipmentItems(t *testing.T) {
	products := []order.LineItem{
		{ID: 1, Quantity: 1, QuantityShipped: 1, OrderAddressID: 10},
	}
	shipments := []order.ShipmentRecord{
		{ID: 900, OrderAddressID: 10, Items: []order.ShipmentItem{
			{OrderProductID: 1, Quantity: 1},
			{OrderProductID: 999, Quantity: 4}, // references no known line
		}},
	}

	groups := AggregateShipments(products, shipments, testAddresses()[:1], nil)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Shipments, 1)
	assert.Len(t, groups[0].Shipments[0].ItemsInfo, 1)
}

func TestAggregateShipments_ResolvesAliasedLineIDs(t *testing.T) {
	products := []order.LineItem{
		{ID: 1, VariantID: 42, Quantity: 5, QuantityShipped: 2, OrderAddressID: 10},
	}
	shipments := []order.ShipmentRecord{
		{ID: 900, OrderAddressID: 10, Items: []order.ShipmentItem{
			// References a line that was folded into line 1.
			{OrderProductID: 2, Quantity: 2},
		}},
	}

	groups := AggregateShipments(products, shipments, testAddresses()[:1], map[int64]int64{2: 1})
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Shipments[0].ItemsInfo, 1)
	assert.Equal(t, int64(1), groups[0].Shipments[0].ItemsInfo[0].ID)
	assert.Equal(t, 2, groups[0].Shipments[0].ItemsInfo[0].CurrentQuantityShipped)
}

func TestAggregateShipments_PreservesShipmentOrder(t *testing.T) {
	products := []order.LineItem{
		{ID: 1, Quantity: 2, QuantityShipped: 2, OrderAddressID: 10},
	}
	shipments := []order.ShipmentRecord{
		{ID: 901, OrderAddressID: 10},
		{ID: 902, OrderAddressID: 20},
		{ID: 903, OrderAddressID: 10},
	}

	groups := AggregateShipments(products, shipments, testAddresses(), nil)
	require.Len(t, groups[0].Shipments, 2)
	assert.Equal(t, int64(901), groups[0].Shipments[0].ID)
	assert.Equal(t, int64(903), groups[0].Shipments[1].ID)
	require.Len(t, groups[1].Shipments, 1)
	assert.Equal(t, int64(902), groups[1].Shipments[0].ID)
}

func TestAggregateShipments_DoesNotMutateInput(t *testing.T) {
	products := []order.LineItem{
		{ID: 1, Quantity: 5, QuantityShipped: 2, OrderAddressID: 10},
	}

	AggregateShipments(products, nil, testAddresses(), nil)

	assert.Zero(t, products[0].NotShippingNumber)
	assert.Zero(t, products[0].CurrentQuantityShipped)
}

func TestAggregateBilling(t *testing.T) {
	o := &order.RawOrder{
		OrderIsDigital: true,
		BillingAddress: order.Address{ID: 7, City: "München"},
		Products: []order.LineItem{
			{ID: 1, Quantity: 2},
			{ID: 2, Quantity: 1},
		},
	}

	groups := AggregateBilling(o)
	require.Len(t, groups, 1)
	assert.Equal(t, int64(7), groups[0].BillingAddress.ID)
	assert.Len(t, groups[0].Products, 2)
	assert.Equal(t, 2, groups[0].Products[0].NotShippingNumber)
}
