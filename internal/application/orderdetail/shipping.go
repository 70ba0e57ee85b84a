package orderdetail

import (
	"github.com/b2bportal/backend/internal/domain/order"
)

// ShipmentView is a shipment record enriched with the resolved line items it
// covers. ItemsInfo entries carry CurrentQuantityShipped from the shipment
// and the order-wide NotShippingNumber.
type ShipmentView struct {
	order.ShipmentRecord
	ItemsInfo []order.LineItem `json:"itemsInfo"`
}

// NotShipped holds the line items at an address that still have outstanding
// quantity.
type NotShipped struct {
	ItemsInfo []order.LineItem `json:"itemsInfo"`
}

// ShippingGroup is the per-address partition of an order's fulfillment:
// the shipments targeting the address and the items not yet shipped there.
type ShippingGroup struct {
	order.Address
	Shipments []ShipmentView `json:"shipments"`
	NotShip   NotShipped     `json:"notShip"`
}

// BillingGroup bundles a digital order's products under its billing address.
type BillingGroup struct {
	BillingAddress order.Address    `json:"billingAddress"`
	Products       []order.LineItem `json:"products"`
}

// AggregateShipments partitions an order's flat product list and shipment
// records by shipping address.
//
// Unshipped counts are computed for every product up front, before any
// grouping, so the value is never stale for items a filter happens to skip.
// lineIDAliases redirects shipment references from line ids that a
// variant-level merge folded away to the surviving line; nil means no
// aliasing. Shipment items that reference no known line item are dropped,
// not an error. Address and shipment order is preserved as given.
func AggregateShipments(products []order.LineItem, shipments []order.ShipmentRecord, addresses []order.Address, lineIDAliases map[int64]int64) []ShippingGroup {
	items := order.ComputeUnshipped(products)

	byLineID := make(map[int64]order.LineItem, len(items))
	for _, li := range items {
		byLineID[li.ID] = li
	}

	views := make([]ShipmentView, 0, len(shipments))
	for _, s := range shipments {
		view := ShipmentView{ShipmentRecord: s, ItemsInfo: make([]order.LineItem, 0, len(s.Items))}
		for _, si := range s.Items {
			lineID := si.OrderProductID
			if canonical, ok := lineIDAliases[lineID]; ok {
				lineID = canonical
			}
			li, ok := byLineID[lineID]
			if !ok {
				continue
			}
			li.CurrentQuantityShipped = si.Quantity
			view.ItemsInfo = append(view.ItemsInfo, li)
		}
		views = append(views, view)
	}

	groups := make([]ShippingGroup, 0, len(addresses))
	for _, addr := range addresses {
		group := ShippingGroup{
			Address:   addr,
			Shipments: make([]ShipmentView, 0),
			NotShip:   NotShipped{ItemsInfo: make([]order.LineItem, 0)},
		}
		for _, view := range views {
			if view.OrderAddressID == addr.ID {
				group.Shipments = append(group.Shipments, view)
			}
		}
		for _, li := range items {
			if li.OrderAddressID == addr.ID && li.Quantity > li.QuantityShipped {
				group.NotShip.ItemsInfo = append(group.NotShip.ItemsInfo, li)
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// AggregateBilling produces the single billing/product bundle used for
// digital-only orders, which render under a billing-address section instead
// of shipping-address sections.
func AggregateBilling(o *order.RawOrder) []BillingGroup {
	return []BillingGroup{
		{
			BillingAddress: o.BillingAddress,
			Products:       order.ComputeUnshipped(o.Products),
		},
	}
}
