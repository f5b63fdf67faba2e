// Package pricing computes per-shop totals for the selected entries.
package pricing

import "shopcart/internal/cart"

const (
	// MinimumOrder is the smallest subtotal a shop checkout accepts.
	MinimumOrder = cart.Money(100_00)
	// DeliveryFee applies once the free deliveries are used up.
	DeliveryFee = cart.Money(30_00)
	// FreeDeliveries is how many checkouts per identity ship for free.
	FreeDeliveries = 2
)

type Quote struct {
	Subtotal           cart.Money `json:"subtotal"`
	MeetsMinimum       bool       `json:"meets_minimum"`
	DeliveryFee        cart.Money `json:"delivery_fee"`
	Total              cart.Money `json:"total"`
	FreeDeliveriesLeft int        `json:"free_deliveries_left"`
	Shortfall          cart.Money `json:"shortfall,omitempty"`
}

// FreeDelivery is true when the quote qualifies and ships for free.
func (q Quote) FreeDelivery() bool {
	return q.MeetsMinimum && q.DeliveryFee == 0
}

// PriceShop prices one shop's selected entries. deliveryCount is the number
// of checkouts already completed by this identity.
func PriceShop(selected []cart.Entry, deliveryCount int) Quote {
	var q Quote
	for _, e := range selected {
		q.Subtotal += e.LineTotal()
	}
	q.FreeDeliveriesLeft = FreeDeliveriesLeft(deliveryCount)
	q.MeetsMinimum = q.Subtotal >= MinimumOrder
	if !q.MeetsMinimum {
		q.Shortfall = MinimumOrder - q.Subtotal
		q.Total = q.Subtotal
		return q
	}
	q.DeliveryFee = DeliveryCharge(deliveryCount)
	q.Total = q.Subtotal + q.DeliveryFee
	return q
}

func DeliveryCharge(deliveryCount int) cart.Money {
	if deliveryCount < FreeDeliveries {
		return 0
	}
	return DeliveryFee
}

func FreeDeliveriesLeft(deliveryCount int) int {
	if deliveryCount >= FreeDeliveries {
		return 0
	}
	if deliveryCount < 0 {
		return FreeDeliveries
	}
	return FreeDeliveries - deliveryCount
}
