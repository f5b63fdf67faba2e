package session

import (
	"slices"

	"shopcart/internal/cart"
	"shopcart/internal/pricing"
	"shopcart/internal/shop"
)

// ShopView is the derived state of one shop group.
type ShopView struct {
	Shop     shop.Shop     `json:"shop"`
	Known    bool          `json:"known"`
	Open     bool          `json:"open"`
	Entries  []cart.Entry  `json:"entries"`
	Selected []cart.Key    `json:"selected,omitempty"`
	Quote    pricing.Quote `json:"quote"`
	// CanCheckout is true when the selection qualifies and the shop is open.
	CanCheckout bool `json:"can_checkout"`
}

// Summary aggregates the whole cart.
type Summary struct {
	Shops              int    `json:"shops"`
	Products           int    `json:"products"`
	Items              int    `json:"items"`
	DeliveryCount      int    `json:"delivery_count"`
	FreeDeliveriesLeft int    `json:"free_deliveries_left"`
	ActiveShop         string `json:"active_shop,omitempty"`
}

// Entries returns a copy of the unified cart.
func (s *Session) Entries() []cart.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// Views returns one view per shop in cart order.
func (s *Session) Views() []ShopView {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := cart.GroupByShop(s.entries)
	now := s.opts.Now()
	views := make([]ShopView, 0, groups.Len())
	for _, id := range groups.Shops {
		sh, known := s.shops[id]
		if !known {
			sh = shop.Shop{ID: id}
		}
		entries := groups.ByShop[id]
		selected := s.selection.Selected(entries, id)
		quote := pricing.PriceShop(selected, s.deliveryCount)
		open := shop.IsOpen(sh, now)

		views = append(views, ShopView{
			Shop:        sh,
			Known:       known,
			Open:        open,
			Entries:     entries,
			Selected:    keysOf(selected),
			Quote:       quote,
			CanCheckout: known && open && len(selected) > 0 && quote.MeetsMinimum,
		})
	}
	return views
}

func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, _ := s.selection.ActiveShop()
	return Summary{
		Shops:              len(cart.ShopIDs(s.entries)),
		Products:           len(s.entries),
		Items:              cart.TotalItems(s.entries),
		DeliveryCount:      s.deliveryCount,
		FreeDeliveriesLeft: pricing.FreeDeliveriesLeft(s.deliveryCount),
		ActiveShop:         active,
	}
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) SelectionState() cart.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.State()
}

func (s *Session) IsSelected(productID, shopID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.IsSelected(cart.Key{ProductID: productID, ShopID: shopID})
}

func (s *Session) DeliveryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deliveryCount
}

func (s *Session) Shop(id string) (shop.Shop, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shops[id]
	return sh, ok
}
