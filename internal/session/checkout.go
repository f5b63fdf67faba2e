package session

import (
	"context"

	"shopcart/internal/cart"
	"shopcart/internal/checkout"
	"shopcart/internal/pricing"
	"shopcart/internal/shop"
	"shopcart/internal/storage"

	"go.uber.org/zap"
)

// Receipt describes a completed shop checkout.
type Receipt struct {
	Shop          shop.Shop        `json:"shop"`
	Entries       []cart.Entry     `json:"entries"`
	Quote         pricing.Quote    `json:"quote"`
	Message       checkout.Message `json:"message"`
	DeliveryCount int              `json:"delivery_count"`
}

// Call is a call-to-order hand-off for one shop. Unlike a checkout it leaves
// the cart untouched.
type Call struct {
	Shop  shop.Shop     `json:"shop"`
	Quote pricing.Quote `json:"quote"`
	URL   string        `json:"url"`
}

// order is a selection that passed every checkout check.
type order struct {
	shop     shop.Shop
	selected []cart.Entry
	quote    pricing.Quote
}

// qualify checks that shopID is the active shop, is open now and that its
// selection meets the minimum order. Callers hold s.mu.
func (s *Session) qualify(ctx context.Context, shopID string) (order, error) {
	active, ok := s.selection.ActiveShop()
	if !ok {
		return order{}, cart.Refuse(cart.CodeEmptySelection, "Please select at least one product to checkout.")
	}
	if active != shopID {
		return order{}, &cart.ValidationError{
			Code:    cart.CodeNotActiveShop,
			Message: "Your selected items are from " + s.shopName(active) + ". Check out that shop first.",
			ShopID:  active,
		}
	}
	selected := s.selection.Selected(s.entries, shopID)
	if len(selected) == 0 {
		return order{}, cart.Refuse(cart.CodeEmptySelection, "Please select at least one product to checkout.")
	}

	s.fetchShops(ctx, []string{shopID})
	sh, ok := s.shops[shopID]
	if !ok {
		return order{}, cart.Refuse(cart.CodeShopUnavailable, "Shop details are unavailable right now. Please try again.")
	}
	if !shop.IsOpen(sh, s.opts.Now()) {
		return order{}, cart.Refuse(cart.CodeShopClosed, "%s", sh.ClosedMessage())
	}

	quote := pricing.PriceShop(selected, s.deliveryCount)
	if !quote.MeetsMinimum {
		return order{}, cart.Refuse(cart.CodeBelowMinimum,
			"Minimum order amount is %s. Add %s more to proceed with checkout.",
			pricing.MinimumOrder.Display(), quote.Shortfall.Display())
	}
	return order{shop: sh, selected: selected, quote: quote}, nil
}

// CheckoutShop orders the selected entries of shopID. The shop must be the
// active shop, open now, and the selection must meet the minimum order.
//
// On success the message is dispatched without waiting for acknowledgement,
// the ordered entries leave the cart and local storage, the delivery counter
// goes up by one and the selection is cleared. A dispatch failure is logged
// and does not undo the cart effects.
func (s *Session) CheckoutShop(ctx context.Context, shopID string) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.qualify(ctx, shopID)
	if err != nil {
		return Receipt{}, err
	}
	sh, selected, quote := o.shop, o.selected, o.quote

	msg := checkout.BuildMessage(sh, selected, quote)
	if err := s.dispatcher.Dispatch(ctx, msg); err != nil {
		s.logger.Warn("order hand-off failed", zap.String("shop_id", shopID), zap.Error(err))
	}

	s.evict(ctx, selected)

	s.deliveryCount++
	if err := storage.SaveDeliveryCount(ctx, s.store, s.deliveryCount); err != nil {
		s.logger.Error("persist delivery count", zap.Int("count", s.deliveryCount), zap.Error(err))
	}
	s.selection.Reset()

	s.logger.Info("shop checked out",
		zap.String("shop_id", shopID),
		zap.Int("entries", len(selected)),
		zap.Stringer("total", quote.Total),
		zap.Int("delivery_count", s.deliveryCount),
	)

	return Receipt{
		Shop:          sh,
		Entries:       selected,
		Quote:         quote,
		Message:       msg,
		DeliveryCount: s.deliveryCount,
	}, nil
}

// evict removes ordered entries from the cart and from local persistence.
// Server copies are deleted best-effort so they do not return on the next
// load.
func (s *Session) evict(ctx context.Context, ordered []cart.Entry) {
	keys := keysOf(ordered)
	for _, e := range ordered {
		if e.Origin != cart.OriginRemote || !s.authenticated {
			continue
		}
		if err := s.remote.Remove(ctx, e.ProductID); err != nil {
			s.recordFailure("evict ordered entry", err)
		}
	}

	s.entries = cart.Without(s.entries, keys...)
	if err := s.saveGuest(ctx); err != nil {
		s.logger.Error("persist guest cart", zap.Error(err))
	}
	if err := s.prunePending(ctx, keys...); err != nil {
		s.logger.Error("persist pending cart", zap.Error(err))
	}
}

// CallShop returns the dial link for ordering shopID by phone. It is refused
// in the same cases as CheckoutShop.
func (s *Session) CallShop(ctx context.Context, shopID string) (Call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.qualify(ctx, shopID)
	if err != nil {
		return Call{}, err
	}
	call := Call{Shop: o.shop, Quote: o.quote, URL: checkout.CallURL(s.opts.HandoffPhone)}
	s.logger.Info("call to order", zap.String("shop_id", shopID), zap.Stringer("total", o.quote.Total))
	return call, nil
}
