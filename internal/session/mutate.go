package session

import (
	"context"
	"fmt"

	"shopcart/internal/cart"
	"shopcart/internal/storage"

	"go.uber.org/zap"
)

// Add puts quantity of p into the cart, incrementing an existing entry for
// the same product and shop. New entries are server-backed when the session
// has an identity and local otherwise.
func (s *Session) Add(ctx context.Context, p cart.Product, quantity int) error {
	if quantity < 1 {
		return cart.Refuse(cart.CodeInvalidQuantity, "Quantity must be at least 1.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := cart.Key{ProductID: p.ProductID, ShopID: p.ShopID}
	if i := cart.IndexOf(s.entries, key); i >= 0 {
		e := s.entries[i]
		delta := e
		delta.Quantity = quantity
		origin, err := s.pushRemote(ctx, "add", e.Origin, func(ctx context.Context) error {
			return s.remote.Add(ctx, delta)
		})
		if err != nil {
			return err
		}
		e.Quantity += quantity
		e.Origin = origin
		s.entries[i] = e
		return s.saveGuest(ctx)
	}

	origin := cart.OriginLocal
	if s.authenticated {
		origin = cart.OriginRemote
	}
	e := cart.NewEntry(p, quantity, origin)
	origin, err := s.pushRemote(ctx, "add", origin, func(ctx context.Context) error {
		return s.remote.Add(ctx, e)
	})
	if err != nil {
		return err
	}
	e.Origin = origin
	s.entries = append(s.entries, e)

	s.fetchShops(ctx, []string{e.ShopID})
	return s.saveGuest(ctx)
}

// Remove drops an entry and re-evaluates the selection.
func (s *Session) Remove(ctx context.Context, productID, shopID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cart.Key{ProductID: productID, ShopID: shopID}
	i := cart.IndexOf(s.entries, key)
	if i < 0 {
		return notInCart(key)
	}
	if _, err := s.pushRemote(ctx, "remove", s.entries[i].Origin, func(ctx context.Context) error {
		return s.remote.Remove(ctx, productID)
	}); err != nil {
		return err
	}

	s.entries = cart.Without(s.entries, key)
	s.selection.Deselect(key)
	if err := s.prunePending(ctx, key); err != nil {
		return err
	}
	return s.saveGuest(ctx)
}

// SetQuantity sets an entry's quantity. Values below 1 are ignored.
func (s *Session) SetQuantity(ctx context.Context, productID, shopID string, quantity int) error {
	if quantity < 1 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := cart.Key{ProductID: productID, ShopID: shopID}
	i := cart.IndexOf(s.entries, key)
	if i < 0 {
		return notInCart(key)
	}
	e := s.entries[i]
	if e.Quantity == quantity {
		return nil
	}
	origin, err := s.pushRemote(ctx, "set quantity", e.Origin, func(ctx context.Context) error {
		return s.remote.SetQuantity(ctx, productID, quantity, e.SelectedVariant)
	})
	if err != nil {
		return err
	}
	e.Quantity = quantity
	e.Origin = origin
	s.entries[i] = e
	return s.saveGuest(ctx)
}

// SelectVariant switches the chosen variant of an entry.
func (s *Session) SelectVariant(ctx context.Context, productID, shopID, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cart.Key{ProductID: productID, ShopID: shopID}
	i := cart.IndexOf(s.entries, key)
	if i < 0 {
		return notInCart(key)
	}
	e := s.entries[i]
	if !e.HasVariant(label) {
		return cart.Refuse(cart.CodeUnknownVariant, "%s is not available as %q.", e.Name, label)
	}
	origin, err := s.pushRemote(ctx, "select variant", e.Origin, func(ctx context.Context) error {
		return s.remote.SetQuantity(ctx, productID, e.Quantity, label)
	})
	if err != nil {
		return err
	}
	e.SelectedVariant = label
	e.Origin = origin
	s.entries[i] = e
	return s.saveGuest(ctx)
}

// ClearAll empties the cart locally and on the server.
func (s *Session) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.pushRemote(ctx, "clear", cart.OriginRemote, s.remote.Clear); err != nil {
		return err
	}

	s.entries = nil
	s.selection.Reset()
	s.status.Pending = 0
	if err := s.saveGuest(ctx); err != nil {
		return err
	}
	return s.store.Delete(ctx, storage.KeyPendingCart)
}

// ToggleSelect flips an entry's checkout selection and returns the new
// state. Selecting from a shop other than the active one is refused.
func (s *Session) ToggleSelect(productID, shopID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cart.Key{ProductID: productID, ShopID: shopID}
	if cart.IndexOf(s.entries, key) < 0 {
		return false, notInCart(key)
	}
	selected, err := s.selection.Toggle(key)
	if ve, ok := cart.AsRefusal(err); ok {
		ve.Message = fmt.Sprintf(
			"You already have items from %s selected. Check out or deselect them before choosing another shop.",
			s.shopName(ve.ShopID))
		return false, ve
	}
	return selected, err
}

// pushRemote runs op for server-backed entries and returns the origin the
// entry ends up with. An auth failure downgrades the session and the entry
// to local; any other failure is returned as a connectivity error and
// nothing changes.
func (s *Session) pushRemote(ctx context.Context, name string, origin cart.Origin, op func(context.Context) error) (cart.Origin, error) {
	if origin != cart.OriginRemote {
		return origin, nil
	}
	if !s.authenticated {
		return cart.OriginLocal, nil
	}
	if err := op(ctx); err != nil {
		if s.recordFailure(name, err) {
			return cart.OriginLocal, nil
		}
		return origin, err
	}
	s.recordSuccess()
	s.logger.Debug("remote cart updated", zap.String("op", name))
	return origin, nil
}

func notInCart(key cart.Key) error {
	return cart.Refuse(cart.CodeNotInCart, "Product %s is not in your cart.", key.ProductID)
}
