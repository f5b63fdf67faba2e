package session

import (
	"context"
	"fmt"

	"shopcart/internal/cart"
	"shopcart/internal/shop"
	"shopcart/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Load builds the unified cart: it pushes any pending guest entries to the
// server, reads the guest cart, fetches the server cart within FetchWait and
// then fetches details for every shop in the cart. Remote failures degrade
// to whatever is available; only local storage failures are returned.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := storage.LoadDeliveryCount(ctx, s.store)
	if err != nil {
		return err
	}
	s.deliveryCount = count

	pushed, err := s.syncPending(ctx)
	if err != nil {
		return err
	}

	local, err := storage.LoadEntries(ctx, s.store, storage.KeyGuestCart)
	if err != nil {
		return err
	}

	remote, err := s.fetchRemote(ctx)
	if err != nil {
		s.recordFailure("load", err)
		// Entries pushed a moment ago are known to be on the server.
		remote = pushed
	} else {
		s.recordSuccess()
	}

	s.entries = cart.Reconcile(local, remote)
	s.selection.Prune(s.entries)
	// A queued entry the server already holds still carries quantity the
	// server has not seen, so the queue is left alone here.
	if err := s.saveGuest(ctx); err != nil {
		return err
	}

	s.fetchShops(ctx, cart.ShopIDs(s.entries))
	s.status.Ready = true

	s.logger.Info("cart loaded",
		zap.Int("entries", len(s.entries)),
		zap.Int("remote", len(remote)),
		zap.Int("delivery_count", s.deliveryCount),
		zap.Bool("degraded", s.status.Degraded),
	)
	return nil
}

func (s *Session) fetchRemote(ctx context.Context) ([]cart.Entry, error) {
	if !s.authenticated {
		return nil, nil
	}
	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.FetchWait)
	defer cancel()

	entries, err := s.remote.List(fetchCtx)
	if err != nil {
		if fetchCtx.Err() != nil {
			return nil, cart.Connectivity("fetch cart", fetchCtx.Err())
		}
		return nil, err
	}
	return entries, nil
}

// syncPending pushes the pending queue to the server once an identity is
// available. The guest cart is folded into the queue first so entries added
// while signed out follow the shopper into their account. Entries that fail
// to sync stay queued until a later push succeeds.
// It returns the entries that reached the server.
func (s *Session) syncPending(ctx context.Context) ([]cart.Entry, error) {
	pending, err := storage.LoadEntries(ctx, s.store, storage.KeyPendingCart)
	if err != nil {
		return nil, err
	}
	if !s.authenticated {
		s.status.Pending = len(pending)
		return nil, nil
	}

	guest, err := storage.LoadEntries(ctx, s.store, storage.KeyGuestCart)
	if err != nil {
		return nil, err
	}
	// The guest copy of an entry is the most recent one.
	queue := cart.Reconcile(pending, nil)
	for _, e := range guest {
		if i := cart.IndexOf(queue, e.Key()); i >= 0 {
			queue[i] = e
			continue
		}
		queue = append(queue, e)
	}
	if len(queue) == 0 {
		s.status.Pending = 0
		return nil, nil
	}
	if err := storage.SaveEntries(ctx, s.store, storage.KeyPendingCart, queue); err != nil {
		return nil, err
	}

	var (
		synced []cart.Entry
		failed []cart.Entry
	)
	for i, e := range queue {
		if !s.authenticated {
			failed = append(failed, queue[i:]...)
			break
		}
		if err := s.remote.Add(ctx, e); err != nil {
			s.recordFailure("sync pending", err)
			failed = append(failed, e)
			continue
		}
		synced = append(synced, e)
	}

	if err := storage.SaveEntries(ctx, s.store, storage.KeyPendingCart, failed); err != nil {
		return nil, err
	}
	remaining := cart.Without(guest, keysOf(synced)...)
	for _, e := range failed {
		if cart.IndexOf(remaining, e.Key()) < 0 {
			remaining = append(remaining, e)
		}
	}
	if err := storage.SaveEntries(ctx, s.store, storage.KeyGuestCart, remaining); err != nil {
		return nil, err
	}
	s.status.Pending = len(failed)

	s.logger.Info("pending cart synced",
		zap.Int("synced", len(synced)),
		zap.Int("retained", len(failed)),
	)
	return synced, nil
}

// fetchShops loads details for ids not yet cached within FetchWait. Batches
// run concurrently and the cache is updated only once all of them have
// finished.
func (s *Session) fetchShops(ctx context.Context, ids []string) {
	var missing []string
	for _, id := range ids {
		if _, ok := s.shops[id]; !ok && id != "" {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.FetchWait)
	defer cancel()

	batches := chunk(missing, s.opts.ShopBatchSize)
	results := make([][]shop.Shop, len(batches))

	var g errgroup.Group
	for i, batch := range batches {
		g.Go(func() error {
			shops, err := s.remote.Shops(fetchCtx, batch)
			if err != nil {
				return fmt.Errorf("fetch shops batch %d: %w", i, err)
			}
			results[i] = shops
			return nil
		})
	}
	err := g.Wait()

	for _, shops := range results {
		for _, sh := range shops {
			s.shops[sh.ID] = sh
		}
	}
	if err != nil {
		s.recordFailure("fetch shops", err)
	}
}

// prunePending drops keys from the pending queue.
func (s *Session) prunePending(ctx context.Context, keys ...cart.Key) error {
	if len(keys) == 0 || s.status.Pending == 0 {
		return nil
	}
	pending, err := storage.LoadEntries(ctx, s.store, storage.KeyPendingCart)
	if err != nil {
		return err
	}
	kept := cart.Without(pending, keys...)
	if len(kept) == len(pending) {
		return nil
	}
	s.status.Pending = len(kept)
	return storage.SaveEntries(ctx, s.store, storage.KeyPendingCart, kept)
}

func keysOf(entries []cart.Entry) []cart.Key {
	keys := make([]cart.Key, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key())
	}
	return keys
}

func chunk(ids []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		out = append(out, ids[start:end])
	}
	return out
}
