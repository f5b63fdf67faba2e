// Package storage persists the device-local cart state: the guest cart, the
// pending cart queued during sign-in and the delivery counter. Values are
// JSON documents under fixed keys.
package storage

import (
	"context"
	"errors"
	"fmt"

	"shopcart/internal/cart"
)

const (
	KeyGuestCart     = "guestCart"
	KeyPendingCart   = "pendingCart"
	KeyDeliveryCount = "userDeliveryCount"
)

var ErrClosed = errors.New("storage closed")

// Store is a small JSON key/value store.
type Store interface {
	// Get decodes the value under key into dst. found is false when the key
	// is absent, in which case dst is untouched.
	Get(ctx context.Context, key string, dst any) (found bool, err error)
	Put(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LoadEntries reads a cart collection. A missing key is an empty cart.
func LoadEntries(ctx context.Context, s Store, key string) ([]cart.Entry, error) {
	var entries []cart.Entry
	if _, err := s.Get(ctx, key, &entries); err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return entries, nil
}

// SaveEntries writes a cart collection; an empty collection deletes the key.
func SaveEntries(ctx context.Context, s Store, key string, entries []cart.Entry) error {
	if len(entries) == 0 {
		if err := s.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
		return nil
	}
	if err := s.Put(ctx, key, entries); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// LoadDeliveryCount reads the delivery counter. Missing or negative values
// read as zero.
func LoadDeliveryCount(ctx context.Context, s Store) (int, error) {
	var count int
	if _, err := s.Get(ctx, KeyDeliveryCount, &count); err != nil {
		return 0, fmt.Errorf("load %s: %w", KeyDeliveryCount, err)
	}
	if count < 0 {
		count = 0
	}
	return count, nil
}

func SaveDeliveryCount(ctx context.Context, s Store, count int) error {
	if err := s.Put(ctx, KeyDeliveryCount, count); err != nil {
		return fmt.Errorf("save %s: %w", KeyDeliveryCount, err)
	}
	return nil
}
