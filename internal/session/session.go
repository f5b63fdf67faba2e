// Package session owns one shopper's cart for the lifetime of the app: the
// unified cart, the checkout selection, the shop cache and the delivery
// counter. Every exported method is atomic with respect to the others.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"shopcart/internal/cart"
	"shopcart/internal/checkout"
	"shopcart/internal/shop"
	"shopcart/internal/storage"

	"go.uber.org/zap"
)

// Remote is the server-side cart and shop API.
type Remote interface {
	Authenticated() bool
	List(ctx context.Context) ([]cart.Entry, error)
	Add(ctx context.Context, e cart.Entry) error
	SetQuantity(ctx context.Context, productID string, quantity int, variant string) error
	Remove(ctx context.Context, productID string) error
	Clear(ctx context.Context) error
	Shops(ctx context.Context, ids []string) ([]shop.Shop, error)
}

type Options struct {
	// FetchWait bounds the remote cart fetch during Load.
	FetchWait time.Duration
	// ShopBatchSize caps the ids sent per shop batch request.
	ShopBatchSize int
	// Now is the wall clock used for opening hours.
	Now func() time.Time
	// HandoffPhone is dialled for call-to-order.
	HandoffPhone string
}

func (o Options) withDefaults() Options {
	if o.FetchWait <= 0 {
		o.FetchWait = 5 * time.Second
	}
	if o.ShopBatchSize <= 0 {
		o.ShopBatchSize = 20
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Status is the connectivity banner state.
type Status struct {
	Ready     bool   `json:"ready"`
	Degraded  bool   `json:"degraded"`
	LocalOnly bool   `json:"local_only"`
	LastError string `json:"last_error,omitempty"`
	Pending   int    `json:"pending"`
}

type Session struct {
	mu         sync.Mutex
	remote     Remote
	store      storage.Store
	dispatcher checkout.Dispatcher
	logger     *zap.Logger
	opts       Options

	entries       []cart.Entry
	selection     *cart.Selection
	shops         map[string]shop.Shop
	deliveryCount int
	authenticated bool
	status        Status
}

func New(remote Remote, store storage.Store, dispatcher checkout.Dispatcher, logger *zap.Logger, opts Options) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		remote:        remote,
		store:         store,
		dispatcher:    dispatcher,
		logger:        logger.Named("session"),
		opts:          opts.withDefaults(),
		selection:     cart.NewSelection(),
		shops:         make(map[string]shop.Shop),
		authenticated: remote.Authenticated(),
		status:        Status{LocalOnly: !remote.Authenticated()},
	}
}

// Close tears the session down on logout. Persisted state is kept.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.selection.Reset()
	s.shops = make(map[string]shop.Shop)
	s.deliveryCount = 0
	s.status = Status{LocalOnly: !s.authenticated}
}

// recordFailure turns a remote error into session state. An auth failure
// silently drops the session to local-only; anything else is kept as a
// retryable connectivity state. It reports whether err was an auth failure.
func (s *Session) recordFailure(op string, err error) bool {
	if errors.Is(err, cart.ErrAuthRequired) {
		if s.authenticated {
			s.logger.Info("server rejected session, continuing local-only", zap.String("op", op))
		}
		s.authenticated = false
		s.status.LocalOnly = true
		return true
	}
	s.status.Degraded = true
	s.status.LastError = err.Error()
	s.logger.Warn("remote cart unavailable", zap.String("op", op), zap.Error(err))
	return false
}

func (s *Session) recordSuccess() {
	s.status.Degraded = false
	s.status.LastError = ""
}

// saveGuest persists the local-origin entries of the unified cart.
func (s *Session) saveGuest(ctx context.Context) error {
	return storage.SaveEntries(ctx, s.store, storage.KeyGuestCart, cart.FilterOrigin(s.entries, cart.OriginLocal))
}

func (s *Session) shopName(id string) string {
	if sh, ok := s.shops[id]; ok && sh.Name != "" {
		return sh.Name
	}
	return id
}
