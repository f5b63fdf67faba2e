package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"shopcart/internal/cart"
	"shopcart/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Defaults()
	cfg.APIBaseURL = srv.URL + "/api/"
	cfg.SessionToken = token
	cfg.Timeout = 2 * time.Second
	return NewClient(cfg, zap.NewNop())
}

func TestClient_ListNormalisesShapes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/wishlist", r.URL.Path)
		cookie, err := r.Cookie("session")
		if assert.NoError(t, err) {
			assert.Equal(t, "tok", cookie.Value)
		}

		_, _ = io.WriteString(w, `[
			{"_id": "p1", "shop_id": "s1", "name": "Rice", "price": 50, "image": "rice.png", "quantity": 2},
			{"product_id": "p2", "shop_id": "s1", "quantity": 0,
			 "product": {"_id": "p2", "name": "Oil", "price": "120.50",
			             "variants": [{"size": "1L", "price": 120.5}, {"size": "5L", "price": 560, "quantity": 3}]},
			 "selected_variant": "5L"},
			{"product_id": "p3", "shop_id": "s2", "name": "Soap", "price": 30,
			 "variant": {"name": "Pack of 3", "price": 85, "image_url": "pack.png"}},
			{"name": "orphan"}
		]`)
	}, "tok")

	entries, err := client.List(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 3)

	rice := entries[0]
	assert.Equal(t, "p1", rice.ProductID)
	assert.Equal(t, cart.Rupees(50), rice.Price)
	assert.Equal(t, "rice.png", rice.ImageURL)
	assert.Equal(t, 2, rice.Quantity)
	assert.Equal(t, cart.OriginRemote, rice.Origin)

	oil := entries[1]
	assert.Equal(t, "Oil", oil.Name)
	assert.Equal(t, cart.Rupees(120.5), oil.Price)
	assert.Equal(t, 1, oil.Quantity)
	assert.Equal(t, "5L", oil.SelectedVariant)
	assert.Equal(t, cart.Rupees(560), oil.EffectivePrice())
	stock, ok := oil.Stock()
	assert.True(t, ok)
	assert.Equal(t, 3, stock)

	soap := entries[2]
	assert.Equal(t, "Pack of 3", soap.SelectedVariant)
	require.Len(t, soap.Variants, 1)
	assert.Equal(t, cart.Rupees(85), soap.EffectivePrice())
	assert.Equal(t, "pack.png", soap.EffectiveImageURL())
}

func TestClient_UnauthenticatedSkipsServer(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}, "")

	entries, err := client.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorIs(t, client.Add(context.Background(), cart.Entry{ProductID: "p1", ShopID: "s1", Quantity: 1}), cart.ErrAuthRequired)
	assert.ErrorIs(t, client.Remove(context.Background(), "p1"), cart.ErrAuthRequired)
	assert.ErrorIs(t, client.SetQuantity(context.Background(), "p1", 2, ""), cart.ErrAuthRequired)
	assert.ErrorIs(t, client.Clear(context.Background()), cart.ErrAuthRequired)
	assert.Zero(t, calls.Load())
	assert.False(t, client.Authenticated())
}

func TestClient_AddSendsRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/wishlist", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{
			"product_id": "p1",
			"shop_id":    "s1",
			"quantity":   float64(3),
			"variant":    "1kg",
		}, body)
		w.WriteHeader(http.StatusCreated)
	}, "tok")

	err := client.Add(context.Background(), cart.Entry{ProductID: "p1", ShopID: "s1", Quantity: 3, SelectedVariant: "1kg"})
	require.NoError(t, err)
}

func TestClient_SetQuantityAndRemovePaths(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r.Method+" "+r.URL.EscapedPath())
	}, "tok")

	require.NoError(t, client.SetQuantity(context.Background(), "p/1", 4, ""))
	require.NoError(t, client.Remove(context.Background(), "p1"))
	require.NoError(t, client.Clear(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"PUT /api/wishlist/p%2F1/quantity",
		"DELETE /api/wishlist/p1",
		"POST /api/clear-cart",
	}, seen)
}

func TestClient_Shops(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/shops/batch", r.URL.Path)
		var body shopsRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"s1", "s2"}, body.ShopIDs)

		_, _ = io.WriteString(w, `[
			{"_id": "s1", "name": "Anna Stores", "opening_time": "09:00", "closing_time": "21:00"},
			{"id": "s2", "name": "Bala Mart"},
			{"name": "no id"}
		]`)
	}, "")

	shops, err := client.Shops(context.Background(), []string{"s1", "s2"})

	require.NoError(t, err)
	require.Len(t, shops, 2)
	assert.Equal(t, "s1", shops[0].ID)
	assert.Equal(t, "09:00 - 21:00", shops[0].Hours())
	assert.Equal(t, "s2", shops[1].ID)
}

func TestClient_DecodesRegardlessOfContentType(t *testing.T) {
	for _, contentType := range []string{"", "text/html", "text/plain; charset=utf-8", "application/json"} {
		t.Run("content type "+contentType, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if contentType == "" {
					// A nil value stops net/http from sniffing one.
					w.Header()["Content-Type"] = nil
				} else {
					w.Header().Set("Content-Type", contentType)
				}
				_, _ = io.WriteString(w, `[{"_id": "s1", "name": "Anna Stores"}]`)
			}, "")

			shops, err := client.Shops(context.Background(), []string{"s1"})

			require.NoError(t, err)
			require.Len(t, shops, 1)
			assert.Equal(t, "Anna Stores", shops[0].Name)
		})
	}
}

func TestClient_UndecodableBodyIsConnectivity(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>maintenance</html>")
	}, "tok")

	entries, err := client.List(context.Background())

	assert.ErrorIs(t, err, cart.ErrConnectivity)
	assert.Empty(t, entries)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
	}{
		{"unauthorized", http.StatusUnauthorized, cart.ErrAuthRequired},
		{"forbidden", http.StatusForbidden, cart.ErrAuthRequired},
		{"server error", http.StatusInternalServerError, cart.ErrConnectivity},
		{"not found", http.StatusNotFound, cart.ErrConnectivity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}, "tok")

			_, err := client.List(context.Background())

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "nope", apiErr.Body)
		})
	}
}

func TestClient_UnreachableIsConnectivity(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	cfg := config.Defaults()
	cfg.APIBaseURL = base
	cfg.SessionToken = "tok"
	cfg.Timeout = time.Second
	client := NewClient(cfg, zap.NewNop())

	_, err := client.List(context.Background())

	assert.ErrorIs(t, err, cart.ErrConnectivity)
}
