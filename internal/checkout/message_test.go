package checkout

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"shopcart/internal/cart"
	"shopcart/internal/pricing"
	"shopcart/internal/shop"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func sampleOrder() (shop.Shop, []cart.Entry) {
	s := shop.Shop{ID: "s1", Name: "Anna Stores"}
	entries := []cart.Entry{
		{ProductID: "p1", ShopID: "s1", Name: "Rice", Price: cart.Rupees(50), Quantity: 2},
		{
			ProductID:       "p2",
			ShopID:          "s1",
			Name:            "Oil",
			Price:           cart.Rupees(10),
			Quantity:        1,
			SelectedVariant: "1L",
			Variants:        []cart.Variant{{Label: "1L", Price: cart.Rupees(50)}},
		},
	}
	return s, entries
}

func TestBuildMessage_FreeDelivery(t *testing.T) {
	s, entries := sampleOrder()
	quote := pricing.PriceShop(entries, 0)

	msg := BuildMessage(s, entries, quote)

	want := "Hello, I would like to order the following products from Anna Stores:\n\n" +
		"1. Rice - ₹50 x 2\n" +
		"2. Oil (1L) - ₹50 x 1\n" +
		"\nSubtotal: ₹150\n" +
		"Delivery Charge: FREE\n" +
		"🎉 Free delivery (2 free deliveries left!)\n" +
		"Total: ₹150\n\n" +
		"Please confirm availability and proceed with the order."
	assert.Equal(t, want, msg.Text)
	assert.Equal(t, "s1", msg.ShopID)
}

func TestBuildMessage_SingleFreeDeliveryLeft(t *testing.T) {
	s, entries := sampleOrder()

	msg := BuildMessage(s, entries, pricing.PriceShop(entries, 1))

	assert.Contains(t, msg.Text, "(1 free delivery left!)")
}

func TestBuildMessage_PaidDelivery(t *testing.T) {
	s, entries := sampleOrder()

	msg := BuildMessage(s, entries, pricing.PriceShop(entries, 2))

	assert.Contains(t, msg.Text, "Delivery Charge: ₹30\n")
	assert.Contains(t, msg.Text, "Total: ₹180\n")
	assert.NotContains(t, msg.Text, "FREE")
}

func TestBuildMessage_UnnamedShop(t *testing.T) {
	_, entries := sampleOrder()

	msg := BuildMessage(shop.Shop{ID: "s9"}, entries, pricing.PriceShop(entries, 0))

	assert.True(t, strings.HasPrefix(msg.Text, "Hello, I would like to order the following products from Shop:"))
}

func TestMessage_URL(t *testing.T) {
	msg := Message{ShopID: "s1", Text: "Rice & Dal + more\nTotal: ₹150"}

	link := msg.URL("9361437687")

	require.True(t, strings.HasPrefix(link, "https://wa.me/9361437687?text="))
	encoded := strings.TrimPrefix(link, "https://wa.me/9361437687?text=")
	assert.NotContains(t, encoded, " ")
	assert.NotContains(t, encoded, "+")
	assert.Contains(t, encoded, "%20")
	assert.Contains(t, encoded, "%26")
	assert.Contains(t, encoded, "%0A")

	decoded, err := url.QueryUnescape(encoded)
	require.NoError(t, err)
	assert.Equal(t, msg.Text, decoded)
}

func TestCallURL(t *testing.T) {
	assert.Equal(t, "tel:9361437687", CallURL("9361437687"))
	assert.Equal(t, "tel:+91%2093614", CallURL(" +91 93614 "))
}

type failingDispatcher struct {
	reason string
	calls  int
}

func (f *failingDispatcher) Dispatch(context.Context, Message) error {
	f.calls++
	return errors.New(f.reason)
}

func TestMulti_TriesEveryDispatcher(t *testing.T) {
	var buf bytes.Buffer
	failing := &failingDispatcher{reason: "boom"}
	m := Multi{failing, NewLogDispatcher("123", zap.NewNop()), NewWriterDispatcher("123", &buf)}

	err := m.Dispatch(context.Background(), Message{ShopID: "s1", Text: "hi there"})

	require.EqualError(t, err, "boom")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, "Open to send your order: https://wa.me/123?text=hi%20there\n", buf.String())
}

func TestMulti_ReportsEveryFailure(t *testing.T) {
	first := &failingDispatcher{reason: "no browser"}
	second := &failingDispatcher{reason: "stderr closed"}

	err := Multi{first, second}.Dispatch(context.Background(), Message{ShopID: "s1"})

	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.EqualError(t, err, "no browser; stderr closed")
	assert.Equal(t, 1, second.calls)

	assert.NoError(t, Multi{}.Dispatch(context.Background(), Message{}))
}
