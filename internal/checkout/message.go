// Package checkout renders the per-shop order message and hands it off to
// the external messaging channel.
package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"shopcart/internal/cart"
	"shopcart/internal/pricing"
	"shopcart/internal/shop"
)

const (
	handoffBaseURL = "https://wa.me/"
	callScheme     = "tel:"
)

// Message is the order summary for one shop.
type Message struct {
	ShopID string `json:"shop_id"`
	Text   string `json:"text"`
}

// Encoded is Text escaped for a URL query value, with spaces as %20.
func (m Message) Encoded() string {
	return strings.ReplaceAll(url.QueryEscape(m.Text), "+", "%20")
}

// URL builds the hand-off link for phone.
func (m Message) URL(phone string) string {
	return handoffBaseURL + url.PathEscape(strings.TrimSpace(phone)) + "?text=" + m.Encoded()
}

// CallURL is the dial link for phone.
func CallURL(phone string) string {
	return callScheme + url.PathEscape(strings.TrimSpace(phone))
}

// BuildMessage renders the order. Callers must have checked that the quote
// meets the minimum and that the shop is open.
func BuildMessage(s shop.Shop, entries []cart.Entry, quote pricing.Quote) Message {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello, I would like to order the following products from %s:\n\n", s.DisplayName())
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s - %s x %d\n", i+1, e.DisplayName(), e.EffectivePrice().Display(), e.Quantity)
	}

	fmt.Fprintf(&b, "\nSubtotal: %s\n", quote.Subtotal.Display())
	if quote.DeliveryFee == 0 {
		b.WriteString("Delivery Charge: FREE\n")
		fmt.Fprintf(&b, "🎉 Free delivery (%s left!)\n", freeDeliveriesPhrase(quote.FreeDeliveriesLeft))
	} else {
		fmt.Fprintf(&b, "Delivery Charge: %s\n", quote.DeliveryFee.Display())
	}
	fmt.Fprintf(&b, "Total: %s\n\n", quote.Total.Display())
	b.WriteString("Please confirm availability and proceed with the order.")

	return Message{ShopID: s.ID, Text: b.String()}
}

func freeDeliveriesPhrase(n int) string {
	if n == 1 {
		return "1 free delivery"
	}
	return fmt.Sprintf("%d free deliveries", n)
}
