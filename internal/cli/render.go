package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"shopcart/internal/cart"
	"shopcart/internal/pricing"
	"shopcart/internal/session"
)

func (r *Runner) write(o output) error {
	if r.options.JSON {
		enc := json.NewEncoder(r.out)
		return enc.Encode(o)
	}
	writeHuman(r.out, o)
	return nil
}

func (r *Runner) printStatusBanner() {
	status := r.session.Status()
	if r.options.JSON {
		return
	}
	writeStatus(r.out, status)
}

func writeHuman(w io.Writer, o output) {
	if o.Notice != "" {
		fmt.Fprintf(w, "! %s\n", o.Notice)
	}
	if o.Info != "" {
		fmt.Fprintln(w, strings.TrimRight(o.Info, "\n"))
	}
	if o.Status != nil {
		writeStatus(w, *o.Status)
	}
	if o.Receipt != nil {
		writeReceipt(w, *o.Receipt)
	}
	if o.Call != nil {
		fmt.Fprintf(w, "Call to order from %s (total %s): %s\n",
			o.Call.Shop.DisplayName(), o.Call.Quote.Total.Display(), o.Call.URL)
	}
	if o.Shops != nil || o.Command == "list" || o.Command == "ls" {
		writeShops(w, o.Shops)
	}
	if o.Summary != nil {
		writeSummary(w, *o.Summary)
	}
}

func writeStatus(w io.Writer, s session.Status) {
	switch {
	case s.Degraded:
		fmt.Fprintln(w, "(offline) The cart server could not be reached; showing saved items. Use 'reload' to retry.")
	case s.LocalOnly:
		fmt.Fprintln(w, "(guest) Cart is kept on this device.")
	}
	if s.Pending > 0 {
		fmt.Fprintf(w, "(sync) %d item(s) waiting to be synced to your account.\n", s.Pending)
	}
}

func writeShops(w io.Writer, views []session.ShopView) {
	if len(views) == 0 {
		fmt.Fprintln(w, "Your cart is empty. Add some products from the shops to see them here!")
		return
	}
	for _, v := range views {
		state := "Open"
		if !v.Open {
			state = "Closed"
		}
		fmt.Fprintf(w, "\n== %s [%s] (%s)", v.Shop.DisplayName(), state, v.Shop.ID)
		if v.Shop.Category != "" {
			fmt.Fprintf(w, " %s", v.Shop.Category)
		}
		if hours := v.Shop.Hours(); hours != "" {
			fmt.Fprintf(w, " %s", hours)
		}
		fmt.Fprintln(w)

		selected := make(map[cart.Key]bool, len(v.Selected))
		for _, k := range v.Selected {
			selected[k] = true
		}
		for i, e := range v.Entries {
			mark := " "
			if selected[e.Key()] {
				mark = "x"
			}
			fmt.Fprintf(w, "  [%s] %d. %s - %s x %d  (id=%s, %s)\n",
				mark, i+1, e.DisplayName(), e.EffectivePrice().Display(), e.Quantity, e.ProductID, e.Origin)
		}

		if len(v.Selected) == 0 {
			continue
		}
		if !v.Open {
			fmt.Fprintf(w, "  %s\n", v.Shop.ClosedMessage())
		}
		writeQuote(w, v.Quote)
	}
}

func writeQuote(w io.Writer, q pricing.Quote) {
	fmt.Fprintf(w, "  Subtotal: %s\n", q.Subtotal.Display())
	if !q.MeetsMinimum {
		fmt.Fprintf(w, "  Add %s more to reach minimum order of %s\n", q.Shortfall.Display(), pricing.MinimumOrder.Display())
		return
	}
	if q.DeliveryFee == 0 {
		fmt.Fprintln(w, "  Delivery Charge: FREE")
		fmt.Fprintf(w, "  Free delivery! (%d left)\n", q.FreeDeliveriesLeft)
	} else {
		fmt.Fprintf(w, "  Delivery Charge: %s\n", q.DeliveryFee.Display())
	}
	fmt.Fprintf(w, "  Total: %s\n", q.Total.Display())
}

func writeReceipt(w io.Writer, rc session.Receipt) {
	fmt.Fprintf(w, "Order for %s sent (%d item(s), total %s).\n",
		rc.Shop.DisplayName(), len(rc.Entries), rc.Quote.Total.Display())
	fmt.Fprintln(w, rc.Message.Text)
}

func writeSummary(w io.Writer, s session.Summary) {
	fmt.Fprintf(w, "\nShops: %d  Products: %d  Items: %d  Free deliveries left: %d\n",
		s.Shops, s.Products, s.Items, s.FreeDeliveriesLeft)
}
