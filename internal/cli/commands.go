package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shopcart/internal/cart"
	"shopcart/internal/session"
)

const usage = `  list                                   show the cart grouped by shop
  summary                                show cart totals
  status                                 show connectivity state
  add <shop> <product> <name> <price> [qty]
  rm <shop> <product>
  qty <shop> <product> <n>
  variant <shop> <product> <label>
  select <shop> <product>                toggle selection for checkout
  checkout <shop>                        send the selected items as an order
  call <shop>                            show the number to call an order in
  clear                                  empty the whole cart
  reload                                 sync with the server again
  exit
`

var errUsage = errors.New("usage")

type output struct {
	Command string             `json:"command"`
	Notice  string             `json:"notice,omitempty"`
	Info    string             `json:"info,omitempty"`
	Shops   []session.ShopView `json:"shops,omitempty"`
	Summary *session.Summary   `json:"summary,omitempty"`
	Status  *session.Status    `json:"status,omitempty"`
	Receipt *session.Receipt   `json:"receipt,omitempty"`
	Call    *session.Call      `json:"call,omitempty"`
}

func (o output) withNotice(msg string) output {
	o.Notice = msg
	return o
}

func (r *Runner) dispatch(ctx context.Context, args []string) (output, error) {
	cmd := strings.ToLower(args[0])
	rest := args[1:]
	out := output{Command: cmd}

	switch cmd {
	case "help", "?":
		out.Info = usage
		return out, nil

	case "list", "ls":
		return r.listing(out), nil

	case "summary":
		summary := r.session.Summary()
		out.Summary = &summary
		return out, nil

	case "status":
		status := r.session.Status()
		out.Status = &status
		return out, nil

	case "add":
		if len(rest) < 4 || len(rest) > 5 {
			return out, usageError("add <shop> <product> <name> <price> [qty]")
		}
		price, err := strconv.ParseFloat(rest[3], 64)
		if err != nil || price < 0 {
			return out, usageError("price must be a non-negative number")
		}
		qty := 1
		if len(rest) == 5 {
			if qty, err = parseQuantity(rest[4]); err != nil {
				return out, err
			}
		}
		p := cart.Product{ShopID: rest[0], ProductID: rest[1], Name: rest[2], Price: cart.Rupees(price)}
		if err := r.session.Add(ctx, p, qty); err != nil {
			return out, err
		}
		return r.listing(out), nil

	case "rm", "remove":
		if len(rest) != 2 {
			return out, usageError("rm <shop> <product>")
		}
		if err := r.session.Remove(ctx, rest[1], rest[0]); err != nil {
			return out, err
		}
		return r.listing(out), nil

	case "qty":
		if len(rest) != 3 {
			return out, usageError("qty <shop> <product> <n>")
		}
		n, err := strconv.Atoi(rest[2])
		if err != nil {
			return out, cart.Refuse(cart.CodeInvalidQuantity, "Quantity must be a whole number.")
		}
		if err := r.session.SetQuantity(ctx, rest[1], rest[0], n); err != nil {
			return out, err
		}
		return r.listing(out), nil

	case "variant":
		if len(rest) != 3 {
			return out, usageError("variant <shop> <product> <label>")
		}
		if err := r.session.SelectVariant(ctx, rest[1], rest[0], rest[2]); err != nil {
			return out, err
		}
		return r.listing(out), nil

	case "select":
		if len(rest) != 2 {
			return out, usageError("select <shop> <product>")
		}
		if _, err := r.session.ToggleSelect(rest[1], rest[0]); err != nil {
			return out, err
		}
		return r.listing(out), nil

	case "checkout":
		if len(rest) != 1 {
			return out, usageError("checkout <shop>")
		}
		receipt, err := r.session.CheckoutShop(ctx, rest[0])
		if err != nil {
			return out, err
		}
		out.Receipt = &receipt
		return out, nil

	case "call":
		if len(rest) != 1 {
			return out, usageError("call <shop>")
		}
		call, err := r.session.CallShop(ctx, rest[0])
		if err != nil {
			return out, err
		}
		out.Call = &call
		return out, nil

	case "clear":
		if err := r.session.ClearAll(ctx); err != nil {
			return out, err
		}
		out.Info = "Cart cleared."
		return out, nil

	case "reload":
		if err := r.session.Load(ctx); err != nil {
			return out, err
		}
		return r.listing(out), nil
	}

	return out, usageError("unknown command " + strconv.Quote(cmd) + "; type 'help'")
}

func (r *Runner) listing(out output) output {
	summary := r.session.Summary()
	status := r.session.Status()
	out.Shops = r.session.Views()
	out.Summary = &summary
	if status.Degraded || status.Pending > 0 {
		out.Status = &status
	}
	return out
}

func parseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, cart.Refuse(cart.CodeInvalidQuantity, "Quantity must be at least 1.")
	}
	return n, nil
}

func usageError(text string) error {
	return fmt.Errorf("%w: %s", errUsage, text)
}

// guidance maps an error to a user-facing line. ok is false for failures
// that are not the user's to fix.
func guidance(err error) (string, bool) {
	if ve, ok := cart.AsRefusal(err); ok {
		return ve.Message, true
	}
	switch {
	case errors.Is(err, errUsage):
		return "Usage: " + strings.TrimPrefix(err.Error(), errUsage.Error()+": "), true
	case errors.Is(err, cart.ErrConnectivity):
		return "Could not reach the cart server. Your saved items are shown; try 'reload' in a moment.", true
	case errors.Is(err, cart.ErrAuthRequired):
		return "Your session has expired. Changes are kept on this device until you sign in again.", true
	case errors.Is(err, context.DeadlineExceeded):
		return "The request took too long. Try again.", true
	default:
		return "", false
	}
}

// splitArgs splits a command line on spaces, keeping double-quoted runs
// together.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case (r == ' ' || r == '\t') && !quoted:
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if quoted {
		return nil, errors.New("unterminated quote")
	}
	if started {
		args = append(args, current.String())
	}
	return args, nil
}
