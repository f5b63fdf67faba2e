package cart

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to check against these.
var (
	// ErrConnectivity marks a retryable transport or server failure.
	ErrConnectivity = errors.New("connectivity error")
	// ErrAuthRequired marks a 401/403 from a server cart operation.
	ErrAuthRequired = errors.New("authentication required")
)

// Refusal codes carried by ValidationError.
const (
	CodeInvalidQuantity = "invalid_quantity"
	CodeNotInCart       = "not_in_cart"
	CodeOtherShopActive = "other_shop_active"
	CodeEmptySelection  = "empty_selection"
	CodeNotActiveShop   = "not_active_shop"
	CodeBelowMinimum    = "below_minimum"
	CodeShopClosed      = "shop_closed"
	CodeShopUnavailable = "shop_unavailable"
	CodeUnknownVariant  = "unknown_variant"
)

// ValidationError is a business-rule refusal. Message is user-facing
// guidance; these are never system faults.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	ShopID  string `json:"shop_id,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func Refuse(code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsRefusal unwraps a ValidationError from err.
func AsRefusal(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Connectivity wraps cause as a retryable connectivity failure.
func Connectivity(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrConnectivity, cause)
}
