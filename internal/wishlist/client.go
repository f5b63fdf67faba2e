// Package wishlist talks to the server-side cart and shop API.
package wishlist

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopcart/internal/cart"
	"shopcart/internal/config"
	"shopcart/internal/shop"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionCookie   = "session"
	requestIDHeader = "X-Request-ID"
)

type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("cart api error: %s", e.Status)
	}
	return fmt.Sprintf("cart api error: %s: %s", e.Status, e.Body)
}

type Client struct {
	http   *resty.Client
	token  string
	logger *zap.Logger
}

func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIBaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout).
		SetRetryCount(1).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp != nil && resp.StatusCode() == http.StatusTooManyRequests
		})

	token := strings.TrimSpace(cfg.SessionToken)
	if token != "" {
		httpClient.SetCookie(&http.Cookie{Name: sessionCookie, Value: token})
	}

	return &Client{
		http:   httpClient,
		token:  token,
		logger: logger.Named("wishlist"),
	}
}

// Authenticated reports whether requests carry a session identity.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// List returns the server cart. Without a session it is empty, not an error.
func (c *Client) List(ctx context.Context) ([]cart.Entry, error) {
	if !c.Authenticated() {
		return nil, nil
	}

	var items []item
	if err := c.do(ctx, http.MethodGet, "/wishlist", nil, &items); err != nil {
		return nil, err
	}

	entries := make([]cart.Entry, 0, len(items))
	for _, it := range items {
		e, ok := it.toEntry()
		if !ok {
			c.logger.Warn("skipping malformed cart record",
				zap.String("id", it.ID),
				zap.String("product_id", it.ProductID),
			)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Add adds quantity of the entry's product, incrementing an existing record.
func (c *Client) Add(ctx context.Context, e cart.Entry) error {
	if !c.Authenticated() {
		return cart.ErrAuthRequired
	}
	body := addRequest{
		ProductID: e.ProductID,
		ShopID:    e.ShopID,
		Quantity:  e.Quantity,
		Variant:   e.SelectedVariant,
	}
	return c.do(ctx, http.MethodPost, "/wishlist", body, nil)
}

// SetQuantity updates quantity and, when non-empty, the selected variant.
func (c *Client) SetQuantity(ctx context.Context, productID string, quantity int, variant string) error {
	if !c.Authenticated() {
		return cart.ErrAuthRequired
	}
	body := quantityRequest{Quantity: quantity, SelectedVariant: variant}
	path := fmt.Sprintf("/wishlist/%s/quantity", url.PathEscape(productID))
	return c.do(ctx, http.MethodPut, path, body, nil)
}

func (c *Client) Remove(ctx context.Context, productID string) error {
	if !c.Authenticated() {
		return cart.ErrAuthRequired
	}
	path := "/wishlist/" + url.PathEscape(productID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) Clear(ctx context.Context) error {
	if !c.Authenticated() {
		return cart.ErrAuthRequired
	}
	return c.do(ctx, http.MethodPost, "/clear-cart", nil, nil)
}

// Shops fetches shop records for ids in one batch request.
func (c *Client) Shops(ctx context.Context, ids []string) ([]shop.Shop, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var records []shopRecord
	if err := c.do(ctx, http.MethodPost, "/shops/batch", shopsRequest{ShopIDs: ids}, &records); err != nil {
		return nil, err
	}
	shops := make([]shop.Shop, 0, len(records))
	for _, r := range records {
		s := r.toShop()
		if s.ID == "" {
			continue
		}
		shops = append(shops, s)
	}
	return shops, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		// Some deployments serve JSON without a Content-Type.
		req.SetResult(result).ForceContentType("application/json")
	}
	if method != http.MethodGet {
		req.SetHeader(requestIDHeader, uuid.NewString())
	}

	op := method + " " + path
	resp, err := req.Execute(method, path)
	if err != nil {
		return cart.Connectivity(op, err)
	}
	c.logger.Debug("cart api call",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", resp.Time()),
	)
	if resp.IsError() {
		return apiErrorFromResponse(op, resp)
	}
	return nil
}

func apiErrorFromResponse(op string, resp *resty.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       strings.TrimSpace(resp.String()),
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w: %w", op, cart.ErrAuthRequired, apiErr)
	default:
		return cart.Connectivity(op, apiErr)
	}
}
