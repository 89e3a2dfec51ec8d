package api

import (
	"context"
	"fmt"
	"net/http"

	"redstore/internal/domain"
)

// FetchCart returns the caller's active cart with expanded line items.
func (c *Client) FetchCart(ctx context.Context) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// CartCount returns the aggregate quantity across all lines, for the badge.
func (c *Client) CartCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/cart/count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

type addToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// AddToCart adds quantity units of a product. The server collapses a repeat
// add into a quantity increment on the existing line.
func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) error {
	return c.do(ctx, http.MethodPost, "/cart/add", addToCartRequest{ProductID: productID, Quantity: quantity}, nil)
}

// DecreaseItem decrements a line's quantity by one; the server deletes the
// line instead of persisting quantity zero.
func (c *Client) DecreaseItem(ctx context.Context, itemID string) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/cart/items/%s/decrease", itemID), nil, nil)
}

// RemoveItem deletes a line unconditionally.
func (c *Client) RemoveItem(ctx context.Context, itemID string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/items/%s", itemID), nil, nil)
}

// Checkout transitions the active cart to checked_out server-side.
func (c *Client) Checkout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/cart/checkout", nil, nil)
}
