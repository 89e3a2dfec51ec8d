package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"redstore/internal/domain"
	"redstore/internal/notify"
	"redstore/internal/order"
)

// ErrBusy is returned when a mutation for the same line item or product is
// already in flight. Rapid repeated clicks are rejected, not queued.
var ErrBusy = errors.New("mutation already in flight")

// API is the slice of the client the controller mutates through.
type API interface {
	AddToCart(ctx context.Context, productID string, quantity int) error
	DecreaseItem(ctx context.Context, itemID string) error
	RemoveItem(ctx context.Context, itemID string) error
	Checkout(ctx context.Context) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// Controller mediates every cart mutation. Each successful mutation refreshes
// the projection and publishes a cart-updated notification; both steps are
// part of the contract. Nothing is retried automatically.
type Controller struct {
	api    API
	proj   *Projection
	bus    *notify.Bus
	logger *log.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewController(api API, proj *Projection, bus *notify.Bus, logger *log.Logger) *Controller {
	return &Controller{
		api:      api,
		proj:     proj,
		bus:      bus,
		logger:   logger,
		inFlight: make(map[string]struct{}),
	}
}

func (c *Controller) begin(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[key]; busy {
		return fmt.Errorf("%w: %s", ErrBusy, key)
	}
	c.inFlight[key] = struct{}{}
	return nil
}

func (c *Controller) end(key string) {
	c.mu.Lock()
	delete(c.inFlight, key)
	c.mu.Unlock()
}

// settle runs the post-mutation contract: refresh the projection and notify
// every other view. The notification goes out even if the refresh fails,
// since the server-side cart did change.
func (c *Controller) settle(ctx context.Context) error {
	err := c.proj.Refresh(ctx)
	if err != nil {
		c.logger.Printf("cart refresh after mutation failed: %v", err)
	}
	c.bus.Publish(notify.CartUpdated)
	return err
}

// Add puts one unit of product into the cart. The stock gate here is the
// advisory client-side check against the last known snapshot; it rejects
// before any network call, while the server stays authoritative. On success
// the affected product is refetched so the caller sees the new stock.
func (c *Controller) Add(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if !product.InStock() {
		return nil, fmt.Errorf("%w: %q is out of stock", domain.ErrValidation, product.Name)
	}

	key := "product:" + product.ID
	if err := c.begin(key); err != nil {
		return nil, err
	}
	defer c.end(key)

	if err := c.api.AddToCart(ctx, product.ID, 1); err != nil {
		return nil, err
	}

	fresh, err := c.api.GetProduct(ctx, product.ID)
	if err != nil {
		c.logger.Printf("refetch product %s after add failed: %v", product.ID, err)
		fresh = &product
	}

	if err := c.settle(ctx); err != nil {
		return fresh, err
	}
	return fresh, nil
}

// Increase adds one unit of the product already held by a line. The server
// collapses it into a quantity increment, never a duplicate line.
func (c *Controller) Increase(ctx context.Context, productID string) error {
	key := "product:" + productID
	if err := c.begin(key); err != nil {
		return err
	}
	defer c.end(key)

	if err := c.api.AddToCart(ctx, productID, 1); err != nil {
		return err
	}
	return c.settle(ctx)
}

// Decrease decrements a line by one; at quantity one the server deletes the
// line instead.
func (c *Controller) Decrease(ctx context.Context, itemID string) error {
	key := "item:" + itemID
	if err := c.begin(key); err != nil {
		return err
	}
	defer c.end(key)

	if err := c.api.DecreaseItem(ctx, itemID); err != nil {
		return err
	}
	return c.settle(ctx)
}

// Remove deletes a line unconditionally. The destructive-action contract
// requires explicit confirmation: when confirm returns false nothing happens.
func (c *Controller) Remove(ctx context.Context, itemID string, confirm func() bool) error {
	if confirm == nil || !confirm() {
		return nil
	}

	key := "item:" + itemID
	if err := c.begin(key); err != nil {
		return err
	}
	defer c.end(key)

	if err := c.api.RemoveItem(ctx, itemID); err != nil {
		return err
	}
	return c.settle(ctx)
}

// Checkout freezes the active cart and produces the order document from the
// pre-checkout snapshot. Totals are computed once, before the server call,
// and passed through unchanged; the authoritative cart may already be empty
// by the time the document is rendered. A failed server transition aborts the
// whole operation with the cart still active and no document produced.
func (c *Controller) Checkout(ctx context.Context, customer *domain.User) (*order.Document, error) {
	snapshot := c.proj.Cart()
	if snapshot == nil || len(snapshot.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", domain.ErrValidation)
	}
	totals := c.proj.Totals()

	if err := c.begin("checkout"); err != nil {
		return nil, err
	}
	defer c.end("checkout")

	if err := c.api.Checkout(ctx); err != nil {
		return nil, err
	}

	doc := order.Build(snapshot, customer, totals.Subtotal, totals.Tax, totals.GrandTotal, time.Now())

	if err := c.settle(ctx); err != nil {
		return doc, err
	}
	return doc, nil
}
