// Package cart holds the client-side read model of the remote cart and the
// controller that mediates every mutation against it.
package cart

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"redstore/internal/domain"
)

// TaxRate is the fixed VAT rate applied on top of the subtotal.
var TaxRate = decimal.RequireFromString("0.07")

// TaxLabel is the footer label matching TaxRate.
const TaxLabel = "VAT (7%)"

// Totals are derived from the line items on every call, never stored.
type Totals struct {
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	GrandTotal decimal.Decimal
}

// Fetcher is the slice of the API client the projection needs.
type Fetcher interface {
	FetchCart(ctx context.Context) (*domain.Cart, error)
}

// Projection mirrors the server-side cart for the current user. It keeps the
// last successfully fetched cart and recomputes derived figures on demand.
// Concurrent refreshes are resolved with a generation guard so a slow, stale
// response is never applied over a newer one.
type Projection struct {
	fetcher Fetcher

	mu      sync.Mutex
	cart    *domain.Cart
	gen     uint64
	applied uint64
}

func NewProjection(fetcher Fetcher) *Projection {
	return &Projection{fetcher: fetcher}
}

// Refresh refetches the cart. If a refresh that started later has already
// applied its result, this one's response is discarded.
func (p *Projection) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	fetched, err := p.fetcher.FetchCart(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen < p.applied {
		return nil
	}
	p.applied = gen
	p.cart = fetched
	return nil
}

// Cart returns the last fetched cart, or nil before the first refresh.
func (p *Projection) Cart() *domain.Cart {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cart
}

// Lines returns a copy of the current line items.
func (p *Projection) Lines() []domain.CartItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cart == nil {
		return nil
	}
	out := make([]domain.CartItem, len(p.cart.Items))
	copy(out, p.cart.Items)
	return out
}

// Empty reports whether there is nothing to check out. Views render an
// explicit empty state for this case instead of a zeroed totals block.
func (p *Projection) Empty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cart == nil || len(p.cart.Items) == 0
}

// ItemCount is the aggregate quantity across lines, used by the badge. It is
// distinct from the number of lines.
func (p *Projection) ItemCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cart == nil {
		return 0
	}
	count := 0
	for _, item := range p.cart.Items {
		count += item.Quantity
	}
	return count
}

// Totals derives subtotal, tax and grand total from the current lines.
func (p *Projection) Totals() Totals {
	p.mu.Lock()
	defer p.mu.Unlock()
	return computeTotals(p.cart)
}

func computeTotals(c *domain.Cart) Totals {
	subtotal := decimal.Zero
	if c != nil {
		for _, item := range c.Items {
			if item.Product == nil {
				continue
			}
			qty := decimal.NewFromInt(int64(item.Quantity))
			subtotal = subtotal.Add(item.Product.Price.Mul(qty))
		}
	}
	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal.Add(tax),
	}
}
