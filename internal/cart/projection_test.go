package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"redstore/internal/domain"
)

type stubFetcher struct {
	mu      sync.Mutex
	carts   []*domain.Cart
	errs    []error
	calls   int
	started []chan struct{}
	release []chan struct{}
}

func (s *stubFetcher) FetchCart(_ context.Context) (*domain.Cart, error) {
	s.mu.Lock()
	idx := s.calls
	s.calls++
	s.mu.Unlock()
	if idx < len(s.started) && s.started[idx] != nil {
		close(s.started[idx])
	}
	if idx < len(s.release) && s.release[idx] != nil {
		<-s.release[idx]
	}
	var err error
	if idx < len(s.errs) {
		err = s.errs[idx]
	}
	if err != nil {
		return nil, err
	}
	if idx >= len(s.carts) {
		idx = len(s.carts) - 1
	}
	return s.carts[idx], nil
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func cartWith(items ...domain.CartItem) *domain.Cart {
	return &domain.Cart{ID: "cart-1", UserID: "user-1", Status: domain.CartStatusActive, Items: items}
}

func line(id, productID, name, unitPrice string, qty int) domain.CartItem {
	return domain.CartItem{
		ID:        id,
		CartID:    "cart-1",
		ProductID: productID,
		Quantity:  qty,
		Product:   &domain.Product{ID: productID, Name: name, Price: price(unitPrice), Stock: 10},
	}
}

func TestTotalsExample(t *testing.T) {
	p := NewProjection(&stubFetcher{carts: []*domain.Cart{cartWith(
		line("i1", "p1", "Product A", "100.00", 2),
		line("i2", "p2", "Product B", "50.00", 1),
	)}})
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	totals := p.Totals()
	if got := totals.Subtotal.StringFixed(2); got != "250.00" {
		t.Fatalf("subtotal = %s, want 250.00", got)
	}
	if got := totals.Tax.StringFixed(2); got != "17.50" {
		t.Fatalf("tax = %s, want 17.50", got)
	}
	if got := totals.GrandTotal.StringFixed(2); got != "267.50" {
		t.Fatalf("grand total = %s, want 267.50", got)
	}
	if !totals.GrandTotal.Equal(totals.Subtotal.Add(totals.Subtotal.Mul(TaxRate))) {
		t.Fatalf("grand total %s != subtotal + subtotal*rate", totals.GrandTotal)
	}
}

func TestTotalsDerivedNotStored(t *testing.T) {
	fetcher := &stubFetcher{carts: []*domain.Cart{
		cartWith(line("i1", "p1", "Product A", "100.00", 1)),
		cartWith(line("i1", "p1", "Product A", "100.00", 3)),
	}}
	p := NewProjection(fetcher)
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := p.Totals().Subtotal.StringFixed(2); got != "100.00" {
		t.Fatalf("subtotal = %s, want 100.00", got)
	}
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := p.Totals().Subtotal.StringFixed(2); got != "300.00" {
		t.Fatalf("subtotal after refetch = %s, want 300.00", got)
	}
}

func TestEmptyCart(t *testing.T) {
	p := NewProjection(&stubFetcher{carts: []*domain.Cart{cartWith()}})
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !p.Empty() {
		t.Fatalf("expected empty cart")
	}
	if got := p.Totals().Subtotal; !got.IsZero() {
		t.Fatalf("empty subtotal = %s, want 0", got)
	}
	if got := p.ItemCount(); got != 0 {
		t.Fatalf("item count = %d, want 0", got)
	}
}

func TestItemCountAggregatesQuantities(t *testing.T) {
	p := NewProjection(&stubFetcher{carts: []*domain.Cart{cartWith(
		line("i1", "p1", "Product A", "1.00", 2),
		line("i2", "p2", "Product B", "1.00", 5),
	)}})
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := p.ItemCount(); got != 7 {
		t.Fatalf("item count = %d, want 7", got)
	}
	if got := len(p.Lines()); got != 2 {
		t.Fatalf("line count = %d, want 2", got)
	}
}

func TestRefreshError(t *testing.T) {
	p := NewProjection(&stubFetcher{errs: []error{domain.ErrNetwork}})
	if err := p.Refresh(context.Background()); !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if p.Cart() != nil {
		t.Fatalf("failed refresh must not change the cart")
	}
}

// A slow first fetch must not overwrite the result of a later fetch that
// already landed.
func TestStaleResponseDiscarded(t *testing.T) {
	older := cartWith(line("i1", "p1", "Product A", "1.00", 1))
	newer := cartWith(line("i1", "p1", "Product A", "1.00", 2))
	gate := make(chan struct{})
	started := make(chan struct{})
	fetcher := &stubFetcher{
		carts:   []*domain.Cart{older, newer},
		started: []chan struct{}{started, nil},
		release: []chan struct{}{gate, nil},
	}
	p := NewProjection(fetcher)

	done := make(chan error, 1)
	go func() { done <- p.Refresh(context.Background()) }()

	// Wait for the first fetch to be in flight, then complete a second one.
	<-started
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("first refresh: %v", err)
	}

	if got := p.ItemCount(); got != 2 {
		t.Fatalf("item count = %d, want 2 (stale response must be discarded)", got)
	}
}
