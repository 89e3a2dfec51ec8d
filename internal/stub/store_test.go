package stub

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"redstore/internal/domain"
)

func seedProduct(t *testing.T, s *Store, name, price string, stock int) domain.Product {
	t.Helper()
	p, err := s.CreateProduct(domain.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	})
	if err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return p
}

func seedCustomer(t *testing.T, s *Store) domain.User {
	t.Helper()
	user, _, err := s.SignupUser("jane@example.com", "password123", "Jane", "Doe", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	return user
}

func TestRepeatAddCollapsesIntoOneLine(t *testing.T) {
	s := NewStore()
	user := seedCustomer(t, s)
	p := seedProduct(t, s, "Tee", "19.99", 5)

	if err := s.AddToCart(user.ID, p.ID, 1); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := s.AddToCart(user.ID, p.ID, 1); err != nil {
		t.Fatalf("second add: %v", err)
	}

	cart := s.Cart(user.ID)
	if len(cart.Items) != 1 {
		t.Fatalf("line count = %d, want 1", len(cart.Items))
	}
	if cart.Items[0].Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", cart.Items[0].Quantity)
	}
}

func TestAddDecrementsStock(t *testing.T) {
	s := NewStore()
	user := seedCustomer(t, s)
	p := seedProduct(t, s, "Tee", "19.99", 2)

	if err := s.AddToCart(user.ID, p.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := s.Product(p.ID)
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	if got.Stock != 1 {
		t.Fatalf("stock = %d, want 1", got.Stock)
	}
}

func TestAddRejectsInsufficientStock(t *testing.T) {
	s := NewStore()
	user := seedCustomer(t, s)
	p := seedProduct(t, s, "Tee", "19.99", 0)

	if err := s.AddToCart(user.ID, p.ID, 1); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if got := s.Cart(user.ID); len(got.Items) != 0 {
		t.Fatalf("rejected add created a line")
	}
}

func TestDecreaseAtQuantityOneDeletesLine(t *testing.T) {
	s := NewStore()
	user := seedCustomer(t, s)
	p := seedProduct(t, s, "Tee", "19.99", 5)

	if err := s.AddToCart(user.ID, p.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	itemID := s.Cart(user.ID).Items[0].ID
	if err := s.DecreaseItem(user.ID, itemID); err != nil {
		t.Fatalf("decrease: %v", err)
	}

	cart := s.Cart(user.ID)
	if len(cart.Items) != 0 {
		t.Fatalf("line survived a decrease to zero: %+v", cart.Items)
	}
	if count := s.CartCount(user.ID); count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
	got, _ := s.Product(p.ID)
	if got.Stock != 5 {
		t.Fatalf("stock = %d, want 5 after the unit went back", got.Stock)
	}
}

func TestDecreaseKeepsLineAboveOne(t *testing.T) {
	s := NewStore()
	user := seedCustomer(t, s)
	p := seedProduct(t, s, "Tee", "19.99", 5)

	if err := s.AddToCart(user.ID, p.ID, 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	itemID := s.Cart(user.ID).Items[0].ID
	if err := s.DecreaseItem(user.ID, itemID); err != nil {
		t.Fatalf("decrease: %v", err)
	}

	cart := s.Cart(user.ID)
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart after decrease: %+v", cart.Items)
	}
}

func TestRemoveRestoresStock(t *testing.T) {
	s := NewStore()
	user := seedCustomer(t, s)
	p := seedProduct(t, s, "Tee", "19.99", 5)

	if err := s.AddToCart(user.ID, p.ID, 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	itemID := s.Cart(user.ID).Items[0].ID
	if err := s.RemoveItem(user.ID, itemID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if got := s.Cart(user.ID); len(got.Items) != 0 {
		t.Fatalf("line survived remove")
	}
	got, _ := s.Product(p.ID)
	if got.Stock != 5 {
		t.Fatalf("stock = %d, want 5", got.Stock)
	}
}

func TestCheckoutFreezesAndStartsFreshCart(t *testing.T) {
	s := NewStore()
	user := seedCustomer(t, s)
	p := seedProduct(t, s, "Tee", "19.99", 5)

	if err := s.AddToCart(user.ID, p.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	oldID := s.Cart(user.ID).ID
	if err := s.CheckoutCart(user.ID); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	fresh := s.Cart(user.ID)
	if fresh.ID == oldID {
		t.Fatalf("checkout did not start a fresh cart")
	}
	if fresh.Status != domain.CartStatusActive || len(fresh.Items) != 0 {
		t.Fatalf("fresh cart = %+v", fresh)
	}
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	s := NewStore()
	user := seedCustomer(t, s)

	if err := s.CheckoutCart(user.ID); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected empty cart error, got %v", err)
	}
}

func TestUpdateProduct(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s, "Tee", "19.99", 5)

	updated, err := s.UpdateProduct(p.ID, domain.Product{Name: "Tee v2", Price: decimal.RequireFromString("24.99"), Stock: 8})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Tee v2" || updated.Stock != 8 {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	got, err := s.Product(p.ID)
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	if got.Price.StringFixed(2) != "24.99" {
		t.Fatalf("price = %s, want 24.99", got.Price.StringFixed(2))
	}

	if _, err := s.UpdateProduct("missing", domain.Product{Name: "X", Stock: 1}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	s := NewStore()
	seedCustomer(t, s)

	user, token, err := s.Authenticate("jane@example.com", "password123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if token == "" {
		t.Fatalf("no token issued")
	}
	got, ok := s.UserByToken(token)
	if !ok || got.ID != user.ID {
		t.Fatalf("token does not resolve to the user")
	}

	if _, _, err := s.Authenticate("jane@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	s := NewStore()
	seedCustomer(t, s)

	_, _, err := s.SignupUser("jane@example.com", "password123", "Jane", "Doe", domain.RoleCustomer)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestSeedIsLoadable(t *testing.T) {
	s := NewStore()
	if err := s.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(s.Products()) == 0 {
		t.Fatalf("seed created no products")
	}
	if _, _, err := s.Authenticate("customer@redstore.com", "customer123"); err != nil {
		t.Fatalf("seeded customer cannot sign in: %v", err)
	}
}
