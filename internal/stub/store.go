// Package stub is an in-memory implementation of the storefront backend
// contract. It exists so the client can be run and integration-tested
// without infrastructure; it is not the production store.
package stub

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"redstore/internal/domain"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInsufficientStock is the authoritative stock rejection.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrEmptyCart rejects checkout of a cart with no line items.
	ErrEmptyCart = errors.New("cart is empty")
)

type userRecord struct {
	user         domain.User
	passwordHash []byte
}

// Store holds all backend state behind one mutex, in the spirit of the
// simplest thing that honors the contract: one active cart per user,
// quantity collapse on repeat adds, line deletion at quantity zero and
// stock bookkeeping on every cart change.
type Store struct {
	mu           sync.Mutex
	products     map[string]*domain.Product
	productOrder []string
	users        map[string]*userRecord
	emails       map[string]string
	carts        map[string]*domain.Cart
	tokens       map[string]string
}

func NewStore() *Store {
	return &Store{
		products: make(map[string]*domain.Product),
		users:    make(map[string]*userRecord),
		emails:   make(map[string]string),
		carts:    make(map[string]*domain.Cart),
		tokens:   make(map[string]string),
	}
}

// --- users and tokens ---

// SignupUser registers a customer and issues a bearer token.
func (s *Store) SignupUser(email, password, firstName, lastName, role string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return domain.User{}, "", errors.New("email required")
	}
	if len(strings.TrimSpace(password)) < 8 {
		return domain.User{}, "", errors.New("password must be at least 8 characters")
	}
	if role == "" {
		role = domain.RoleCustomer
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.emails[email]; taken {
		return domain.User{}, "", fmt.Errorf("%w: email taken", domain.ErrAlreadyExists)
	}
	user := domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	}
	s.users[user.ID] = &userRecord{user: user, passwordHash: hash}
	s.emails[email] = user.ID
	token, err := s.issueTokenLocked(user.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Authenticate checks credentials and issues a fresh bearer token.
func (s *Store) Authenticate(email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.emails[email]
	if !ok {
		return domain.User{}, "", ErrInvalidCredentials
	}
	rec := s.users[id]
	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := s.issueTokenLocked(id)
	if err != nil {
		return domain.User{}, "", err
	}
	return rec.user, token, nil
}

// UserByToken resolves a bearer token to its user.
func (s *Store) UserByToken(token string) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[token]
	if !ok {
		return domain.User{}, false
	}
	return s.users[id].user, true
}

// --- catalog ---

func (s *Store) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		if p, ok := s.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out
}

func (s *Store) Product(id string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return *p, nil
}

func validateProduct(p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name required")
	}
	if p.Price.IsNegative() {
		return errors.New("price must not be negative")
	}
	if p.Stock < 0 {
		return errors.New("stock must not be negative")
	}
	return nil
}

func (s *Store) CreateProduct(in domain.Product) (domain.Product, error) {
	if err := validateProduct(in); err != nil {
		return domain.Product{}, err
	}
	now := time.Now().UTC()
	in.ID = uuid.NewString()
	in.CreatedAt = now
	in.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[in.ID] = &in
	s.productOrder = append(s.productOrder, in.ID)
	return in, nil
}

func (s *Store) UpdateProduct(id string, in domain.Product) (domain.Product, error) {
	if err := validateProduct(in); err != nil {
		return domain.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	existing.Name = in.Name
	existing.Description = in.Description
	existing.Price = in.Price
	existing.Stock = in.Stock
	existing.ImageURL = in.ImageURL
	existing.UpdatedAt = time.Now().UTC()
	return *existing, nil
}

func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	delete(s.products, id)
	return nil
}

// --- cart ---

// activeCartLocked returns the user's active cart, creating one implicitly
// on first use.
func (s *Store) activeCartLocked(userID string) *domain.Cart {
	if c, ok := s.carts[userID]; ok {
		return c
	}
	now := time.Now().UTC()
	c := &domain.Cart{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    domain.CartStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.carts[userID] = c
	return c
}

// Cart returns a copy of the user's active cart with line snapshots
// refreshed against the live catalog.
func (s *Store) Cart(userID string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.activeCartLocked(userID)
	out := *c
	out.Items = make([]domain.CartItem, len(c.Items))
	for i, item := range c.Items {
		if live, ok := s.products[item.ProductID]; ok {
			snapshot := *live
			item.Product = &snapshot
		}
		out.Items[i] = item
	}
	return out
}

// CartCount returns the aggregate quantity across lines.
func (s *Store) CartCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.activeCartLocked(userID).Items {
		count += item.Quantity
	}
	return count
}

// AddToCart adds quantity units, collapsing into an existing line for the
// same product. Stock is enforced here authoritatively and decremented on
// success.
func (s *Store) AddToCart(userID, productID string, quantity int) error {
	if quantity <= 0 {
		return errors.New("quantity must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[productID]
	if !ok {
		return fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	if product.Stock < quantity {
		return ErrInsufficientStock
	}

	c := s.activeCartLocked(userID)
	if line := c.LineForProduct(productID); line != nil {
		line.Quantity += quantity
	} else {
		snapshot := *product
		c.Items = append(c.Items, domain.CartItem{
			ID:        uuid.NewString(),
			CartID:    c.ID,
			ProductID: productID,
			Quantity:  quantity,
			Product:   &snapshot,
		})
	}
	product.Stock -= quantity
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// DecreaseItem decrements a line by one, deleting it when the quantity would
// reach zero. The unit goes back to stock.
func (s *Store) DecreaseItem(userID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.activeCartLocked(userID)
	line := c.Line(itemID)
	if line == nil {
		return fmt.Errorf("cart item %s: %w", itemID, domain.ErrNotFound)
	}
	if p, ok := s.products[line.ProductID]; ok {
		p.Stock++
	}
	line.Quantity--
	if line.Quantity <= 0 {
		s.deleteLineLocked(c, itemID)
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// RemoveItem deletes a line unconditionally, returning its units to stock.
func (s *Store) RemoveItem(userID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.activeCartLocked(userID)
	line := c.Line(itemID)
	if line == nil {
		return fmt.Errorf("cart item %s: %w", itemID, domain.ErrNotFound)
	}
	if p, ok := s.products[line.ProductID]; ok {
		p.Stock += line.Quantity
	}
	s.deleteLineLocked(c, itemID)
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) deleteLineLocked(c *domain.Cart, itemID string) {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// CheckoutCart freezes the active cart. The next cart operation starts a
// fresh active cart for the user.
func (s *Store) CheckoutCart(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.activeCartLocked(userID)
	if len(c.Items) == 0 {
		return ErrEmptyCart
	}
	c.Status = domain.CartStatusCheckedOut
	c.UpdatedAt = time.Now().UTC()
	delete(s.carts, userID)
	return nil
}
