package domain

import "time"

// Cart lifecycle states. A cart accepts mutations only while active; checkout
// freezes it and the server starts a fresh active cart on the next add.
const (
	CartStatusActive     = "active"
	CartStatusCheckedOut = "checked_out"
)

type Cart struct {
	ID        string     `json:"cart_id"`
	UserID    string     `json:"user_id"`
	Status    string     `json:"status"`
	Items     []CartItem `json:"cart_items"`
	CreatedAt time.Time  `json:"created_at,omitzero"`
	UpdatedAt time.Time  `json:"updated_at,omitzero"`
}

// CartItem is one product-quantity pairing within a cart. Product carries the
// denormalized snapshot the server returns for display; quantity is >= 1 for
// as long as the line exists.
type CartItem struct {
	ID        string   `json:"item_id"`
	CartID    string   `json:"cart_id"`
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"products,omitempty"`
}

// Line returns the item matching id, or nil.
func (c *Cart) Line(itemID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// LineForProduct returns the item holding productID, or nil. A product
// appears in at most one line per active cart.
func (c *Cart) LineForProduct(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}
