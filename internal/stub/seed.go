package stub

import (
	"fmt"

	"github.com/shopspring/decimal"
	"redstore/internal/domain"
)

type productSeed struct {
	Name        string
	Description string
	Price       string
	Stock       int
	ImageURL    string
}

// Seed inserts demo users and catalog entries for manual testing.
func (s *Store) Seed() error {
	products := []productSeed{
		{
			Name:        "Demo T-Shirt",
			Description: "Soft cotton tee for demo purposes",
			Price:       "19.99",
			Stock:       25,
			ImageURL:    "/images/demo-shirt.png",
		},
		{
			Name:        "Demo Mug",
			Description: "Ceramic mug with demo logo",
			Price:       "12.99",
			Stock:       40,
			ImageURL:    "/images/demo-mug.png",
		},
		{
			Name:        "Demo Poster",
			Description: "A2 wall poster, matte print",
			Price:       "8.50",
			Stock:       0,
			ImageURL:    "/images/demo-poster.png",
		},
	}

	for _, p := range products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.Name, err)
		}
		_, err = s.CreateProduct(domain.Product{
			Name:        p.Name,
			Description: p.Description,
			Price:       price,
			Stock:       p.Stock,
			ImageURL:    p.ImageURL,
		})
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.Name, err)
		}
	}

	if _, _, err := s.SignupUser("admin@redstore.com", "admin12345", "Store", "Admin", domain.RoleAdmin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if _, _, err := s.SignupUser("customer@redstore.com", "customer123", "Demo", "Customer", domain.RoleCustomer); err != nil {
		return fmt.Errorf("seed customer: %w", err)
	}
	return nil
}
