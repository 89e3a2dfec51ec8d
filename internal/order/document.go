// Package order turns a finalized cart snapshot into the printable sales
// order. The document is derived and write-once: it is built from figures
// computed before checkout and never recomputed afterwards.
package order

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"redstore/internal/domain"
)

// Store identity printed in the document header.
const (
	StoreName    = "Red Store"
	StoreAddress = "Ramkhamhaeng, Phlabphla, Wang Thonglang, Bangkok 10310"
	StorePhone   = "02-XXX-XXXX"
	StoreEmail   = "contact@redstore.com"

	paymentTerm = "30 Days"
	taxLabel    = "VAT (7%)"
)

// Line is one row of the items table, amounts precomputed.
type Line struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Amount    decimal.Decimal
}

// Document is the sales order artifact. It has no further lifecycle once
// built; rendering and saving are terminal.
type Document struct {
	OrderNumber  string
	Date         time.Time
	CustomerName string
	PaymentTerm  string
	Lines        []Line
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	TaxLabel     string
	GrandTotal   decimal.Decimal
}

// Build composes the document from the pre-checkout snapshot. Subtotal, tax
// and grand total must be the figures computed before the status transition;
// they are passed through unchanged. The order number carries a timestamp
// suffix: monotonic-looking and fine for a printable receipt, not a ledger
// key.
func Build(snapshot *domain.Cart, customer *domain.User, subtotal, tax, grandTotal decimal.Decimal, now time.Time) *Document {
	lines := make([]Line, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		name := "Product"
		price := decimal.Zero
		if item.Product != nil {
			name = item.Product.Name
			price = item.Product.Price
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		lines = append(lines, Line{
			Name:      name,
			UnitPrice: price,
			Quantity:  item.Quantity,
			Amount:    price.Mul(qty),
		})
	}

	millis := fmt.Sprintf("%d", now.UnixMilli())
	return &Document{
		OrderNumber:  "SO-" + millis[len(millis)-6:],
		Date:         now,
		CustomerName: customer.DisplayName(),
		PaymentTerm:  paymentTerm,
		Lines:        lines,
		Subtotal:     subtotal,
		Tax:          tax,
		TaxLabel:     taxLabel,
		GrandTotal:   grandTotal,
	}
}

var whitespace = regexp.MustCompile(`\s+`)

// Filename derives the artifact name from the customer, whitespace
// normalized to underscores: SalesOrder_<name>.<ext>.
func (d *Document) Filename(ext string) string {
	return fmt.Sprintf("SalesOrder_%s.%s", whitespace.ReplaceAllString(d.CustomerName, "_"), ext)
}
