package order

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

// Table geometry on an A4 page with 14mm side margins.
var colWidths = [4]float64{92, 34, 18, 38}

// RenderPDF writes the single-page sales order to w.
func (d *Document) RenderPDF(w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 12, 14)
	pdf.AddPage()

	// Header: title right, store identity left, order meta right.
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(40, 40, 40)
	pdf.SetXY(120, 14)
	pdf.CellFormat(76, 9, "SALES ORDER", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(14, 28)
	pdf.CellFormat(100, 5, StoreName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(14)
	pdf.CellFormat(100, 5, StoreAddress, "", 1, "L", false, 0, "")
	pdf.SetX(14)
	pdf.CellFormat(100, 5, "Tel: "+StorePhone, "", 1, "L", false, 0, "")
	pdf.SetX(14)
	pdf.CellFormat(100, 5, StoreEmail, "", 1, "L", false, 0, "")

	pdf.SetXY(120, 28)
	pdf.CellFormat(76, 5, "Order No: "+d.OrderNumber, "", 2, "R", false, 0, "")
	pdf.CellFormat(76, 5, "Date: "+d.Date.Format("02/01/2006"), "", 2, "R", false, 0, "")
	pdf.CellFormat(76, 5, "Payment Term: "+d.PaymentTerm, "", 1, "R", false, 0, "")

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(14, 48, 196, 48)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(14, 52)
	pdf.CellFormat(100, 5, "BILL TO:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(14)
	pdf.CellFormat(100, 5, d.CustomerName, "", 1, "L", false, 0, "")

	// Items table.
	pdf.SetY(66)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(220, 38, 38)
	pdf.SetTextColor(255, 255, 255)
	headers := [4]string{"Description", "Price", "Qty", "Amount"}
	aligns := [4]string{"L", "R", "C", "R"}
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, h, "1", 0, aligns[i], true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(40, 40, 40)
	for _, line := range d.Lines {
		cells := [4]string{
			line.Name,
			line.UnitPrice.StringFixed(2),
			fmt.Sprintf("%d", line.Quantity),
			line.Amount.StringFixed(2),
		}
		for i, cell := range cells {
			pdf.CellFormat(colWidths[i], 7, cell, "1", 0, aligns[i], false, 0, "")
		}
		pdf.Ln(-1)
	}

	// Summary block, right aligned under the table.
	y := pdf.GetY() + 8
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(120, y)
	pdf.CellFormat(40, 6, "Subtotal:", "", 0, "L", false, 0, "")
	pdf.CellFormat(36, 6, d.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetX(120)
	pdf.CellFormat(40, 6, d.TaxLabel+":", "", 0, "L", false, 0, "")
	pdf.CellFormat(36, 6, d.Tax.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetX(120)
	pdf.CellFormat(40, 8, "Grand Total:", "", 0, "L", false, 0, "")
	pdf.CellFormat(36, 8, d.GrandTotal.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetY(pdf.GetY() + 12)
	pdf.CellFormat(182, 5, "Thank you for your business!", "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

// Save renders the PDF into dir under the derived filename and returns the
// full path.
func (d *Document) Save(dir string) (string, error) {
	path := filepath.Join(dir, d.Filename("pdf"))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create sales order file: %w", err)
	}
	defer f.Close()
	if err := d.RenderPDF(f); err != nil {
		return "", fmt.Errorf("render sales order: %w", err)
	}
	return path, nil
}
