package infra

// pdf.go — Purchase-order document generation using go-pdf/fpdf.
// Renders an A4 page with:
//   - "PURCHASE ORDER" title, order date and order number
//   - Supplier block (name, address, fax, email)
//   - Clinic block (name, director, address, phone, fax)
//   - Line table (item name, quantity, unit)
//   - Footer note for the receiving fax operator
//
// The output file is saved to storagePath/order_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"clinistock/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateOrderPDF writes the document for an order and returns the
// absolute path of the generated file. Order.Lines must be preloaded
// with their Item; the caller is responsible for the status transition.
func GenerateOrderPDF(order *model.Order, supplier *model.Supplier, clinic *model.ClinicInfo, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("order_%s.pdf", order.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Title and order metadata ─────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW*0.6, 10, "PURCHASE ORDER", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW*0.4, 5, "Date: "+order.OrderDate.Format("2006-01-02"), "", 1, "R", false, 0, "")
	pdf.CellFormat(contentW*0.6, 5, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 5, "Order no: "+order.ID.String()[:8], "", 1, "R", false, 0, "")
	pdf.Ln(4)

	// ── Supplier block ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 6, "To:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 5, supplier.Name, "", 1, "L", false, 0, "")
	if supplier.Address != nil {
		pdf.CellFormat(contentW, 5, "Address: "+*supplier.Address, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, "FAX: "+supplier.FaxNumber, "", 1, "L", false, 0, "")
	if supplier.Email != nil {
		pdf.CellFormat(contentW, 5, "Email: "+*supplier.Email, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Clinic block ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 6, "From:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 5, clinic.Name, "", 1, "L", false, 0, "")
	if clinic.Director != nil {
		pdf.CellFormat(contentW, 5, "Director: "+*clinic.Director, "", 1, "L", false, 0, "")
	}
	if clinic.Address != nil {
		pdf.CellFormat(contentW, 5, "Address: "+*clinic.Address, "", 1, "L", false, 0, "")
	}
	if clinic.Phone != nil {
		pdf.CellFormat(contentW, 5, "TEL: "+*clinic.Phone, "", 1, "L", false, 0, "")
	}
	if clinic.Fax != nil {
		pdf.CellFormat(contentW, 5, "FAX: "+*clinic.Fax, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Line table ───────────────────────────────────────────────────────────
	col1 := contentW * 0.60 // item name
	col2 := contentW * 0.20 // quantity
	col3 := contentW * 0.20 // unit

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1, 7, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, "Quantity", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 7, "Unit", "B", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range order.Lines {
		name := ""
		unit := "each"
		if line.Item != nil {
			name = line.Item.Name
			if line.Item.UnitType == model.UnitTypeBox {
				unit = "box"
			}
		}
		name = truncateLabel(name, 60)
		pdf.CellFormat(col1, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("%d", line.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, unit, "", 1, "C", false, 0, "")
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(contentW, 5, "Notes:", "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "This fax was generated automatically.", "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// truncateLabel shortens a cell label to max runes. Item names are often
// multibyte, so byte slicing would split characters.
func truncateLabel(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
