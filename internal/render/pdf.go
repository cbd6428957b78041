package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/billing"
)

const dateLayout = "02/01/2006"

// PDFRenderer draws invoice documents with fpdf. Pure vector drawing from
// the document model; it cannot fetch remote resources by construction.
type PDFRenderer struct {
	logger *zap.Logger
}

// NewPDFRenderer creates a new PDF renderer
func NewPDFRenderer(logger *zap.Logger) *PDFRenderer {
	return &PDFRenderer{logger: logger}
}

// Render produces the invoice PDF
func (r *PDFRenderer) Render(ctx context.Context, doc *billing.InvoiceDocument, format PageFormat) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}

	font := format.FontFamily
	if font == "" {
		font = "Helvetica"
	}

	pdf := fpdf.New(format.Orientation, "mm", format.Size, "")
	pdf.SetTitle("Invoice "+doc.Code, false)
	pdf.AddPage()

	// Header: issuer block and invoice identity.
	pdf.SetFont(font, "B", 16)
	pdf.Cell(120, 8, doc.Issuer.Name)
	pdf.SetFont(font, "B", 14)
	pdf.CellFormat(0, 8, "Invoice "+doc.Code, "", 1, "R", false, 0, "")

	pdf.SetFont(font, "", 9)
	pdf.Cell(120, 5, "VAT "+doc.Issuer.VATNumber)
	pdf.CellFormat(0, 5, "Issued: "+doc.IssueDate.Format(dateLayout), "", 1, "R", false, 0, "")
	pdf.Cell(120, 5, doc.Issuer.Address)
	pdf.CellFormat(0, 5, "Due: "+doc.DueDate.Format(dateLayout), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 5, "Status: "+doc.StatusLabel, "", 1, "R", false, 0, "")
	pdf.Ln(6)

	// Bill-to and vehicle blocks side by side.
	pdf.SetFont(font, "B", 10)
	pdf.Cell(95, 6, "Billed to")
	pdf.CellFormat(0, 6, "Vehicle", "", 1, "L", false, 0, "")
	pdf.SetFont(font, "", 9)
	pdf.Cell(95, 5, doc.BillTo.Name)
	pdf.CellFormat(0, 5, fmt.Sprintf("%s %s (%d)", doc.Vehicle.Brand, doc.Vehicle.Model, doc.Vehicle.Year), "", 1, "L", false, 0, "")
	pdf.Cell(95, 5, "CF "+doc.BillTo.FiscalCode)
	pdf.CellFormat(0, 5, "Plate "+doc.Vehicle.Plate, "", 1, "L", false, 0, "")
	pdf.Cell(95, 5, doc.BillTo.Email)
	pdf.CellFormat(0, 5, "VIN "+doc.Vehicle.VIN, "", 1, "L", false, 0, "")
	pdf.Ln(8)

	// Line items table.
	pdf.SetFont(font, "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(95, 7, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, "Unit price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont(font, "", 9)
	for _, line := range doc.Lines {
		pdf.CellFormat(95, 7, line.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, line.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, line.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, line.Total.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	// Totals.
	pdf.Ln(2)
	pdf.SetFont(font, "", 9)
	pdf.CellFormat(150, 6, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 6, doc.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(150, 6, fmt.Sprintf("VAT %s%%", doc.TaxRate.String()), "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 6, doc.TaxAmount.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont(font, "B", 11)
	pdf.CellFormat(150, 8, "Total EUR", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, doc.GrandTotal.StringFixed(2), "", 1, "R", false, 0, "")

	if doc.Note != "" {
		pdf.Ln(4)
		pdf.SetFont(font, "I", 8)
		pdf.MultiCell(0, 4, "Note: "+doc.Note, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		r.logger.Error("PDF generation failed",
			zap.String("invoice_code", doc.Code),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}

	return &Result{
		Bytes:       buf.Bytes(),
		Filename:    fmt.Sprintf("invoice-%s.pdf", doc.Code),
		ContentType: "application/pdf",
	}, nil
}
