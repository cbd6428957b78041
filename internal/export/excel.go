// Package export produces back-office spreadsheet reports.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/service"
)

// InvoiceReportWriter writes invoice listings as Excel workbooks for the
// back office
type InvoiceReportWriter struct {
	logger *zap.Logger
}

// NewInvoiceReportWriter creates a new invoice report writer
func NewInvoiceReportWriter(logger *zap.Logger) *InvoiceReportWriter {
	return &InvoiceReportWriter{logger: logger}
}

var reportHeader = []string{
	"Code", "Customer", "Vehicle", "Plate", "Issued", "Due", "Amount", "Status", "Paid",
}

// Write renders a listing into a single-sheet workbook: a header row, one
// row per invoice, then outstanding and paid totals.
func (w *InvoiceReportWriter) Write(listing *service.InvoiceListing) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Invoices"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, title := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		w.setCell(f, sheet, cell, title)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header row: %w", err)
	}

	for i, item := range listing.Items {
		row := i + 2
		paid := ""
		if item.PaidAt != nil {
			paid = item.PaidAt.Format("2006-01-02")
		}
		values := []any{
			item.Code,
			item.Customer,
			item.Vehicle,
			item.Plate,
			item.IssuedAt.Format("2006-01-02"),
			item.DueDate.Format("2006-01-02"),
			item.Amount.StringFixed(2),
			item.Status,
			paid,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			w.setCell(f, sheet, cell, v)
		}
	}

	totalsRow := len(listing.Items) + 3
	w.setCell(f, sheet, fmt.Sprintf("A%d", totalsRow), "Total outstanding")
	w.setCell(f, sheet, fmt.Sprintf("B%d", totalsRow), listing.Summary.TotalOutstanding.StringFixed(2))
	w.setCell(f, sheet, fmt.Sprintf("A%d", totalsRow+1), "Total paid")
	w.setCell(f, sheet, fmt.Sprintf("B%d", totalsRow+1), listing.Summary.TotalPaid.StringFixed(2))
	w.setCell(f, sheet, fmt.Sprintf("A%d", totalsRow+2), "Overdue invoices")
	w.setCell(f, sheet, fmt.Sprintf("B%d", totalsRow+2), listing.Summary.OverdueCount)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	w.logger.Info("Invoice report written", zap.Int("invoices", len(listing.Items)))
	return buf.Bytes(), nil
}

// setCell sets a cell value, logging instead of failing on cell errors
func (w *InvoiceReportWriter) setCell(f *excelize.File, sheet, cell string, value any) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		w.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}
