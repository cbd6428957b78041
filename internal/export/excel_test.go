package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/service"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestInvoiceReportWriter_Write(t *testing.T) {
	issued := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	listing := &service.InvoiceListing{
		Items: []*service.InvoiceListItem{
			{
				Code:     "INV2024-001",
				Customer: "Mario Rossi",
				Vehicle:  "Ducati Monster 937",
				Plate:    "AB12345",
				IssuedAt: issued,
				DueDate:  issued.AddDate(0, 0, 30),
				Amount:   dec("244.00"),
				Status:   models.InvoiceStatusPending,
			},
			{
				Code:     "INV2024-002",
				Customer: "Luca Bianchi",
				Vehicle:  "Honda CB650R",
				Plate:    "CD67890",
				IssuedAt: issued,
				DueDate:  issued.AddDate(0, 0, 30),
				Amount:   dec("146.40"),
				Status:   models.InvoiceStatusPaid,
			},
		},
		Summary: service.InvoiceSummary{
			TotalPaid:        dec("146.40"),
			TotalOutstanding: dec("244.00"),
			PendingCount:     1,
		},
	}

	w := NewInvoiceReportWriter(zap.NewNop())
	data, err := w.Write(listing)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	code, err := f.GetCellValue("Invoices", "A2")
	require.NoError(t, err)
	assert.Equal(t, "INV2024-001", code)

	amount, err := f.GetCellValue("Invoices", "G3")
	require.NoError(t, err)
	assert.Equal(t, "146.40", amount)

	outstanding, err := f.GetCellValue("Invoices", "B5")
	require.NoError(t, err)
	assert.Equal(t, "244.00", outstanding)
}

func TestInvoiceReportWriter_Write_Empty(t *testing.T) {
	w := NewInvoiceReportWriter(zap.NewNop())

	data, err := w.Write(&service.InvoiceListing{
		Summary: service.InvoiceSummary{
			TotalPaid:        decimal.Zero,
			TotalOutstanding: decimal.Zero,
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Invoices", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Code", header)
}
