package render

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/billing"
)

func testDocument() *billing.InvoiceDocument {
	return &billing.InvoiceDocument{
		Code:      "INV2024-001",
		IssueDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC),
		Issuer: billing.Issuer{
			Name:      "Officina Moto SRL",
			VATNumber: "IT01234567890",
			Address:   "Via delle Officine 12, Bologna",
		},
		BillTo: billing.Party{
			Name:       "Mario Rossi",
			FiscalCode: "RSSMRA80A01H501U",
			Email:      "mario.rossi@example.com",
		},
		Vehicle: billing.Vehicle{
			Brand: "Ducati",
			Model: "Monster 821",
			Year:  2019,
			Plate: "AB12345",
			VIN:   "ZDMH12345MB678901",
		},
		Lines: []billing.DocumentLine{
			{Description: "Labor - Front brake overhaul", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(120), Total: decimal.NewFromInt(120)},
			{Description: "Brake pads (BRK-001)", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(60), Total: decimal.NewFromInt(60)},
		},
		Subtotal:    decimal.NewFromInt(180),
		TaxRate:     decimal.NewFromInt(22),
		TaxAmount:   decimal.RequireFromString("39.60"),
		GrandTotal:  decimal.RequireFromString("219.60"),
		StatusLabel: "pending",
	}
}

func TestPDFRenderer_Render(t *testing.T) {
	r := NewPDFRenderer(zap.NewNop())

	result, err := r.Render(context.Background(), testDocument(), PageFormat{
		Size:        "A4",
		Orientation: "P",
		FontFamily:  "Helvetica",
	})
	require.NoError(t, err)

	assert.Equal(t, "invoice-INV2024-001.pdf", result.Filename)
	assert.Equal(t, "application/pdf", result.ContentType)
	require.NotEmpty(t, result.Bytes)
	// PDF files start with the %PDF magic marker.
	assert.Equal(t, "%PDF", string(result.Bytes[:4]))
}

func TestPDFRenderer_CancelledContext(t *testing.T) {
	r := NewPDFRenderer(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, testDocument(), PageFormat{Size: "A4", Orientation: "P"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRenderFailure)
}
