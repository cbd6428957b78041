package billing

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
)

// DocumentConfig holds the billing policy applied when building documents
type DocumentConfig struct {
	VATRate      decimal.Decimal // percentage of subtotal, e.g. 22
	DueDays      int
	CompanyName  string
	CompanyVATID string
	CompanyAddr  string
}

// Party identifies the billed customer
type Party struct {
	Name       string `json:"name"`
	FiscalCode string `json:"fiscal_code"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

// Issuer identifies the workshop issuing the invoice
type Issuer struct {
	Name      string `json:"name"`
	VATNumber string `json:"vat_number"`
	Address   string `json:"address"`
}

// Vehicle describes the serviced motorcycle
type Vehicle struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	Plate string `json:"plate"`
	VIN   string `json:"vin"`
}

// DocumentLine is one billed line: labor, a part usage, or a session
type DocumentLine struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceDocument is the renderer-agnostic, fully-resolved invoice.
// Building it twice from the same inputs yields an identical value.
type InvoiceDocument struct {
	Code        string          `json:"code"`
	IssueDate   time.Time       `json:"issue_date"`
	DueDate     time.Time       `json:"due_date"` // derived: issue date + due days
	Issuer      Issuer          `json:"issuer"`
	BillTo      Party           `json:"bill_to"`
	Vehicle     Vehicle         `json:"vehicle"`
	Lines       []DocumentLine  `json:"lines"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	StatusLabel string          `json:"status_label"`
	Note        string          `json:"note"`
}

// BuildDocument assembles the invoice document for a work-order invoice.
// The work order must be fully loaded (motorcycle and model included);
// otherwise the build fails with ErrMissingWorkOrder and nothing partial is
// returned. Pure transformation, no side effects.
func BuildDocument(inv *models.Invoice, wo *models.WorkOrder, customer *models.User, cfg DocumentConfig, now time.Time) (*InvoiceDocument, error) {
	if inv.WorkOrderID == nil {
		return nil, fmt.Errorf("%w: invoice %s has no work order reference", ErrMissingWorkOrder, inv.Code)
	}
	if wo == nil || wo.ID != *inv.WorkOrderID {
		return nil, fmt.Errorf("%w: invoice %s references work order %d", ErrMissingWorkOrder, inv.Code, *inv.WorkOrderID)
	}
	if wo.Motorcycle == nil || wo.Motorcycle.Model == nil {
		return nil, fmt.Errorf("%w: work order %s not fully loaded", ErrMissingWorkOrder, wo.Code)
	}

	lines := make([]DocumentLine, 0, len(wo.Parts)+1)

	// Labor first, as a synthetic line when present.
	labor := wo.LaborCost.Round(2)
	if labor.IsPositive() {
		lines = append(lines, DocumentLine{
			Description: "Labor - " + wo.Description,
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   labor,
			Total:       labor,
		})
	}

	// Part lines in insertion order.
	parts := make([]*models.PartUsage, len(wo.Parts))
	copy(parts, wo.Parts)
	sort.Slice(parts, func(i, j int) bool { return parts[i].ID < parts[j].ID })

	for _, p := range parts {
		total, err := PriceLineItem(p.Quantity, p.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("work order %s: %w", wo.Code, err)
		}
		lines = append(lines, DocumentLine{
			Description: fmt.Sprintf("%s (%s)", p.PartName, p.PartCode),
			Quantity:    decimal.NewFromInt(int64(p.Quantity)),
			UnitPrice:   p.UnitPrice.Round(2),
			Total:       total,
		})
	}

	return finishDocument(inv, customer, wo.Motorcycle, lines, cfg, now)
}

// BuildSessionDocument assembles the invoice document for a work-session
// invoice (dyno or track session billed by the hour).
func BuildSessionDocument(inv *models.Invoice, ws *models.WorkSession, customer *models.User, cfg DocumentConfig, now time.Time) (*InvoiceDocument, error) {
	if inv.WorkSessionID == nil {
		return nil, fmt.Errorf("%w: invoice %s has no work session reference", ErrMissingWorkOrder, inv.Code)
	}
	if ws == nil || ws.ID != *inv.WorkSessionID {
		return nil, fmt.Errorf("%w: invoice %s references work session %d", ErrMissingWorkOrder, inv.Code, *inv.WorkSessionID)
	}
	if ws.Motorcycle == nil || ws.Motorcycle.Model == nil {
		return nil, fmt.Errorf("%w: work session %s not fully loaded", ErrMissingWorkOrder, ws.Code)
	}

	total := ws.HourlyRate.Mul(ws.Hours).Round(2)
	lines := []DocumentLine{{
		Description: fmt.Sprintf("Session %s - %s", ws.Code, ws.Description),
		Quantity:    ws.Hours,
		UnitPrice:   ws.HourlyRate.Round(2),
		Total:       total,
	}}

	return finishDocument(inv, customer, ws.Motorcycle, lines, cfg, now)
}

// finishDocument computes totals and fills the shared document fields
func finishDocument(inv *models.Invoice, customer *models.User, moto *models.Motorcycle, lines []DocumentLine, cfg DocumentConfig, now time.Time) (*InvoiceDocument, error) {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total)
	}

	taxAmount := subtotal.Mul(cfg.VATRate).Div(decimal.NewFromInt(100)).Round(2)

	return &InvoiceDocument{
		Code:      inv.Code,
		IssueDate: inv.IssuedAt,
		DueDate:   DueDate(inv.IssuedAt, cfg.DueDays),
		Issuer: Issuer{
			Name:      cfg.CompanyName,
			VATNumber: cfg.CompanyVATID,
			Address:   cfg.CompanyAddr,
		},
		BillTo: Party{
			Name:       customer.FullName(),
			FiscalCode: customer.FiscalCode,
			Email:      customer.Email,
			Phone:      customer.Phone,
		},
		Vehicle: Vehicle{
			Brand: moto.Model.Brand,
			Model: moto.Model.Name,
			Year:  moto.Model.ModelYear,
			Plate: moto.Plate,
			VIN:   moto.VIN,
		},
		Lines:       lines,
		Subtotal:    subtotal,
		TaxRate:     cfg.VATRate,
		TaxAmount:   taxAmount,
		GrandTotal:  subtotal.Add(taxAmount),
		StatusLabel: EffectiveStatus(inv, cfg.DueDays, now),
		Note:        inv.Note,
	}, nil
}
