package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/auth"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/billing"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/render"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/repository"
)

type invoiceRowReader interface {
	GetByID(ctx context.Context, id int64) (*models.Invoice, error)
	ListByUser(ctx context.Context, userID int64) ([]*repository.InvoiceRow, error)
	ListAll(ctx context.Context) ([]*repository.InvoiceRow, error)
}

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// InvoiceQueryService is the read side of billing: ownership-filtered
// listings, dashboard totals, and document downloads. It never mutates
// invoices.
type InvoiceQueryService struct {
	invoices   invoiceRowReader
	workOrders workOrderAggregateReader
	sessions   workSessionAggregateReader
	users      userReader
	renderer   render.Renderer
	docCfg     billing.DocumentConfig
	format     render.PageFormat
	logger     *zap.Logger
	clock      func() time.Time
}

// NewInvoiceQueryService creates a new invoice query service
func NewInvoiceQueryService(
	invoices invoiceRowReader,
	workOrders workOrderAggregateReader,
	sessions workSessionAggregateReader,
	users userReader,
	renderer render.Renderer,
	docCfg billing.DocumentConfig,
	format render.PageFormat,
	logger *zap.Logger,
) *InvoiceQueryService {
	return &InvoiceQueryService{
		invoices:   invoices,
		workOrders: workOrders,
		sessions:   sessions,
		users:      users,
		renderer:   renderer,
		docCfg:     docCfg,
		format:     format,
		logger:     logger,
		clock:      time.Now,
	}
}

// InvoiceListItem is one row of an invoice listing, with the overdue state
// derived at read time
type InvoiceListItem struct {
	ID       int64           `json:"id"`
	Code     string          `json:"code"`
	IssuedAt time.Time       `json:"issued_at"`
	DueDate  time.Time       `json:"due_date"`
	Amount   decimal.Decimal `json:"amount"`
	Status   string          `json:"status"`
	PaidAt   *time.Time      `json:"paid_at,omitempty"`
	Customer string          `json:"customer"`
	Vehicle  string          `json:"vehicle"`
	Plate    string          `json:"plate"`
}

// InvoiceSummary aggregates a listing for dashboard display. Cancelled
// invoices count toward neither total.
type InvoiceSummary struct {
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	PendingCount     int             `json:"pending_count"`
	OverdueCount     int             `json:"overdue_count"`
}

// InvoiceListing is a page of invoice rows plus their summary
type InvoiceListing struct {
	Items   []*InvoiceListItem `json:"items"`
	Summary InvoiceSummary     `json:"summary"`
}

// ListForUser returns the caller's invoices newest first, with totals
func (s *InvoiceQueryService) ListForUser(ctx context.Context, ident auth.Identity) (*InvoiceListing, error) {
	rows, err := s.invoices.ListByUser(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}
	return s.project(rows), nil
}

// ListAll returns every invoice for back-office listings and report export
func (s *InvoiceQueryService) ListAll(ctx context.Context) (*InvoiceListing, error) {
	rows, err := s.invoices.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.project(rows), nil
}

func (s *InvoiceQueryService) project(rows []*repository.InvoiceRow) *InvoiceListing {
	now := s.clock()
	listing := &InvoiceListing{
		Items: make([]*InvoiceListItem, 0, len(rows)),
		Summary: InvoiceSummary{
			TotalPaid:        decimal.Zero,
			TotalOutstanding: decimal.Zero,
		},
	}

	for _, row := range rows {
		inv := row.Invoice
		status := billing.EffectiveStatus(&inv, s.docCfg.DueDays, now)

		listing.Items = append(listing.Items, &InvoiceListItem{
			ID:       inv.ID,
			Code:     inv.Code,
			IssuedAt: inv.IssuedAt,
			DueDate:  billing.DueDate(inv.IssuedAt, s.docCfg.DueDays),
			Amount:   inv.Amount,
			Status:   status,
			PaidAt:   inv.PaidAt,
			Customer: row.CustomerName,
			Vehicle:  row.VehicleBrand + " " + row.VehicleModel,
			Plate:    row.VehiclePlate,
		})

		switch status {
		case models.InvoiceStatusPaid:
			listing.Summary.TotalPaid = listing.Summary.TotalPaid.Add(inv.Amount)
		case models.InvoiceStatusPending:
			listing.Summary.TotalOutstanding = listing.Summary.TotalOutstanding.Add(inv.Amount)
			listing.Summary.PendingCount++
		case models.InvoiceStatusOverdue:
			listing.Summary.TotalOutstanding = listing.Summary.TotalOutstanding.Add(inv.Amount)
			listing.Summary.OverdueCount++
		}
	}
	return listing
}

// Download builds and renders the invoice document for the caller. A
// customer asking for someone else's invoice gets not found, never a
// permission hint. Staff can download any invoice.
func (s *InvoiceQueryService) Download(ctx context.Context, ident auth.Identity, invoiceID int64) (*render.Result, error) {
	inv, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrNotFound
	}
	if ident.Role == models.RoleCustomer && inv.UserID != ident.UserID {
		return nil, ErrNotFound
	}

	customer, err := s.users.GetByID(ctx, inv.UserID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("invoice %s: customer %d missing", inv.Code, inv.UserID)
	}

	doc, err := s.buildDocument(ctx, inv, customer)
	if err != nil {
		return nil, err
	}

	result, err := s.renderer.Render(ctx, doc, s.format)
	if err != nil {
		s.logger.Error("Invoice rendering failed",
			zap.String("code", inv.Code), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Invoice downloaded",
		zap.String("code", inv.Code),
		zap.Int64("user_id", ident.UserID))
	return result, nil
}

func (s *InvoiceQueryService) buildDocument(ctx context.Context, inv *models.Invoice, customer *models.User) (*billing.InvoiceDocument, error) {
	now := s.clock()
	switch {
	case inv.BillsWorkOrder():
		wo, err := s.workOrders.GetAggregate(ctx, *inv.WorkOrderID)
		if err != nil {
			return nil, err
		}
		return billing.BuildDocument(inv, wo, customer, s.docCfg, now)
	case inv.BillsWorkSession():
		ws, err := s.sessions.GetAggregate(ctx, *inv.WorkSessionID)
		if err != nil {
			return nil, err
		}
		return billing.BuildSessionDocument(inv, ws, customer, s.docCfg, now)
	default:
		return nil, fmt.Errorf("%w: invoice %s references no work", billing.ErrMissingWorkOrder, inv.Code)
	}
}
