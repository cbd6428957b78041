package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/billing"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/pkg/utils"
)

type invoiceStore interface {
	NextCode(tx *sql.Tx, prefix string, year int) (string, error)
	Create(tx *sql.Tx, inv *models.Invoice) error
	GetByID(ctx context.Context, id int64) (*models.Invoice, error)
	ExistsForWorkOrder(ctx context.Context, workOrderID int64) (bool, error)
	ExistsForWorkSession(ctx context.Context, workSessionID int64) (bool, error)
	UpdateStatus(ctx context.Context, inv *models.Invoice) error
}

type workOrderAggregateReader interface {
	GetAggregate(ctx context.Context, id int64) (*models.WorkOrder, error)
}

type workSessionAggregateReader interface {
	GetAggregate(ctx context.Context, id int64) (*models.WorkSession, error)
}

// BillingService issues invoices and walks them through their lifecycle
type BillingService struct {
	invoices   invoiceStore
	workOrders workOrderAggregateReader
	sessions   workSessionAggregateReader
	db         txRunner
	docCfg     billing.DocumentConfig
	prefix     string
	logger     *zap.Logger
	clock      func() time.Time
}

// NewBillingService creates a new billing service
func NewBillingService(
	invoices invoiceStore,
	workOrders workOrderAggregateReader,
	sessions workSessionAggregateReader,
	db txRunner,
	docCfg billing.DocumentConfig,
	prefix string,
	logger *zap.Logger,
) *BillingService {
	return &BillingService{
		invoices:   invoices,
		workOrders: workOrders,
		sessions:   sessions,
		db:         db,
		docCfg:     docCfg,
		prefix:     prefix,
		logger:     logger,
		clock:      time.Now,
	}
}

// IssueForWorkOrder issues a pending invoice for a completed work order.
// The amount is the VAT-inclusive grand total of the work order's labor and
// part lines, frozen at issue time. A work order can be invoiced once.
func (s *BillingService) IssueForWorkOrder(ctx context.Context, workOrderID int64, note string) (*models.Invoice, error) {
	wo, err := s.workOrders.GetAggregate(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, ErrNotFound
	}
	if wo.Status != models.WorkStatusCompleted {
		return nil, fmt.Errorf("%w: work order %s is %s", ErrNotInvoiceable, wo.Code, wo.Status)
	}

	invoiced, err := s.invoices.ExistsForWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if invoiced {
		return nil, fmt.Errorf("%w: work order %s", ErrAlreadyInvoiced, wo.Code)
	}

	costs, err := billing.Aggregate(wo.LaborCost, wo.Parts)
	if err != nil {
		return nil, fmt.Errorf("aggregate costs for %s: %w", wo.Code, err)
	}

	inv := &models.Invoice{
		UserID:      wo.Motorcycle.UserID,
		WorkOrderID: &workOrderID,
		Amount:      s.grandTotal(costs.TotalCost),
		IssuedAt:    s.clock(),
		Status:      models.InvoiceStatusPending,
		Note:        utils.SanitizeString(note),
	}
	if err := s.persist(inv); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice issued",
		zap.String("code", inv.Code),
		zap.String("work_order", wo.Code),
		zap.String("amount", inv.Amount.StringFixed(2)))
	return inv, nil
}

// IssueForWorkSession issues a pending invoice for a completed dyno or
// track session. Amount is hours times hourly rate plus VAT.
func (s *BillingService) IssueForWorkSession(ctx context.Context, workSessionID int64, note string) (*models.Invoice, error) {
	ws, err := s.sessions.GetAggregate(ctx, workSessionID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, ErrNotFound
	}
	if ws.Status != models.WorkStatusCompleted {
		return nil, fmt.Errorf("%w: work session %s is %s", ErrNotInvoiceable, ws.Code, ws.Status)
	}

	invoiced, err := s.invoices.ExistsForWorkSession(ctx, workSessionID)
	if err != nil {
		return nil, err
	}
	if invoiced {
		return nil, fmt.Errorf("%w: work session %s", ErrAlreadyInvoiced, ws.Code)
	}

	subtotal := ws.HourlyRate.Mul(ws.Hours).Round(2)
	if !subtotal.IsPositive() {
		return nil, fmt.Errorf("%w: work session %s has no billable time", ErrNotInvoiceable, ws.Code)
	}

	inv := &models.Invoice{
		UserID:        ws.Motorcycle.UserID,
		WorkSessionID: &workSessionID,
		Amount:        s.grandTotal(subtotal),
		IssuedAt:      s.clock(),
		Status:        models.InvoiceStatusPending,
		Note:          utils.SanitizeString(note),
	}
	if err := s.persist(inv); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice issued",
		zap.String("code", inv.Code),
		zap.String("work_session", ws.Code),
		zap.String("amount", inv.Amount.StringFixed(2)))
	return inv, nil
}

// persist reserves the next invoice code and inserts the invoice in one
// transaction, so concurrent issuers never share a code.
func (s *BillingService) persist(inv *models.Invoice) error {
	return s.db.WithTransaction(func(tx *sql.Tx) error {
		code, err := s.invoices.NextCode(tx, s.prefix, inv.IssuedAt.Year())
		if err != nil {
			return err
		}
		inv.Code = code
		return s.invoices.Create(tx, inv)
	})
}

// MarkPaid records payment of an invoice
func (s *BillingService) MarkPaid(ctx context.Context, id int64) (*models.Invoice, error) {
	return s.transition(ctx, id, models.InvoiceStatusPaid)
}

// Cancel voids an unpaid invoice
func (s *BillingService) Cancel(ctx context.Context, id int64) (*models.Invoice, error) {
	return s.transition(ctx, id, models.InvoiceStatusCancelled)
}

func (s *BillingService) transition(ctx context.Context, id int64, to string) (*models.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrNotFound
	}

	if err := billing.Transition(inv, to, s.clock()); err != nil {
		if errors.Is(err, billing.ErrInvalidTransition) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, err
	}
	if err := s.invoices.UpdateStatus(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice status updated",
		zap.String("code", inv.Code),
		zap.String("status", inv.Status))
	return inv, nil
}

// grandTotal applies the configured VAT rate on top of a subtotal
func (s *BillingService) grandTotal(subtotal decimal.Decimal) decimal.Decimal {
	tax := subtotal.Mul(s.docCfg.VATRate).Div(decimal.NewFromInt(100)).Round(2)
	return subtotal.Add(tax)
}
