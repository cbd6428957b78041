package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/auth"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/billing"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/pkg/utils"
)

type workOrderStore interface {
	Create(ctx context.Context, wo *models.WorkOrder) error
	GetByID(ctx context.Context, id int64) (*models.WorkOrder, error)
	GetAggregate(ctx context.Context, id int64) (*models.WorkOrder, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.WorkOrder, error)
	UpdateStatus(ctx context.Context, wo *models.WorkOrder) error
	AddPartUsage(tx *sql.Tx, usage *models.PartUsage) error
}

type partStore interface {
	GetByID(ctx context.Context, id int64) (*models.Part, error)
	DecrementStock(tx *sql.Tx, partID int64, qty int) error
}

type workOrderInvoiceChecker interface {
	ExistsForWorkOrder(ctx context.Context, workOrderID int64) (bool, error)
}

type txRunner interface {
	WithTransaction(fn func(*sql.Tx) error) error
}

// Legal work order status transitions.
var workOrderTransitions = map[string][]string{
	models.WorkStatusPending:    {models.WorkStatusInProgress, models.WorkStatusCancelled},
	models.WorkStatusInProgress: {models.WorkStatusCompleted, models.WorkStatusCancelled},
}

// WorkOrderService manages the work order lifecycle and part consumption
type WorkOrderService struct {
	workOrders workOrderStore
	parts      partStore
	invoices   workOrderInvoiceChecker
	db         txRunner
	logger     *zap.Logger
	clock      func() time.Time
}

// NewWorkOrderService creates a new work order service
func NewWorkOrderService(
	workOrders workOrderStore,
	parts partStore,
	invoices workOrderInvoiceChecker,
	db txRunner,
	logger *zap.Logger,
) *WorkOrderService {
	return &WorkOrderService{
		workOrders: workOrders,
		parts:      parts,
		invoices:   invoices,
		db:         db,
		logger:     logger,
		clock:      time.Now,
	}
}

// WorkOrderView is a work order with its derived costs
type WorkOrderView struct {
	*models.WorkOrder
	Costs *billing.CostBreakdown `json:"costs"`
}

// CreateWorkOrderInput is the back-office request to open a work order
type CreateWorkOrderInput struct {
	MotorcycleID  int64           `json:"motorcycle_id" binding:"required"`
	AppointmentID *int64          `json:"appointment_id"`
	Description   string          `json:"description" binding:"required"`
	LaborCost     decimal.Decimal `json:"labor_cost"`
	Notes         string          `json:"notes"`
}

// Create opens a new work order in pending status
func (s *WorkOrderService) Create(ctx context.Context, input CreateWorkOrderInput) (*models.WorkOrder, error) {
	if input.LaborCost.IsNegative() {
		return nil, fmt.Errorf("%w: %v", ErrValidation, billing.ErrInvalidLaborCost)
	}

	wo := &models.WorkOrder{
		Code:          newWorkCode("WO"),
		MotorcycleID:  input.MotorcycleID,
		AppointmentID: input.AppointmentID,
		Description:   utils.SanitizeString(input.Description),
		Status:        models.WorkStatusPending,
		LaborCost:     input.LaborCost.Round(2),
		Notes:         utils.SanitizeString(input.Notes),
	}
	if err := s.workOrders.Create(ctx, wo); err != nil {
		return nil, err
	}

	s.logger.Info("Work order created",
		zap.String("code", wo.Code),
		zap.Int64("motorcycle_id", wo.MotorcycleID))
	return wo, nil
}

// ListForUser returns the caller's work orders with derived costs
func (s *WorkOrderService) ListForUser(ctx context.Context, ident auth.Identity) ([]*WorkOrderView, error) {
	orders, err := s.workOrders.ListByUser(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}

	views := make([]*WorkOrderView, 0, len(orders))
	for _, wo := range orders {
		agg, err := s.workOrders.GetAggregate(ctx, wo.ID)
		if err != nil {
			return nil, err
		}
		costs, err := billing.Aggregate(agg.LaborCost, agg.Parts)
		if err != nil {
			return nil, fmt.Errorf("aggregate costs for %s: %w", agg.Code, err)
		}
		views = append(views, &WorkOrderView{WorkOrder: agg, Costs: costs})
	}
	return views, nil
}

// Get returns a fully-loaded work order with derived costs
func (s *WorkOrderService) Get(ctx context.Context, id int64) (*WorkOrderView, error) {
	wo, err := s.workOrders.GetAggregate(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, ErrNotFound
	}

	costs, err := billing.Aggregate(wo.LaborCost, wo.Parts)
	if err != nil {
		return nil, fmt.Errorf("aggregate costs for %s: %w", wo.Code, err)
	}
	return &WorkOrderView{WorkOrder: wo, Costs: costs}, nil
}

// UpdateStatusInput is the mechanic's status change request
type UpdateStatusInput struct {
	Status    string           `json:"status" binding:"required"`
	LaborCost *decimal.Decimal `json:"labor_cost"`
	Notes     *string          `json:"notes"`
}

// UpdateStatus moves a work order through its lifecycle. Once invoiced a
// work order is immutable and every change is rejected.
func (s *WorkOrderService) UpdateStatus(ctx context.Context, id int64, input UpdateStatusInput) (*models.WorkOrder, error) {
	wo, err := s.workOrders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, ErrNotFound
	}

	invoiced, err := s.invoices.ExistsForWorkOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoiced {
		return nil, ErrWorkOrderLocked
	}

	if !contains(workOrderTransitions[wo.Status], input.Status) {
		return nil, fmt.Errorf("%w: work order %s -> %s", ErrValidation, wo.Status, input.Status)
	}

	now := s.clock()
	wo.Status = input.Status
	switch input.Status {
	case models.WorkStatusInProgress:
		wo.StartedAt = &now
	case models.WorkStatusCompleted:
		wo.CompletedAt = &now
	}
	if input.LaborCost != nil {
		if input.LaborCost.IsNegative() {
			return nil, fmt.Errorf("%w: %v", ErrValidation, billing.ErrInvalidLaborCost)
		}
		wo.LaborCost = input.LaborCost.Round(2)
	}
	if input.Notes != nil {
		wo.Notes = utils.SanitizeString(*input.Notes)
	}

	if err := s.workOrders.UpdateStatus(ctx, wo); err != nil {
		return nil, err
	}

	s.logger.Info("Work order status updated",
		zap.String("code", wo.Code),
		zap.String("status", wo.Status))
	return wo, nil
}

// AddPartInput is the mechanic's part consumption request
type AddPartInput struct {
	PartID   int64 `json:"part_id" binding:"required"`
	Quantity int   `json:"quantity" binding:"required"`
}

// AddPart records consumption of a catalog part on a work order. The unit
// price is snapshotted from the catalog at this moment; later catalog price
// changes never affect the recorded line. Stock decrement and line insert
// commit atomically.
func (s *WorkOrderService) AddPart(ctx context.Context, workOrderID int64, input AddPartInput) (*models.PartUsage, error) {
	wo, err := s.workOrders.GetByID(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, ErrNotFound
	}
	if wo.Status != models.WorkStatusPending && wo.Status != models.WorkStatusInProgress {
		return nil, fmt.Errorf("%w: work order is %s", ErrValidation, wo.Status)
	}

	invoiced, err := s.invoices.ExistsForWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if invoiced {
		return nil, ErrWorkOrderLocked
	}

	part, err := s.parts.GetByID(ctx, input.PartID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, fmt.Errorf("%w: unknown part %d", ErrValidation, input.PartID)
	}

	total, err := billing.PriceLineItem(input.Quantity, part.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	usage := &models.PartUsage{
		WorkOrderID: workOrderID,
		PartID:      part.ID,
		PartCode:    part.Code,
		PartName:    part.Name,
		Quantity:    input.Quantity,
		UnitPrice:   part.UnitPrice.Round(2),
		TotalPrice:  total,
	}

	err = s.db.WithTransaction(func(tx *sql.Tx) error {
		if err := s.parts.DecrementStock(tx, part.ID, input.Quantity); err != nil {
			return err
		}
		return s.workOrders.AddPartUsage(tx, usage)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Part consumed",
		zap.String("work_order", wo.Code),
		zap.String("part", part.Code),
		zap.Int("quantity", input.Quantity))
	return usage, nil
}

func newWorkCode(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
