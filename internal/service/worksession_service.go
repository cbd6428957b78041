package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/pkg/utils"
)

type workSessionStore interface {
	Create(ctx context.Context, ws *models.WorkSession) error
	GetAggregate(ctx context.Context, id int64) (*models.WorkSession, error)
	UpdateStatus(ctx context.Context, ws *models.WorkSession) error
}

type workSessionInvoiceChecker interface {
	ExistsForWorkSession(ctx context.Context, workSessionID int64) (bool, error)
}

// WorkSessionService manages dyno and track sessions billed by the hour
type WorkSessionService struct {
	sessions workSessionStore
	invoices workSessionInvoiceChecker
	logger   *zap.Logger
	clock    func() time.Time
}

// NewWorkSessionService creates a new work session service
func NewWorkSessionService(sessions workSessionStore, invoices workSessionInvoiceChecker, logger *zap.Logger) *WorkSessionService {
	return &WorkSessionService{
		sessions: sessions,
		invoices: invoices,
		logger:   logger,
		clock:    time.Now,
	}
}

// CreateWorkSessionInput is the back-office request to open a session
type CreateWorkSessionInput struct {
	MotorcycleID int64           `json:"motorcycle_id" binding:"required"`
	Description  string          `json:"description" binding:"required"`
	HourlyRate   decimal.Decimal `json:"hourly_rate" binding:"required"`
}

// Create opens a new work session in pending status
func (s *WorkSessionService) Create(ctx context.Context, input CreateWorkSessionInput) (*models.WorkSession, error) {
	if !input.HourlyRate.IsPositive() {
		return nil, fmt.Errorf("%w: hourly rate must be positive", ErrValidation)
	}

	ws := &models.WorkSession{
		Code:         newWorkCode("WS"),
		MotorcycleID: input.MotorcycleID,
		Description:  utils.SanitizeString(input.Description),
		Status:       models.WorkStatusPending,
		HourlyRate:   input.HourlyRate.Round(2),
		Hours:        decimal.Zero,
	}
	if err := s.sessions.Create(ctx, ws); err != nil {
		return nil, err
	}

	s.logger.Info("Work session created",
		zap.String("code", ws.Code),
		zap.Int64("motorcycle_id", ws.MotorcycleID))
	return ws, nil
}

// Get returns a fully-loaded work session
func (s *WorkSessionService) Get(ctx context.Context, id int64) (*models.WorkSession, error) {
	ws, err := s.sessions.GetAggregate(ctx, id)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, ErrNotFound
	}
	return ws, nil
}

// Complete closes a session, recording the billable hours. Completed and
// invoiced sessions are immutable.
func (s *WorkSessionService) Complete(ctx context.Context, id int64, hours decimal.Decimal) (*models.WorkSession, error) {
	ws, err := s.sessions.GetAggregate(ctx, id)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, ErrNotFound
	}
	if ws.Status != models.WorkStatusPending && ws.Status != models.WorkStatusInProgress {
		return nil, fmt.Errorf("%w: work session is %s", ErrValidation, ws.Status)
	}
	if !hours.IsPositive() {
		return nil, fmt.Errorf("%w: hours must be positive", ErrValidation)
	}

	invoiced, err := s.invoices.ExistsForWorkSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoiced {
		return nil, ErrWorkOrderLocked
	}

	now := s.clock()
	ws.Status = models.WorkStatusCompleted
	ws.Hours = hours
	ws.CompletedAt = &now
	if err := s.sessions.UpdateStatus(ctx, ws); err != nil {
		return nil, err
	}

	s.logger.Info("Work session completed",
		zap.String("code", ws.Code),
		zap.String("hours", hours.String()))
	return ws, nil
}

// Cancel voids a session that was never run
func (s *WorkSessionService) Cancel(ctx context.Context, id int64) error {
	ws, err := s.sessions.GetAggregate(ctx, id)
	if err != nil {
		return err
	}
	if ws == nil {
		return ErrNotFound
	}
	if ws.Status != models.WorkStatusPending && ws.Status != models.WorkStatusInProgress {
		return fmt.Errorf("%w: work session is %s", ErrValidation, ws.Status)
	}

	ws.Status = models.WorkStatusCancelled
	return s.sessions.UpdateStatus(ctx, ws)
}
