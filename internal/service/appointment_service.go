package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/auth"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/pkg/utils"
)

type appointmentStore interface {
	Create(ctx context.Context, a *models.Appointment) error
	GetByID(ctx context.Context, id int64) (*models.Appointment, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Appointment, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type motorcycleReader interface {
	GetByID(ctx context.Context, id int64) (*models.Motorcycle, error)
}

// AppointmentService manages customer bookings
type AppointmentService struct {
	appointments appointmentStore
	motorcycles  motorcycleReader
	logger       *zap.Logger
	clock        func() time.Time
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(appointments appointmentStore, motorcycles motorcycleReader, logger *zap.Logger) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		motorcycles:  motorcycles,
		logger:       logger,
		clock:        time.Now,
	}
}

// BookAppointmentInput is the request to book a workshop slot
type BookAppointmentInput struct {
	MotorcycleID int64     `json:"motorcycle_id" binding:"required"`
	ScheduledAt  time.Time `json:"scheduled_at" binding:"required"`
	Type         string    `json:"type" binding:"required"`
	Notes        string    `json:"notes"`
}

// Book creates a pending appointment for one of the caller's motorcycles
func (s *AppointmentService) Book(ctx context.Context, ident auth.Identity, input BookAppointmentInput) (*models.Appointment, error) {
	if input.Type != models.AppointmentTypeMaintenance && input.Type != models.AppointmentTypeDynoTesting {
		return nil, fmt.Errorf("%w: unknown appointment type %q", ErrValidation, input.Type)
	}
	if !input.ScheduledAt.After(s.clock()) {
		return nil, fmt.Errorf("%w: scheduled time must be in the future", ErrValidation)
	}

	moto, err := s.motorcycles.GetByID(ctx, input.MotorcycleID)
	if err != nil {
		return nil, fmt.Errorf("load motorcycle: %w", err)
	}
	if moto == nil || moto.UserID != ident.UserID {
		return nil, ErrNotFound
	}

	a := &models.Appointment{
		UserID:       ident.UserID,
		MotorcycleID: input.MotorcycleID,
		ScheduledAt:  input.ScheduledAt,
		Type:         input.Type,
		Status:       models.AppointmentStatusPending,
		Notes:        utils.SanitizeString(input.Notes),
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("Appointment booked",
		zap.Int64("user_id", ident.UserID),
		zap.Int64("appointment_id", a.ID),
		zap.String("type", a.Type))
	return a, nil
}

// ListMine returns the caller's appointments
func (s *AppointmentService) ListMine(ctx context.Context, ident auth.Identity) ([]*models.Appointment, error) {
	return s.appointments.ListByUser(ctx, ident.UserID)
}

// Cancel cancels one of the caller's appointments. Only pending and
// accepted appointments can be cancelled.
func (s *AppointmentService) Cancel(ctx context.Context, ident auth.Identity, id int64) error {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load appointment: %w", err)
	}
	if a == nil || a.UserID != ident.UserID {
		return ErrNotFound
	}
	if a.Status != models.AppointmentStatusPending && a.Status != models.AppointmentStatusAccepted {
		return fmt.Errorf("%w: appointment is %s", ErrValidation, a.Status)
	}

	return s.appointments.UpdateStatus(ctx, id, models.AppointmentStatusCancelled)
}

// Review lets the back office accept or reject a pending appointment
func (s *AppointmentService) Review(ctx context.Context, id int64, accept bool) error {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load appointment: %w", err)
	}
	if a == nil {
		return ErrNotFound
	}
	if a.Status != models.AppointmentStatusPending {
		return fmt.Errorf("%w: appointment is %s", ErrValidation, a.Status)
	}

	status := models.AppointmentStatusRejected
	if accept {
		status = models.AppointmentStatusAccepted
	}
	return s.appointments.UpdateStatus(ctx, id, status)
}

// ListPending returns pending appointments for back-office review
func (s *AppointmentService) ListPending(ctx context.Context) ([]*models.Appointment, error) {
	return s.appointments.ListByStatus(ctx, models.AppointmentStatusPending)
}
