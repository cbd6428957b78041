package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
)

// AppointmentRepository handles appointment database operations
type AppointmentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *sql.DB, logger *zap.Logger) *AppointmentRepository {
	return &AppointmentRepository{
		db:     db,
		logger: logger,
	}
}

const appointmentColumns = `id, user_id, motorcycle_id, scheduled_at, type, status, notes, created_at`

func scanAppointment(row interface{ Scan(...any) error }) (*models.Appointment, error) {
	var a models.Appointment
	err := row.Scan(&a.ID, &a.UserID, &a.MotorcycleID, &a.ScheduledAt, &a.Type, &a.Status, &a.Notes, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create creates a new appointment
func (r *AppointmentRepository) Create(ctx context.Context, a *models.Appointment) error {
	query := `
		INSERT INTO appointments (user_id, motorcycle_id, scheduled_at, type, status, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		a.UserID, a.MotorcycleID, a.ScheduledAt, a.Type, a.Status, a.Notes)
	if err != nil {
		r.logger.Error("Failed to create appointment", zap.Error(err))
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	a.ID = id
	return nil
}

// GetByID retrieves an appointment by id
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = ?`

	a, err := scanAppointment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get appointment", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return a, nil
}

// ListByUser retrieves a user's appointments, soonest first
func (r *AppointmentRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE user_id = ? ORDER BY scheduled_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list appointments", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*models.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

// ListByStatus retrieves appointments in a given status for the back office
func (r *AppointmentRepository) ListByStatus(ctx context.Context, status string) ([]*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE status = ? ORDER BY scheduled_at`

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		r.logger.Error("Failed to list appointments by status", zap.String("status", status), zap.Error(err))
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*models.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

// UpdateStatus changes an appointment's status
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		r.logger.Error("Failed to update appointment status", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("appointment %d not found", id)
	}
	return nil
}
