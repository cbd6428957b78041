package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
)

// WorkSessionRepository handles dyno/track work session database operations
type WorkSessionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewWorkSessionRepository creates a new work session repository
func NewWorkSessionRepository(db *sql.DB, logger *zap.Logger) *WorkSessionRepository {
	return &WorkSessionRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new work session
func (r *WorkSessionRepository) Create(ctx context.Context, ws *models.WorkSession) error {
	query := `
		INSERT INTO work_sessions (code, motorcycle_id, description, status, hourly_rate, hours)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		ws.Code, ws.MotorcycleID, ws.Description, ws.Status,
		ws.HourlyRate.StringFixed(2), ws.Hours.String())
	if err != nil {
		r.logger.Error("Failed to create work session", zap.Error(err))
		return fmt.Errorf("failed to create work session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	ws.ID = id
	return nil
}

// GetAggregate loads a work session with its motorcycle and model
func (r *WorkSessionRepository) GetAggregate(ctx context.Context, id int64) (*models.WorkSession, error) {
	query := `
		SELECT ws.id, ws.code, ws.motorcycle_id, ws.description, ws.status,
			ws.hourly_rate, ws.hours, ws.completed_at, ws.created_at,
			m.id, m.user_id, m.model_id, m.plate, m.vin, m.registration_year, m.notes, m.created_at,
			mm.id, mm.brand, mm.name, mm.model_year, mm.engine_cc, mm.category
		FROM work_sessions ws
		JOIN motorcycles m ON m.id = ws.motorcycle_id
		JOIN motorcycle_models mm ON mm.id = m.model_id
		WHERE ws.id = ?
	`

	var ws models.WorkSession
	var m models.Motorcycle
	var mm models.MotorcycleModel
	var hourlyRate, hours string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ws.ID, &ws.Code, &ws.MotorcycleID, &ws.Description, &ws.Status,
		&hourlyRate, &hours, &ws.CompletedAt, &ws.CreatedAt,
		&m.ID, &m.UserID, &m.ModelID, &m.Plate, &m.VIN, &m.RegistrationYear, &m.Notes, &m.CreatedAt,
		&mm.ID, &mm.Brand, &mm.Name, &mm.ModelYear, &mm.EngineCC, &mm.Category,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to load work session aggregate", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to load work session aggregate: %w", err)
	}

	if ws.HourlyRate, err = parseDecimal(hourlyRate); err != nil {
		return nil, err
	}
	if ws.Hours, err = parseDecimal(hours); err != nil {
		return nil, err
	}
	m.Model = &mm
	ws.Motorcycle = &m

	return &ws, nil
}

// UpdateStatus changes a work session's status and completion timestamp
func (r *WorkSessionRepository) UpdateStatus(ctx context.Context, ws *models.WorkSession) error {
	query := `
		UPDATE work_sessions
		SET status = ?, hourly_rate = ?, hours = ?, completed_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		ws.Status, ws.HourlyRate.StringFixed(2), ws.Hours.String(), ws.CompletedAt, ws.ID)
	if err != nil {
		r.logger.Error("Failed to update work session", zap.Int64("id", ws.ID), zap.Error(err))
		return fmt.Errorf("failed to update work session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("work session %d not found", ws.ID)
	}
	return nil
}
