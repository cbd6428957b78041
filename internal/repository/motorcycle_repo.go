package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
)

// MotorcycleRepository handles motorcycle database operations
type MotorcycleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMotorcycleRepository creates a new motorcycle repository
func NewMotorcycleRepository(db *sql.DB, logger *zap.Logger) *MotorcycleRepository {
	return &MotorcycleRepository{
		db:     db,
		logger: logger,
	}
}

// Create registers a motorcycle in a customer's garage
func (r *MotorcycleRepository) Create(ctx context.Context, m *models.Motorcycle) error {
	query := `
		INSERT INTO motorcycles (user_id, model_id, plate, vin, registration_year, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		m.UserID, m.ModelID, m.Plate, m.VIN, m.RegistrationYear, m.Notes)
	if err != nil {
		r.logger.Error("Failed to create motorcycle", zap.Error(err))
		return fmt.Errorf("failed to create motorcycle: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	m.ID = id
	return nil
}

const motorcycleJoinQuery = `
	SELECT m.id, m.user_id, m.model_id, m.plate, m.vin, m.registration_year, m.notes, m.created_at,
		mm.id, mm.brand, mm.name, mm.model_year, mm.engine_cc, mm.category
	FROM motorcycles m
	JOIN motorcycle_models mm ON mm.id = m.model_id
`

func scanMotorcycle(row interface{ Scan(...any) error }) (*models.Motorcycle, error) {
	var m models.Motorcycle
	var mm models.MotorcycleModel
	err := row.Scan(
		&m.ID, &m.UserID, &m.ModelID, &m.Plate, &m.VIN, &m.RegistrationYear, &m.Notes, &m.CreatedAt,
		&mm.ID, &mm.Brand, &mm.Name, &mm.ModelYear, &mm.EngineCC, &mm.Category,
	)
	if err != nil {
		return nil, err
	}
	m.Model = &mm
	return &m, nil
}

// GetByID retrieves a motorcycle with its model
func (r *MotorcycleRepository) GetByID(ctx context.Context, id int64) (*models.Motorcycle, error) {
	query := motorcycleJoinQuery + ` WHERE m.id = ?`

	m, err := scanMotorcycle(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get motorcycle", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get motorcycle: %w", err)
	}
	return m, nil
}

// ListByUser retrieves all motorcycles owned by a user, with their models
func (r *MotorcycleRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Motorcycle, error) {
	query := motorcycleJoinQuery + ` WHERE m.user_id = ? ORDER BY m.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list motorcycles", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list motorcycles: %w", err)
	}
	defer rows.Close()

	var motorcycles []*models.Motorcycle
	for rows.Next() {
		m, err := scanMotorcycle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan motorcycle: %w", err)
		}
		motorcycles = append(motorcycles, m)
	}
	return motorcycles, rows.Err()
}

// Delete removes a motorcycle from a garage. The owner id is part of the
// predicate so customers can only delete their own vehicles.
func (r *MotorcycleRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM motorcycles WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete motorcycle", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete motorcycle: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
