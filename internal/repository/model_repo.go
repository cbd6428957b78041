package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
)

// ModelRepository handles motorcycle model catalog operations
type ModelRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewModelRepository creates a new model repository
func NewModelRepository(db *sql.DB, logger *zap.Logger) *ModelRepository {
	return &ModelRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new catalog entry
func (r *ModelRepository) Create(ctx context.Context, m *models.MotorcycleModel) error {
	query := `
		INSERT INTO motorcycle_models (brand, name, model_year, engine_cc, category)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, m.Brand, m.Name, m.ModelYear, m.EngineCC, m.Category)
	if err != nil {
		r.logger.Error("Failed to create motorcycle model", zap.Error(err))
		return fmt.Errorf("failed to create motorcycle model: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	m.ID = id
	return nil
}

// GetByID retrieves a catalog entry by id
func (r *ModelRepository) GetByID(ctx context.Context, id int64) (*models.MotorcycleModel, error) {
	query := `SELECT id, brand, name, model_year, engine_cc, category FROM motorcycle_models WHERE id = ?`

	var m models.MotorcycleModel
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Brand, &m.Name, &m.ModelYear, &m.EngineCC, &m.Category)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get motorcycle model", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get motorcycle model: %w", err)
	}
	return &m, nil
}

// List retrieves the whole catalog ordered by brand and name
func (r *ModelRepository) List(ctx context.Context) ([]*models.MotorcycleModel, error) {
	query := `SELECT id, brand, name, model_year, engine_cc, category FROM motorcycle_models ORDER BY brand, name, model_year`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list motorcycle models", zap.Error(err))
		return nil, fmt.Errorf("failed to list motorcycle models: %w", err)
	}
	defer rows.Close()

	var list []*models.MotorcycleModel
	for rows.Next() {
		var m models.MotorcycleModel
		if err := rows.Scan(&m.ID, &m.Brand, &m.Name, &m.ModelYear, &m.EngineCC, &m.Category); err != nil {
			return nil, fmt.Errorf("failed to scan motorcycle model: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Update updates a catalog entry
func (r *ModelRepository) Update(ctx context.Context, m *models.MotorcycleModel) error {
	query := `
		UPDATE motorcycle_models
		SET brand = ?, name = ?, model_year = ?, engine_cc = ?, category = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, m.Brand, m.Name, m.ModelYear, m.EngineCC, m.Category, m.ID)
	if err != nil {
		r.logger.Error("Failed to update motorcycle model", zap.Int64("id", m.ID), zap.Error(err))
		return fmt.Errorf("failed to update motorcycle model: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("motorcycle model %d not found", m.ID)
	}
	return nil
}

// Delete removes a catalog entry
func (r *ModelRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM motorcycle_models WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete motorcycle model", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete motorcycle model: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("motorcycle model %d not found", id)
	}
	return nil
}
