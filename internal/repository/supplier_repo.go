package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
)

// SupplierRepository handles supplier database operations
type SupplierRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *sql.DB, logger *zap.Logger) *SupplierRepository {
	return &SupplierRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new supplier record
func (r *SupplierRepository) Create(ctx context.Context, s *models.Supplier) error {
	query := `
		INSERT INTO suppliers (name, vat_number, email, phone, address)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, s.Name, s.VATNumber, s.Email, s.Phone, s.Address)
	if err != nil {
		r.logger.Error("Failed to create supplier", zap.Error(err))
		return fmt.Errorf("failed to create supplier: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	s.ID = id
	return nil
}

// GetByID retrieves a supplier by id
func (r *SupplierRepository) GetByID(ctx context.Context, id int64) (*models.Supplier, error) {
	query := `SELECT id, name, vat_number, email, phone, address, created_at FROM suppliers WHERE id = ?`

	var s models.Supplier
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.VATNumber, &s.Email, &s.Phone, &s.Address, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get supplier", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return &s, nil
}

// List retrieves all suppliers ordered by name
func (r *SupplierRepository) List(ctx context.Context) ([]*models.Supplier, error) {
	query := `SELECT id, name, vat_number, email, phone, address, created_at FROM suppliers ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list suppliers", zap.Error(err))
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []*models.Supplier
	for rows.Next() {
		var s models.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.VATNumber, &s.Email, &s.Phone, &s.Address, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, &s)
	}
	return suppliers, rows.Err()
}

// Update updates a supplier record
func (r *SupplierRepository) Update(ctx context.Context, s *models.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = ?, vat_number = ?, email = ?, phone = ?, address = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, s.Name, s.VATNumber, s.Email, s.Phone, s.Address, s.ID)
	if err != nil {
		r.logger.Error("Failed to update supplier", zap.Int64("id", s.ID), zap.Error(err))
		return fmt.Errorf("failed to update supplier: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("supplier %d not found", s.ID)
	}
	return nil
}

// Delete removes a supplier record
func (r *SupplierRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete supplier", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete supplier: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("supplier %d not found", id)
	}
	return nil
}
