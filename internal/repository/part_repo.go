package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
)

// PartRepository handles parts inventory database operations
type PartRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPartRepository creates a new part repository
func NewPartRepository(db *sql.DB, logger *zap.Logger) *PartRepository {
	return &PartRepository{
		db:     db,
		logger: logger,
	}
}

func scanPart(row interface{ Scan(...any) error }) (*models.Part, error) {
	var p models.Part
	var unitPrice string
	err := row.Scan(&p.ID, &p.SupplierID, &p.Code, &p.Name, &p.Category, &unitPrice, &p.StockQty, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.UnitPrice, err = parseDecimal(unitPrice)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a new part record
func (r *PartRepository) Create(ctx context.Context, p *models.Part) error {
	query := `
		INSERT INTO parts (supplier_id, code, name, category, unit_price, stock_qty)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		p.SupplierID, p.Code, p.Name, p.Category, p.UnitPrice.StringFixed(2), p.StockQty)
	if err != nil {
		r.logger.Error("Failed to create part", zap.Error(err))
		return fmt.Errorf("failed to create part: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	p.ID = id
	return nil
}

// GetByID retrieves a part by id
func (r *PartRepository) GetByID(ctx context.Context, id int64) (*models.Part, error) {
	query := `SELECT id, supplier_id, code, name, category, unit_price, stock_qty, created_at FROM parts WHERE id = ?`

	p, err := scanPart(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get part", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get part: %w", err)
	}
	return p, nil
}

// List retrieves all parts ordered by code
func (r *PartRepository) List(ctx context.Context) ([]*models.Part, error) {
	query := `SELECT id, supplier_id, code, name, category, unit_price, stock_qty, created_at FROM parts ORDER BY code`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list parts", zap.Error(err))
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}
	defer rows.Close()

	var parts []*models.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan part: %w", err)
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

// Update updates a part's catalog fields
func (r *PartRepository) Update(ctx context.Context, p *models.Part) error {
	query := `
		UPDATE parts
		SET supplier_id = ?, code = ?, name = ?, category = ?, unit_price = ?, stock_qty = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		p.SupplierID, p.Code, p.Name, p.Category, p.UnitPrice.StringFixed(2), p.StockQty, p.ID)
	if err != nil {
		r.logger.Error("Failed to update part", zap.Int64("id", p.ID), zap.Error(err))
		return fmt.Errorf("failed to update part: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("part %d not found", p.ID)
	}
	return nil
}

// DecrementStock decrements stock within a transaction; the CHECK constraint
// on stock_qty rejects consumption beyond what is on hand.
func (r *PartRepository) DecrementStock(tx *sql.Tx, partID int64, qty int) error {
	result, err := tx.Exec(
		`UPDATE parts SET stock_qty = stock_qty - ? WHERE id = ?`, qty, partID)
	if err != nil {
		return fmt.Errorf("failed to decrement stock for part %d: %w", partID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("part %d not found", partID)
	}
	return nil
}

// Delete removes a part record
func (r *PartRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM parts WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete part", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete part: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("part %d not found", id)
	}
	return nil
}
