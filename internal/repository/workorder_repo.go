package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
)

// WorkOrderRepository handles work order database operations
type WorkOrderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewWorkOrderRepository creates a new work order repository
func NewWorkOrderRepository(db *sql.DB, logger *zap.Logger) *WorkOrderRepository {
	return &WorkOrderRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new work order
func (r *WorkOrderRepository) Create(ctx context.Context, wo *models.WorkOrder) error {
	query := `
		INSERT INTO work_orders (code, motorcycle_id, appointment_id, description, status, labor_cost, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		wo.Code, wo.MotorcycleID, wo.AppointmentID, wo.Description, wo.Status,
		wo.LaborCost.StringFixed(2), wo.Notes)
	if err != nil {
		r.logger.Error("Failed to create work order", zap.Error(err))
		return fmt.Errorf("failed to create work order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	wo.ID = id
	return nil
}

func scanWorkOrder(row interface{ Scan(...any) error }) (*models.WorkOrder, error) {
	var wo models.WorkOrder
	var laborCost string
	err := row.Scan(
		&wo.ID, &wo.Code, &wo.MotorcycleID, &wo.AppointmentID, &wo.Description,
		&wo.Status, &wo.StartedAt, &wo.CompletedAt, &laborCost, &wo.Notes, &wo.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	wo.LaborCost, err = parseDecimal(laborCost)
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

const workOrderColumns = `id, code, motorcycle_id, appointment_id, description, status, started_at, completed_at, labor_cost, notes, created_at`

// GetByID retrieves a bare work order row
func (r *WorkOrderRepository) GetByID(ctx context.Context, id int64) (*models.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE id = ?`

	wo, err := scanWorkOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get work order", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}
	return wo, nil
}

// GetAggregate loads a work order with its motorcycle, the motorcycle's
// model and all part usage lines in two explicit queries. There is no lazy
// loading anywhere: a non-nil result is always fully populated.
func (r *WorkOrderRepository) GetAggregate(ctx context.Context, id int64) (*models.WorkOrder, error) {
	query := `
		SELECT wo.id, wo.code, wo.motorcycle_id, wo.appointment_id, wo.description,
			wo.status, wo.started_at, wo.completed_at, wo.labor_cost, wo.notes, wo.created_at,
			m.id, m.user_id, m.model_id, m.plate, m.vin, m.registration_year, m.notes, m.created_at,
			mm.id, mm.brand, mm.name, mm.model_year, mm.engine_cc, mm.category
		FROM work_orders wo
		JOIN motorcycles m ON m.id = wo.motorcycle_id
		JOIN motorcycle_models mm ON mm.id = m.model_id
		WHERE wo.id = ?
	`

	var wo models.WorkOrder
	var m models.Motorcycle
	var mm models.MotorcycleModel
	var laborCost string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&wo.ID, &wo.Code, &wo.MotorcycleID, &wo.AppointmentID, &wo.Description,
		&wo.Status, &wo.StartedAt, &wo.CompletedAt, &laborCost, &wo.Notes, &wo.CreatedAt,
		&m.ID, &m.UserID, &m.ModelID, &m.Plate, &m.VIN, &m.RegistrationYear, &m.Notes, &m.CreatedAt,
		&mm.ID, &mm.Brand, &mm.Name, &mm.ModelYear, &mm.EngineCC, &mm.Category,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to load work order aggregate", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to load work order aggregate: %w", err)
	}

	wo.LaborCost, err = parseDecimal(laborCost)
	if err != nil {
		return nil, err
	}
	m.Model = &mm
	wo.Motorcycle = &m

	parts, err := r.ListParts(ctx, wo.ID)
	if err != nil {
		return nil, err
	}
	wo.Parts = parts

	return &wo, nil
}

// ListByUser retrieves all work orders for motorcycles owned by a user,
// newest first, each with its motorcycle and model populated
func (r *WorkOrderRepository) ListByUser(ctx context.Context, userID int64) ([]*models.WorkOrder, error) {
	query := `
		SELECT wo.id, wo.code, wo.motorcycle_id, wo.appointment_id, wo.description,
			wo.status, wo.started_at, wo.completed_at, wo.labor_cost, wo.notes, wo.created_at,
			m.id, m.user_id, m.model_id, m.plate, m.vin, m.registration_year, m.notes, m.created_at,
			mm.id, mm.brand, mm.name, mm.model_year, mm.engine_cc, mm.category
		FROM work_orders wo
		JOIN motorcycles m ON m.id = wo.motorcycle_id
		JOIN motorcycle_models mm ON mm.id = m.model_id
		WHERE m.user_id = ?
		ORDER BY wo.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list work orders", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.WorkOrder
	for rows.Next() {
		var wo models.WorkOrder
		var m models.Motorcycle
		var mm models.MotorcycleModel
		var laborCost string

		err := rows.Scan(
			&wo.ID, &wo.Code, &wo.MotorcycleID, &wo.AppointmentID, &wo.Description,
			&wo.Status, &wo.StartedAt, &wo.CompletedAt, &laborCost, &wo.Notes, &wo.CreatedAt,
			&m.ID, &m.UserID, &m.ModelID, &m.Plate, &m.VIN, &m.RegistrationYear, &m.Notes, &m.CreatedAt,
			&mm.ID, &mm.Brand, &mm.Name, &mm.ModelYear, &mm.EngineCC, &mm.Category,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work order: %w", err)
		}

		wo.LaborCost, err = parseDecimal(laborCost)
		if err != nil {
			return nil, err
		}
		m.Model = &mm
		wo.Motorcycle = &m
		orders = append(orders, &wo)
	}
	return orders, rows.Err()
}

// UpdateStatus changes a work order's status and lifecycle timestamps
func (r *WorkOrderRepository) UpdateStatus(ctx context.Context, wo *models.WorkOrder) error {
	query := `
		UPDATE work_orders
		SET status = ?, started_at = ?, completed_at = ?, labor_cost = ?, notes = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		wo.Status, wo.StartedAt, wo.CompletedAt, wo.LaborCost.StringFixed(2), wo.Notes, wo.ID)
	if err != nil {
		r.logger.Error("Failed to update work order", zap.Int64("id", wo.ID), zap.Error(err))
		return fmt.Errorf("failed to update work order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("work order %d not found", wo.ID)
	}
	return nil
}

// AddPartUsage inserts a part usage line within a transaction. The caller
// snapshots the catalog price into usage.UnitPrice before calling; this
// method never consults the live parts table for pricing.
func (r *WorkOrderRepository) AddPartUsage(tx *sql.Tx, usage *models.PartUsage) error {
	query := `
		INSERT INTO part_usages (work_order_id, part_id, part_code, part_name, quantity, unit_price, total_price)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.Exec(query,
		usage.WorkOrderID, usage.PartID, usage.PartCode, usage.PartName,
		usage.Quantity, usage.UnitPrice.StringFixed(2), usage.TotalPrice.StringFixed(2))
	if err != nil {
		r.logger.Error("Failed to add part usage",
			zap.Int64("work_order_id", usage.WorkOrderID), zap.Error(err))
		return fmt.Errorf("failed to add part usage: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	usage.ID = id
	return nil
}

// ListParts retrieves the part usage lines of a work order in insertion order
func (r *WorkOrderRepository) ListParts(ctx context.Context, workOrderID int64) ([]*models.PartUsage, error) {
	query := `
		SELECT id, work_order_id, part_id, part_code, part_name, quantity, unit_price, total_price, created_at
		FROM part_usages
		WHERE work_order_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, workOrderID)
	if err != nil {
		r.logger.Error("Failed to list part usages",
			zap.Int64("work_order_id", workOrderID), zap.Error(err))
		return nil, fmt.Errorf("failed to list part usages: %w", err)
	}
	defer rows.Close()

	var parts []*models.PartUsage
	for rows.Next() {
		var p models.PartUsage
		var unitPrice, totalPrice string
		err := rows.Scan(&p.ID, &p.WorkOrderID, &p.PartID, &p.PartCode, &p.PartName,
			&p.Quantity, &unitPrice, &totalPrice, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan part usage: %w", err)
		}
		if p.UnitPrice, err = parseDecimal(unitPrice); err != nil {
			return nil, err
		}
		if p.TotalPrice, err = parseDecimal(totalPrice); err != nil {
			return nil, err
		}
		parts = append(parts, &p)
	}
	return parts, rows.Err()
}
