package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
)

// InvoiceRepository handles invoice database operations
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// InvoiceRow is an invoice joined with its billed vehicle and customer,
// ready for list projection and report export. Rows whose work order or
// work session cannot be resolved are never produced.
type InvoiceRow struct {
	Invoice      models.Invoice
	CustomerName string
	VehicleBrand string
	VehicleModel string
	VehiclePlate string
}

// NextCode reserves the next invoice code for a year within a transaction,
// e.g. INV2024-001. The per-year counter row serializes concurrent issuers.
func (r *InvoiceRepository) NextCode(tx *sql.Tx, prefix string, year int) (string, error) {
	var seq int
	err := tx.QueryRow(`
		INSERT INTO invoice_counters (year, last_seq) VALUES (?, 1)
		ON CONFLICT (year) DO UPDATE SET last_seq = last_seq + 1
		RETURNING last_seq
	`, year).Scan(&seq)
	if err != nil {
		r.logger.Error("Failed to reserve invoice code", zap.Int("year", year), zap.Error(err))
		return "", fmt.Errorf("failed to reserve invoice code: %w", err)
	}
	return fmt.Sprintf("%s%d-%03d", prefix, year, seq), nil
}

// Create creates a new invoice record within a transaction
func (r *InvoiceRepository) Create(tx *sql.Tx, inv *models.Invoice) error {
	query := `
		INSERT INTO invoices (code, user_id, work_order_id, work_session_id, amount, issued_at, status, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.Exec(query,
		inv.Code, inv.UserID, inv.WorkOrderID, inv.WorkSessionID,
		inv.Amount.StringFixed(2), inv.IssuedAt, inv.Status, inv.Note)
	if err != nil {
		r.logger.Error("Failed to create invoice", zap.String("code", inv.Code), zap.Error(err))
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	inv.ID = id
	return nil
}

const invoiceColumns = `id, code, user_id, work_order_id, work_session_id, amount, issued_at, status, paid_at, note, created_at`

func scanInvoice(row interface{ Scan(...any) error }) (*models.Invoice, error) {
	var inv models.Invoice
	var amount string
	err := row.Scan(
		&inv.ID, &inv.Code, &inv.UserID, &inv.WorkOrderID, &inv.WorkSessionID,
		&amount, &inv.IssuedAt, &inv.Status, &inv.PaidAt, &inv.Note, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Amount, err = parseDecimal(amount)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetByID retrieves an invoice by id
func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`

	inv, err := scanInvoice(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv, nil
}

// ExistsForWorkOrder reports whether a work order has already been invoiced
func (r *InvoiceRepository) ExistsForWorkOrder(ctx context.Context, workOrderID int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM invoices WHERE work_order_id = ? LIMIT 1`, workOrderID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check invoice existence: %w", err)
	}
	return true, nil
}

// ExistsForWorkSession reports whether a work session has already been invoiced
func (r *InvoiceRepository) ExistsForWorkSession(ctx context.Context, workSessionID int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM invoices WHERE work_session_id = ? LIMIT 1`, workSessionID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check invoice existence: %w", err)
	}
	return true, nil
}

const invoiceRowQuery = `
	SELECT i.id, i.code, i.user_id, i.work_order_id, i.work_session_id,
		i.amount, i.issued_at, i.status, i.paid_at, i.note, i.created_at,
		u.first_name || ' ' || u.last_name,
		mm.brand, mm.name, m.plate
	FROM invoices i
	JOIN users u ON u.id = i.user_id
	LEFT JOIN work_orders wo ON wo.id = i.work_order_id
	LEFT JOIN work_sessions ws ON ws.id = i.work_session_id
	JOIN motorcycles m ON m.id = COALESCE(wo.motorcycle_id, ws.motorcycle_id)
	JOIN motorcycle_models mm ON mm.id = m.model_id
`

func (r *InvoiceRepository) queryRows(ctx context.Context, query string, args ...any) ([]*InvoiceRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var result []*InvoiceRow
	for rows.Next() {
		var row InvoiceRow
		var amount string
		err := rows.Scan(
			&row.Invoice.ID, &row.Invoice.Code, &row.Invoice.UserID,
			&row.Invoice.WorkOrderID, &row.Invoice.WorkSessionID,
			&amount, &row.Invoice.IssuedAt, &row.Invoice.Status,
			&row.Invoice.PaidAt, &row.Invoice.Note, &row.Invoice.CreatedAt,
			&row.CustomerName, &row.VehicleBrand, &row.VehicleModel, &row.VehiclePlate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		if row.Invoice.Amount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		result = append(result, &row)
	}
	return result, rows.Err()
}

// ListByUser retrieves a user's invoices newest first, joined with the
// billed vehicle. The inner join through COALESCE drops invoices whose work
// order and work session are both missing.
func (r *InvoiceRepository) ListByUser(ctx context.Context, userID int64) ([]*InvoiceRow, error) {
	query := invoiceRowQuery + `
		WHERE i.user_id = ?
		ORDER BY i.issued_at DESC, i.id DESC
	`
	return r.queryRows(ctx, query, userID)
}

// ListAll retrieves every resolvable invoice newest first, for back-office
// listings and report export
func (r *InvoiceRepository) ListAll(ctx context.Context) ([]*InvoiceRow, error) {
	query := invoiceRowQuery + `
		ORDER BY i.issued_at DESC, i.id DESC
	`
	return r.queryRows(ctx, query)
}

// UpdateStatus persists an invoice's status and payment timestamp
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, inv *models.Invoice) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET status = ?, paid_at = ? WHERE id = ?`,
		inv.Status, inv.PaidAt, inv.ID)
	if err != nil {
		r.logger.Error("Failed to update invoice status", zap.Int64("id", inv.ID), zap.Error(err))
		return fmt.Errorf("failed to update invoice status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("invoice %d not found", inv.ID)
	}
	return nil
}
