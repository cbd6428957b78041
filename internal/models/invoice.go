package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses
const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice bills a customer for a completed work order or work session.
// Exactly one of WorkOrderID and WorkSessionID is set on a well-formed
// invoice; the schema keeps both nullable.
type Invoice struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"` // e.g. INV2024-001
	UserID        int64           `json:"user_id"`
	WorkOrderID   *int64          `json:"work_order_id,omitempty"`
	WorkSessionID *int64          `json:"work_session_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	IssuedAt      time.Time       `json:"issued_at"`
	Status        string          `json:"status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	Note          string          `json:"note"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BillsWorkOrder reports whether the invoice references a work order
func (i *Invoice) BillsWorkOrder() bool {
	return i.WorkOrderID != nil
}

// BillsWorkSession reports whether the invoice references a work session
func (i *Invoice) BillsWorkSession() bool {
	return i.WorkSessionID != nil
}
