package billing

import (
	"fmt"
	"time"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
)

// Legal invoice status transitions. Paid is terminal.
var transitions = map[string][]string{
	models.InvoiceStatusPending: {models.InvoiceStatusPaid, models.InvoiceStatusOverdue, models.InvoiceStatusCancelled},
	models.InvoiceStatusOverdue: {models.InvoiceStatusPaid, models.InvoiceStatusCancelled},
}

// CanTransition reports whether an invoice may move from one status to another
func CanTransition(from, to string) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition moves an invoice to a new status, stamping PaidAt on payment
func Transition(inv *models.Invoice, to string, now time.Time) error {
	if !CanTransition(inv.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inv.Status, to)
	}
	inv.Status = to
	if to == models.InvoiceStatusPaid {
		paidAt := now
		inv.PaidAt = &paidAt
	}
	return nil
}

// DueDate derives the payment deadline from the issue date. The due date is
// a display convention, never persisted.
func DueDate(issuedAt time.Time, dueDays int) time.Time {
	return issuedAt.AddDate(0, 0, dueDays)
}

// EffectiveStatus maps a pending invoice whose due date has passed to
// overdue without writing anything. All other statuses pass through.
func EffectiveStatus(inv *models.Invoice, dueDays int, now time.Time) string {
	if inv.Status == models.InvoiceStatusPending && now.After(DueDate(inv.IssuedAt, dueDays)) {
		return models.InvoiceStatusOverdue
	}
	return inv.Status
}
