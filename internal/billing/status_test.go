package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{models.InvoiceStatusPending, models.InvoiceStatusPaid, true},
		{models.InvoiceStatusPending, models.InvoiceStatusOverdue, true},
		{models.InvoiceStatusPending, models.InvoiceStatusCancelled, true},
		{models.InvoiceStatusOverdue, models.InvoiceStatusPaid, true},
		{models.InvoiceStatusOverdue, models.InvoiceStatusCancelled, true},
		{models.InvoiceStatusPaid, models.InvoiceStatusPending, false},
		{models.InvoiceStatusPaid, models.InvoiceStatusCancelled, false},
		{models.InvoiceStatusCancelled, models.InvoiceStatusPending, false},
		{models.InvoiceStatusCancelled, models.InvoiceStatusPaid, false},
		{models.InvoiceStatusOverdue, models.InvoiceStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTransition_StampsPaidAt(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	inv := &models.Invoice{Status: models.InvoiceStatusPending}

	require.NoError(t, Transition(inv, models.InvoiceStatusPaid, now))
	assert.Equal(t, models.InvoiceStatusPaid, inv.Status)
	require.NotNil(t, inv.PaidAt)
	assert.Equal(t, now, *inv.PaidAt)
}

func TestTransition_PaidIsTerminal(t *testing.T) {
	inv := &models.Invoice{Status: models.InvoiceStatusPaid}

	err := Transition(inv, models.InvoiceStatusCancelled, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, models.InvoiceStatusPaid, inv.Status)
}

func TestDueDate(t *testing.T) {
	// Issue date 2024-01-10 with the 30-day convention falls due 2024-02-09.
	issued := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC), DueDate(issued, 30))
}

func TestEffectiveStatus(t *testing.T) {
	issued := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status string
		now    time.Time
		want   string
	}{
		{
			name:   "pending before due date",
			status: models.InvoiceStatusPending,
			now:    time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC),
			want:   models.InvoiceStatusPending,
		},
		{
			name:   "pending past due date becomes overdue",
			status: models.InvoiceStatusPending,
			now:    time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
			want:   models.InvoiceStatusOverdue,
		},
		{
			name:   "paid stays paid past due date",
			status: models.InvoiceStatusPaid,
			now:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			want:   models.InvoiceStatusPaid,
		},
		{
			name:   "cancelled passes through",
			status: models.InvoiceStatusCancelled,
			now:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			want:   models.InvoiceStatusCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &models.Invoice{Status: tt.status, IssuedAt: issued}
			assert.Equal(t, tt.want, EffectiveStatus(inv, 30, tt.now))
		})
	}
}
