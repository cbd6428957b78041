package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Work order and work session statuses
const (
	WorkStatusPending    = "pending"
	WorkStatusInProgress = "in_progress"
	WorkStatusCompleted  = "completed"
	WorkStatusCancelled  = "cancelled"
)

// WorkOrder represents one unit of billable service on one motorcycle
type WorkOrder struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"`
	MotorcycleID  int64           `json:"motorcycle_id"`
	AppointmentID *int64          `json:"appointment_id,omitempty"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	StartedAt     *time.Time      `json:"started_at,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	LaborCost     decimal.Decimal `json:"labor_cost"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`

	// Populated on aggregate loads.
	Motorcycle *Motorcycle  `json:"motorcycle,omitempty"`
	Parts      []*PartUsage `json:"parts,omitempty"`
}

// PartUsage records a quantity of a catalog part consumed by a work order.
// UnitPrice is a snapshot of the catalog price at time of use.
type PartUsage struct {
	ID          int64           `json:"id"`
	WorkOrderID int64           `json:"work_order_id"`
	PartID      int64           `json:"part_id"`
	PartCode    string          `json:"part_code"`
	PartName    string          `json:"part_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	CreatedAt   time.Time       `json:"created_at"`
}

// WorkSession represents a billable dyno or track session, invoiced
// separately from repair work orders
type WorkSession struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	MotorcycleID int64           `json:"motorcycle_id"`
	Description  string          `json:"description"`
	Status       string          `json:"status"`
	HourlyRate   decimal.Decimal `json:"hourly_rate"`
	Hours        decimal.Decimal `json:"hours"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`

	Motorcycle *Motorcycle `json:"motorcycle,omitempty"`
}
