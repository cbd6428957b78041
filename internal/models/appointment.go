package models

import "time"

// Appointment types
const (
	AppointmentTypeMaintenance = "maintenance"
	AppointmentTypeDynoTesting = "dyno_testing"
)

// Appointment statuses
const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusAccepted  = "accepted"
	AppointmentStatusRejected  = "rejected"
	AppointmentStatusCancelled = "cancelled"
)

// Appointment represents a customer booking
type Appointment struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	MotorcycleID int64     `json:"motorcycle_id"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}
