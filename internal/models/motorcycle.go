package models

import (
	"fmt"
	"time"
)

// MotorcycleModel represents a catalog entry (brand + model + year)
type MotorcycleModel struct {
	ID        int64  `json:"id"`
	Brand     string `json:"brand"`
	Name      string `json:"name"`
	ModelYear int    `json:"model_year"`
	EngineCC  int    `json:"engine_cc"`
	Category  string `json:"category"`
}

// Motorcycle represents a registered customer vehicle
type Motorcycle struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	ModelID          int64     `json:"model_id"`
	Plate            string    `json:"plate"`
	VIN              string    `json:"vin"`
	RegistrationYear int       `json:"registration_year"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`

	// Model is populated when the motorcycle is loaded as part of an
	// aggregate; nil on bare rows.
	Model *MotorcycleModel `json:"model,omitempty"`
}

// Summary returns a one-line vehicle description for listings
func (m *Motorcycle) Summary() string {
	if m.Model == nil {
		return m.Plate
	}
	return fmt.Sprintf("%s %s (%d) - %s", m.Model.Brand, m.Model.Name, m.Model.ModelYear, m.Plate)
}
