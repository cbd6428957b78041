package models

import "time"

// User roles
const (
	RoleCustomer = "customer"
	RoleMechanic = "mechanic"
	RoleAdmin    = "admin"
)

// User represents a customer or staff member
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	FiscalCode   string    `json:"fiscal_code"` // codice fiscale, 16 chars
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// FullName returns the display name for documents and listings
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsStaff reports whether the user can access back-office operations
func (u *User) IsStaff() bool {
	return u.Role == RoleMechanic || u.Role == RoleAdmin
}

// Supplier represents a parts supplier
type Supplier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	VATNumber string    `json:"vat_number"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}
