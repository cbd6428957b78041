package service

import "errors"

// Service-level error kinds, mapped to HTTP responses at the handler boundary.
var (
	// ErrNotFound covers both "does not exist" and "exists but is not
	// yours": ownership checks return it uniformly so a caller can never
	// probe for other customers' records.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned on failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrValidation wraps rejected input fields.
	ErrValidation = errors.New("validation failed")

	// ErrNotInvoiceable is returned when billable work is not in a state
	// that can be invoiced (not completed, or cancelled).
	ErrNotInvoiceable = errors.New("work not invoiceable")

	// ErrAlreadyInvoiced is returned when billable work already has an invoice.
	ErrAlreadyInvoiced = errors.New("already invoiced")

	// ErrWorkOrderLocked is returned when mutating a work order that has
	// been invoiced; invoiced work orders are immutable.
	ErrWorkOrderLocked = errors.New("work order locked by invoice")
)
