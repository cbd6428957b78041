package billing

import "errors"

// Billing error kinds. Handlers map these to HTTP responses at the boundary;
// everything below wraps them with fmt.Errorf("%w: ...") detail.
var (
	// ErrInvalidLineItem is returned for a part usage with a non-positive
	// quantity or a negative unit price.
	ErrInvalidLineItem = errors.New("invalid line item")

	// ErrInvalidLaborCost is returned for a negative labor cost.
	ErrInvalidLaborCost = errors.New("invalid labor cost")

	// ErrMissingWorkOrder is returned when an invoice's work order or work
	// session reference cannot be resolved. The document is never partially
	// built.
	ErrMissingWorkOrder = errors.New("missing work order")

	// ErrInvalidTransition is returned for an illegal invoice status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)
