package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
)

// CostBreakdown holds the derived costs of a work order.
// Invariant: TotalCost = LaborCost + PartsCost at 2-decimal fixed point.
type CostBreakdown struct {
	LaborCost decimal.Decimal `json:"labor_cost"`
	PartsCost decimal.Decimal `json:"parts_cost"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// PriceLineItem computes the total for one part usage line.
// Each line is rounded to 2 decimals before any summation so stored line
// totals always match what the invoice displays.
func PriceLineItem(quantity int, unitPrice decimal.Decimal) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidLineItem, quantity)
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: unit price must not be negative, got %s", ErrInvalidLineItem, unitPrice)
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2), nil
}

// Aggregate computes parts cost and total cost for a work order from its
// labor cost and part usage lines. Pure; persistence is the caller's job.
func Aggregate(laborCost decimal.Decimal, parts []*models.PartUsage) (*CostBreakdown, error) {
	if laborCost.IsNegative() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidLaborCost, laborCost)
	}

	partsCost := decimal.Zero
	for _, p := range parts {
		lineTotal, err := PriceLineItem(p.Quantity, p.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("part %s: %w", p.PartCode, err)
		}
		partsCost = partsCost.Add(lineTotal)
	}

	labor := laborCost.Round(2)
	return &CostBreakdown{
		LaborCost: labor,
		PartsCost: partsCost,
		TotalCost: labor.Add(partsCost),
	}, nil
}
