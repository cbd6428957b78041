package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part represents a catalog part held in inventory
type Part struct {
	ID         int64           `json:"id"`
	SupplierID int64           `json:"supplier_id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	StockQty   int             `json:"stock_qty"`
	CreatedAt  time.Time       `json:"created_at"`
}
