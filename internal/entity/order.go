package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is immutable history once committed: no edit/cancel operations
// exist, so there is no status field to advance.
type Order struct {
	ID         int64
	CustomerID int64
	OrderDate  time.Time
	Lines      []OrderLine
}

// OrderLine is keyed by (order id, isbn); a book appears at most once per
// order. PriceAtOrder is frozen at commit time and never recomputed.
type OrderLine struct {
	ISBN         string
	Qty          int
	PriceAtOrder decimal.Decimal
}

func (l OrderLine) Subtotal() decimal.Decimal {
	return l.PriceAtOrder.Mul(decimal.NewFromInt(int64(l.Qty)))
}

func (o *Order) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
