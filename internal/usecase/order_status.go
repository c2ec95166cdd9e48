package usecase

import (
	"context"
	"encoding/json"
	"time"

	domain "github.com/DareenAmin/Library-Desk-Agent/internal/entity"
	"github.com/shopspring/decimal"
)

type OrderStatusLine struct {
	ISBN         string
	Title        string
	Qty          int
	PriceAtOrder decimal.Decimal
	Subtotal     decimal.Decimal
}

type OrderStatusOutput struct {
	OrderID      int64
	CustomerID   int64
	CustomerName string
	OrderDate    time.Time
	Lines        []OrderStatusLine
	GrandTotal   decimal.Decimal
}

// OrderStatus reads one committed order with its frozen prices. Orders are
// immutable, so two consecutive reads with no intervening writes are
// identical, which also makes them safe to cache indefinitely.
type OrderStatus struct {
	store Store
	cache OrderCache // optional
}

func NewOrderStatus(store Store, cache OrderCache) *OrderStatus {
	return &OrderStatus{store: store, cache: cache}
}

func (uc *OrderStatus) Execute(ctx context.Context, orderID int64) (OrderStatusOutput, error) {
	// The cache is best effort: any failure falls through to the store.
	if uc.cache != nil {
		if payload, ok, err := uc.cache.GetStatus(ctx, orderID); err == nil && ok {
			var cached OrderStatusOutput
			if json.Unmarshal([]byte(payload), &cached) == nil {
				return cached, nil
			}
		}
	}

	var out OrderStatusOutput
	err := uc.store.WithinTx(ctx, func(tx Tx) error {
		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}

		cust, err := tx.GetCustomer(ctx, order.CustomerID)
		if err != nil {
			return err
		}

		out = OrderStatusOutput{
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			OrderDate:  order.OrderDate,
			GrandTotal: order.GrandTotal(),
		}
		if cust != nil {
			out.CustomerName = cust.Name
		}

		for _, l := range order.Lines {
			line := OrderStatusLine{
				ISBN:         l.ISBN,
				Qty:          l.Qty,
				PriceAtOrder: l.PriceAtOrder,
				Subtotal:     l.Subtotal(),
			}
			// Titles come from the catalog; books are never deleted.
			if book, err := tx.GetBook(ctx, l.ISBN); err != nil {
				return err
			} else if book != nil {
				line.Title = book.Title
			}
			out.Lines = append(out.Lines, line)
		}
		return nil
	})
	if err != nil {
		return OrderStatusOutput{}, err
	}

	if uc.cache != nil {
		if payload, err := json.Marshal(out); err == nil {
			_ = uc.cache.SetStatus(ctx, orderID, string(payload))
		}
	}
	return out, nil
}
