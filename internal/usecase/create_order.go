package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	domain "github.com/DareenAmin/Library-Desk-Agent/internal/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrDuplicate = errors.New("duplicate idempotency key")

// OrderPlacedChannel is the outbox channel for committed orders.
const OrderPlacedChannel = "order.placed.v1"

type OrderItemInput struct {
	ISBN string
	Qty  int
}

type CreateOrderInput struct {
	CustomerID     int64
	Items          []OrderItemInput
	IdempotencyKey string // optional; empty disables replay protection
}

type CreateOrderOutput struct {
	OrderID    int64
	GrandTotal decimal.Decimal
}

// CreateOrder is the order transaction processor. Validation and mutation
// run inside one Store transaction: either the order header, every line
// item, every stock decrement, and the outbox event all commit, or none do.
type CreateOrder struct {
	store Store
	clock Clock
	idem  IdempotencyStore // optional
}

func NewCreateOrder(store Store, clock Clock, idem IdempotencyStore) *CreateOrder {
	return &CreateOrder{store: store, clock: clock, idem: idem}
}

func (uc *CreateOrder) Execute(ctx context.Context, in CreateOrderInput) (CreateOrderOutput, error) {
	if len(in.Items) == 0 {
		return CreateOrderOutput{}, domain.ErrEmptyOrder
	}

	locked := false
	if uc.idem != nil && in.IdempotencyKey != "" {
		scope := idemScope(in.CustomerID)
		// Fast path: replay of an already-committed request.
		v, ok, err := uc.idem.Recall(ctx, scope, in.IdempotencyKey)
		if err != nil {
			return CreateOrderOutput{}, err
		}
		if ok {
			return decodeIdemValue(v)
		}
		ok, err = uc.idem.TryLock(ctx, scope, in.IdempotencyKey)
		if err != nil {
			return CreateOrderOutput{}, err
		}
		if !ok {
			return CreateOrderOutput{}, ErrDuplicate
		}
		locked = true
	}

	var out CreateOrderOutput
	err := uc.store.WithinTx(ctx, func(tx Tx) error {
		cust, err := tx.GetCustomer(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if cust == nil {
			return domain.ErrUnknownCustomer
		}

		// First pass: read and decide. Books are locked for update so the
		// stock we validated is the stock we decrement.
		seen := make(map[string]bool, len(in.Items))
		books := make([]*domain.Book, len(in.Items))
		for i, item := range in.Items {
			if seen[item.ISBN] {
				return &domain.DuplicateLineItemError{ISBN: item.ISBN}
			}
			seen[item.ISBN] = true

			book, err := tx.GetBookForUpdate(ctx, item.ISBN)
			if err != nil {
				return err
			}
			if book == nil {
				return &domain.UnknownBookError{ISBN: item.ISBN}
			}
			if item.Qty <= 0 {
				return &domain.InvalidQuantityError{ISBN: item.ISBN, Qty: item.Qty}
			}
			if book.Stock < item.Qty {
				return &domain.InsufficientStockError{
					ISBN:      item.ISBN,
					Available: book.Stock,
					Requested: item.Qty,
				}
			}
			books[i] = book
		}

		// Second pass: apply. Nothing below can fail for request reasons.
		placedAt := uc.clock.Now()
		orderID, err := tx.InsertOrder(ctx, in.CustomerID, placedAt)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for i, item := range in.Items {
			line := domain.OrderLine{
				ISBN:         item.ISBN,
				Qty:          item.Qty,
				PriceAtOrder: books[i].Price,
			}
			if err := tx.InsertOrderLine(ctx, orderID, line); err != nil {
				return err
			}
			if err := tx.SetStock(ctx, item.ISBN, books[i].Stock-item.Qty); err != nil {
				return err
			}
			total = total.Add(line.Subtotal())
		}

		msg := OrderPlacedMsg{
			EventID:    uuid.NewString(),
			OrderID:    orderID,
			CustomerID: in.CustomerID,
			GrandTotal: total.StringFixed(2),
			PlacedAt:   placedAt,
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		if err := tx.InsertOutbox(ctx, OrderPlacedChannel, payload); err != nil {
			return err
		}

		out = CreateOrderOutput{OrderID: orderID, GrandTotal: total}
		return nil
	})
	if err != nil {
		// No order was placed, so the key must stay usable for a retry.
		if locked {
			_ = uc.idem.Unlock(ctx, idemScope(in.CustomerID), in.IdempotencyKey)
		}
		return CreateOrderOutput{}, err
	}

	if uc.idem != nil && in.IdempotencyKey != "" {
		_ = uc.idem.Remember(ctx, idemScope(in.CustomerID), in.IdempotencyKey, encodeIdemValue(out))
	}
	return out, nil
}

func idemScope(customerID int64) string {
	return "customer:" + strconv.FormatInt(customerID, 10)
}

type idemValue struct {
	OrderID    int64  `json:"orderId"`
	GrandTotal string `json:"grandTotal"`
}

func encodeIdemValue(out CreateOrderOutput) string {
	b, _ := json.Marshal(idemValue{OrderID: out.OrderID, GrandTotal: out.GrandTotal.StringFixed(2)})
	return string(b)
}

func decodeIdemValue(v string) (CreateOrderOutput, error) {
	var rec idemValue
	if err := json.Unmarshal([]byte(v), &rec); err != nil {
		return CreateOrderOutput{}, err
	}
	total, err := decimal.NewFromString(rec.GrandTotal)
	if err != nil {
		return CreateOrderOutput{}, err
	}
	return CreateOrderOutput{OrderID: rec.OrderID, GrandTotal: total}, nil
}
