package usecase

import (
	"context"
	"time"

	domain "github.com/DareenAmin/Library-Desk-Agent/internal/entity"
	"github.com/shopspring/decimal"
)

// Store opens one short-lived transaction per call. The closure does all of
// its reads and writes against the same Tx, so every check-and-apply
// sequence is a single atomic unit: if fn returns an error the transaction
// is rolled back and nothing is visible to other callers.
//
// Adapters must provide serializable-equivalent isolation. A commit that
// loses to a concurrent writer surfaces as domain.ErrTxConflict; a store
// that cannot be reached surfaces as domain.ErrStoreUnavailable.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of row operations available inside one transaction.
// Absent rows are reported as (nil, nil); infrastructure trouble as an
// error.
type Tx interface {
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)

	GetBook(ctx context.Context, isbn string) (*domain.Book, error)
	// GetBookForUpdate additionally locks the row against concurrent
	// writers until the transaction ends.
	GetBookForUpdate(ctx context.Context, isbn string) (*domain.Book, error)
	SearchBooks(ctx context.Context, query string) ([]domain.Book, error)
	SetStock(ctx context.Context, isbn string, stock int) error
	SetPrice(ctx context.Context, isbn string, price decimal.Decimal) error
	CountInventory(ctx context.Context) (titles, units int, err error)
	BooksAtOrBelow(ctx context.Context, threshold int) ([]domain.Book, error)

	InsertOrder(ctx context.Context, customerID int64, at time.Time) (int64, error)
	InsertOrderLine(ctx context.Context, orderID int64, line domain.OrderLine) error
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)

	InsertMessage(ctx context.Context, m domain.ChatMessage) error
	ListMessages(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)

	InsertOutbox(ctx context.Context, channel string, payload []byte) error
}

// OutboxRow is a pending event awaiting publication.
type OutboxRow struct {
	ID      int64
	Channel string
	Payload []byte
}

// OutboxRepo is used by the drainer, outside the request path.
type OutboxRepo interface {
	FetchPending(ctx context.Context, limit int) ([]OutboxRow, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64) error
}

// OrderCache stores rendered order detail. Orders are immutable once
// committed, so entries never need invalidation.
type OrderCache interface {
	GetStatus(ctx context.Context, orderID int64) (payload string, ok bool, err error)
	SetStatus(ctx context.Context, orderID int64, payload string) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Unlock(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}
