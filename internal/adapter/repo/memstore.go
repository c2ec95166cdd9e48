package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domain "github.com/DareenAmin/Library-Desk-Agent/internal/entity"
	"github.com/DareenAmin/Library-Desk-Agent/internal/usecase"
	"github.com/shopspring/decimal"
)

// MemStore is a fully in-process store. A single mutex serializes
// transactions, which trivially satisfies the serializable-equivalence
// requirement; a failed closure restores the pre-transaction snapshot, so
// rejected requests leave no partial state. Used by tests and local runs
// without a MySQL server.
type MemStore struct {
	mu sync.Mutex

	books     map[string]domain.Book
	customers map[int64]domain.Customer
	orders    map[int64]domain.Order
	messages  []domain.ChatMessage
	outbox    []memOutboxRow

	nextOrderID  int64
	nextOutboxID int64
}

type memOutboxRow struct {
	usecase.OutboxRow
	sent  bool
	tries int
}

func NewMemStore() *MemStore {
	return &MemStore{
		books:       make(map[string]domain.Book),
		customers:   make(map[int64]domain.Customer),
		orders:      make(map[int64]domain.Order),
		nextOrderID: 1,
	}
}

func (s *MemStore) SeedBook(b domain.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[b.ISBN] = b
}

func (s *MemStore) SeedCustomer(c domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
}

func (s *MemStore) WithinTx(ctx context.Context, fn func(tx usecase.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&memTx{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	books        map[string]domain.Book
	customers    map[int64]domain.Customer
	orders       map[int64]domain.Order
	messages     []domain.ChatMessage
	outbox       []memOutboxRow
	nextOrderID  int64
	nextOutboxID int64
}

func (s *MemStore) snapshot() memSnapshot {
	snap := memSnapshot{
		books:        make(map[string]domain.Book, len(s.books)),
		customers:    make(map[int64]domain.Customer, len(s.customers)),
		orders:       make(map[int64]domain.Order, len(s.orders)),
		messages:     append([]domain.ChatMessage(nil), s.messages...),
		outbox:       append([]memOutboxRow(nil), s.outbox...),
		nextOrderID:  s.nextOrderID,
		nextOutboxID: s.nextOutboxID,
	}
	for k, v := range s.books {
		snap.books[k] = v
	}
	for k, v := range s.customers {
		snap.customers[k] = v
	}
	for k, v := range s.orders {
		v.Lines = append([]domain.OrderLine(nil), v.Lines...)
		snap.orders[k] = v
	}
	return snap
}

func (s *MemStore) restore(snap memSnapshot) {
	s.books = snap.books
	s.customers = snap.customers
	s.orders = snap.orders
	s.messages = snap.messages
	s.outbox = snap.outbox
	s.nextOrderID = snap.nextOrderID
	s.nextOutboxID = snap.nextOutboxID
}

type memTx struct{ s *MemStore }

func (t *memTx) GetCustomer(_ context.Context, id int64) (*domain.Customer, error) {
	if c, ok := t.s.customers[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (t *memTx) GetBook(_ context.Context, isbn string) (*domain.Book, error) {
	if b, ok := t.s.books[isbn]; ok {
		return &b, nil
	}
	return nil, nil
}

func (t *memTx) GetBookForUpdate(ctx context.Context, isbn string) (*domain.Book, error) {
	// The store mutex already excludes concurrent writers.
	return t.GetBook(ctx, isbn)
}

func (t *memTx) SearchBooks(_ context.Context, query string) ([]domain.Book, error) {
	q := strings.ToLower(query)
	var books []domain.Book
	for _, b := range t.s.books {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) {
			books = append(books, b)
		}
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })
	return books, nil
}

func (t *memTx) SetStock(_ context.Context, isbn string, stock int) error {
	b, ok := t.s.books[isbn]
	if !ok {
		return &domain.UnknownBookError{ISBN: isbn}
	}
	b.Stock = stock
	t.s.books[isbn] = b
	return nil
}

func (t *memTx) SetPrice(_ context.Context, isbn string, price decimal.Decimal) error {
	b, ok := t.s.books[isbn]
	if !ok {
		return &domain.UnknownBookError{ISBN: isbn}
	}
	b.Price = price
	t.s.books[isbn] = b
	return nil
}

func (t *memTx) CountInventory(_ context.Context) (int, int, error) {
	units := 0
	for _, b := range t.s.books {
		units += b.Stock
	}
	return len(t.s.books), units, nil
}

func (t *memTx) BooksAtOrBelow(_ context.Context, threshold int) ([]domain.Book, error) {
	var books []domain.Book
	for _, b := range t.s.books {
		if b.Stock <= threshold {
			books = append(books, b)
		}
	}
	sort.Slice(books, func(i, j int) bool {
		if books[i].Stock != books[j].Stock {
			return books[i].Stock < books[j].Stock
		}
		return books[i].Title < books[j].Title
	})
	return books, nil
}

func (t *memTx) InsertOrder(_ context.Context, customerID int64, at time.Time) (int64, error) {
	id := t.s.nextOrderID
	t.s.nextOrderID++
	t.s.orders[id] = domain.Order{ID: id, CustomerID: customerID, OrderDate: at}
	return id, nil
}

func (t *memTx) InsertOrderLine(_ context.Context, orderID int64, line domain.OrderLine) error {
	o, ok := t.s.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	for _, l := range o.Lines {
		if l.ISBN == line.ISBN {
			return &domain.DuplicateLineItemError{ISBN: line.ISBN}
		}
	}
	o.Lines = append(o.Lines, line)
	t.s.orders[orderID] = o
	return nil
}

func (t *memTx) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := t.s.orders[id]
	if !ok {
		return nil, nil
	}
	o.Lines = append([]domain.OrderLine(nil), o.Lines...)
	sort.Slice(o.Lines, func(i, j int) bool { return o.Lines[i].ISBN < o.Lines[j].ISBN })
	return &o, nil
}

func (t *memTx) InsertMessage(_ context.Context, m domain.ChatMessage) error {
	t.s.messages = append(t.s.messages, m)
	return nil
}

func (t *memTx) ListMessages(_ context.Context, sessionID string) ([]domain.ChatMessage, error) {
	var msgs []domain.ChatMessage
	for _, m := range t.s.messages {
		if m.SessionID == sessionID {
			msgs = append(msgs, m)
		}
	}
	return msgs, nil
}

func (t *memTx) InsertOutbox(_ context.Context, channel string, payload []byte) error {
	t.s.nextOutboxID++
	t.s.outbox = append(t.s.outbox, memOutboxRow{
		OutboxRow: usecase.OutboxRow{
			ID:      t.s.nextOutboxID,
			Channel: channel,
			Payload: payload,
		},
	})
	return nil
}

// FetchPending / MarkSent / MarkFailed make MemStore usable behind the
// outbox drainer as well.

func (s *MemStore) FetchPending(_ context.Context, limit int) ([]usecase.OutboxRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []usecase.OutboxRow
	for _, row := range s.outbox {
		if row.sent {
			continue
		}
		out = append(out, row.OutboxRow)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemStore) MarkSent(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outbox {
		if s.outbox[i].ID == id {
			s.outbox[i].sent = true
		}
	}
	return nil
}

func (s *MemStore) MarkFailed(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outbox {
		if s.outbox[i].ID == id {
			s.outbox[i].tries++
		}
	}
	return nil
}

var (
	_ usecase.Store      = (*MemStore)(nil)
	_ usecase.Tx         = (*memTx)(nil)
	_ usecase.OutboxRepo = (*MemStore)(nil)
)
