package repo

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	domain "github.com/DareenAmin/Library-Desk-Agent/internal/entity"
	"github.com/DareenAmin/Library-Desk-Agent/internal/usecase"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
)

// MySQLStore runs every use-case call as one serializable transaction.
// The DSN must carry parseTime=true so order_date/created_at scan into
// time.Time.
type MySQLStore struct{ db *sql.DB }

func NewMySQLStore(db *sql.DB) *MySQLStore { return &MySQLStore{db: db} }

func (s *MySQLStore) WithinTx(ctx context.Context, fn func(tx usecase.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return mapStoreErr(err)
	}
	if err := fn(&mysqlTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return mapStoreErr(err)
	}
	if err := tx.Commit(); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// mapStoreErr translates driver failures into the domain taxonomy.
// Domain errors raised inside the closure pass through untouched.
func mapStoreErr(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case 1213, 1205: // deadlock, lock wait timeout
			return fmt.Errorf("%w: %v", domain.ErrTxConflict, err)
		}
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return err
}

type mysqlTx struct{ tx *sql.Tx }

func (t *mysqlTx) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	row := t.tx.QueryRowContext(ctx,
		`SELECT id, name, email FROM customers WHERE id = ?`, id)
	var c domain.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (t *mysqlTx) GetBook(ctx context.Context, isbn string) (*domain.Book, error) {
	return t.scanBook(t.tx.QueryRowContext(ctx,
		`SELECT isbn, title, author, stock, price FROM books WHERE isbn = ?`, isbn))
}

func (t *mysqlTx) GetBookForUpdate(ctx context.Context, isbn string) (*domain.Book, error) {
	return t.scanBook(t.tx.QueryRowContext(ctx,
		`SELECT isbn, title, author, stock, price FROM books WHERE isbn = ? FOR UPDATE`, isbn))
}

func (t *mysqlTx) scanBook(row *sql.Row) (*domain.Book, error) {
	var b domain.Book
	if err := row.Scan(&b.ISBN, &b.Title, &b.Author, &b.Stock, &b.Price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (t *mysqlTx) SearchBooks(ctx context.Context, query string) ([]domain.Book, error) {
	pattern := "%" + query + "%"
	rows, err := t.tx.QueryContext(ctx, `
SELECT isbn, title, author, stock, price
FROM books
WHERE title LIKE ? OR author LIKE ?
ORDER BY title`, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ISBN, &b.Title, &b.Author, &b.Stock, &b.Price); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (t *mysqlTx) SetStock(ctx context.Context, isbn string, stock int) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE books SET stock = ? WHERE isbn = ?`, stock, isbn)
	if err != nil {
		return err
	}
	return requireRow(res, isbn)
}

func (t *mysqlTx) SetPrice(ctx context.Context, isbn string, price decimal.Decimal) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE books SET price = ? WHERE isbn = ?`, price, isbn)
	if err != nil {
		return err
	}
	return requireRow(res, isbn)
}

func requireRow(res sql.Result, isbn string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.UnknownBookError{ISBN: isbn}
	}
	return nil
}

func (t *mysqlTx) CountInventory(ctx context.Context) (int, int, error) {
	row := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(isbn), COALESCE(SUM(stock), 0) FROM books`)
	var titles, units int
	if err := row.Scan(&titles, &units); err != nil {
		return 0, 0, err
	}
	return titles, units, nil
}

func (t *mysqlTx) BooksAtOrBelow(ctx context.Context, threshold int) ([]domain.Book, error) {
	rows, err := t.tx.QueryContext(ctx, `
SELECT isbn, title, author, stock, price
FROM books
WHERE stock <= ?
ORDER BY stock, title`, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ISBN, &b.Title, &b.Author, &b.Stock, &b.Price); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (t *mysqlTx) InsertOrder(ctx context.Context, customerID int64, at time.Time) (int64, error) {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO orders (customer_id, order_date) VALUES (?, ?)`, customerID, at)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (t *mysqlTx) InsertOrderLine(ctx context.Context, orderID int64, line domain.OrderLine) error {
	_, err := t.tx.ExecContext(ctx, `
INSERT INTO order_items (order_id, isbn, qty, price_at_order)
VALUES (?, ?, ?, ?)`, orderID, line.ISBN, line.Qty, line.PriceAtOrder)
	return err
}

func (t *mysqlTx) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	row := t.tx.QueryRowContext(ctx,
		`SELECT id, customer_id, order_date FROM orders WHERE id = ?`, id)
	var o domain.Order
	if err := row.Scan(&o.ID, &o.CustomerID, &o.OrderDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := t.tx.QueryContext(ctx, `
SELECT isbn, qty, price_at_order
FROM order_items
WHERE order_id = ?
ORDER BY isbn`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ISBN, &l.Qty, &l.PriceAtOrder); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, l)
	}
	return &o, rows.Err()
}

func (t *mysqlTx) InsertMessage(ctx context.Context, m domain.ChatMessage) error {
	_, err := t.tx.ExecContext(ctx, `
INSERT INTO messages (session_id, role, content, created_at)
VALUES (?, ?, ?, ?)`, m.SessionID, m.Role, m.Content, m.CreatedAt)
	return err
}

func (t *mysqlTx) ListMessages(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	rows, err := t.tx.QueryContext(ctx, `
SELECT session_id, role, content, created_at
FROM messages
WHERE session_id = ?
ORDER BY created_at, id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (t *mysqlTx) InsertOutbox(ctx context.Context, channel string, payload []byte) error {
	_, err := t.tx.ExecContext(ctx, `
INSERT INTO outbox (channel, payload, status, retry_count, next_attempt_at, created_at)
VALUES (?, ?, 'PENDING', 0, NOW(), NOW())`, channel, payload)
	return err
}

var (
	_ usecase.Store = (*MySQLStore)(nil)
	_ usecase.Tx    = (*mysqlTx)(nil)
)
