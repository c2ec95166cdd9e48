package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/DareenAmin/Library-Desk-Agent/internal/entity"
	"github.com/DareenAmin/Library-Desk-Agent/internal/usecase"
	"github.com/shopspring/decimal"
)

func testStore() *MemStore {
	s := NewMemStore()
	s.SeedBook(domain.Book{
		ISBN: "978-0132350884", Title: "Clean Code", Author: "Robert C. Martin",
		Stock: 5, Price: decimal.RequireFromString("39.50"),
	})
	s.SeedBook(domain.Book{
		ISBN: "978-0135957059", Title: "Refactoring", Author: "Martin Fowler",
		Stock: 8, Price: decimal.RequireFromString("49.95"),
	})
	s.SeedCustomer(domain.Customer{ID: 1, Name: "Alice", Email: "alice@example.com"})
	return s
}

func TestMemStore_RollbackOnError(t *testing.T) {
	s := testStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(tx usecase.Tx) error {
		if err := tx.SetStock(ctx, "978-0132350884", 0); err != nil {
			return err
		}
		if _, err := tx.InsertOrder(ctx, 1, time.Now()); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	_ = s.WithinTx(ctx, func(tx usecase.Tx) error {
		b, _ := tx.GetBook(ctx, "978-0132350884")
		if b.Stock != 5 {
			t.Errorf("stock mutated by rolled-back tx: %d", b.Stock)
		}
		o, _ := tx.GetOrder(ctx, 1)
		if o != nil {
			t.Errorf("order survived rollback")
		}
		return nil
	})
}

func TestMemStore_SearchOrderedByTitle(t *testing.T) {
	s := testStore()
	ctx := context.Background()

	var books []domain.Book
	_ = s.WithinTx(ctx, func(tx usecase.Tx) error {
		var err error
		books, err = tx.SearchBooks(ctx, "r") // matches both via author/title
		return err
	})
	if len(books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(books))
	}
	if books[0].Title != "Clean Code" || books[1].Title != "Refactoring" {
		t.Errorf("not ordered by title: %q, %q", books[0].Title, books[1].Title)
	}
}

func TestMemStore_DuplicateLineRejected(t *testing.T) {
	s := testStore()
	ctx := context.Background()

	err := s.WithinTx(ctx, func(tx usecase.Tx) error {
		id, err := tx.InsertOrder(ctx, 1, time.Now())
		if err != nil {
			return err
		}
		line := domain.OrderLine{ISBN: "978-0132350884", Qty: 1, PriceAtOrder: decimal.RequireFromString("39.50")}
		if err := tx.InsertOrderLine(ctx, id, line); err != nil {
			return err
		}
		return tx.InsertOrderLine(ctx, id, line)
	})
	var dup *domain.DuplicateLineItemError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateLineItemError, got %v", err)
	}
}

func TestMemStore_OutboxLifecycle(t *testing.T) {
	s := testStore()
	ctx := context.Background()

	_ = s.WithinTx(ctx, func(tx usecase.Tx) error {
		return tx.InsertOutbox(ctx, "order.placed.v1", []byte(`{"orderId":1}`))
	})

	rows, err := s.FetchPending(ctx, 10)
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected 1 pending row, got %d (err=%v)", len(rows), err)
	}

	if err := s.MarkSent(ctx, rows[0].ID); err != nil {
		t.Fatal(err)
	}
	rows, _ = s.FetchPending(ctx, 10)
	if len(rows) != 0 {
		t.Errorf("sent row still pending")
	}
}
