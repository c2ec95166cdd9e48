package usecase

import (
	"context"
	"errors"
	"strings"

	domain "github.com/DareenAmin/Library-Desk-Agent/internal/entity"
	"github.com/shopspring/decimal"
)

var ErrInvalidThreshold = errors.New("low-stock threshold must be non-negative")

// Catalog covers the single-row tool operations: search, restock, price
// update, inventory summary. Each call is one transaction.
type Catalog struct {
	store Store
}

func NewCatalog(store Store) *Catalog {
	return &Catalog{store: store}
}

// FindBooks matches the free-text query against title and author.
func (c *Catalog) FindBooks(ctx context.Context, query string) ([]domain.Book, error) {
	query = strings.TrimSpace(query)
	var books []domain.Book
	err := c.store.WithinTx(ctx, func(tx Tx) error {
		var err error
		books, err = tx.SearchBooks(ctx, query)
		return err
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}

type RestockInput struct {
	ISBN string
	Qty  int
}

type RestockOutput struct {
	ISBN     string
	Title    string
	NewStock int
}

// Restock adds Qty to a book's stock. It locks the book row so a restock
// can never be lost against a concurrently validating order.
func (c *Catalog) Restock(ctx context.Context, in RestockInput) (RestockOutput, error) {
	if in.Qty <= 0 {
		return RestockOutput{}, &domain.InvalidQuantityError{ISBN: in.ISBN, Qty: in.Qty}
	}

	var out RestockOutput
	err := c.store.WithinTx(ctx, func(tx Tx) error {
		book, err := tx.GetBookForUpdate(ctx, in.ISBN)
		if err != nil {
			return err
		}
		if book == nil {
			return &domain.UnknownBookError{ISBN: in.ISBN}
		}
		newStock := book.Stock + in.Qty
		if err := tx.SetStock(ctx, in.ISBN, newStock); err != nil {
			return err
		}
		out = RestockOutput{ISBN: in.ISBN, Title: book.Title, NewStock: newStock}
		return nil
	})
	if err != nil {
		return RestockOutput{}, err
	}
	return out, nil
}

type UpdatePriceInput struct {
	ISBN  string
	Price decimal.Decimal
}

type UpdatePriceOutput struct {
	ISBN     string
	Title    string
	NewPrice decimal.Decimal
}

// UpdatePrice sets a book's list price. Prices frozen on existing order
// lines are untouched.
func (c *Catalog) UpdatePrice(ctx context.Context, in UpdatePriceInput) (UpdatePriceOutput, error) {
	if !in.Price.IsPositive() {
		return UpdatePriceOutput{}, domain.ErrInvalidPrice
	}

	var out UpdatePriceOutput
	err := c.store.WithinTx(ctx, func(tx Tx) error {
		book, err := tx.GetBookForUpdate(ctx, in.ISBN)
		if err != nil {
			return err
		}
		if book == nil {
			return &domain.UnknownBookError{ISBN: in.ISBN}
		}
		if err := tx.SetPrice(ctx, in.ISBN, in.Price); err != nil {
			return err
		}
		out = UpdatePriceOutput{ISBN: in.ISBN, Title: book.Title, NewPrice: in.Price}
		return nil
	})
	if err != nil {
		return UpdatePriceOutput{}, err
	}
	return out, nil
}

type InventorySummaryOutput struct {
	TotalTitles int
	TotalUnits  int
	Threshold   int
	LowStock    []domain.Book
}

func (c *Catalog) InventorySummary(ctx context.Context, threshold int) (InventorySummaryOutput, error) {
	if threshold < 0 {
		return InventorySummaryOutput{}, ErrInvalidThreshold
	}

	out := InventorySummaryOutput{Threshold: threshold}
	err := c.store.WithinTx(ctx, func(tx Tx) error {
		titles, units, err := tx.CountInventory(ctx)
		if err != nil {
			return err
		}
		low, err := tx.BooksAtOrBelow(ctx, threshold)
		if err != nil {
			return err
		}
		out.TotalTitles = titles
		out.TotalUnits = units
		out.LowStock = low
		return nil
	})
	if err != nil {
		return InventorySummaryOutput{}, err
	}
	return out, nil
}
