package domain

import "github.com/shopspring/decimal"

// Book is one catalog row. ISBN is the primary key; stock and price are
// mutated in place (restock, price update, order fulfillment) and never
// allowed to go negative / non-positive respectively.
type Book struct {
	ISBN   string
	Title  string
	Author string
	Stock  int
	Price  decimal.Decimal
}

type Customer struct {
	ID    int64
	Name  string
	Email string
}
