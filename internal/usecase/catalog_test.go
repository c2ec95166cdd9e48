package usecase_test

import (
	"context"
	"sync"
	"testing"

	domain "github.com/DareenAmin/Library-Desk-Agent/internal/entity"
	"github.com/DareenAmin/Library-Desk-Agent/internal/usecase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBooks_MatchesTitleAndAuthor(t *testing.T) {
	store := seededStore()
	catalog := usecase.NewCatalog(store)

	byTitle, err := catalog.FindBooks(context.Background(), "clean")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, cleanCode, byTitle[0].ISBN)

	byAuthor, err := catalog.FindBooks(context.Background(), "Fowler")
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "Refactoring", byAuthor[0].Title)

	none, err := catalog.FindBooks(context.Background(), "haskell")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRestock_Validation(t *testing.T) {
	store := seededStore()
	catalog := usecase.NewCatalog(store)

	_, err := catalog.Restock(context.Background(), usecase.RestockInput{ISBN: cleanCode, Qty: 0})
	var badQty *domain.InvalidQuantityError
	require.ErrorAs(t, err, &badQty)

	_, err = catalog.Restock(context.Background(), usecase.RestockInput{ISBN: "978-0000000000", Qty: 5})
	var unknown *domain.UnknownBookError
	require.ErrorAs(t, err, &unknown)

	out, err := catalog.Restock(context.Background(), usecase.RestockInput{ISBN: cleanCode, Qty: 20})
	require.NoError(t, err)
	assert.Equal(t, "Clean Code", out.Title)
	assert.Equal(t, 25, out.NewStock)
}

func TestRestock_NeverLostAgainstConcurrentOrders(t *testing.T) {
	store := seededStore()
	catalog := usecase.NewCatalog(store)
	orders := usecase.NewCreateOrder(store, fixedClock(), nil)

	// Interleave restocks (+2 each) with orders (-1 each). Whatever the
	// interleaving, final stock must be initial + committed restocks -
	// committed order quantities.
	const n = 10
	var wg sync.WaitGroup
	restockErrs := make([]error, n)
	orderErrs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, restockErrs[i] = catalog.Restock(context.Background(), usecase.RestockInput{ISBN: cleanCode, Qty: 2})
		}(i)
		go func(i int) {
			defer wg.Done()
			_, orderErrs[i] = orders.Execute(context.Background(), usecase.CreateOrderInput{
				CustomerID: 1,
				Items:      []usecase.OrderItemInput{{ISBN: cleanCode, Qty: 1}},
			})
		}(i)
	}
	wg.Wait()

	sold := 0
	for i := 0; i < n; i++ {
		require.NoError(t, restockErrs[i])
		if orderErrs[i] == nil {
			sold++
		}
	}
	assert.Equal(t, 5+2*n-sold, bookStock(t, store, cleanCode))
}

func TestUpdatePrice_Validation(t *testing.T) {
	store := seededStore()
	catalog := usecase.NewCatalog(store)

	_, err := catalog.UpdatePrice(context.Background(), usecase.UpdatePriceInput{
		ISBN:  cleanCode,
		Price: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = catalog.UpdatePrice(context.Background(), usecase.UpdatePriceInput{
		ISBN:  "978-0000000000",
		Price: decimal.RequireFromString("10.00"),
	})
	var unknown *domain.UnknownBookError
	require.ErrorAs(t, err, &unknown)

	out, err := catalog.UpdatePrice(context.Background(), usecase.UpdatePriceInput{
		ISBN:  cleanCode,
		Price: decimal.RequireFromString("42.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "42.00", out.NewPrice.StringFixed(2))

	books, err := catalog.FindBooks(context.Background(), "clean")
	require.NoError(t, err)
	assert.Equal(t, "42.00", books[0].Price.StringFixed(2))
}

func TestInventorySummary(t *testing.T) {
	store := seededStore()
	catalog := usecase.NewCatalog(store)

	_, err := catalog.InventorySummary(context.Background(), -1)
	assert.ErrorIs(t, err, usecase.ErrInvalidThreshold)

	out, err := catalog.InventorySummary(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalTitles)
	assert.Equal(t, 13, out.TotalUnits)
	require.Len(t, out.LowStock, 1)
	assert.Equal(t, cleanCode, out.LowStock[0].ISBN)

	out, err = catalog.InventorySummary(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, out.LowStock)
}
