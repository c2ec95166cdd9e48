package usecase_test

import (
	"context"
	"testing"

	domain "github.com/DareenAmin/Library-Desk-Agent/internal/entity"
	"github.com/DareenAmin/Library-Desk-Agent/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_NotFound(t *testing.T) {
	store := seededStore()
	status := usecase.NewOrderStatus(store, nil)

	_, err := status.Execute(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderStatus_Detail(t *testing.T) {
	store := seededStore()
	orders := usecase.NewCreateOrder(store, fixedClock(), nil)
	status := usecase.NewOrderStatus(store, nil)

	out, err := orders.Execute(context.Background(), usecase.CreateOrderInput{
		CustomerID: 1,
		Items: []usecase.OrderItemInput{
			{ISBN: cleanCode, Qty: 2},
			{ISBN: "978-0135957059", Qty: 1},
		},
	})
	require.NoError(t, err)

	detail, err := status.Execute(context.Background(), out.OrderID)
	require.NoError(t, err)
	assert.Equal(t, out.OrderID, detail.OrderID)
	assert.Equal(t, int64(1), detail.CustomerID)
	assert.Equal(t, "Alice Johnson", detail.CustomerName)
	assert.Equal(t, fixedNow, detail.OrderDate)
	require.Len(t, detail.Lines, 2)

	// Lines come back ordered by isbn.
	assert.Equal(t, cleanCode, detail.Lines[0].ISBN)
	assert.Equal(t, "Clean Code", detail.Lines[0].Title)
	assert.Equal(t, "79.00", detail.Lines[0].Subtotal.StringFixed(2))
	assert.Equal(t, "Refactoring", detail.Lines[1].Title)
	assert.Equal(t, "49.95", detail.Lines[1].Subtotal.StringFixed(2))
	assert.Equal(t, "128.95", detail.GrandTotal.StringFixed(2))
}

func TestOrderStatus_IdempotentRead(t *testing.T) {
	store := seededStore()
	orders := usecase.NewCreateOrder(store, fixedClock(), nil)
	status := usecase.NewOrderStatus(store, nil)

	out, err := orders.Execute(context.Background(), usecase.CreateOrderInput{
		CustomerID: 1,
		Items:      []usecase.OrderItemInput{{ISBN: cleanCode, Qty: 1}},
	})
	require.NoError(t, err)

	first, err := status.Execute(context.Background(), out.OrderID)
	require.NoError(t, err)
	second, err := status.Execute(context.Background(), out.OrderID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

type fakeOrderCache struct {
	entries map[int64]string
	fail    bool
}

func newFakeOrderCache() *fakeOrderCache {
	return &fakeOrderCache{entries: make(map[int64]string)}
}

func (c *fakeOrderCache) GetStatus(_ context.Context, orderID int64) (string, bool, error) {
	if c.fail {
		return "", false, domain.ErrStoreUnavailable
	}
	v, ok := c.entries[orderID]
	return v, ok, nil
}

func (c *fakeOrderCache) SetStatus(_ context.Context, orderID int64, payload string) error {
	if c.fail {
		return domain.ErrStoreUnavailable
	}
	c.entries[orderID] = payload
	return nil
}

// countingStore counts transactions so tests can tell cache hits from reads.
type countingStore struct {
	usecase.Store
	calls int
}

func (s *countingStore) WithinTx(ctx context.Context, fn func(usecase.Tx) error) error {
	s.calls++
	return s.Store.WithinTx(ctx, fn)
}

func TestOrderStatus_SecondReadServedFromCache(t *testing.T) {
	store := seededStore()
	orders := usecase.NewCreateOrder(store, fixedClock(), nil)

	out, err := orders.Execute(context.Background(), usecase.CreateOrderInput{
		CustomerID: 1,
		Items:      []usecase.OrderItemInput{{ISBN: cleanCode, Qty: 2}},
	})
	require.NoError(t, err)

	counting := &countingStore{Store: store}
	status := usecase.NewOrderStatus(counting, newFakeOrderCache())

	first, err := status.Execute(context.Background(), out.OrderID)
	require.NoError(t, err)
	require.Equal(t, 1, counting.calls)

	second, err := status.Execute(context.Background(), out.OrderID)
	require.NoError(t, err)
	assert.Equal(t, 1, counting.calls, "second read must not hit the store")

	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, first.CustomerName, second.CustomerName)
	require.Len(t, second.Lines, 1)
	assert.Equal(t, "Clean Code", second.Lines[0].Title)
	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
	assert.True(t, first.OrderDate.Equal(second.OrderDate))
}

func TestOrderStatus_CacheFailureFallsThroughToStore(t *testing.T) {
	store := seededStore()
	orders := usecase.NewCreateOrder(store, fixedClock(), nil)

	out, err := orders.Execute(context.Background(), usecase.CreateOrderInput{
		CustomerID: 1,
		Items:      []usecase.OrderItemInput{{ISBN: cleanCode, Qty: 1}},
	})
	require.NoError(t, err)

	broken := newFakeOrderCache()
	broken.fail = true
	status := usecase.NewOrderStatus(store, broken)

	detail, err := status.Execute(context.Background(), out.OrderID)
	require.NoError(t, err)
	assert.Equal(t, out.OrderID, detail.OrderID)
	assert.Equal(t, "39.50", detail.GrandTotal.StringFixed(2))
}

func TestOrderStatus_MissesAreNotCached(t *testing.T) {
	store := seededStore()
	c := newFakeOrderCache()
	status := usecase.NewOrderStatus(store, c)

	_, err := status.Execute(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Empty(t, c.entries)
}
