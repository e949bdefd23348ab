package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pos-toko/internal/money"
	"github.com/noah-isme/pos-toko/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestProductLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	p := store.Product{
		ID:                "p1",
		Name:              "Rice 5kg",
		Price:             50_000,
		Stock:             50,
		Category:          "Grains",
		LowStockThreshold: 10,
	}
	require.NoError(t, s.CreateProduct(ctx, p))

	got, err := s.GetProduct(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Rice 5kg", got.Name)
	require.Equal(t, money.Amount(50_000), got.Price)

	got.Price = 52_000
	got.Stock = 40
	require.NoError(t, s.UpdateProduct(ctx, got))

	updated, err := s.GetProduct(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, money.Amount(52_000), updated.Price)
	require.Equal(t, 40, updated.Stock)

	require.NoError(t, s.DeleteProduct(ctx, "p1"))
	_, err = s.GetProduct(ctx, "p1")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, s.DeleteProduct(ctx, "p1"), store.ErrNotFound)
}

func TestListProductsFiltering(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	seed := []store.Product{
		{ID: "p1", Name: "Rice 5kg", Price: 50_000, Category: "Grains"},
		{ID: "p2", Name: "Sugar 1kg", Price: 15_000, Category: "Grains"},
		{ID: "p3", Name: "Bottled Water", Price: 5_000, Category: "Beverages"},
	}
	for _, p := range seed {
		require.NoError(t, s.CreateProduct(ctx, p))
	}

	all, total, err := s.ListProducts(ctx, store.ProductFilter{})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, all, 3)

	grains, total, err := s.ListProducts(ctx, store.ProductFilter{Category: "Grains"})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, grains, 2)

	byName, total, err := s.ListProducts(ctx, store.ProductFilter{Query: "sug"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "Sugar 1kg", byName[0].Name)

	page, total, err := s.ListProducts(ctx, store.ProductFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, page, 1)
}

func TestLowStockAndDecrement(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.CreateProduct(ctx, store.Product{ID: "p1", Name: "Sugar", Price: 12_000, Stock: 8, LowStockThreshold: 10}))
	require.NoError(t, s.CreateProduct(ctx, store.Product{ID: "p2", Name: "Coffee", Price: 25_000, Stock: 15, LowStockThreshold: 5}))

	low, err := s.ListLowStockProducts(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, "p1", low[0].ID)

	p, err := s.DecrementStock(ctx, "p1", 20)
	require.NoError(t, err)
	require.Equal(t, 0, p.Stock)
}

func TestTransactionHistoryOrder(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"TRX-A", "TRX-B", "TRX-C"} {
		require.NoError(t, s.AppendTransaction(ctx, store.Transaction{
			ID:             id,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
			Subtotal:       115_000,
			Discount:       11_500,
			TaxRateBps:     1100,
			Tax:            11_385,
			Total:          114_885,
			PaymentMethod:  "cash",
			AmountTendered: 120_000,
			Change:         5_115,
			Items: []store.TransactionItem{
				{ProductID: "p1", Name: "Rice 5kg", Qty: 2, UnitPrice: 50_000, LineTotal: 100_000},
				{ProductID: "p2", Name: "Sugar 1kg", Qty: 1, UnitPrice: 15_000, LineTotal: 15_000},
			},
		}))
	}

	list, total, err := s.ListTransactions(ctx, 2, 0)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, list, 2)
	require.Equal(t, "TRX-C", list[0].ID)
	require.Equal(t, "TRX-B", list[1].ID)
	require.Len(t, list[0].Items, 2)

	got, err := s.GetTransaction(ctx, "TRX-A")
	require.NoError(t, err)
	require.Equal(t, money.Amount(114_885), got.Total)
	require.Equal(t, "Rice 5kg", got.Items[0].Name)

	revenue, count, err := s.SalesSummarySince(ctx, base.Add(30*time.Second))
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Equal(t, money.Amount(2*114_885), revenue)
}

func TestDomainEvents(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.InsertDomainEvent(ctx, store.DomainEvent{
		ID:          "e1",
		Topic:       "transaction.completed",
		AggregateID: "TRX-A",
		Payload:     []byte(`{"total":114885}`),
		OccurredAt:  time.Now(),
	}))

	events, err := s.ListDomainEvents(ctx, "transaction.completed", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "TRX-A", events[0].AggregateID)
}
