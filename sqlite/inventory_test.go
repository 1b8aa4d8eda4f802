package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/findmystore"
	"github.com/fwojciec/findmystore/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryService_SetStockItem(t *testing.T) {
	t.Parallel()

	t.Run("creates and replaces an item", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := createTestStore(t, db, "FreshMart", "Hyderabad")
		svc := sqlite.NewInventoryService(db)
		ctx := context.Background()

		require.NoError(t, svc.SetStockItem(ctx, &findmystore.StockItem{StoreID: store.ID, Product: "Milk", Qty: 5, Price: 52}))
		require.NoError(t, svc.SetStockItem(ctx, &findmystore.StockItem{StoreID: store.ID, Product: "milk", Qty: 8, Price: 49}))

		items, err := svc.FindStockItems(ctx, findmystore.StockFilter{StoreID: &store.ID})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Milk", items[0].Product)
		assert.Equal(t, 8, items[0].Qty)
		assert.InDelta(t, 49.0, items[0].Price, 0.001)
	})

	t.Run("normalizes product whitespace", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := createTestStore(t, db, "FreshMart", "Hyderabad")
		svc := sqlite.NewInventoryService(db)
		ctx := context.Background()

		item := &findmystore.StockItem{StoreID: store.ID, Product: "  Brown   Bread ", Qty: 1, Price: 45}
		require.NoError(t, svc.SetStockItem(ctx, item))
		assert.Equal(t, "Brown Bread", item.Product)

		got, err := svc.FindStockItem(ctx, store.ID, "brown bread")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Qty)
	})

	t.Run("returns not found for unknown store", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		err := sqlite.NewInventoryService(db).SetStockItem(context.Background(),
			&findmystore.StockItem{StoreID: 404, Product: "Milk", Qty: 1, Price: 1})
		assert.Equal(t, findmystore.ENOTFOUND, findmystore.ErrorCode(err))
	})

	t.Run("returns error for invalid item", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		err := sqlite.NewInventoryService(db).SetStockItem(context.Background(),
			&findmystore.StockItem{StoreID: 1, Product: "Milk", Qty: -1})
		assert.Equal(t, findmystore.EINVALID, findmystore.ErrorCode(err))
	})

	t.Run("keeps estimated flag", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := createTestStore(t, db, "FreshMart", "Hyderabad")
		svc := sqlite.NewInventoryService(db)
		ctx := context.Background()

		require.NoError(t, svc.SetStockItem(ctx, &findmystore.StockItem{StoreID: store.ID, Product: "Rice", Qty: 3, Price: 99, Estimated: true}))

		got, err := svc.FindStockItem(ctx, store.ID, "Rice")
		require.NoError(t, err)
		assert.True(t, got.Estimated)
	})
}

func TestInventoryService_FindStockItem(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	store := createTestStore(t, db, "FreshMart", "Hyderabad")

	_, err := sqlite.NewInventoryService(db).FindStockItem(context.Background(), store.ID, "Eggs")
	assert.Equal(t, findmystore.ENOTFOUND, findmystore.ErrorCode(err))
}

func TestInventoryService_FindStockItems(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	a := createTestStore(t, db, "FreshMart", "Hyderabad")
	b := createTestStore(t, db, "Budget Bazaar", "Hyderabad")
	svc := sqlite.NewInventoryService(db)
	ctx := context.Background()

	for _, item := range []*findmystore.StockItem{
		{StoreID: a.ID, Product: "Milk", Qty: 5, Price: 52},
		{StoreID: a.ID, Product: "Bread", Qty: 2, Price: 40},
		{StoreID: b.ID, Product: "Milk", Qty: 0, Price: 48},
	} {
		require.NoError(t, svc.SetStockItem(ctx, item))
	}

	t.Run("filters by product across stores", func(t *testing.T) {
		t.Parallel()

		items, err := svc.FindStockItems(ctx, findmystore.StockFilter{Product: ptr("MILK")})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, a.ID, items[0].StoreID)
		assert.Equal(t, b.ID, items[1].StoreID)
	})

	t.Run("orders a store's items by product", func(t *testing.T) {
		t.Parallel()

		items, err := svc.FindStockItems(ctx, findmystore.StockFilter{StoreID: &a.ID})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Bread", items[0].Product)
		assert.Equal(t, "Milk", items[1].Product)
	})
}
