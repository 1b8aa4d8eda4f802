package shop_test

import (
	"context"
	"testing"

	"github.com/fwojciec/findmystore"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shoppingList = []string{"XYZ Shampoo", "Milk Lotion", "Rice 10kg", "T-Shirt", "Unicorn"}

func TestService_OptimizeList(t *testing.T) {
	t.Parallel()

	t.Run("stores mode greedily picks lowest average price", func(t *testing.T) {
		t.Parallel()

		svc := newService(t)
		plan, err := svc.OptimizeList(context.Background(), hyderabad, shoppingList, findmystore.PlanOptions{})
		require.NoError(t, err)

		want := &findmystore.ShoppingPlan{
			Mode:       findmystore.PlanModeStores,
			CoveredAll: false,
			Plan: []*findmystore.StorePlan{
				{StoreID: 2, StoreName: "MediCare Pharmacy Banjara", Items: []findmystore.PlanItem{
					{Product: "Milk Lotion", Price: 189},
					{Product: "XYZ Shampoo", Price: 155},
				}, Subtotal: 344},
				{StoreID: 4, StoreName: "StyleStreet Hitech City", Items: []findmystore.PlanItem{
					{Product: "T-Shirt", Price: 399},
				}, Subtotal: 399},
				{StoreID: 1, StoreName: "SmartMart Jubilee Hills", Items: []findmystore.PlanItem{
					{Product: "Rice 10kg", Price: 489},
				}, Subtotal: 489},
			},
			NotFound:  []string{"Unicorn"},
			TotalCost: 1232,
		}
		if diff := cmp.Diff(want, plan); diff != "" {
			t.Errorf("plan mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("budget mode buys each item at its cheapest store", func(t *testing.T) {
		t.Parallel()

		svc := newService(t)
		plan, err := svc.OptimizeList(context.Background(), hyderabad, shoppingList,
			findmystore.PlanOptions{Mode: findmystore.PlanModeBudget, Budget: ptr(1200.0)})
		require.NoError(t, err)

		want := &findmystore.ShoppingPlan{
			Mode:       findmystore.PlanModeBudget,
			CoveredAll: false,
			Plan: []*findmystore.StorePlan{
				{StoreID: 1, StoreName: "SmartMart Jubilee Hills", Items: []findmystore.PlanItem{
					{Product: "Rice 10kg", Price: 489},
					{Product: "XYZ Shampoo", Price: 150},
				}, Subtotal: 639},
				{StoreID: 2, StoreName: "MediCare Pharmacy Banjara", Items: []findmystore.PlanItem{
					{Product: "Milk Lotion", Price: 189},
				}, Subtotal: 189},
				{StoreID: 4, StoreName: "StyleStreet Hitech City", Items: []findmystore.PlanItem{
					{Product: "T-Shirt", Price: 399},
				}, Subtotal: 399},
			},
			NotFound:     []string{"Unicorn"},
			TotalCost:    1227,
			Budget:       ptr(1200.0),
			WithinBudget: ptr(false),
			Overage:      ptr(27.0),
		}
		if diff := cmp.Diff(want, plan); diff != "" {
			t.Errorf("plan mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("budget mode is never more expensive than stores mode", func(t *testing.T) {
		t.Parallel()

		svc := newService(t)
		ctx := context.Background()
		stores, err := svc.OptimizeList(ctx, hyderabad, shoppingList, findmystore.PlanOptions{Mode: findmystore.PlanModeStores})
		require.NoError(t, err)
		budget, err := svc.OptimizeList(ctx, hyderabad, shoppingList, findmystore.PlanOptions{Mode: findmystore.PlanModeBudget})
		require.NoError(t, err)

		assert.LessOrEqual(t, budget.TotalCost, stores.TotalCost)
		assert.Nil(t, budget.WithinBudget)
	})

	t.Run("dedupes items case-insensitively and covers all", func(t *testing.T) {
		t.Parallel()

		svc := newService(t)
		plan, err := svc.OptimizeList(context.Background(), hyderabad,
			[]string{" USB Cable", "usb cable", "", "Laptop Bag"}, findmystore.PlanOptions{Budget: ptr(2000.0)})
		require.NoError(t, err)

		assert.True(t, plan.CoveredAll)
		assert.Empty(t, plan.NotFound)
		require.Len(t, plan.Plan, 1)
		assert.Equal(t, []findmystore.PlanItem{{Product: "Laptop Bag", Price: 899}, {Product: "USB Cable", Price: 149}}, plan.Plan[0].Items)
		assert.InDelta(t, 1048.0, plan.TotalCost, 0.001)
		assert.True(t, *plan.WithinBudget)
		assert.InDelta(t, 0.0, *plan.Overage, 0)
	})

	t.Run("equal prices go to the earlier store in both modes", func(t *testing.T) {
		t.Parallel()

		svc := newService(t)
		ctx := context.Background()
		// Stocked at the later store first so insertion order cannot decide.
		for _, storeID := range []int64{4, 3} {
			require.NoError(t, svc.Inventory.SetStockItem(ctx, &findmystore.StockItem{StoreID: storeID, Product: "Tie Soap", Qty: 5, Price: 60}))
			require.NoError(t, svc.Inventory.SetStockItem(ctx, &findmystore.StockItem{StoreID: storeID, Product: "Tie Towel", Qty: 5, Price: 140}))
		}
		items := []string{"Tie Soap", "Tie Towel"}

		for _, mode := range []findmystore.PlanMode{findmystore.PlanModeStores, findmystore.PlanModeBudget} {
			plan, err := svc.OptimizeList(ctx, hyderabad, items, findmystore.PlanOptions{Mode: mode})
			require.NoError(t, err, mode)
			require.Len(t, plan.Plan, 1, mode)
			assert.Equal(t, int64(3), plan.Plan[0].StoreID, mode)
			assert.InDelta(t, 200.0, plan.TotalCost, 0.001, mode)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()

		svc := newService(t)
		_, err := svc.OptimizeList(context.Background(), hyderabad, []string{" ", ""}, findmystore.PlanOptions{})
		assert.Equal(t, findmystore.EINVALID, findmystore.ErrorCode(err))
		assert.Equal(t, "no items in shopping list", findmystore.ErrorMessage(err))
	})

	t.Run("unknown mode", func(t *testing.T) {
		t.Parallel()

		svc := newService(t)
		_, err := svc.OptimizeList(context.Background(), hyderabad, shoppingList, findmystore.PlanOptions{Mode: "fastest"})
		assert.Equal(t, findmystore.EINVALID, findmystore.ErrorCode(err))
	})

	t.Run("negative budget", func(t *testing.T) {
		t.Parallel()

		svc := newService(t)
		_, err := svc.OptimizeList(context.Background(), hyderabad, shoppingList, findmystore.PlanOptions{Budget: ptr(-1.0)})
		assert.Equal(t, findmystore.EINVALID, findmystore.ErrorCode(err))
	})
}
