package findmystore_test

import (
	"testing"

	"github.com/fwojciec/findmystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlanMode(t *testing.T) {
	t.Parallel()

	m, err := findmystore.ParsePlanMode("")
	require.NoError(t, err)
	assert.Equal(t, findmystore.PlanModeStores, m)

	m, err = findmystore.ParsePlanMode("budget")
	require.NoError(t, err)
	assert.Equal(t, findmystore.PlanModeBudget, m)

	m, err = findmystore.ParsePlanMode(" Budget ")
	require.NoError(t, err)
	assert.Equal(t, findmystore.PlanModeBudget, m)

	m, err = findmystore.ParsePlanMode("STORES")
	require.NoError(t, err)
	assert.Equal(t, findmystore.PlanModeStores, m)

	_, err = findmystore.ParsePlanMode("cheapest")
	require.Error(t, err)
	assert.Equal(t, findmystore.EINVALID, findmystore.ErrorCode(err))
}

func TestRoundCents(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 10.13, findmystore.RoundCents(10.125000001), 1e-9)
	assert.InDelta(t, 838, findmystore.RoundCents(838), 1e-9)
}

func TestStockItem_Validate(t *testing.T) {
	t.Parallel()

	item := findmystore.StockItem{StoreID: 1, Product: "Rice 10kg", Qty: 8, Price: 489}
	require.NoError(t, item.Validate())
	assert.True(t, item.Available())

	item.Qty = -1
	require.Error(t, item.Validate())
}

func TestNormalizeProduct(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "XYZ Shampoo", findmystore.NormalizeProduct("  XYZ   Shampoo "))
}

func TestStockStatus_Available(t *testing.T) {
	t.Parallel()

	price := 10.0
	assert.True(t, (&findmystore.StockStatus{Qty: 1, Price: &price}).Available())
	assert.False(t, (&findmystore.StockStatus{Qty: 0, Price: &price}).Available())
	assert.False(t, (&findmystore.StockStatus{Qty: 3}).Available())
	assert.False(t, (*findmystore.StockStatus)(nil).Available())
}
