package mock

import (
	"context"

	"github.com/fwojciec/findmystore"
)

var _ findmystore.InventoryService = (*InventoryService)(nil)

// InventoryService is a mock implementation of findmystore.InventoryService.
type InventoryService struct {
	FindStockItemFn  func(ctx context.Context, storeID int64, product string) (*findmystore.StockItem, error)
	FindStockItemsFn func(ctx context.Context, filter findmystore.StockFilter) ([]*findmystore.StockItem, error)
	SetStockItemFn   func(ctx context.Context, item *findmystore.StockItem) error
}

func (s *InventoryService) FindStockItem(ctx context.Context, storeID int64, product string) (*findmystore.StockItem, error) {
	return s.FindStockItemFn(ctx, storeID, product)
}

func (s *InventoryService) FindStockItems(ctx context.Context, filter findmystore.StockFilter) ([]*findmystore.StockItem, error) {
	return s.FindStockItemsFn(ctx, filter)
}

func (s *InventoryService) SetStockItem(ctx context.Context, item *findmystore.StockItem) error {
	return s.SetStockItemFn(ctx, item)
}

var _ findmystore.StockEstimator = (*StockEstimator)(nil)

// StockEstimator is a mock implementation of findmystore.StockEstimator.
type StockEstimator struct {
	EstimateFn     func(storeID int64, product string) (int, float64)
	RestockPriceFn func(product string) float64
}

func (e *StockEstimator) Estimate(storeID int64, product string) (int, float64) {
	return e.EstimateFn(storeID, product)
}

func (e *StockEstimator) RestockPrice(product string) float64 {
	return e.RestockPriceFn(product)
}
