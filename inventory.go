package findmystore

import (
	"context"
	"strings"
	"time"
)

// StockItem is the stock level and price of a product at a store.
type StockItem struct {
	StoreID   int64     `json:"storeId"`
	Product   string    `json:"product"`
	Qty       int       `json:"qty"`
	Price     float64   `json:"price"`
	Estimated bool      `json:"estimated,omitempty"` // Simulated for a live store
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the stock item contains invalid fields.
func (i *StockItem) Validate() error {
	if i.StoreID <= 0 {
		return Errorf(EINVALID, "stock item store ID required")
	}
	if strings.TrimSpace(i.Product) == "" {
		return Errorf(EINVALID, "stock item product required")
	}
	if i.Qty < 0 {
		return Errorf(EINVALID, "stock item qty must not be negative")
	}
	if i.Price < 0 {
		return Errorf(EINVALID, "stock item price must not be negative")
	}
	return nil
}

// Available reports whether the item can be bought.
func (i *StockItem) Available() bool {
	return i != nil && i.Qty > 0
}

// InventoryService represents a service for managing store inventory.
// Product names are matched case-insensitively.
type InventoryService interface {
	// FindStockItem retrieves the stock item for a product at a store.
	// Returns ENOTFOUND if the store does not carry the product.
	FindStockItem(ctx context.Context, storeID int64, product string) (*StockItem, error)

	// FindStockItems retrieves stock items matching the filter.
	FindStockItems(ctx context.Context, filter StockFilter) ([]*StockItem, error)

	// SetStockItem creates or replaces the stock item for a product at a store.
	SetStockItem(ctx context.Context, item *StockItem) error
}

// StockFilter represents a filter for FindStockItems.
type StockFilter struct {
	StoreID *int64  `json:"storeId,omitempty"`
	Product *string `json:"product,omitempty"`
}

// StockEstimator simulates stock for stores without an inventory feed.
type StockEstimator interface {
	// Estimate returns a simulated quantity and price for a product.
	Estimate(storeID int64, product string) (qty int, price float64)

	// RestockPrice returns a simulated price for a newly stocked product.
	RestockPrice(product string) float64
}

// NormalizeProduct trims surrounding and repeated inner whitespace.
func NormalizeProduct(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StockStatus is the answer to a stock check at one store.
type StockStatus struct {
	StoreID   int64    `json:"storeId"`
	Store     string   `json:"store"`
	Product   string   `json:"product"`
	Qty       int      `json:"qty"`
	Price     *float64 `json:"price"` // Nil when the store does not carry the product
	Estimated bool     `json:"estimated,omitempty"`
}

// Available reports whether the product can be bought at a known price.
func (s *StockStatus) Available() bool {
	return s != nil && s.Qty > 0 && s.Price != nil
}
